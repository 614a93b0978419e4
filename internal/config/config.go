package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/appengine-ltd/agrodm/internal/climate"
	"github.com/appengine-ltd/agrodm/internal/farm"
	"github.com/appengine-ltd/agrodm/internal/logging"
)

// Config is shared by the desktop client, the climate CLI and the web API.
// Each binary reads the fields it needs.
type Config struct {
	SavePath        string        `validate:"required"`
	EnvironmentPath string        `validate:"required"`
	ClimateDB       string        `validate:"required"`
	TuningPath      string        `validate:"omitempty"`
	DayLength       time.Duration `validate:"gte=1s"`
	FetchTimeout    time.Duration `validate:"gte=1s"`
	PowerURL        string        `validate:"required,url"`
	DateStart       string        `validate:"len=8,numeric"`
	DateEnd         string        `validate:"len=8,numeric"`
	UsersPath       string        `validate:"required"`
	ListenAddr      string        `validate:"required,hostname_port"`
	LogLevel        string        `validate:"oneof=debug info warn warning error"`
	LogFormat       string        `validate:"oneof=text json"`
}

func Defaults() Config {
	return Config{
		SavePath:        "savegame.json",
		EnvironmentPath: climate.DefaultEnvironmentFile,
		ClimateDB:       "climate.db",
		DayLength:       farm.DefaultDayLength,
		FetchTimeout:    20 * time.Second,
		PowerURL:        climate.DefaultBaseURL,
		DateStart:       climate.DefaultDateStart,
		DateEnd:         climate.DefaultDateEnd,
		UsersPath:       "user_data.json",
		ListenAddr:      ":8080",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads an optional .env file, overlays environment variables on the
// defaults and validates the result.
func Load() (Config, error) {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a config from a lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Defaults()
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*dst = d
	}

	str("AGRODM_SAVE_PATH", &c.SavePath)
	str("AGRODM_ENVIRONMENT_PATH", &c.EnvironmentPath)
	str("AGRODM_CLIMATE_DB", &c.ClimateDB)
	str("AGRODM_TUNING_PATH", &c.TuningPath)
	dur("AGRODM_DAY_LENGTH", &c.DayLength)
	dur("AGRODM_FETCH_TIMEOUT", &c.FetchTimeout)
	str("AGRODM_POWER_URL", &c.PowerURL)
	str("AGRODM_DATE_START", &c.DateStart)
	str("AGRODM_DATE_END", &c.DateEnd)
	str("AGRODM_USERS_PATH", &c.UsersPath)
	str("AGRODM_LISTEN_ADDR", &c.ListenAddr)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)

	if len(errs) > 0 {
		return c, errors.Join(errs...)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", e.Field(), e.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	// YYYYMMDD compares correctly as a string.
	if c.DateEnd < c.DateStart {
		return fmt.Errorf("invalid config: date range %s-%s is reversed", c.DateStart, c.DateEnd)
	}
	return nil
}

func (c Config) Logging(service, version string) logging.Config {
	return logging.Config{Level: c.LogLevel, Format: c.LogFormat, Service: service, Version: version}
}
