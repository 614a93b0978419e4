package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultsValidate(t *testing.T) {
	c, err := FromEnv(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, "savegame.json", c.SavePath)
	assert.Equal(t, "environment_data.json", c.EnvironmentPath)
	assert.Equal(t, 180*time.Second, c.DayLength)
	assert.Equal(t, 20*time.Second, c.FetchTimeout)
	assert.Equal(t, ":8080", c.ListenAddr)
}

func TestEnvOverrides(t *testing.T) {
	c, err := FromEnv(lookupFrom(map[string]string{
		"AGRODM_SAVE_PATH":     "saves/farm.json.zst",
		"AGRODM_DAY_LENGTH":    "30s",
		"AGRODM_DATE_START":    "20230101",
		"AGRODM_DATE_END":      "20231231",
		"AGRODM_LISTEN_ADDR":   "127.0.0.1:9000",
		"LOG_LEVEL":            "DEBUG",
		"LOG_FORMAT":           "json",
		"AGRODM_FETCH_TIMEOUT": " ",
	}))
	require.NoError(t, err)
	assert.Equal(t, "saves/farm.json.zst", c.SavePath)
	assert.Equal(t, 30*time.Second, c.DayLength)
	assert.Equal(t, 20*time.Second, c.FetchTimeout, "blank keeps the default")
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.Logging("agrodm", "dev").IsJSON())
}

func TestInvalidValues(t *testing.T) {
	_, err := FromEnv(lookupFrom(map[string]string{"AGRODM_DAY_LENGTH": "soon"}))
	assert.ErrorContains(t, err, "AGRODM_DAY_LENGTH")

	_, err = FromEnv(lookupFrom(map[string]string{"AGRODM_DAY_LENGTH": "10ms"}))
	assert.ErrorContains(t, err, "DayLength")

	_, err = FromEnv(lookupFrom(map[string]string{"LOG_FORMAT": "xml"}))
	assert.ErrorContains(t, err, "LogFormat")

	_, err = FromEnv(lookupFrom(map[string]string{"AGRODM_DATE_START": "2024"}))
	assert.ErrorContains(t, err, "DateStart")

	_, err = FromEnv(lookupFrom(map[string]string{"AGRODM_DATE_START": "20250101"}))
	assert.ErrorContains(t, err, "reversed")
}
