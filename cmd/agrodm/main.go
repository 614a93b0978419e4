//go:build cgo

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/appengine-ltd/agrodm/internal/climate"
	"github.com/appengine-ltd/agrodm/internal/config"
	"github.com/appengine-ltd/agrodm/internal/farm"
	"github.com/appengine-ltd/agrodm/internal/gui"
	"github.com/appengine-ltd/agrodm/internal/logging"
	"github.com/appengine-ltd/agrodm/internal/update"
)

// version, commit, date are injected at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var (
		showVersion bool
		checkUpdate bool
		skipGlobe   bool
		noStore     bool
		earth       string
	)
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&checkUpdate, "check-update", false, "check GitHub for a newer release and exit")
	flag.BoolVar(&skipGlobe, "skip-globe", false, "start on the farm using the existing environment file")
	flag.BoolVar(&noStore, "no-store", false, "do not cache climate data in SQLite")
	flag.StringVar(&earth, "earth", "", "equirectangular earth texture (default assets/earth.jpg)")
	flag.StringVar(&cfg.SavePath, "save", cfg.SavePath, "save file (.zst for compressed)")
	flag.StringVar(&cfg.EnvironmentPath, "env", cfg.EnvironmentPath, "environment data file")
	flag.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "YAML farm tuning file")
	flag.DurationVar(&cfg.DayLength, "day-length", cfg.DayLength, "wall time per in-game day")
	flag.Parse()

	if showVersion {
		fmt.Printf("AgroDM %s (%s) %s\n", version, commit, date)
		return
	}
	if checkUpdate {
		res, err := update.NewChecker().Check(context.Background(), version)
		if err != nil {
			fmt.Fprintln(os.Stderr, "update check:", err)
			os.Exit(1)
		}
		fmt.Println(res)
		return
	}

	log := logging.Init(cfg.Logging("agrodm", version), os.Stderr)

	catalog := farm.DefaultCatalog()
	if cfg.TuningPath != "" {
		if catalog, err = farm.LoadCatalog(cfg.TuningPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fetcher, closeStore := newFetcher(cfg, noStore, log)
	defer closeStore()

	app := gui.NewApp(gui.Config{
		Version:         version,
		SkipGlobe:       skipGlobe,
		SavePath:        cfg.SavePath,
		EnvironmentPath: cfg.EnvironmentPath,
		EarthTexture:    earth,
		Fetcher:         fetcher,
		FetchTimeout:    cfg.FetchTimeout,
		Farm:            farm.Options{Catalog: catalog, DayLength: cfg.DayLength},
		Logger:          log,
	})
	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newFetcher layers the in-memory cache over the SQLite store over the
// POWER client. The store is skipped when it cannot be opened.
func newFetcher(cfg config.Config, noStore bool, log *slog.Logger) (climate.Fetcher, func()) {
	client := climate.NewClient(cfg.PowerURL, cfg.FetchTimeout)
	client.DateStart = cfg.DateStart
	client.DateEnd = cfg.DateEnd
	client.Logger = log

	var next climate.Fetcher = client
	closeStore := func() {}
	if !noStore {
		store, err := climate.OpenSQLite(cfg.ClimateDB)
		if err != nil {
			log.Warn("climate store unavailable", "path", cfg.ClimateDB, "error", err)
		} else {
			next = &climate.StoredFetcher{Store: store, Next: client, Log: log}
			closeStore = func() { _ = store.Close() }
		}
	}
	return climate.NewCachedFetcher(next, 0, 6*time.Hour), closeStore
}
