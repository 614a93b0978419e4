// Command climate downloads, caches and exports daily climate records for
// a farm location.
//
//	climate fetch -lat 36.12 -lon -5.35 [-out environment_data.json]
//	climate export -lat 36.12 -lon -5.35 -out data.json
//	climate list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/appengine-ltd/agrodm/internal/climate"
	"github.com/appengine-ltd/agrodm/internal/config"
	"github.com/appengine-ltd/agrodm/internal/globe"
	"github.com/appengine-ltd/agrodm/internal/logging"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		die(err.Error())
	}
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	log := logging.Init(cfg.Logging("climate", version), os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "fetch":
		err = runFetch(ctx, cfg, log, args)
	case "export":
		err = runExport(ctx, cfg, args)
	case "list":
		err = runList(ctx, cfg, args)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		die(err.Error())
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: climate <fetch|export|list> [flags]")
}

type locationFlags struct {
	lat, lon float64
}

func (l *locationFlags) register(fs *flag.FlagSet) {
	fs.Float64Var(&l.lat, "lat", 0, "latitude in degrees (-90..90)")
	fs.Float64Var(&l.lon, "lon", 0, "longitude in degrees (-180..180)")
}

func (l *locationFlags) location(fs *flag.FlagSet) (climate.Location, error) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["lat"] || !set["lon"] {
		return climate.Location{}, errors.New("-lat and -lon are required")
	}
	return climate.Location{Latitude: l.lat, Longitude: l.lon}, nil
}

func runFetch(ctx context.Context, cfg config.Config, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	var loc locationFlags
	loc.register(fs)
	out := fs.String("out", cfg.EnvironmentPath, "environment JSON to write")
	noStore := fs.Bool("no-store", false, "skip the SQLite cache")
	refresh := fs.Bool("refresh", false, "ignore stored data and download again")
	start := fs.String("start", cfg.DateStart, "first day, YYYYMMDD")
	end := fs.String("end", cfg.DateEnd, "last day, YYYYMMDD")
	_ = fs.Parse(args)
	l, err := loc.location(fs)
	if err != nil {
		return err
	}

	client := climate.NewClient(cfg.PowerURL, cfg.FetchTimeout)
	client.DateStart = *start
	client.DateEnd = *end
	client.Logger = log

	var fetcher climate.Fetcher = client
	var store *climate.SQLiteStore
	if !*noStore {
		if store, err = climate.OpenSQLite(cfg.ClimateDB); err != nil {
			return err
		}
		defer store.Close()
		if !*refresh {
			fetcher = &climate.StoredFetcher{Store: store, Next: client, Log: log}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	began := time.Now()
	ds, err := fetcher.Fetch(ctx, l)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", l, err)
	}
	if *refresh && store != nil {
		if err := store.Save(ctx, l, ds); err != nil {
			return err
		}
	}
	if err := climate.WriteJSON(*out, ds); err != nil {
		return err
	}
	coords := globe.Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
	fmt.Printf("wrote %s: %d records for %s in %s\n", *out, len(ds), coords, time.Since(began).Round(time.Millisecond))
	return nil
}

func runExport(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	var loc locationFlags
	loc.register(fs)
	out := fs.String("out", cfg.EnvironmentPath, "environment JSON to write")
	_ = fs.Parse(args)
	l, err := loc.location(fs)
	if err != nil {
		return err
	}

	store, err := climate.OpenSQLite(cfg.ClimateDB)
	if err != nil {
		return err
	}
	defer store.Close()
	ds, ok, err := store.Load(ctx, l)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no stored data for %s; run climate fetch first", l)
	}
	if err := climate.WriteJSON(*out, ds); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d records\n", *out, len(ds))
	return nil
}

func runList(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	_ = fs.Parse(args)

	store, err := climate.OpenSQLite(cfg.ClimateDB)
	if err != nil {
		return err
	}
	defer store.Close()
	locs, err := store.Locations(ctx)
	if err != nil {
		return err
	}
	if len(locs) == 0 {
		fmt.Println("no stored locations")
		return nil
	}
	for _, l := range locs {
		coords := globe.Coordinates{Latitude: l.Latitude, Longitude: l.Longitude}
		fmt.Printf("%-28s %4d records  fetched %s\n", coords, l.Records, l.FetchedAt.Format(time.DateTime))
	}
	return nil
}

func die(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
