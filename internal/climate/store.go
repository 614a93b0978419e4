package climate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps fetched datasets so a location is only downloaded once.
type SQLiteStore struct {
	db *sql.DB
}

type StoredLocation struct {
	Location
	Records   int
	FetchedAt time.Time
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS locations (
			key TEXT PRIMARY KEY,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			fetched_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS day_records (
			location_key TEXT NOT NULL REFERENCES locations(key) ON DELETE CASCADE,
			year INTEGER NOT NULL,
			doy INTEGER NOT NULL,
			month INTEGER NOT NULL,
			day INTEGER NOT NULL,
			t2m REAL,
			allsky_sw REAL,
			precip REAL,
			gwettop REAL,
			PRIMARY KEY (location_key, year, doy)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_day_records_doy ON day_records(location_key, doy);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored dataset for loc.
func (s *SQLiteStore) Save(ctx context.Context, loc Location, ds Dataset) error {
	key := cacheKey(loc)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear location: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO locations (key, latitude, longitude, fetched_at) VALUES (?, ?, ?, ?)`,
		key, loc.Latitude, loc.Longitude, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert location: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO day_records
		(location_key, year, doy, month, day, t2m, allsky_sw, precip, gwettop)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range ds {
		if _, err := stmt.ExecContext(ctx, key, r.Year, r.DOY, r.Month, r.Day,
			nullable(r.T2M), nullable(r.AllSkySW), nullable(r.Precip), nullable(r.GWETTOP)); err != nil {
			return fmt.Errorf("insert record %d/%d: %w", r.Year, r.DOY, err)
		}
	}
	return tx.Commit()
}

// Load returns the stored dataset for loc ordered by date. The bool is false
// when nothing is stored.
func (s *SQLiteStore) Load(ctx context.Context, loc Location) (Dataset, bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, doy, month, day, t2m, allsky_sw, precip, gwettop
		FROM day_records WHERE location_key = ? ORDER BY year, doy`, cacheKey(loc))
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var ds Dataset
	for rows.Next() {
		var (
			r                         DayRecord
			t2m, allsky, precip, gwet sql.NullFloat64
		)
		if err := rows.Scan(&r.Year, &r.DOY, &r.Month, &r.Day, &t2m, &allsky, &precip, &gwet); err != nil {
			return nil, false, err
		}
		r.T2M = fromNull(t2m)
		r.AllSkySW = fromNull(allsky)
		r.Precip = fromNull(precip)
		r.GWETTOP = fromNull(gwet)
		ds = append(ds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return ds, len(ds) > 0, nil
}

func (s *SQLiteStore) Locations(ctx context.Context) ([]StoredLocation, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT l.latitude, l.longitude, l.fetched_at, COUNT(d.doy)
		FROM locations l LEFT JOIN day_records d ON d.location_key = l.key
		GROUP BY l.key ORDER BY l.fetched_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredLocation
	for rows.Next() {
		var (
			sl      StoredLocation
			fetched string
		)
		if err := rows.Scan(&sl.Latitude, &sl.Longitude, &fetched, &sl.Records); err != nil {
			return nil, err
		}
		sl.FetchedAt, _ = time.Parse(time.RFC3339, fetched)
		out = append(out, sl)
	}
	return out, rows.Err()
}

func nullable(m Measure) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Valid}
}

func fromNull(n sql.NullFloat64) Measure {
	return Measure{Value: n.Float64, Valid: n.Valid}
}

// StoredFetcher serves from the store and falls through to next on a miss,
// saving what it fetched.
type StoredFetcher struct {
	Store *SQLiteStore
	Next  Fetcher
	Log   *slog.Logger
}

func (f *StoredFetcher) Fetch(ctx context.Context, loc Location) (Dataset, error) {
	ds, ok, err := f.Store.Load(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("load stored climate: %w", err)
	}
	if ok {
		return ds, nil
	}
	ds, err = f.Next.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}
	if err := f.Store.Save(ctx, loc, ds); err != nil {
		log := f.Log
		if log == nil {
			log = slog.Default()
		}
		log.Warn("store climate data failed", "location", loc.String(), "error", err)
	}
	return ds, nil
}
