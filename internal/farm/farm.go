package farm

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Options struct {
	Catalog   Catalog
	Cols      int
	Rows      int
	DayLength time.Duration
	Source    EnvironmentSource
	Now       func() time.Time
	Logger    *slog.Logger
}

// Farm owns one session: grid, economy, clock and environment. It is driven
// from a single thread by Tick once per frame.
type Farm struct {
	SessionID string
	Grid      *Grid
	Economy   *Economy
	Shop      *Shop
	Control   *Controller
	Notes     *Notifier
	Catalog   Catalog
	Clock     Clock
	Env       Environment

	source EnvironmentSource
	days   DayTracker
	ripe   []Pos
	now    func() time.Time
	log    *slog.Logger
}

func New(opts Options) *Farm {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.Catalog.Seeds == nil && opts.Catalog.Buildings == nil {
		opts.Catalog = DefaultCatalog()
	}

	f := &Farm{
		SessionID: uuid.NewString(),
		Grid:      NewGrid(opts.Cols, opts.Rows),
		Economy:   NewEconomy(opts.Catalog.StartingBalances),
		Shop:      NewShop(opts.Catalog),
		Notes:     NewNotifier(opts.Catalog.Rules.NotificationTTL, opts.Now),
		Catalog:   opts.Catalog,
		Clock:     NewClock(opts.Now(), opts.DayLength),
		Env:       DefaultEnvironment(),
		source:    opts.Source,
		now:       opts.Now,
		log:       opts.Logger,
	}
	f.Control = NewController(f.Grid, f.Economy, f.Shop, opts.Catalog.Rules, f.Notes)
	return f
}

// SetSource attaches climate data used for daily refreshes.
func (f *Farm) SetSource(src EnvironmentSource) {
	f.source = src
}

func (f *Farm) Day() int {
	return f.days.Current()
}

// UntilNextDay is the wall time left in the current day, read from the
// farm's own clock source.
func (f *Farm) UntilNextDay() time.Duration {
	return f.Clock.UntilNextDay(f.now())
}

// Tick advances the session by dt seconds: the day-boundary check, tile
// growth, auto-harvest and building production, in that order.
func (f *Farm) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	day := f.Clock.Day(f.now())
	if f.days.Observe(day) {
		f.startDay(day)
	}

	// Plants restored already ripe never see the EventReady edge.
	for _, p := range f.ripe {
		if t := f.Grid.At(p); t != nil && t.ReadyToHarvest && t.HasPlant() {
			f.harvest(t)
		}
	}
	f.ripe = nil

	rules := f.Catalog.Rules
	f.Grid.Each(func(t *Tile) {
		if t.Update(dt, rules) == EventReady {
			f.harvest(t)
		}
	})

	f.Grid.Each(func(t *Tile) {
		if t.HasBuilding() {
			f.produce(t, dt)
		}
	})
}

func (f *Farm) startDay(day int) {
	f.Notes.Post(fmt.Sprintf("Day %d has started!", day))
	f.log.Info("day started", "day", day, "session", f.SessionID)
	f.RefreshEnvironment(DayOfYear(day))
}

// RefreshEnvironment replaces the snapshot from the day's climate record.
// A missing record leaves the snapshot unchanged.
func (f *Farm) RefreshEnvironment(doy int) {
	if f.source == nil {
		f.Notes.Post("No environment data loaded")
		return
	}
	r, ok := f.source.Reading(doy)
	if !ok {
		f.Notes.Post(fmt.Sprintf("No environment data found for day %d", doy))
		f.log.Warn("environment record missing", "doy", doy)
		return
	}
	f.Env = f.Env.Apply(r)
	f.Notes.Post(fmt.Sprintf("Environment updated for day %d", doy))
	f.log.Debug("environment refreshed", "doy", doy,
		"temperature", f.Env.TemperatureC, "soil_moisture", f.Env.SoilMoisturePct)
}

func (f *Farm) harvest(t *Tile) {
	seed := t.PlantedSeed
	payout := f.Catalog.Payout(seed)
	f.Economy.Ledger.Add(CurrencyMoney, payout)
	t.ResetToGrass()
	f.Notes.Post(fmt.Sprintf("Auto-harvested %s for $%d!", seed, payout))
}

func (f *Farm) produce(t *Tile, dt float64) {
	spec, ok := f.Catalog.Buildings[t.Building]
	if !ok {
		return
	}
	t.BuildingTimer += dt
	if t.BuildingTimer < spec.Interval {
		return
	}
	t.BuildingTimer = 0
	switch spec.Effect {
	case EffectCurrency:
		f.Economy.Ledger.Add(spec.Currency, spec.Amount)
	case EffectFertilize:
		f.FertilizeNearby(t.Pos, spec.Radius, float64(spec.Amount))
	}
	if spec.Message != "" {
		f.Notes.Post(spec.Message)
	}
}

// FertilizeNearby raises humidity on farmed tiles within radius of p.
func (f *Farm) FertilizeNearby(p Pos, radius int, amount float64) {
	for _, t := range f.Grid.Neighbors(p, radius) {
		t.fertilize(amount)
	}
}
