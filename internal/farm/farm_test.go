package farm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[int]Reading

func (m mapSource) Reading(doy int) (Reading, bool) {
	r, ok := m[doy]
	return r, ok
}

func float(v float64) *float64 { return &v }

func TestTickAutoHarvests(t *testing.T) {
	f, _ := newTestFarm(t)
	p := Pos{X: 4, Y: 4}
	tile := f.Grid.At(p)
	tile.Farmed = true
	tile.Plant(SeedWheat)
	tile.GrowthStage = 1
	tile.GrowthTime = 29

	f.Tick(2)

	assert.Equal(t, 110, f.Economy.Ledger.Balance(CurrencyMoney))
	assert.False(t, tile.Farmed)
	assert.False(t, tile.HasPlant())
	assert.Equal(t, 0, tile.GrowthStage)
	assert.False(t, tile.ReadyToHarvest)
	assert.InDelta(t, 90.0, tile.Humidity, 1e-9)
}

func TestHarvestUsesDefaultPayout(t *testing.T) {
	f, _ := newTestFarm(t)
	tile := f.Grid.At(Pos{X: 0, Y: 5})
	tile.Plant("barley")
	tile.GrowthTime = 30

	f.Tick(1)

	assert.Equal(t, 105, f.Economy.Ledger.Balance(CurrencyMoney))
	assert.Equal(t, "Auto-harvested barley for $5!", f.Notes.Last())
}

func TestTickBuildingProduction(t *testing.T) {
	f, _ := newTestFarm(t)
	f.Grid.At(Pos{X: 0, Y: 0}).PlaceBuilding(BuildingMoney)
	f.Grid.At(Pos{X: 1, Y: 0}).PlaceBuilding(BuildingEnergy)

	f.Tick(4)
	assert.Equal(t, 100, f.Economy.Ledger.Balance(CurrencyMoney))

	f.Tick(1)
	assert.Equal(t, 105, f.Economy.Ledger.Balance(CurrencyMoney))
	assert.Equal(t, 0.0, f.Grid.At(Pos{X: 0, Y: 0}).BuildingTimer)

	f.Tick(3)
	assert.Equal(t, 60, f.Economy.Ledger.Balance(CurrencyEnergy))
	assert.Equal(t, "Energy Factory produced 10 Energy!", f.Notes.Last())
}

func TestFertilizerRaisesNearbyFarmedSoil(t *testing.T) {
	f, _ := newTestFarm(t)
	center := Pos{X: 5, Y: 5}
	f.Grid.At(center).PlaceBuilding(BuildingFertilizer)

	near := f.Grid.At(Pos{X: 6, Y: 6})
	near.Farmed = true
	near.Humidity = 50
	far := f.Grid.At(Pos{X: 7, Y: 5})
	far.Farmed = true
	far.Humidity = 50
	grass := f.Grid.At(Pos{X: 4, Y: 5})
	grass.Humidity = 60

	f.Tick(6)

	assert.InDelta(t, 30.0, near.Humidity, 1e-9)
	assert.InDelta(t, 20.0, far.Humidity, 1e-9)
	assert.Equal(t, 60.0, grass.Humidity)
}

func TestFertilizeCapsAtMax(t *testing.T) {
	f, _ := newTestFarm(t)
	tile := f.Grid.At(Pos{X: 0, Y: 0})
	tile.Farmed = true
	tile.Humidity = 95
	f.FertilizeNearby(Pos{X: 1, Y: 1}, 1, 10)
	assert.Equal(t, MaxHumidity, tile.Humidity)
}

func TestDayBoundaryRefreshesEnvironmentOnce(t *testing.T) {
	f, clk := newTestFarm(t)
	src := mapSource{
		1: {TemperatureC: float(12.5), TopLayerWetness: float(0.3)},
		2: {},
	}
	f.SetSource(src)

	f.Tick(0.016)
	assert.Equal(t, 1, f.Day())
	assert.Equal(t, 12.5, f.Env.TemperatureC)
	assert.InDelta(t, 30.0, f.Env.SoilMoisturePct, 1e-9)
	assert.Equal(t, 50.0, f.Env.HumidityPct)
	historyLen := len(f.Notes.History())

	f.Tick(0.016)
	assert.Len(t, f.Notes.History(), historyLen, "same day must not refresh again")

	clk.Advance(DefaultDayLength)
	f.Tick(0.016)
	assert.Equal(t, 2, f.Day())
	assert.Equal(t, 12.5, f.Env.TemperatureC, "missing temperature keeps previous value")
	assert.InDelta(t, 50.0, f.Env.SoilMoisturePct, 1e-9, "missing wetness defaults to 0.5")
}

func TestMissingRecordLeavesSnapshot(t *testing.T) {
	f, _ := newTestFarm(t)
	f.SetSource(mapSource{})
	before := f.Env

	f.Tick(0.016)

	assert.Equal(t, before, f.Env)
	assert.Equal(t, "No environment data found for day 1", f.Notes.Last())
}

func TestEnvironmentApplyClamps(t *testing.T) {
	env := DefaultEnvironment().Apply(Reading{TopLayerWetness: float(1.7)})
	assert.Equal(t, 100.0, env.SoilMoisturePct)
	env = DefaultEnvironment().Apply(Reading{TopLayerWetness: float(-0.2)})
	assert.Equal(t, 0.0, env.SoilMoisturePct)
	assert.Equal(t, 20.0, env.TemperatureC)
}

func TestDayRefreshUsesWrappedDayOfYear(t *testing.T) {
	f, clk := newTestFarm(t)
	f.SetSource(mapSource{1: {TemperatureC: float(-3)}})
	clk.Advance(365 * DefaultDayLength)

	f.Tick(0.016)

	require.Equal(t, 366, f.Day())
	assert.Equal(t, -3.0, f.Env.TemperatureC)
	assert.Equal(t, "Environment updated for day 1", f.Notes.Last())
}

func TestNewFarmDefaults(t *testing.T) {
	f := New(Options{})
	assert.Equal(t, DefaultCols, f.Grid.Cols)
	assert.Equal(t, DefaultRows, f.Grid.Rows)
	assert.Equal(t, 100, f.Economy.Ledger.Balance(CurrencyMoney))
	assert.Equal(t, 50, f.Economy.Ledger.Balance(CurrencyEnergy))
	assert.Equal(t, DefaultEnvironment(), f.Env)
	assert.Equal(t, ModeCursor, f.Control.Mode())
	assert.NotEmpty(t, f.SessionID)
	assert.WithinDuration(t, time.Now(), f.Clock.Start, time.Minute)
}

func TestDay46WithoutRecordKeepsSnapshot(t *testing.T) {
	f, clk := newTestFarm(t)
	f.SetSource(mapSource{1: {TemperatureC: float(4)}})
	f.Tick(0.016)
	before := f.Env

	clk.Advance(45 * DefaultDayLength)
	f.Tick(0.016)

	assert.Equal(t, 46, f.Day())
	assert.Equal(t, before, f.Env)
	assert.Equal(t, "No environment data found for day 46", f.Notes.Last())
}

func TestUntilNextDayUsesFarmClock(t *testing.T) {
	f, clk := newTestFarm(t)
	assert.Equal(t, DefaultDayLength, f.UntilNextDay())
	clk.Advance(30 * time.Second)
	assert.Equal(t, DefaultDayLength-30*time.Second, f.UntilNextDay())
}
