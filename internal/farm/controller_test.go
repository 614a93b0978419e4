package farm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestFarm(t *testing.T) (*Farm, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	f := New(Options{Catalog: DefaultCatalog(), Now: clk.Now})
	return f, clk
}

func TestClickPlowAndWater(t *testing.T) {
	f, _ := newTestFarm(t)
	p := Pos{X: 3, Y: 4}

	f.Control.SetMode(ModePlow)
	f.Control.Click(p)
	assert.True(t, f.Grid.At(p).Farmed)
	assert.Equal(t, "Plowed soil!", f.Notes.Last())

	f.Grid.At(p).Humidity = 50
	f.Control.SetMode(ModeWater)
	f.Control.Click(p)
	assert.Equal(t, 70.0, f.Grid.At(p).Humidity)
	assert.Equal(t, "Watered soil!", f.Notes.Last())

	f.Control.Click(Pos{X: 0, Y: 0})
	assert.Equal(t, "Can't water non-farmed soil!", f.Notes.Last())
}

func TestClickCursorModeDoesNothing(t *testing.T) {
	f, _ := newTestFarm(t)
	p := Pos{X: 1, Y: 1}
	before := *f.Grid.At(p)
	f.Control.Click(p)
	assert.Equal(t, before, *f.Grid.At(p))
}

func TestSetModeClearsSelection(t *testing.T) {
	f, _ := newTestFarm(t)
	f.Economy.Inventory.AddSeed(SeedWheat, 1)
	require.True(t, f.Control.SelectSeed(SeedWheat))
	f.Control.SetMode(ModeWater)
	assert.False(t, f.Control.Selection().Active())
	assert.Equal(t, "Switched to Watering mode", f.Notes.Last())
}

func TestPlantSeedRules(t *testing.T) {
	f, _ := newTestFarm(t)
	f.Economy.Inventory.AddSeed(SeedWheat, 1)
	p := Pos{X: 5, Y: 5}
	tile := f.Grid.At(p)

	require.True(t, f.Control.SelectSeed(SeedWheat))
	f.Control.Click(p)
	assert.Equal(t, "Soil must be farmed to plant!", f.Notes.Last())
	assert.True(t, f.Control.Selection().Active(), "rejection keeps the selection")

	tile.Farmed = true
	tile.Humidity = 19
	f.Control.Click(p)
	assert.Equal(t, "Soil moisture too low to plant!", f.Notes.Last())

	tile.Humidity = 20
	f.Control.Click(p)
	assert.Equal(t, "Planted seed: wheat", f.Notes.Last())
	assert.Equal(t, SeedWheat, tile.PlantedSeed)
	assert.Equal(t, 0, f.Economy.Inventory.SeedCount(SeedWheat))
	assert.False(t, f.Control.Selection().Active())
}

func TestPlantRejectsOccupiedSoil(t *testing.T) {
	f, _ := newTestFarm(t)
	f.Economy.Inventory.AddSeed(SeedWheat, 2)
	p := Pos{X: 2, Y: 2}
	tile := f.Grid.At(p)
	tile.Farmed = true
	tile.Plant(SeedWheat)

	require.True(t, f.Control.SelectSeed(SeedWheat))
	f.Control.Click(p)
	assert.Equal(t, "Soil already has a plant!", f.Notes.Last())
	assert.Equal(t, 2, f.Economy.Inventory.SeedCount(SeedWheat))
}

func TestSelectRequiresStock(t *testing.T) {
	f, _ := newTestFarm(t)
	assert.False(t, f.Control.SelectSeed(SeedWheat))
	assert.False(t, f.Control.SelectBuilding(BuildingMoney))
	assert.False(t, f.Control.Selection().Active())
}

func TestPlowModeBeforePlacementMatchesClickOrder(t *testing.T) {
	f, _ := newTestFarm(t)
	f.Economy.Inventory.AddSeed(SeedWheat, 1)
	p := Pos{X: 7, Y: 2}

	f.Control.SetMode(ModePlow)
	require.True(t, f.Control.SelectSeed(SeedWheat))
	f.Control.Click(p)

	tile := f.Grid.At(p)
	assert.True(t, tile.Farmed)
	assert.Equal(t, SeedWheat, tile.PlantedSeed)
}

func TestPlaceBuildingRules(t *testing.T) {
	f, _ := newTestFarm(t)
	f.Economy.Inventory.AddBuilding(BuildingMoney, 1)
	farmed := Pos{X: 1, Y: 1}
	f.Grid.At(farmed).Farmed = true

	require.True(t, f.Control.SelectBuilding(BuildingMoney))
	f.Control.Click(farmed)
	assert.Equal(t, "Can't build on farmed soil!", f.Notes.Last())

	grass := Pos{X: 2, Y: 1}
	f.Control.Click(grass)
	assert.Equal(t, "Placed building: MoneyFactory", f.Notes.Last())
	assert.Equal(t, BuildingMoney, f.Grid.At(grass).Building)
	assert.True(t, f.Economy.Inventory.Empty())

	f.Economy.Inventory.AddBuilding(BuildingEnergy, 1)
	require.True(t, f.Control.SelectBuilding(BuildingEnergy))
	f.Control.Click(grass)
	assert.Equal(t, "Building already exists!", f.Notes.Last())
	assert.Equal(t, BuildingMoney, f.Grid.At(grass).Building)
}

func TestPreview(t *testing.T) {
	f, _ := newTestFarm(t)
	f.Economy.Inventory.AddSeed(SeedWheat, 1)
	f.Economy.Inventory.AddBuilding(BuildingMoney, 1)
	grass := Pos{X: 0, Y: 0}
	soil := Pos{X: 1, Y: 0}
	f.Grid.At(soil).Farmed = true

	assert.Equal(t, PreviewNone, f.Control.Preview(grass))

	require.True(t, f.Control.SelectSeed(SeedWheat))
	assert.Equal(t, PreviewInvalid, f.Control.Preview(grass))
	assert.Equal(t, PreviewValid, f.Control.Preview(soil))

	require.True(t, f.Control.SelectBuilding(BuildingMoney))
	assert.Equal(t, PreviewValid, f.Control.Preview(grass))
	assert.Equal(t, PreviewInvalid, f.Control.Preview(soil))
	assert.Equal(t, PreviewNone, f.Control.Preview(Pos{X: -1, Y: 0}))
}

func TestPanelsAreExclusive(t *testing.T) {
	f, _ := newTestFarm(t)
	f.Economy.Inventory.AddSeed(SeedWheat, 1)
	require.True(t, f.Control.SelectSeed(SeedWheat))

	f.Control.TogglePanel(PanelShop)
	assert.Equal(t, PanelShop, f.Control.Panel())
	assert.False(t, f.Control.Selection().Active())

	f.Control.TogglePanel(PanelInfo)
	assert.Equal(t, PanelInfo, f.Control.Panel())

	f.Control.TogglePanel(PanelInfo)
	assert.Equal(t, PanelNone, f.Control.Panel())
}

func TestControllerBuy(t *testing.T) {
	f, _ := newTestFarm(t)
	assert.True(t, f.Control.BuyBuilding(BuildingMoney))
	assert.Equal(t, "Bought building MoneyFactory for $70", f.Notes.Last())
	assert.False(t, f.Control.BuyBuilding(BuildingEnergy))
	assert.Equal(t, "Not enough money!", f.Notes.Last())
	assert.True(t, f.Control.BuySeed(SeedWheat))
	assert.Equal(t, 25, f.Economy.Ledger.Balance(CurrencyMoney))
}

func TestNotificationExpires(t *testing.T) {
	f, clk := newTestFarm(t)
	f.Notes.Post("hello")
	text, ok := f.Notes.Current()
	require.True(t, ok)
	assert.Equal(t, "hello", text)

	clk.Advance(2999 * time.Millisecond)
	_, ok = f.Notes.Current()
	assert.True(t, ok)

	clk.Advance(time.Millisecond)
	_, ok = f.Notes.Current()
	assert.False(t, ok)
}

func TestLayoutCellAt(t *testing.T) {
	l := Layout{OriginX: 0, OriginY: 0, TileSize: 30, Cols: 30, Rows: 20}

	p, ok := l.CellAt(45, 61)
	require.True(t, ok)
	assert.Equal(t, Pos{X: 1, Y: 2}, p)

	_, ok = l.CellAt(900, 10)
	assert.False(t, ok)
	_, ok = l.CellAt(-1, 10)
	assert.False(t, ok)

	x, y, w, h := l.CellRect(Pos{X: 2, Y: 3})
	assert.Equal(t, []float32{60, 90, 30, 30}, []float32{x, y, w, h})
}

func TestBuildingTileCannotBePlowedOrPlanted(t *testing.T) {
	f, _ := newTestFarm(t)
	p := Pos{X: 2, Y: 2}
	f.Economy.Inventory.AddBuilding(BuildingMoney, 1)
	f.Economy.Inventory.AddSeed(SeedWheat, 1)

	require.True(t, f.Control.SelectBuilding(BuildingMoney))
	f.Control.Click(p)
	require.Equal(t, BuildingMoney, f.Grid.At(p).Building)

	f.Control.SetMode(ModePlow)
	f.Control.Click(p)
	assert.False(t, f.Grid.At(p).Farmed)
	assert.Equal(t, "Can't plow under a building!", f.Notes.Last())

	require.True(t, f.Control.SelectSeed(SeedWheat))
	assert.Equal(t, PreviewInvalid, f.Control.Preview(p))
	f.Control.Click(p)

	tile := f.Grid.At(p)
	assert.False(t, tile.HasPlant())
	assert.Equal(t, BuildingMoney, tile.Building)
	assert.Equal(t, "Can't plant on a building!", f.Notes.Last())
	assert.Equal(t, 1, f.Economy.Inventory.SeedCount(SeedWheat))
}

func TestFarmedBuildingTileRejectsSeed(t *testing.T) {
	f, _ := newTestFarm(t)
	p := Pos{X: 6, Y: 1}
	tile := f.Grid.At(p)
	tile.Farmed = true
	tile.Building = BuildingEnergy
	f.Economy.Inventory.AddSeed(SeedWheat, 1)

	require.True(t, f.Control.SelectSeed(SeedWheat))
	assert.Equal(t, PreviewInvalid, f.Control.Preview(p))
	f.Control.Click(p)
	assert.False(t, tile.HasPlant())
}
