package farm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileDryingWithersPlant(t *testing.T) {
	r := DefaultRules()
	tile := Tile{Farmed: true, Humidity: 3, PlantedSeed: SeedWheat}

	ev := tile.Update(1, r)

	assert.Equal(t, EventWithered, ev)
	assert.Equal(t, 0.0, tile.Humidity)
	assert.True(t, tile.Withered)
	assert.Equal(t, 0, tile.GrowthStage)
	assert.Equal(t, 0.0, tile.GrowthTime)

	tile.Humidity = 80
	ev = tile.Update(1, r)
	assert.Equal(t, EventNone, ev)
	assert.True(t, tile.Withered, "withered must stay set")
}

func TestTileReachesFinalStageOnce(t *testing.T) {
	r := DefaultRules()
	tile := Tile{Humidity: 25, PlantedSeed: SeedWheat, GrowthStage: 1, GrowthTime: 29}

	ev := tile.Update(2, r)

	assert.Equal(t, EventReady, ev)
	assert.InDelta(t, 31.0, tile.GrowthTime, 1e-9)
	assert.Equal(t, 2, tile.GrowthStage)
	assert.True(t, tile.ReadyToHarvest)

	assert.Equal(t, EventNone, tile.Update(2, r), "ready must be edge-triggered")
}

func TestTileGrowthThresholdsAreStrict(t *testing.T) {
	r := DefaultRules()
	tile := Tile{Humidity: 100, PlantedSeed: SeedWheat}

	tile.Update(15, r)
	assert.Equal(t, 0, tile.GrowthStage)
	tile.Update(0.5, r)
	assert.Equal(t, 1, tile.GrowthStage)
	tile.Update(14.5, r)
	assert.Equal(t, 1, tile.GrowthStage)
	tile.Update(0.5, r)
	assert.Equal(t, 2, tile.GrowthStage)
}

func TestTileNoGrowthAtOrBelowHumidityFloor(t *testing.T) {
	r := DefaultRules()
	tile := Tile{Humidity: 20, PlantedSeed: SeedWheat}
	tile.Update(40, r)
	assert.Equal(t, 0.0, tile.GrowthTime)
	assert.Equal(t, 0, tile.GrowthStage)
}

func TestTileGrowthStageNeverDecreases(t *testing.T) {
	r := DefaultRules()
	tile := Tile{Farmed: true, Humidity: 100, PlantedSeed: SeedWheat}
	prev := tile.GrowthStage
	for i := 0; i < 200; i++ {
		if i%5 == 0 {
			tile.Water(r)
		}
		tile.Update(0.25, r)
		require.GreaterOrEqual(t, tile.GrowthStage, prev)
		prev = tile.GrowthStage
	}
}

func TestTileBuildingStopsDrying(t *testing.T) {
	r := DefaultRules()
	tile := NewTile(Pos{})
	tile.Farmed = true
	tile.PlaceBuilding(BuildingMoney)
	tile.Update(10, r)
	assert.Equal(t, MaxHumidity, tile.Humidity)
}

func TestTileNegativeDeltaIsIgnored(t *testing.T) {
	r := DefaultRules()
	tile := Tile{Farmed: true, Humidity: 50, PlantedSeed: SeedWheat, GrowthTime: 10}
	tile.Update(-4, r)
	assert.Equal(t, 50.0, tile.Humidity)
	assert.Equal(t, 10.0, tile.GrowthTime)
}

func TestTileWaterCapsAtMaximum(t *testing.T) {
	r := DefaultRules()
	tile := Tile{Farmed: true, Humidity: 95}
	require.True(t, tile.Water(r))
	assert.Equal(t, MaxHumidity, tile.Humidity)

	grass := NewTile(Pos{})
	grass.Humidity = 40
	assert.False(t, grass.Water(r))
	assert.Equal(t, 40.0, grass.Humidity)
}

func TestTileResetToGrassKeepsHumidity(t *testing.T) {
	tile := Tile{
		Pos: Pos{X: 2, Y: 3}, Farmed: true, Humidity: 42, PlantedSeed: SeedWheat,
		GrowthStage: 2, GrowthTime: 31, ReadyToHarvest: true,
	}
	tile.ResetToGrass()

	assert.Equal(t, Tile{Pos: Pos{X: 2, Y: 3}, Humidity: 42}, tile)
}

func TestPlaceBuildingClearsPlant(t *testing.T) {
	tile := Tile{Humidity: 60, PlantedSeed: SeedWheat, GrowthStage: 1, GrowthTime: 20, BuildingTimer: 3}
	tile.PlaceBuilding(BuildingEnergy)

	assert.False(t, tile.HasPlant())
	assert.Equal(t, BuildingEnergy, tile.Building)
	assert.Equal(t, 0, tile.GrowthStage)
	assert.Equal(t, 0.0, tile.BuildingTimer)
}

func TestAppearance(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		name string
		tile Tile
		want LookKind
	}{
		{name: "grass", tile: NewTile(Pos{}), want: LookGrass},
		{name: "dirt", tile: Tile{Farmed: true, Humidity: 60}, want: LookDirt},
		{name: "dry dirt", tile: Tile{Farmed: true, Humidity: 10}, want: LookDryDirt},
		{name: "plant", tile: Tile{Farmed: true, Humidity: 10, PlantedSeed: SeedWheat, GrowthStage: 1}, want: LookPlant},
		{name: "withered wins over plant", tile: Tile{Farmed: true, PlantedSeed: SeedWheat, Withered: true}, want: LookWithered},
		{name: "building wins over farmed", tile: Tile{Farmed: true, Building: BuildingMoney}, want: LookBuilding},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Appearance(tc.tile, r).Kind)
		})
	}

	dim := Appearance(Tile{Farmed: true, Humidity: 10, PlantedSeed: SeedWheat}, r)
	assert.InDelta(t, 0.4, dim.Brightness, 1e-9)
	bright := Appearance(Tile{Farmed: true, Humidity: 80, PlantedSeed: SeedWheat}, r)
	assert.InDelta(t, 0.8, bright.Brightness, 1e-9)
}

func TestPlowSkipsBuildings(t *testing.T) {
	tile := NewTile(Pos{})
	tile.PlaceBuilding(BuildingMoney)
	assert.False(t, tile.Plow())
	assert.False(t, tile.Farmed)
}
