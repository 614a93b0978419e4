package farm

type SeedTag string

type BuildingTag string

const (
	SeedWheat SeedTag = "wheat"

	BuildingMoney      BuildingTag = "MoneyFactory"
	BuildingEnergy     BuildingTag = "EnergyFactory"
	BuildingFertilizer BuildingTag = "FertilizerFactory"
)

type Pos struct {
	X int
	Y int
}

// Tile is one grid cell. A tile holds at most one of a plant or a building.
type Tile struct {
	Pos            Pos
	Farmed         bool
	Humidity       float64
	PlantedSeed    SeedTag
	GrowthStage    int
	GrowthTime     float64
	Withered       bool
	Building       BuildingTag
	BuildingTimer  float64
	ReadyToHarvest bool
}

type TileEvent int

const (
	EventNone TileEvent = iota
	EventWithered
	EventReady
)

func NewTile(pos Pos) Tile {
	return Tile{Pos: pos, Humidity: MaxHumidity}
}

func (t *Tile) HasPlant() bool {
	return t.PlantedSeed != ""
}

func (t *Tile) HasBuilding() bool {
	return t.Building != ""
}

// Update advances drying, withering and growth by dt seconds. The returned
// event is edge-triggered: EventReady fires only on the transition into the
// final stage, EventWithered only when the plant first dies.
func (t *Tile) Update(dt float64, r Rules) TileEvent {
	if dt < 0 {
		dt = 0
	}
	event := EventNone

	if t.Farmed && !t.HasBuilding() {
		t.Humidity -= r.DryRatePerSecond * dt
		if t.Humidity <= 0 {
			t.Humidity = 0
			if t.HasPlant() && !t.Withered {
				t.Withered = true
				event = EventWithered
			}
		}
	}

	if t.HasPlant() && !t.Withered && t.Humidity > r.GrowthMinHumidity {
		t.GrowthTime += dt
		prev := t.GrowthStage
		switch {
		case t.GrowthTime > r.Stage2After:
			t.GrowthStage = 2
		case t.GrowthTime > r.Stage1After && t.GrowthStage < 1:
			t.GrowthStage = 1
		}
		if prev < 2 && t.GrowthStage == 2 {
			t.ReadyToHarvest = true
			event = EventReady
		}
	}
	return event
}

// Water adds the watering amount, capped at MaxHumidity. Only farmed soil
// accepts water.
func (t *Tile) Water(r Rules) bool {
	if !t.Farmed {
		return false
	}
	t.Humidity = min(MaxHumidity, t.Humidity+r.WaterAmount)
	return true
}

// Plow marks grass as farmed soil. It reports whether the tile changed.
// Tiles under a building are never plowed.
func (t *Tile) Plow() bool {
	if t.Farmed || t.HasBuilding() {
		return false
	}
	t.Farmed = true
	return true
}

func (t *Tile) Plant(seed SeedTag) {
	t.PlantedSeed = seed
	t.GrowthStage = 0
	t.GrowthTime = 0
	t.Withered = false
	t.ReadyToHarvest = false
}

// PlaceBuilding puts b on the tile and removes any plant underneath.
func (t *Tile) PlaceBuilding(b BuildingTag) {
	t.Building = b
	t.BuildingTimer = 0
	t.PlantedSeed = ""
	t.GrowthStage = 0
	t.GrowthTime = 0
	t.Withered = false
	t.ReadyToHarvest = false
}

// ResetToGrass clears a harvested tile. Humidity is left as it was.
func (t *Tile) ResetToGrass() {
	t.Farmed = false
	t.PlantedSeed = ""
	t.GrowthStage = 0
	t.GrowthTime = 0
	t.Withered = false
	t.ReadyToHarvest = false
}

func (t *Tile) fertilize(amount float64) {
	if !t.Farmed {
		return
	}
	t.Humidity = min(MaxHumidity, t.Humidity+amount)
}
