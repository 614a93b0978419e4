package farm

type LookKind int

const (
	LookGrass LookKind = iota
	LookDirt
	LookDryDirt
	LookPlant
	LookWithered
	LookBuilding
)

// Look is the render classification of a tile.
type Look struct {
	Kind       LookKind
	Stage      int
	Brightness float64
	Building   BuildingTag
}

func Appearance(t Tile, r Rules) Look {
	switch {
	case t.HasBuilding():
		return Look{Kind: LookBuilding, Building: t.Building, Brightness: 1}
	case !t.Farmed:
		return Look{Kind: LookGrass, Brightness: 1}
	case t.Withered:
		return Look{Kind: LookWithered, Brightness: 1}
	case t.HasPlant():
		return Look{Kind: LookPlant, Stage: t.GrowthStage, Brightness: max(0.4, t.Humidity/MaxHumidity)}
	case t.Humidity < r.DryLookBelow:
		return Look{Kind: LookDryDirt, Brightness: 1}
	default:
		return Look{Kind: LookDirt, Brightness: 1}
	}
}
