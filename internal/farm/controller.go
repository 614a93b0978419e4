package farm

import "fmt"

type Mode int

const (
	ModeCursor Mode = iota
	ModePlow
	ModeWater
)

func (m Mode) String() string {
	switch m {
	case ModePlow:
		return "Plow"
	case ModeWater:
		return "Water"
	default:
		return "Cursor"
	}
}

type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectSeed
	SelectBuilding
)

type Selection struct {
	Kind SelectionKind
	Tag  string
}

func (s Selection) Active() bool {
	return s.Kind != SelectNone && s.Tag != ""
}

type Panel int

const (
	PanelNone Panel = iota
	PanelInventory
	PanelShop
	PanelInfo
)

type PreviewState int

const (
	PreviewNone PreviewState = iota
	PreviewValid
	PreviewInvalid
)

// Controller turns clicks and panel actions into tile and economy changes.
// Every outcome, including rejections, is reported through the notifier.
type Controller struct {
	mode      Mode
	selection Selection
	panel     Panel

	grid  *Grid
	econ  *Economy
	shop  *Shop
	rules Rules
	notes *Notifier
}

func NewController(grid *Grid, econ *Economy, shop *Shop, rules Rules, notes *Notifier) *Controller {
	return &Controller{
		mode:  ModeCursor,
		grid:  grid,
		econ:  econ,
		shop:  shop,
		rules: rules,
		notes: notes,
	}
}

func (c *Controller) Mode() Mode {
	return c.mode
}

func (c *Controller) Selection() Selection {
	return c.selection
}

func (c *Controller) Panel() Panel {
	return c.panel
}

// SetMode switches the click behaviour and drops any pending placement.
func (c *Controller) SetMode(m Mode) {
	c.mode = m
	c.ClearSelection()
	switch m {
	case ModePlow:
		c.notes.Post("Switched to Plow mode")
	case ModeWater:
		c.notes.Post("Switched to Watering mode")
	default:
		c.notes.Post("Switched to Cursor mode")
	}
}

func (c *Controller) ClearSelection() {
	c.selection = Selection{}
}

// TogglePanel opens p, closing whichever panel was open, or closes p if it
// is already showing. Opening a panel clears the selection.
func (c *Controller) TogglePanel(p Panel) {
	if p == PanelNone {
		c.panel = PanelNone
		return
	}
	if c.panel == p {
		c.panel = PanelNone
	} else {
		c.panel = p
		c.ClearSelection()
	}
	switch p {
	case PanelInventory:
		c.notes.Post("Inventory toggled")
	case PanelShop:
		c.notes.Post("Shop toggled")
	case PanelInfo:
		c.notes.Post("Info toggled")
	}
}

// SelectSeed arms seed placement if the inventory holds at least one.
func (c *Controller) SelectSeed(tag SeedTag) bool {
	if c.econ.Inventory.SeedCount(tag) == 0 {
		c.notes.Post(fmt.Sprintf("No %s seeds in inventory", tag))
		return false
	}
	c.selection = Selection{Kind: SelectSeed, Tag: string(tag)}
	c.panel = PanelNone
	c.notes.Post(fmt.Sprintf("Selected seed '%s' for planting", tag))
	return true
}

func (c *Controller) SelectBuilding(tag BuildingTag) bool {
	if c.econ.Inventory.BuildingCount(tag) == 0 {
		c.notes.Post(fmt.Sprintf("No %s in inventory", tag))
		return false
	}
	c.selection = Selection{Kind: SelectBuilding, Tag: string(tag)}
	c.panel = PanelNone
	c.notes.Post(fmt.Sprintf("Selected building '%s' for placement", tag))
	return true
}

func (c *Controller) BuySeed(tag SeedTag) bool {
	price, ok := c.shop.BuySeed(c.econ, tag)
	if !ok {
		c.notes.Post(c.buyFailure(price))
		return false
	}
	c.notes.Post(fmt.Sprintf("Bought seed %s for $%d", tag, price))
	return true
}

func (c *Controller) BuyBuilding(tag BuildingTag) bool {
	price, ok := c.shop.BuyBuilding(c.econ, tag)
	if !ok {
		c.notes.Post(c.buyFailure(price))
		return false
	}
	c.notes.Post(fmt.Sprintf("Bought building %s for $%d", tag, price))
	return true
}

func (c *Controller) buyFailure(price int) string {
	if price == 0 {
		return "The shop doesn't sell that"
	}
	return "Not enough money!"
}

// Click applies the mode action to the tile at p, then attempts any pending
// placement. A rejected placement keeps the selection armed.
func (c *Controller) Click(p Pos) {
	tile := c.grid.At(p)
	if tile == nil {
		return
	}

	switch c.mode {
	case ModePlow:
		switch {
		case tile.HasBuilding():
			c.notes.Post("Can't plow under a building!")
		case tile.Plow():
			c.notes.Post("Plowed soil!")
		}
	case ModeWater:
		if tile.Water(c.rules) {
			c.notes.Post("Watered soil!")
		} else {
			c.notes.Post("Can't water non-farmed soil!")
		}
	}

	if !c.selection.Active() {
		return
	}
	switch c.selection.Kind {
	case SelectSeed:
		c.plantAt(tile, SeedTag(c.selection.Tag))
	case SelectBuilding:
		c.buildAt(tile, BuildingTag(c.selection.Tag))
	}
}

func (c *Controller) plantAt(tile *Tile, seed SeedTag) {
	if reason := c.seedRejection(tile); reason != "" {
		c.notes.Post(reason)
		return
	}
	if !c.econ.Inventory.UseSeed(seed) {
		c.notes.Post("No seeds left!")
		return
	}
	tile.Plant(seed)
	c.notes.Post(fmt.Sprintf("Planted seed: %s", seed))
	c.ClearSelection()
}

func (c *Controller) buildAt(tile *Tile, b BuildingTag) {
	if reason := buildingRejection(tile); reason != "" {
		c.notes.Post(reason)
		return
	}
	if !c.econ.Inventory.UseBuilding(b) {
		c.notes.Post("No buildings left!")
		return
	}
	tile.PlaceBuilding(b)
	c.notes.Post(fmt.Sprintf("Placed building: %s", b))
	c.ClearSelection()
}

func (c *Controller) seedRejection(tile *Tile) string {
	switch {
	case tile.HasBuilding():
		return "Can't plant on a building!"
	case !tile.Farmed:
		return "Soil must be farmed to plant!"
	case tile.Humidity < c.rules.PlantMinHumidity:
		return "Soil moisture too low to plant!"
	case tile.HasPlant():
		return "Soil already has a plant!"
	}
	return ""
}

func buildingRejection(tile *Tile) string {
	switch {
	case tile.Farmed:
		return "Can't build on farmed soil!"
	case tile.HasBuilding():
		return "Building already exists!"
	}
	return ""
}

// Preview reports whether the pending selection could be placed on p as
// the tile stands now, before any mode action.
func (c *Controller) Preview(p Pos) PreviewState {
	tile := c.grid.At(p)
	if tile == nil || !c.selection.Active() {
		return PreviewNone
	}
	var reason string
	switch c.selection.Kind {
	case SelectSeed:
		reason = c.seedRejection(tile)
	case SelectBuilding:
		reason = buildingRejection(tile)
	}
	if reason != "" {
		return PreviewInvalid
	}
	return PreviewValid
}
