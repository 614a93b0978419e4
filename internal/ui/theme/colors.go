package theme

import rl "github.com/gen2brain/raylib-go/raylib"

// Interface palette.
var (
	BG            = rl.NewColor(0x1B, 0x22, 0x1A, 255) // #1B221A
	Panel         = rl.NewColor(0x26, 0x2E, 0x22, 240) // #262E22
	PanelRaised   = rl.NewColor(0x30, 0x3A, 0x2B, 245) // #303A2B
	Border        = rl.NewColor(0x4A, 0x55, 0x3C, 255) // #4A553C
	Divider       = rl.NewColor(0x3A, 0x44, 0x30, 255) // #3A4430
	TextPrimary   = rl.NewColor(0xF2, 0xEC, 0xD9, 255) // #F2ECD9
	TextSecondary = rl.NewColor(0xBF, 0xB8, 0x9E, 255) // #BFB89E
	TextMuted     = rl.NewColor(0x8C, 0x88, 0x74, 255) // #8C8874
	AccentHarvest = rl.NewColor(0xE0, 0xA8, 0x2E, 255) // #E0A82E
	AccentLeaf    = rl.NewColor(0x5C, 0x9E, 0x3F, 255) // #5C9E3F
	Warning       = rl.NewColor(0xD9, 0x8B, 0x2B, 255) // #D98B2B
	Danger        = rl.NewColor(0xC0, 0x4A, 0x36, 255) // #C04A36
	DisabledPanel = rl.NewColor(0x1F, 0x25, 0x1C, 230)
	DisabledText  = TextMuted
)

// Field palette. Plant colours are scaled by tile humidity at draw time.
var (
	Grass      = rl.NewColor(0x3E, 0x8E, 0x41, 255)
	Dirt       = rl.NewColor(0x8B, 0x5A, 0x2B, 255)
	DryDirt    = rl.NewColor(0xC2, 0x9A, 0x6B, 255)
	Withered   = rl.NewColor(0x6B, 0x5B, 0x3E, 255)
	Sprout     = rl.NewColor(0x9A, 0xD1, 0x5E, 255)
	Growing    = rl.NewColor(0x4F, 0xB0, 0x3B, 255)
	Ripe       = rl.NewColor(0xE8, 0xC5, 0x47, 255)
	GridLine   = rl.NewColor(0x00, 0x00, 0x00, 40)
	HoverValid = rl.NewColor(0x6C, 0xE0, 0x6C, 255)
	HoverBad   = rl.NewColor(0xE0, 0x50, 0x50, 255)
	HoverPlain = rl.NewColor(0xFF, 0xFF, 0xFF, 160)
)

// BuildingColors maps known building tags to their tile colour. Unknown
// tags fall back to BuildingDefault.
var (
	BuildingColors = map[string]rl.Color{
		"MoneyFactory":      rl.NewColor(0xD4, 0xAF, 0x37, 255),
		"EnergyFactory":     rl.NewColor(0x3A, 0x7B, 0xD5, 255),
		"FertilizerFactory": rl.NewColor(0x8E, 0x5B, 0xC2, 255),
	}
	BuildingDefault = rl.NewColor(0x70, 0x70, 0x70, 255)
)

func BuildingColor(tag string) rl.Color {
	if c, ok := BuildingColors[tag]; ok {
		return c
	}
	return BuildingDefault
}

// Shade scales the RGB channels of c by f, clamped to 0..1.
func Shade(c rl.Color, f float64) rl.Color {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return rl.NewColor(uint8(float64(c.R)*f), uint8(float64(c.G)*f), uint8(float64(c.B)*f), c.A)
}
