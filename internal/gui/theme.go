package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/agrodm/internal/farm"
	uitheme "github.com/appengine-ltd/agrodm/internal/ui/theme"
)

const (
	spaceXS = uitheme.PaddingXS
	spaceS  = uitheme.PaddingS
	spaceM  = uitheme.PaddingM
)

var (
	colorBG     = uitheme.BG
	colorText   = uitheme.TextPrimary
	colorDim    = uitheme.TextSecondary
	colorMuted  = uitheme.TextMuted
	colorAccent = uitheme.AccentHarvest
	colorWarn   = uitheme.Warning
	colorDanger = uitheme.Danger
)

// tileColor picks the fill for a classified tile.
func tileColor(l farm.Look) rl.Color {
	switch l.Kind {
	case farm.LookBuilding:
		return uitheme.BuildingColor(string(l.Building))
	case farm.LookWithered:
		return uitheme.Withered
	case farm.LookPlant:
		base := uitheme.Sprout
		switch l.Stage {
		case 1:
			base = uitheme.Growing
		case 2:
			base = uitheme.Ripe
		}
		return uitheme.Shade(base, l.Brightness)
	case farm.LookDryDirt:
		return uitheme.DryDirt
	case farm.LookDirt:
		return uitheme.Dirt
	default:
		return uitheme.Grass
	}
}

func previewColor(p farm.PreviewState) rl.Color {
	switch p {
	case farm.PreviewValid:
		return uitheme.HoverValid
	case farm.PreviewInvalid:
		return uitheme.HoverBad
	default:
		return uitheme.HoverPlain
	}
}

func buttonState(active, hovered bool) uitheme.ButtonState {
	switch {
	case active:
		return uitheme.ButtonSelected
	case hovered:
		return uitheme.ButtonHovered
	default:
		return uitheme.ButtonNormal
	}
}

func drawDialogPanel(rect rl.Rectangle, title string) rl.Rectangle {
	return uitheme.DrawTitledPanel(rect, title)
}
