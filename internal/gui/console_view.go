package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/agrodm/internal/parser"
	uitheme "github.com/appengine-ltd/agrodm/internal/ui/theme"
)

const (
	consoleInputLimit = 96
	consoleInputH     = float32(26)
	clarifyRowH       = float32(22)
)

func (ui *gameUI) updateConsole() {
	switch {
	case rl.IsKeyPressed(rl.KeyEscape):
		ui.consoleOpen = false
		ui.consoleInput = ""
		return
	case rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter):
		if ui.consoleInput != "" {
			ui.console.Submit(ui.consoleInput)
			ui.consoleInput = ""
		}
		return
	case rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace):
		ui.consoleInput = backspace(ui.consoleInput)
	}
	ui.consoleInput = readTyped(ui.consoleInput, consoleInputLimit)
}

// clarifyRows lays out one clickable row per pending option, stacked above
// the input field.
func clarifyRows(rect rl.Rectangle, n int) []rl.Rectangle {
	out := make([]rl.Rectangle, n)
	bottom := rect.Y + rect.Height - spaceS - consoleInputH - spaceXS
	for i := n - 1; i >= 0; i-- {
		bottom -= clarifyRowH
		out[i] = rl.NewRectangle(rect.X+spaceS, bottom, rect.Width-spaceS*2, clarifyRowH)
		bottom -= 2
	}
	return out
}

func (ui *gameUI) drawConsole(rect rl.Rectangle) {
	uitheme.DrawPanel(rect, uitheme.PanelLifted)
	q := ui.console.Pending()

	logBottom := rect.Y + rect.Height - spaceS - consoleInputH - spaceXS
	var options []rl.Rectangle
	if q != nil {
		options = clarifyRows(rect, len(q.Options))
		if len(options) > 0 {
			logBottom = options[0].Y - spaceXS
		}
	}

	lineH := textLineHeight(typeScale.Log)
	maxWidth := int32(rect.Width - spaceS*2)
	y := int32(logBottom) - lineH
	log := ui.console.Log()
	for i := len(log) - 1; i >= 0 && y >= int32(rect.Y+spaceS); i-- {
		lines := wrapText(log[i], typeScale.Log, maxWidth, measureText)
		for j := len(lines) - 1; j >= 0 && y >= int32(rect.Y+spaceS); j-- {
			clr := colorText
			if len(log[i]) > 0 && log[i][0] == '>' {
				clr = colorDim
			}
			drawText(lines[j], int32(rect.X+spaceS), y, typeScale.Log, clr)
			y -= lineH
		}
	}

	if q != nil {
		m := rl.GetMousePosition()
		for i, r := range options {
			state := uitheme.ListItemNormal
			if rl.CheckCollisionPointRec(m, r) {
				state = uitheme.ListItemHovered
			}
			uitheme.DrawListItem(r, state, fmt.Sprintf("%d) %s", i+1, parser.IntentToCommandString(q.Options[i])), "")
		}
	}

	input := rl.NewRectangle(rect.X+spaceS, rect.Y+rect.Height-spaceS-consoleInputH, rect.Width-spaceS*2, consoleInputH)
	uitheme.DrawInput(input, ui.consoleInput, "Type a command, e.g. buy 3 wheat", true)
}
