package theme

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	PaddingXS = float32(4)
	PaddingS  = float32(8)
	PaddingM  = float32(12)
	PaddingL  = float32(18)

	CornerRadius   = float32(0.12)
	CornerSegments = int32(6)

	BorderWidth      = float32(1.2)
	BorderWidthFocus = float32(2.0)
	RowHeight        = float32(28)
	ButtonHeight     = float32(26)
	AccentStripWidth = float32(3)
)

type PanelVariant int

const (
	PanelStandard PanelVariant = iota
	PanelLifted
	PanelMuted
)

type ButtonState int

const (
	ButtonNormal ButtonState = iota
	ButtonSelected
	ButtonHovered
	ButtonDisabled
)

type ListItemState int

const (
	ListItemNormal ListItemState = iota
	ListItemSelected
	ListItemHovered
	ListItemDisabled
)

func DrawPanel(rect rl.Rectangle, variant PanelVariant) {
	fill := Panel
	stroke := Border
	strokeWidth := BorderWidth

	switch variant {
	case PanelLifted:
		fill = PanelRaised
		stroke = mix(Border, AccentLeaf, 0.4)
		strokeWidth = 1.4
	case PanelMuted:
		fill = DisabledPanel
		stroke = rl.Fade(Border, 0.75)
	}

	rl.DrawRectangleRounded(rect, CornerRadius, CornerSegments, fill)
	rl.DrawRectangleRoundedLinesEx(rect, CornerRadius, CornerSegments, strokeWidth, stroke)
}

// DrawTitledPanel draws a panel with a header and divider and returns the
// content area below them.
func DrawTitledPanel(rect rl.Rectangle, title string) rl.Rectangle {
	DrawPanel(rect, PanelLifted)
	if title == "" {
		return inset(rect, PaddingM)
	}
	DrawHeader(title, int32(rect.X+PaddingM), int32(rect.Y+PaddingS))
	dividerY := rect.Y + PaddingS + float32(Type.Header) + 10
	DrawDivider(rect.X+PaddingM, dividerY, rect.X+rect.Width-PaddingM, dividerY)
	content := rl.NewRectangle(rect.X+PaddingM, dividerY+PaddingS, rect.Width-PaddingM*2, rect.Y+rect.Height-dividerY-PaddingS*2)
	if content.Height < 0 {
		content.Height = 0
	}
	return content
}

func DrawButton(rect rl.Rectangle, state ButtonState, text string) {
	fill := Panel
	stroke := Border
	label := TextPrimary
	strokeWidth := BorderWidth

	switch state {
	case ButtonSelected:
		fill = PanelRaised
		stroke = AccentHarvest
		strokeWidth = BorderWidthFocus
	case ButtonHovered:
		fill = PanelRaised
		stroke = AccentLeaf
	case ButtonDisabled:
		fill = DisabledPanel
		stroke = rl.Fade(Border, 0.75)
		label = DisabledText
	}

	rl.DrawRectangleRounded(rect, CornerRadius, CornerSegments, fill)
	rl.DrawRectangleRoundedLinesEx(rect, CornerRadius, CornerSegments, strokeWidth, stroke)

	if text == "" {
		return
	}
	size := Type.Body
	labelW := measureText(text, size)
	textX := int32(rect.X + (rect.Width-float32(labelW))/2)
	textY := int32(rect.Y + (rect.Height-float32(size))/2)
	drawText(text, textX, textY, size, label)
}

func DrawListItem(rect rl.Rectangle, state ListItemState, leftText, rightText string) {
	fill := rl.Fade(PanelRaised, 0.5)
	stroke := rl.Fade(Border, 0.9)
	left := TextPrimary
	right := TextSecondary
	strokeWidth := BorderWidth
	drawStrip := false

	switch state {
	case ListItemSelected:
		fill = PanelRaised
		stroke = AccentHarvest
		strokeWidth = BorderWidthFocus
		drawStrip = true
		right = AccentHarvest
	case ListItemHovered:
		fill = PanelRaised
		stroke = AccentLeaf
	case ListItemDisabled:
		fill = DisabledPanel
		stroke = rl.Fade(Border, 0.75)
		left = DisabledText
		right = DisabledText
	}

	rl.DrawRectangleRounded(rect, CornerRadius, CornerSegments, fill)
	rl.DrawRectangleRoundedLinesEx(rect, CornerRadius, CornerSegments, strokeWidth, stroke)

	if drawStrip {
		strip := rl.NewRectangle(rect.X+1, rect.Y+2, AccentStripWidth, rect.Height-4)
		if strip.Height > 0 {
			rl.DrawRectangleRec(strip, AccentHarvest)
		}
	}

	textY := int32(rect.Y + (rect.Height-float32(Type.Body))/2)
	if leftText != "" {
		drawText(leftText, int32(rect.X+PaddingM), textY, Type.Body, left)
	}
	if rightText != "" {
		rightW := measureText(rightText, Type.Body)
		rightX := int32(rect.X + rect.Width - PaddingM - float32(rightW))
		drawText(rightText, rightX, textY, Type.Body, right)
	}
}

// DrawInput renders a single-line text field. The placeholder shows while
// text is empty and the field is not focused.
func DrawInput(rect rl.Rectangle, text, placeholder string, focused bool) {
	stroke := Border
	if focused {
		stroke = AccentHarvest
	}
	rl.DrawRectangleRounded(rect, CornerRadius, CornerSegments, rl.Fade(BG, 0.92))
	rl.DrawRectangleRoundedLinesEx(rect, CornerRadius, CornerSegments, BorderWidth, stroke)

	x := int32(rect.X + PaddingS)
	y := int32(rect.Y + (rect.Height-float32(Type.Body))/2)
	switch {
	case text == "" && !focused:
		drawText(placeholder, x, y, Type.Body, TextMuted)
	case focused:
		drawText(text+"_", x, y, Type.Body, TextPrimary)
	default:
		drawText(text, x, y, Type.Body, TextPrimary)
	}
}

func DrawHeader(text string, x, y int32) {
	if text == "" {
		return
	}
	drawText(text, x, y, Type.Header, TextPrimary)
	w := measureText(text, Type.Header)
	lineW := int32(float32(w) * 0.6)
	if lineW < 36 {
		lineW = 36
	}
	drawLine(float32(x), float32(y+Type.Header+4), float32(x+lineW), float32(y+Type.Header+4), 2.0, AccentHarvest)
}

func DrawDivider(x1, y1, x2, y2 float32) {
	drawLine(x1, y1, x2, y2, 1.0, rl.Fade(Divider, 0.95))
}

func DrawHintText(text string, x, y int32) {
	if text == "" {
		return
	}
	drawText(text, x, y, Type.Small, TextMuted)
}

func drawLine(x1, y1, x2, y2, thickness float32, clr rl.Color) {
	rl.DrawLineEx(rl.NewVector2(x1, y1), rl.NewVector2(x2, y2), thickness, clr)
}

func inset(r rl.Rectangle, by float32) rl.Rectangle {
	return rl.NewRectangle(r.X+by, r.Y+by, r.Width-by*2, r.Height-by*2)
}

func mix(a, b rl.Color, t float32) rl.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	inv := 1.0 - t
	return rl.NewColor(
		uint8(float32(a.R)*inv+float32(b.R)*t),
		uint8(float32(a.G)*inv+float32(b.G)*t),
		uint8(float32(a.B)*inv+float32(b.B)*t),
		uint8(float32(a.A)*inv+float32(b.A)*t),
	)
}
