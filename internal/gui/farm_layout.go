package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/agrodm/internal/farm"
	uitheme "github.com/appengine-ltd/agrodm/internal/ui/theme"
)

const (
	windowWidth     = 900
	windowHeight    = 668
	topBarHeight    = 38
	statusBarHeight = 30
	panelWidth      = 300
	consoleHeight   = 220
	buttonWidth     = 84
	buttonGap       = 6
)

type farmScreenLayout struct {
	TopBar  rl.Rectangle
	Field   rl.Rectangle
	Status  rl.Rectangle
	Panel   rl.Rectangle
	Console rl.Rectangle
}

func farmLayout(width, height int32) farmScreenLayout {
	w, h := float32(width), float32(height)
	fieldH := h - topBarHeight - statusBarHeight
	if fieldH < 0 {
		fieldH = 0
	}
	field := rl.NewRectangle(0, topBarHeight, w, fieldH)
	panelH := fieldH - uitheme.PaddingM*2
	if panelH > 420 {
		panelH = 420
	}
	return farmScreenLayout{
		TopBar:  rl.NewRectangle(0, 0, w, topBarHeight),
		Field:   field,
		Status:  rl.NewRectangle(0, h-statusBarHeight, w, statusBarHeight),
		Panel:   rl.NewRectangle(uitheme.PaddingM, field.Y+uitheme.PaddingM, panelWidth, panelH),
		Console: rl.NewRectangle(uitheme.PaddingM, field.Y+field.Height-consoleHeight-uitheme.PaddingS, w-uitheme.PaddingM*2, consoleHeight),
	}
}

// fieldLayout fits a cols x rows grid of square cells centred in area.
func fieldLayout(area rl.Rectangle, cols, rows int) (farm.Layout, bool) {
	if cols < 1 || rows < 1 || area.Width <= 0 || area.Height <= 0 {
		return farm.Layout{}, false
	}
	cell := area.Width / float32(cols)
	if byH := area.Height / float32(rows); byH < cell {
		cell = byH
	}
	if cell < 1 {
		return farm.Layout{}, false
	}
	gridW := cell * float32(cols)
	gridH := cell * float32(rows)
	return farm.Layout{
		OriginX:  area.X + (area.Width-gridW)/2,
		OriginY:  area.Y + (area.Height-gridH)/2,
		TileSize: cell,
		Cols:     cols,
		Rows:     rows,
	}, true
}

type toolbarAction int

const (
	actionInventory toolbarAction = iota
	actionShop
	actionInfo
	actionCursor
	actionPlow
	actionWater
)

type toolbarButton struct {
	Label  string
	Action toolbarAction
	Rect   rl.Rectangle
}

func toolbarButtons(bar rl.Rectangle) []toolbarButton {
	labels := []struct {
		label  string
		action toolbarAction
	}{
		{"Inventory", actionInventory},
		{"Shop", actionShop},
		{"Info", actionInfo},
		{"Cursor", actionCursor},
		{"Plow", actionPlow},
		{"Water", actionWater},
	}
	y := bar.Y + (bar.Height-uitheme.ButtonHeight)/2
	x := bar.X + uitheme.PaddingS
	out := make([]toolbarButton, 0, len(labels))
	for _, l := range labels {
		out = append(out, toolbarButton{
			Label:  l.label,
			Action: l.action,
			Rect:   rl.NewRectangle(x, y, buttonWidth, uitheme.ButtonHeight),
		})
		x += buttonWidth + buttonGap
	}
	return out
}

func hitButton(buttons []toolbarButton, pt rl.Vector2) (toolbarButton, bool) {
	for _, b := range buttons {
		if rl.CheckCollisionPointRec(pt, b.Rect) {
			return b, true
		}
	}
	return toolbarButton{}, false
}

// buttonActive reports whether a toolbar button reflects the current
// controller state.
func buttonActive(a toolbarAction, c *farm.Controller) bool {
	switch a {
	case actionInventory:
		return c.Panel() == farm.PanelInventory
	case actionShop:
		return c.Panel() == farm.PanelShop
	case actionInfo:
		return c.Panel() == farm.PanelInfo
	case actionCursor:
		return c.Mode() == farm.ModeCursor
	case actionPlow:
		return c.Mode() == farm.ModePlow
	case actionWater:
		return c.Mode() == farm.ModeWater
	}
	return false
}

type panelRow struct {
	Kind  farm.SelectionKind
	Tag   string
	Price int
	Left  string
	Right string
	Rect  rl.Rectangle
}

func shopRows(content rl.Rectangle, shop *farm.Shop) []panelRow {
	var rows []panelRow
	add := func(kind farm.SelectionKind, entries []farm.PriceEntry) {
		for _, e := range entries {
			rows = append(rows, panelRow{Kind: kind, Tag: e.Tag, Price: e.Price, Left: e.Tag, Right: fmt.Sprintf("$%d", e.Price)})
		}
	}
	add(farm.SelectBuilding, shop.BuildingPrices())
	add(farm.SelectSeed, shop.SeedPrices())
	return placeRows(content, rows)
}

func inventoryRows(content rl.Rectangle, inv *farm.Inventory) []panelRow {
	var rows []panelRow
	for _, s := range inv.Seeds() {
		rows = append(rows, panelRow{Kind: farm.SelectSeed, Tag: s.Tag, Left: s.Tag + " seeds", Right: fmt.Sprintf("x%d", s.Count)})
	}
	for _, b := range inv.Buildings() {
		rows = append(rows, panelRow{Kind: farm.SelectBuilding, Tag: b.Tag, Left: b.Tag, Right: fmt.Sprintf("x%d", b.Count)})
	}
	return placeRows(content, rows)
}

// placeRows stacks rows top-down in content, dropping any that no longer
// fit.
func placeRows(content rl.Rectangle, rows []panelRow) []panelRow {
	y := content.Y
	out := rows[:0]
	for _, r := range rows {
		if y+uitheme.RowHeight > content.Y+content.Height {
			break
		}
		r.Rect = rl.NewRectangle(content.X, y, content.Width, uitheme.RowHeight)
		out = append(out, r)
		y += uitheme.RowHeight + uitheme.PaddingXS
	}
	return out
}

func rowAt(rows []panelRow, pt rl.Vector2) (panelRow, bool) {
	for _, r := range rows {
		if rl.CheckCollisionPointRec(pt, r.Rect) {
			return r, true
		}
	}
	return panelRow{}, false
}
