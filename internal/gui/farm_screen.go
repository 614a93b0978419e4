package gui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/agrodm/internal/farm"
	uitheme "github.com/appengine-ltd/agrodm/internal/ui/theme"
)

func (ui *gameUI) updateFarm(delta time.Duration) {
	f := ui.farm
	for {
		intent, ok := ui.clicked.Dequeue()
		if !ok {
			break
		}
		ui.console.Choose(intent)
	}

	if ui.consoleOpen {
		ui.updateConsole()
	} else if hotkeysEnabled(ui) {
		ui.updateFarmHotkeys()
	}
	if ui.quit {
		return
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		ui.handleFarmClick(rl.GetMousePosition())
	}
	f.Tick(delta.Seconds())
}

func (ui *gameUI) updateFarmHotkeys() {
	f := ui.farm
	switch {
	case rl.IsKeyPressed(rl.KeySlash):
		ui.consoleOpen = true
		ui.consoleInput = ""
		drainTyped()
	case rl.IsKeyPressed(rl.KeyS):
		_ = f.Save(ui.cfg.SavePath)
	case rl.IsKeyPressed(rl.KeyL):
		_ = f.Load(ui.cfg.SavePath)
	case rl.IsKeyPressed(rl.KeyEscape):
		if f.Control.Panel() != farm.PanelNone {
			f.Control.TogglePanel(farm.PanelNone)
			return
		}
		ui.quit = true
	}
}

// handleFarmClick routes a click to the toolbar, the open panel or the
// console options before falling through to the field.
func (ui *gameUI) handleFarmClick(pt rl.Vector2) {
	f := ui.farm
	layout := farmLayout(ui.width, ui.height)

	if b, ok := hitButton(toolbarButtons(layout.TopBar), pt); ok {
		applyToolbar(f.Control, b.Action)
		return
	}
	if ui.consoleOpen && rl.CheckCollisionPointRec(pt, layout.Console) {
		if q := ui.console.Pending(); q != nil {
			for i, r := range clarifyRows(layout.Console, len(q.Options)) {
				if rl.CheckCollisionPointRec(pt, r) {
					ui.clicked.Enqueue(q.Options[i])
					break
				}
			}
		}
		return
	}
	if f.Control.Panel() != farm.PanelNone && rl.CheckCollisionPointRec(pt, layout.Panel) {
		ui.handlePanelClick(layout.Panel, pt)
		return
	}

	grid, ok := fieldLayout(layout.Field, f.Grid.Cols, f.Grid.Rows)
	if !ok {
		return
	}
	if pos, ok := grid.CellAt(pt.X, pt.Y); ok {
		f.Control.Click(pos)
	}
}

func applyToolbar(c *farm.Controller, a toolbarAction) {
	switch a {
	case actionInventory:
		c.TogglePanel(farm.PanelInventory)
	case actionShop:
		c.TogglePanel(farm.PanelShop)
	case actionInfo:
		c.TogglePanel(farm.PanelInfo)
	case actionCursor:
		c.SetMode(farm.ModeCursor)
	case actionPlow:
		c.SetMode(farm.ModePlow)
	case actionWater:
		c.SetMode(farm.ModeWater)
	}
}

func (ui *gameUI) handlePanelClick(rect rl.Rectangle, pt rl.Vector2) {
	f := ui.farm
	content := panelContent(rect)
	switch f.Control.Panel() {
	case farm.PanelShop:
		if row, ok := rowAt(shopRows(content, f.Shop), pt); ok {
			if row.Kind == farm.SelectSeed {
				f.Control.BuySeed(farm.SeedTag(row.Tag))
			} else {
				f.Control.BuyBuilding(farm.BuildingTag(row.Tag))
			}
		}
	case farm.PanelInventory:
		if row, ok := rowAt(inventoryRows(content, f.Economy.Inventory), pt); ok {
			if row.Kind == farm.SelectSeed {
				f.Control.SelectSeed(farm.SeedTag(row.Tag))
			} else {
				f.Control.SelectBuilding(farm.BuildingTag(row.Tag))
			}
		}
	}
}

// panelContent matches the content area DrawTitledPanel leaves below its
// header.
func panelContent(rect rl.Rectangle) rl.Rectangle {
	top := rect.Y + uitheme.PaddingS + float32(typeScale.Header) + 10 + uitheme.PaddingS
	return rl.NewRectangle(rect.X+uitheme.PaddingM, top, rect.Width-uitheme.PaddingM*2, rect.Y+rect.Height-top-uitheme.PaddingS)
}

func (ui *gameUI) drawFarm() {
	f := ui.farm
	layout := farmLayout(ui.width, ui.height)

	ui.drawField(layout.Field)
	ui.drawTopBar(layout.TopBar)
	ui.drawStatusBar(layout.Status)

	switch f.Control.Panel() {
	case farm.PanelShop:
		ui.drawShopPanel(layout.Panel)
	case farm.PanelInventory:
		ui.drawInventoryPanel(layout.Panel)
	case farm.PanelInfo:
		ui.drawInfoPanel(layout.Panel)
	}
	if ui.consoleOpen {
		ui.drawConsole(layout.Console)
	}
}

func (ui *gameUI) drawField(area rl.Rectangle) {
	f := ui.farm
	grid, ok := fieldLayout(area, f.Grid.Cols, f.Grid.Rows)
	if !ok {
		return
	}
	rules := f.Catalog.Rules
	for _, t := range f.Grid.Tiles() {
		x, y, w, h := grid.CellRect(t.Pos)
		rect := rl.NewRectangle(x, y, w, h)
		look := farm.Appearance(t, rules)
		rl.DrawRectangleRec(rect, tileColor(look))
		rl.DrawRectangleLinesEx(rect, 1, uitheme.GridLine)
		switch look.Kind {
		case farm.LookPlant:
			radius := w * (0.15 + 0.1*float32(look.Stage))
			rl.DrawCircle(int32(x+w/2), int32(y+h/2), radius, uitheme.Shade(uitheme.Growing, look.Brightness*0.7))
		case farm.LookBuilding:
			label := string(look.Building)[:1]
			lw := measureText(label, typeScale.Body)
			drawText(label, int32(x+(w-float32(lw))/2), int32(y+(h-float32(typeScale.Body))/2), typeScale.Body, colorBG)
		}
	}

	m := rl.GetMousePosition()
	if pos, ok := grid.CellAt(m.X, m.Y); ok && !ui.pointerOverOverlay(m) {
		x, y, w, h := grid.CellRect(pos)
		rl.DrawRectangleLinesEx(rl.NewRectangle(x, y, w, h), 2, previewColor(f.Control.Preview(pos)))
	}
}

// pointerOverOverlay reports whether m is over an open panel or console.
func (ui *gameUI) pointerOverOverlay(m rl.Vector2) bool {
	layout := farmLayout(ui.width, ui.height)
	if ui.consoleOpen && rl.CheckCollisionPointRec(m, layout.Console) {
		return true
	}
	return ui.farm.Control.Panel() != farm.PanelNone && rl.CheckCollisionPointRec(m, layout.Panel)
}

func (ui *gameUI) drawTopBar(bar rl.Rectangle) {
	f := ui.farm
	rl.DrawRectangleRec(bar, uitheme.Panel)
	m := rl.GetMousePosition()
	for _, b := range toolbarButtons(bar) {
		state := buttonState(buttonActive(b.Action, f.Control), rl.CheckCollisionPointRec(m, b.Rect))
		uitheme.DrawButton(b.Rect, state, b.Label)
	}

	ledger := f.Economy.Ledger
	hud := fmt.Sprintf("Day %d   $%d   Energy %d", f.Day(), ledger.Balance(farm.CurrencyMoney), ledger.Balance(farm.CurrencyEnergy))
	hw := measureText(hud, typeScale.Body)
	drawText(hud, int32(bar.X+bar.Width-spaceM)-hw, int32(bar.Y+(bar.Height-float32(typeScale.Body))/2), typeScale.Body, colorText)
}

func (ui *gameUI) drawStatusBar(bar rl.Rectangle) {
	f := ui.farm
	rl.DrawRectangleRec(bar, uitheme.Panel)
	y := int32(bar.Y + (bar.Height-float32(typeScale.Body))/2)

	left := fmt.Sprintf("Mode: %s", f.Control.Mode())
	if sel := f.Control.Selection(); sel.Active() {
		left += "   Placing: " + sel.Tag
	}
	drawText(left, int32(bar.X+spaceM), y, typeScale.Body, colorDim)

	msg, ok := f.Notes.Current()
	clr := colorAccent
	if !ok {
		msg = "S save   L load   / console   Esc quit"
		clr = colorMuted
	}
	mw := measureText(msg, typeScale.Body)
	drawText(msg, int32(bar.X+bar.Width-spaceM)-mw, y, typeScale.Body, clr)
}

func (ui *gameUI) drawShopPanel(rect rl.Rectangle) {
	f := ui.farm
	content := drawDialogPanel(rect, "Shop")
	rows := shopRows(content, f.Shop)
	money := f.Economy.Ledger.Balance(farm.CurrencyMoney)
	ui.drawPanelRows(rows, func(r panelRow) uitheme.ListItemState {
		if r.Price > money {
			return uitheme.ListItemDisabled
		}
		return uitheme.ListItemNormal
	})
	uitheme.DrawHintText("Click an item to buy it", int32(content.X), int32(content.Y+content.Height)-typeScale.Small)
}

func (ui *gameUI) drawInventoryPanel(rect rl.Rectangle) {
	f := ui.farm
	content := drawDialogPanel(rect, "Inventory")
	if f.Economy.Inventory.Empty() {
		drawText("Nothing yet. Visit the shop.", int32(content.X), int32(content.Y), typeScale.Body, colorMuted)
		return
	}
	sel := f.Control.Selection()
	ui.drawPanelRows(inventoryRows(content, f.Economy.Inventory), func(r panelRow) uitheme.ListItemState {
		if sel.Active() && sel.Kind == r.Kind && sel.Tag == r.Tag {
			return uitheme.ListItemSelected
		}
		return uitheme.ListItemNormal
	})
	uitheme.DrawHintText("Click an item to place it", int32(content.X), int32(content.Y+content.Height)-typeScale.Small)
}

func (ui *gameUI) drawPanelRows(rows []panelRow, state func(panelRow) uitheme.ListItemState) {
	m := rl.GetMousePosition()
	for _, r := range rows {
		s := state(r)
		if s == uitheme.ListItemNormal && rl.CheckCollisionPointRec(m, r.Rect) {
			s = uitheme.ListItemHovered
		}
		uitheme.DrawListItem(r.Rect, s, r.Left, r.Right)
	}
}

func (ui *gameUI) drawInfoPanel(rect rl.Rectangle) {
	f := ui.farm
	content := drawDialogPanel(rect, "Environment")
	x := int32(content.X)
	y := int32(content.Y)
	line := textLineHeight(typeScale.Body)

	rows := []struct {
		label string
		value string
	}{
		{"Day", fmt.Sprintf("%d (day %d of the year)", f.Day(), farm.DayOfYear(f.Day()))},
		{"Next day in", formatCountdown(f.UntilNextDay())},
		{"Temperature", fmt.Sprintf("%.1f C", f.Env.TemperatureC)},
		{"Humidity", fmt.Sprintf("%.0f%%", f.Env.HumidityPct)},
		{"Soil moisture", fmt.Sprintf("%.0f%%", f.Env.SoilMoisturePct)},
	}
	for _, r := range rows {
		drawText(r.label, x, y, typeScale.Body, colorDim)
		vw := measureText(r.value, typeScale.Body)
		drawText(r.value, int32(content.X+content.Width)-vw, y, typeScale.Body, colorText)
		y += line
	}
	if f.Env.SoilMoisturePct < 30 {
		drawText("Dry soil: water your crops often.", x, y+line/2, typeScale.Small, colorWarn)
	}
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%ds", int(d.Round(time.Second)/time.Second))
}
