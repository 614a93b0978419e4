package gui

import (
	"context"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/agrodm/internal/climate"
	"github.com/appengine-ltd/agrodm/internal/globe"
)

type fetchState struct {
	gen     int
	busy    bool
	coords  globe.Coordinates
	started time.Time
	err     error
	cancel  context.CancelFunc
}

type fetchResult struct {
	gen  int
	data climate.Dataset
	err  error
}

// startFetch downloads the picked location's climate data in the
// background. The result arrives on fetchResultCh and is polled each frame.
func (ui *gameUI) startFetch(c globe.Coordinates) {
	if ui.fetch.busy {
		return
	}
	if ui.cfg.Fetcher == nil {
		ui.startFarm(nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), ui.cfg.FetchTimeout)
	ui.fetchGen++
	gen := ui.fetchGen
	ui.fetch = fetchState{gen: gen, busy: true, coords: c, started: time.Now(), cancel: cancel}
	ui.screen = screenFetch

	fetcher := ui.cfg.Fetcher
	loc := climate.Location{Latitude: c.Latitude, Longitude: c.Longitude}
	go func() {
		defer cancel()
		ds, err := fetcher.Fetch(ctx, loc)
		ui.fetchResultCh <- fetchResult{gen: gen, data: ds, err: err}
	}()
}

func (ui *gameUI) cancelFetch() {
	if ui.fetch.cancel != nil {
		ui.fetch.cancel()
	}
}

func (ui *gameUI) pollFetchResult() {
	select {
	case result := <-ui.fetchResultCh:
		// Results from cancelled fetches are dropped.
		if result.gen != ui.fetch.gen || !ui.fetch.busy {
			return
		}
		ui.fetch.busy = false
		ui.fetch.cancel = nil
		if result.err != nil {
			ui.fetch.err = result.err
			ui.log.Warn("climate fetch failed", "location", ui.fetch.coords.String(), "error", result.err)
			return
		}
		ui.log.Info("climate fetched", "location", ui.fetch.coords.String(), "records", len(result.data),
			"took", time.Since(ui.fetch.started).Round(time.Millisecond))
		if err := climate.WriteJSON(ui.cfg.EnvironmentPath, result.data); err != nil {
			ui.log.Warn("export environment data failed", "path", ui.cfg.EnvironmentPath, "error", err)
		}
		ui.startFarm(result.data)
	default:
	}
}

func (ui *gameUI) updateFetch() {
	if ui.fetch.busy {
		if rl.IsKeyPressed(rl.KeyEscape) {
			ui.cancelFetch()
			ui.fetch = fetchState{}
			_ = ui.enterGlobe()
		}
		return
	}
	switch {
	case rl.IsKeyPressed(rl.KeyEnter):
		ui.startFarm(nil)
	case rl.IsKeyPressed(rl.KeyR):
		c := ui.fetch.coords
		ui.fetch = fetchState{}
		ui.startFetch(c)
	case rl.IsKeyPressed(rl.KeyEscape):
		ui.fetch = fetchState{}
		_ = ui.enterGlobe()
	}
}

func (ui *gameUI) drawFetch() {
	rect := rl.NewRectangle(float32(ui.width)/2-280, float32(ui.height)/2-90, 560, 180)
	content := drawDialogPanel(rect, "Climate data")
	x := int32(content.X)
	y := int32(content.Y)
	line := textLineHeight(typeScale.Body)

	drawText(ui.fetch.coords.String(), x, y, typeScale.Body, colorAccent)
	y += line
	if ui.fetch.busy {
		dots := strings.Repeat(".", int(time.Since(ui.fetch.started)/(400*time.Millisecond))%4)
		drawText("Fetching a year of daily records"+dots, x, y, typeScale.Body, colorText)
		drawText("Esc cancels", x, int32(content.Y+content.Height)-typeScale.Small, typeScale.Small, colorMuted)
		return
	}
	if ui.fetch.err != nil {
		for _, l := range wrapText(describeFetchError(ui.fetch.err), typeScale.Body, int32(content.Width), measureText) {
			drawText(l, x, y, typeScale.Body, colorDanger)
			y += line
		}
		drawText("R retries, Enter farms without data, Esc returns to the globe", x, int32(content.Y+content.Height)-typeScale.Small, typeScale.Small, colorMuted)
	}
}
