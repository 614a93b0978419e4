// Package gui is the raylib desktop client: a globe for picking a farm
// location, a progress screen while its climate data downloads, and the
// farm itself.
package gui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/appengine-ltd/agrodm/internal/climate"
	"github.com/appengine-ltd/agrodm/internal/console"
	"github.com/appengine-ltd/agrodm/internal/farm"
	"github.com/appengine-ltd/agrodm/internal/globe"
)

type Config struct {
	Version         string
	SkipGlobe       bool
	SavePath        string
	EnvironmentPath string
	EarthTexture    string
	Fetcher         climate.Fetcher
	FetchTimeout    time.Duration
	Farm            farm.Options
	Logger          *slog.Logger
}

type App struct {
	cfg Config
}

func NewApp(cfg Config) *App {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 20 * time.Second
	}
	if cfg.EarthTexture == "" {
		cfg.EarthTexture = defaultEarthTexture
	}
	return &App{cfg: cfg}
}

type screen int

const (
	screenGlobe screen = iota
	screenFetch
	screenFarm
)

type gameUI struct {
	cfg Config
	log *slog.Logger

	width  int32
	height int32
	quit   bool
	screen screen

	globe globeState
	fetch fetchState

	farm         *farm.Farm
	console      *console.Console
	consoleOpen  bool
	consoleInput string
	clicked      *intentQueue

	fetchResultCh chan fetchResult
	fetchGen      int
	lastTick      time.Time
}

func (a *App) Run() error {
	ui := newGameUI(a.cfg)
	return ui.Run()
}

func newGameUI(cfg Config) *gameUI {
	return &gameUI{
		cfg:           cfg,
		log:           cfg.Logger,
		width:         windowWidth,
		height:        windowHeight,
		screen:        screenGlobe,
		clicked:       newIntentQueue(8),
		fetchResultCh: make(chan fetchResult, 4),
	}
}

func (ui *gameUI) Run() error {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(ui.width, ui.height, "AgroDM")
	rl.SetExitKey(0)
	rl.SetTargetFPS(60)
	initTypography()

	if ui.cfg.SkipGlobe {
		ui.startFarm(ui.loadEnvironmentFile())
	} else if err := ui.enterGlobe(); err != nil {
		shutdownTypography()
		rl.CloseWindow()
		return err
	}

	ui.lastTick = time.Now()
	for !ui.quit && !rl.WindowShouldClose() {
		now := time.Now()
		delta := now.Sub(ui.lastTick)
		if delta < 0 {
			delta = 0
		}
		ui.lastTick = now

		ui.width = int32(rl.GetScreenWidth())
		ui.height = int32(rl.GetScreenHeight())

		ui.update(delta)

		rl.BeginDrawing()
		rl.ClearBackground(colorBG)
		ui.draw()
		rl.EndDrawing()
	}

	ui.cancelFetch()
	ui.unloadGlobe()
	shutdownTypography()
	rl.CloseWindow()
	return nil
}

func (ui *gameUI) update(delta time.Duration) {
	ui.pollFetchResult()

	switch ui.screen {
	case screenGlobe:
		ui.updateGlobe()
	case screenFetch:
		ui.updateFetch()
	case screenFarm:
		ui.updateFarm(delta)
	}
}

func (ui *gameUI) draw() {
	switch ui.screen {
	case screenGlobe:
		ui.drawGlobe()
	case screenFetch:
		ui.drawFetch()
	case screenFarm:
		ui.drawFarm()
	}
}

// startFarm begins a new session, attaching src when it is non-nil.
func (ui *gameUI) startFarm(src farm.EnvironmentSource) {
	ui.unloadGlobe()
	opts := ui.cfg.Farm
	opts.Logger = ui.log
	opts.Source = src
	ui.farm = farm.New(opts)
	if ui.console == nil {
		ui.console = console.New(ui.farm, ui.cfg.SavePath)
	} else {
		ui.console.SetFarm(ui.farm)
	}
	ui.screen = screenFarm
	ui.log.Info("farm started", "session", ui.farm.SessionID, "environment", src != nil)
}

// loadEnvironmentFile reads the last exported dataset. A missing or broken
// file starts the farm without climate data.
func (ui *gameUI) loadEnvironmentFile() farm.EnvironmentSource {
	ds, err := climate.ReadJSON(ui.cfg.EnvironmentPath)
	if err != nil {
		ui.log.Warn("environment file unavailable", "path", ui.cfg.EnvironmentPath, "error", err)
		return nil
	}
	return ds
}

func describeFetchError(err error) string {
	switch {
	case errors.Is(err, climate.ErrStatus):
		return "The climate service rejected the request."
	case errors.Is(err, climate.ErrNoHeader):
		return "The climate service sent an unexpected response."
	default:
		return fmt.Sprintf("Fetch failed: %v", err)
	}
}

// pointerPosition returns the mouse position to test against a globe pick
// target sized to the framebuffer.
func pointerPosition(fbW, fbH int32) (int, int) {
	m := rl.GetMousePosition()
	return globe.ScalePointer(float64(m.X), float64(m.Y), rl.GetScreenWidth(), rl.GetScreenHeight(), int(fbW), int(fbH))
}
