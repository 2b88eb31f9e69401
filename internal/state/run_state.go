// internal/state/run_state.go
package state

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"radar-ppi/internal/app"
	"radar-ppi/internal/config"
	"radar-ppi/internal/display"
	"radar-ppi/internal/event"
	"radar-ppi/internal/log"
	"radar-ppi/internal/ui"
	"radar-ppi/pkg/render"
)

// RunState — индикатор работает: развёртка идёт, ввод обрабатывается
type RunState struct {
	sm      *StateMachine
	radar   *app.Radar
	display *display.Display
	speed   *ui.SpeedButton
	pause   *ui.PauseButton
	gain    *ui.GainIndicator
	lg      *log.Logger

	snapshotDir   string
	lastClickTime time.Time
	info          event.FrameInfo
	status        string // последнее сообщение для HUD
}

// NewRunState lays out the window: a HUD strip on top, the indicator below it.
func NewRunState(sm *StateMachine, r *app.Radar, snapshotDir string, lg *log.Logger) *RunState {
	size := r.Bezel.Size
	g := &RunState{
		sm:          sm,
		radar:       r,
		display:     display.New(r, image.Pt(0, config.HUDHeight)),
		speed:       ui.NewSpeedButton(float32(size-config.SpeedButtonOffsetX), config.SpeedButtonY, config.SpeedButtonSize, config.SpeedButtonColors),
		pause:       ui.NewPauseButton(float32(size-config.PauseButtonOffsetX), config.SpeedButtonY, config.SpeedButtonSize*0.8, config.PauseButtonColor, config.PlayButtonColor),
		gain:        ui.NewGainIndicator(12, 14, config.GainBarWidth, config.GainBarHeight),
		lg:          lg.With("frontend", "window"),
		snapshotDir: snapshotDir,
	}
	g.gain.SetGain(r.World.Sensor.Gain())
	g.pause.SetPaused(r.Paused())

	r.Dispatcher.Subscribe(event.FrameRendered, event.ListenerFunc(func(e event.Event) {
		g.info = e.Data.(event.FrameInfo)
	}))
	r.Dispatcher.Subscribe(event.GainChanged, event.ListenerFunc(func(e event.Event) {
		g.gain.SetGain(e.Data.(float64))
	}))
	r.Dispatcher.Subscribe(event.TimeScaleChanged, event.ListenerFunc(func(event.Event) {
		g.pause.SetPaused(r.Paused())
		g.speed.SetState(r.SpeedIndex())
	}))
	r.Dispatcher.Subscribe(event.SweepRevolution, event.ListenerFunc(func(e event.Event) {
		lg.Debug("sweep revolution", "count", e.Data, "detected", g.info.Detected)
	}))
	return g
}

// ScreenSize is the logical window size.
func (g *RunState) ScreenSize() (int, int) {
	size := g.display.Size()
	return size, size + config.HUDHeight
}

func (g *RunState) Enter() {}

// Update ignores deltaTime: the scheduler keeps its own clock.
func (g *RunState) Update(float64) {
	g.handleInput()
	if g.radar.Paused() {
		g.sm.SetState(NewPauseState(g.sm, g))
		return
	}
	g.radar.Tick()
}

// handleInput processes the controls shared by both states.
func (g *RunState) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.radar.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.radar.CycleSpeed()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.radar.AdjustGain(config.GainStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.radar.AdjustGain(-config.GainStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.saveSnapshot()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) &&
		time.Since(g.lastClickTime) >= config.ClickCooldown*time.Millisecond {
		x, y := ebiten.CursorPosition()
		switch {
		case g.speed.Contains(x, y):
			g.radar.CycleSpeed()
		case g.pause.Contains(x, y):
			g.radar.TogglePause()
		}
		g.lastClickTime = time.Now()
	}
}

func (g *RunState) saveSnapshot() {
	path := filepath.Join(g.snapshotDir, fmt.Sprintf("ppi-%s.png", time.Now().Format("20060102-150405")))
	if err := render.SavePNG(path, g.radar.Indicator()); err != nil {
		g.lg.Error("snapshot failed", "path", path, "error", err)
		g.status = "snapshot failed"
		return
	}
	g.lg.Info("snapshot saved", "path", path)
	g.status = "saved " + filepath.Base(path)
}

func (g *RunState) Draw(screen *ebiten.Image) {
	screen.Fill(config.BackgroundColor)
	g.display.Draw(screen)

	g.gain.Draw(screen)
	g.speed.Draw(screen)
	g.pause.Draw(screen)

	hud := fmt.Sprintf("SWEEP %5.1f  x%g  DET %d  TPS %.0f",
		g.radar.World.Sensor.SweepAngle(), config.SpeedFactors[g.radar.SpeedIndex()], g.info.Detected, ebiten.ActualTPS())
	ebitenutil.DebugPrintAt(screen, hud, 12+config.GainBarWidth+16, 8)
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, 12+config.GainBarWidth+16, 26)
	}
}

func (g *RunState) Exit() {}
