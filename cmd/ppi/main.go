// cmd/ppi/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/goforj/godump"
	"github.com/hajimehoshi/ebiten/v2"

	"radar-ppi/internal/app"
	"radar-ppi/internal/config"
	"radar-ppi/internal/log"
	"radar-ppi/internal/state"
	"radar-ppi/pkg/render"
)

var (
	configFile  = flag.String("config", "", "YAML settings file; built-in reference scene if empty")
	logLevel    = flag.String("loglevel", "", "logging level: debug, info, warn, error (overrides settings)")
	logDir      = flag.String("logdir", "", "log file directory (overrides settings)")
	dumpConfig  = flag.Bool("dump", false, "print the effective settings and exit")
	ticks       = flag.Int("ticks", 0, "run headless for this many ticks, write -snapshot and exit")
	tickDelta   = flag.Float64("dt", 1/config.DefaultTickRate, "simulated seconds per headless tick")
	snapshot    = flag.String("snapshot", "ppi.png", "PNG written by a headless run")
	snapshotDir = flag.String("snapshotdir", ".", "directory for F2 snapshots")
	pprofAddr   = flag.String("pprof", "", "serve net/http/pprof on this address, e.g. localhost:6060")
)

// AppGame adapts the state machine to ebiten.Game.
type AppGame struct {
	stateMachine   *state.StateMachine
	run            *state.RunState
	lastUpdateTime time.Time
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := min(now.Sub(a.lastUpdateTime).Seconds(), config.MaxDeltaTime)
	a.lastUpdateTime = now
	a.stateMachine.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.stateMachine.Draw(screen)
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.run.ScreenSize()
}

func main() {
	flag.Parse()

	s := config.Default()
	if *configFile != "" {
		var err error
		if s, err = config.Load(*configFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *logLevel != "" {
		s.Log.Level = *logLevel
	}
	if *logDir != "" {
		s.Log.Dir = *logDir
	}
	if *dumpConfig {
		godump.Dump(s)
		return
	}

	lg := log.New(s.Log.Level, s.Log.Dir)
	if *pprofAddr != "" {
		go func() {
			lg.Warn("pprof server stopped", "error", http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	field, err := app.LoadField(context.Background(), s.Heightmap, app.NewFieldCache(s.Heightmap, lg), lg)
	if err != nil {
		lg.Errorf("heightmap: %v", err)
		os.Exit(1)
	}
	r, err := app.New(s, field, nil, lg)
	if err != nil {
		lg.Errorf("radar: %v", err)
		os.Exit(1)
	}

	if *ticks > 0 {
		for i := 0; i < *ticks; i++ {
			r.Step(*tickDelta)
		}
		if err := render.SavePNG(*snapshot, r.Indicator()); err != nil {
			lg.Errorf("%v", err)
			os.Exit(1)
		}
		lg.Info("headless run finished", "ticks", *ticks, "frames", r.Frames(), "snapshot", *snapshot)
		return
	}

	sm := state.NewStateMachine(lg)
	run := state.NewRunState(sm, r, *snapshotDir, lg)
	sm.SetState(run)
	game := &AppGame{
		stateMachine:   sm,
		run:            run,
		lastUpdateTime: time.Now(),
	}
	w, h := run.ScreenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("PPI")
	if err := ebiten.RunGame(game); err != nil {
		lg.Errorf("%v", err)
		os.Exit(1)
	}
}
