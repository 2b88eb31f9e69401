// cmd/ppi-term/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"radar-ppi/internal/app"
	"radar-ppi/internal/config"
	"radar-ppi/internal/log"
	"radar-ppi/internal/term"
)

var (
	configFile = flag.String("config", "", "YAML settings file; built-in reference scene if empty")
	logDir     = flag.String("logdir", "", "log file directory (overrides settings)")
	frameMs    = flag.Int("frame", 16, "milliseconds between frames")
)

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
	if *logDir != "" {
		s.Log.Dir = *logDir
	}
	// a terminal is small; rendering more pixels than it can show is wasted work
	s.DisplaySize = min(s.DisplaySize, 320)

	lg := log.New(s.Log.Level, s.Log.Dir)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	field, err := app.LoadField(ctx, s.Heightmap, app.NewFieldCache(s.Heightmap, lg), lg)
	if err != nil {
		lg.Errorf("heightmap: %v", err)
		os.Exit(1)
	}
	r, err := app.New(s, field, nil, lg)
	if err != nil {
		lg.Errorf("radar: %v", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		lg.Errorf("terminal: %v", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		lg.Errorf("terminal: %v", err)
		os.Exit(1)
	}

	err = term.New(screen, r, lg).Run(ctx, time.Duration(*frameMs)*time.Millisecond)
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		lg.Errorf("%v", err)
		os.Exit(1)
	}
}
