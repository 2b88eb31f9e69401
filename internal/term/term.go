// internal/term/term.go
package term

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"radar-ppi/internal/app"
	"radar-ppi/internal/config"
	"radar-ppi/internal/event"
	"radar-ppi/internal/log"
)

// upper half block: foreground paints the top pixel, background the bottom one
const halfBlock = '▀'

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleStatus  = styleDefault.Foreground(tcell.ColorLime)
	stylePaused  = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// Terminal renders the indicator into a terminal with two pixels per cell.
type Terminal struct {
	screen tcell.Screen
	radar  *app.Radar
	lg     *log.Logger
	info   event.FrameInfo
}

func New(screen tcell.Screen, r *app.Radar, lg *log.Logger) *Terminal {
	t := &Terminal{screen: screen, radar: r, lg: lg.With("frontend", "terminal")}
	r.Dispatcher.Subscribe(event.FrameRendered, event.ListenerFunc(func(e event.Event) {
		t.info = e.Data.(event.FrameInfo)
	}))
	return t
}

// Run drives the radar until ctx is done or the user quits. The screen must
// be initialised; Run does not finalise it.
func (t *Terminal) Run(ctx context.Context, frameEvery time.Duration) error {
	ticker := time.NewTicker(frameEvery)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !t.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			t.radar.Tick()
			t.Draw()
		}
	}
}

// HandleEvent applies one input event. It returns false on quit.
func (t *Terminal) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			t.radar.AdjustGain(config.GainStep)
		case tcell.KeyDown:
			t.radar.AdjustGain(-config.GainStep)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case ' ', 'p':
				t.radar.TogglePause()
			case 's':
				t.radar.CycleSpeed()
			}
		}
	}
	return true
}

// Draw paints the latest frame scaled to the terminal, keeping it square.
func (t *Terminal) Draw() {
	t.screen.Clear()
	w, h := t.screen.Size()
	if w < 4 || h < 3 {
		t.screen.Show()
		return
	}

	img := t.radar.Indicator()
	cells := Sample(img, w, h-1)
	bg := toTcell(config.BackgroundColor)
	for y, row := range cells {
		for x, c := range row {
			style := tcell.StyleDefault.Foreground(toTcell(c[0])).Background(toTcell(c[1]))
			if c[0].A == 0 && c[1].A == 0 {
				style = style.Foreground(bg).Background(bg)
			}
			t.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}

	status := fmt.Sprintf(" sweep %5.1f  gain %.2f  x%g  detected %d ",
		t.radar.World.Sensor.SweepAngle(), t.radar.World.Sensor.Gain(),
		config.SpeedFactors[t.radar.SpeedIndex()], t.info.Detected)
	style := styleStatus
	if t.radar.Paused() {
		status += " PAUSED "
		style = stylePaused
	}
	drawText(t.screen, 0, h-1, status, style)
	t.screen.Show()
}

// Sample maps a square image onto cols x rows cells of two vertically stacked
// pixels each, nearest neighbour, centred and aspect preserving.
func Sample(img *image.RGBA, cols, rows int) [][][2]color.RGBA {
	b := img.Bounds()
	side := float64(min(b.Dx(), b.Dy()))
	scale := side / float64(min(cols, 2*rows)) // пикселей изображения на точку экрана
	used := int(side / scale)
	offX := (cols - used) / 2
	offY := (2*rows - used) / 2

	px := func(sx, sy int) color.RGBA {
		if sx < 0 || sy < 0 || sx >= used || sy >= used {
			return color.RGBA{}
		}
		ix := b.Min.X + int((float64(sx)+0.5)*scale)
		iy := b.Min.Y + int((float64(sy)+0.5)*scale)
		return img.RGBAAt(ix, iy)
	}

	out := make([][][2]color.RGBA, rows)
	for y := range out {
		out[y] = make([][2]color.RGBA, cols)
		for x := range out[y] {
			out[y][x] = [2]color.RGBA{
				px(x-offX, 2*y-offY),
				px(x-offX, 2*y+1-offY),
			}
		}
	}
	return out
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
