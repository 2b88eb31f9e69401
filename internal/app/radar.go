// internal/app/radar.go
package app

import (
	"fmt"
	"image"
	"math"
	"slices"

	"radar-ppi/internal/config"
	"radar-ppi/internal/event"
	"radar-ppi/internal/log"
	"radar-ppi/internal/scheduler"
	"radar-ppi/internal/system"
	"radar-ppi/internal/types"
	"radar-ppi/internal/utils"
	"radar-ppi/internal/world"
	"radar-ppi/pkg/heightmap"
	"radar-ppi/pkg/render"
	mathutil "radar-ppi/pkg/utils"
	"radar-ppi/pkg/visibility"
)

// Task names in registration order. Target step tasks are named after the target.
const (
	TaskMovement  = "movement"
	TaskSweep     = "sweep"
	TaskRender    = "render"
	TaskCapture   = "capture"
	TaskComposite = "composite"
)

var reserved = []string{TaskMovement, TaskSweep, TaskRender, TaskCapture, TaskComposite}

// Radar wires the world, the scheduler, the systems and the render pipeline.
// Everything runs on the goroutine that calls Tick.
type Radar struct {
	Settings   config.Settings
	World      *world.World
	Scheduler  *scheduler.FrameScheduler
	Pipeline   *render.Pipeline
	Dispatcher *event.Dispatcher
	Rng        *utils.PRNGService
	Bezel      render.Bezel

	MovementSystem *system.MovementSystem
	StepSystem     *system.StepSystem
	SweepSystem    *system.SweepSystem

	lg       *log.Logger
	bezelImg *image.RGBA
	frame    render.Frame
	frames   uint64
	speedIdx int
	resume   float64 // time scale restored by TogglePause
}

// New builds a radar from validated settings. field may be nil for a
// targets-only scene. clock may be nil for the wall clock.
func New(s config.Settings, field *heightmap.Field, clock scheduler.TimeProvider, lg *log.Logger) (*Radar, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var terrain *world.Terrain
	if field != nil {
		var err error
		if terrain, err = world.NewTerrain(field, s.MapSize); err != nil {
			return nil, err
		}
	}
	sensor, err := visibility.NewSensorState(mathutil.V3(s.Sensor.X, s.Sensor.Y, 0), s.AntennaHeight, s.Gain, s.EffectiveRange())
	if err != nil {
		return nil, err
	}
	pipeline, err := render.NewPipeline(render.Config{
		Width:     s.DisplaySize,
		Height:    s.DisplaySize,
		Workers:   s.Workers,
		SweepLine: s.SweepLine,
		Palette: render.Palette{
			Reveal:     config.RevealColor,
			Dark:       config.SuppressedColor,
			Background: config.BackgroundColor,
			SweepLine:  config.SweepLineColor,
			Bezel:      config.BezelColor,
		},
	})
	if err != nil {
		return nil, err
	}

	w := world.New(terrain, sensor, s.MapSize)
	sweep := w.Sweep()
	sweep.StepDeg = s.SweepStepDeg
	sweep.RateDegPerSec = s.SweepRateDeg

	dispatcher := event.NewDispatcher()
	r := &Radar{
		Settings:   s,
		World:      w,
		Pipeline:   pipeline,
		Dispatcher: dispatcher,
		Rng:        utils.NewPRNGService(s.RandomTargets.Seed),
		Scheduler: scheduler.New(scheduler.Options{
			Clock:    clock,
			TickRate: s.TickRate,
			MaxDelta: s.MaxDelta,
			Logger:   lg,
		}),
		Bezel: render.BezelGeometry(s.DisplaySize+2*config.BezelPad, render.OverlayOptions{
			Ticks:          s.Overlay.Ticks,
			Rings:          s.Overlay.Rings,
			Margin:         s.Overlay.Margin,
			RingWidth:      4,
			TickWidth:      0.6,
			RangeRingWidth: 0.6,
		}),
		MovementSystem: system.NewMovementSystem(w.ECS),
		StepSystem:     system.NewStepSystem(w.ECS),
		SweepSystem:    system.NewSweepSystem(sweep, sensor, dispatcher),
		lg:             lg,
		resume:         1,
	}
	r.Scheduler.SetTimeScale(s.TimeScale)
	if s.TimeScale > 0 {
		r.resume = s.TimeScale
	}

	if err := r.seedTargets(); err != nil {
		return nil, err
	}
	if err := r.registerTasks(); err != nil {
		return nil, err
	}

	lg.Info("radar ready",
		"map_size", s.MapSize,
		"terrain", terrain != nil,
		"targets", len(w.ECS.Targets),
		"max_range", sensor.MaxRange(),
		"gain", sensor.Gain(),
		"tasks", r.Scheduler.Tasks())
	return r, nil
}

func (r *Radar) seedTargets() error {
	for _, t := range r.Settings.Targets {
		if _, err := r.World.AddTarget(world.TargetSpec{
			Name:         t.Name,
			Position:     t.Position.V3(),
			Velocity:     t.Velocity.V3(),
			Step:         t.Step.V3(),
			StepInterval: t.StepInterval,
			Weight:       t.Weight(),
		}); err != nil {
			return fmt.Errorf("%w: %v", config.ErrInvalidTarget, err)
		}
	}

	rng := r.Settings.RandomTargets
	if rng.Count == 0 {
		return nil
	}
	reach := r.World.Sensor.MaxRange() * 0.9
	origin := r.World.Sensor.Origin()
	for i := 0; i < rng.Count; i++ {
		x, y := r.Rng.InDisc(reach)
		speed := r.Rng.Range(0, 12)
		sin, cos := math.Sincos(mathutil.Radians(r.Rng.Range(0, 360)))
		dx, dy := speed*sin, speed*cos
		if _, err := r.World.AddTarget(world.TargetSpec{
			Name:     fmt.Sprintf("Random%02d", i+1),
			Position: mathutil.V3(origin.X+x, origin.Y+y, r.Rng.Range(5, 3*r.Settings.AntennaHeight)),
			Velocity: mathutil.V3(dx, dy, 0),
			Weight:   r.Rng.Range(0.3, 1),
		}); err != nil {
			return err
		}
	}
	r.lg.Debug("random targets seeded", "count", rng.Count, "seed", r.Rng.Seed())
	return nil
}

func (r *Radar) registerTasks() error {
	s := r.Scheduler
	if err := s.RegisterContinuous(TaskMovement, r.MovementSystem.Update); err != nil {
		return err
	}
	for _, id := range r.World.ECS.TargetIDs() {
		step, ok := r.World.ECS.Steps[id]
		if !ok {
			continue
		}
		id, name := id, r.World.ECS.Targets[id].Name
		if slices.Contains(s.Tasks(), name) || slices.Contains(reserved, name) {
			return fmt.Errorf("%w: step task name %q already taken", config.ErrInvalidTarget, name)
		}
		if err := s.RegisterFixed(name, step.Interval, func() { r.StepSystem.Step(id) }); err != nil {
			return err
		}
	}
	if err := s.RegisterContinuous(TaskSweep, r.SweepSystem.Update); err != nil {
		return err
	}

	if r.Settings.RenderInterval > 0 {
		// радиовидео реже, маска развёртки каждый тик
		if err := s.RegisterFixed(TaskCapture, r.Settings.RenderInterval, r.capture); err != nil {
			return err
		}
		r.capture()
		return s.RegisterContinuous(TaskComposite, func(float64) { r.composite() })
	}
	return s.RegisterContinuous(TaskRender, func(float64) { r.render() })
}

func (r *Radar) render() {
	r.frame = r.Pipeline.Render(r.World, r.World.Sensor, r.World.Sweep().Rotation)
	r.published()
}

func (r *Radar) capture() {
	snap := r.World.Sensor.Snapshot()
	r.frame.Snapshot = snap
	r.frame.Detected = r.Pipeline.Capture(r.World, snap)
	r.frame.Capture = r.Pipeline.CaptureImage()
}

func (r *Radar) composite() {
	r.frame.Rotation = r.World.Sweep().Rotation
	r.frame.Image = r.Pipeline.Composite(r.frame.Rotation)
	r.published()
}

func (r *Radar) published() {
	r.frames++
	r.Dispatcher.Dispatch(event.Event{Type: event.FrameRendered, Data: event.FrameInfo{
		Frame:    r.frames,
		SweepDeg: r.frame.Snapshot.SweepDeg,
		Rotation: r.frame.Rotation,
		Detected: r.frame.Detected,
	}})
}

// Tick is the per-frame callback for a display loop.
func (r *Radar) Tick() bool { return r.Scheduler.Tick() }

// Step advances the simulation by dt seconds without consulting the clock.
func (r *Radar) Step(dt float64) { r.Scheduler.Advance(dt) }

// Frame is the latest rendered frame. Its images belong to the pipeline.
func (r *Radar) Frame() render.Frame { return r.frame }

func (r *Radar) Frames() uint64 { return r.frames }

// Indicator composes background, frame and bezel into one image.
func (r *Radar) Indicator() *image.RGBA {
	frame := r.frame.Image
	if frame == nil {
		frame = r.Pipeline.Composite(r.World.Sweep().Rotation)
	}
	if r.bezelImg == nil {
		r.bezelImg = render.NewBezelImage(r.Bezel, config.BezelColor)
	}
	return render.ComposeIndicator(frame, r.bezelImg, config.BezelPad, config.BackgroundColor)
}

// SetGain clamps g into [0, 1] and announces the change.
func (r *Radar) SetGain(g float64) {
	r.World.Sensor.SetGain(g)
	r.Dispatcher.Dispatch(event.Event{Type: event.GainChanged, Data: r.World.Sensor.Gain()})
}

func (r *Radar) AdjustGain(delta float64) { r.SetGain(r.World.Sensor.Gain() + delta) }

// CycleSpeed switches x1 -> x2 -> x4 -> x1. A paused radar stays paused and
// resumes at the new speed.
func (r *Radar) CycleSpeed() float64 {
	r.speedIdx = (r.speedIdx + 1) % len(config.SpeedFactors)
	r.resume = config.SpeedFactors[r.speedIdx]
	if !r.Scheduler.Paused() {
		r.setTimeScale(r.resume)
	}
	return r.resume
}

func (r *Radar) SpeedIndex() int { return r.speedIdx }

// TogglePause switches between time scale 0 and the last running speed.
func (r *Radar) TogglePause() bool {
	if r.Scheduler.Paused() {
		r.setTimeScale(r.resume)
	} else {
		r.setTimeScale(0)
	}
	return r.Scheduler.Paused()
}

func (r *Radar) Paused() bool { return r.Scheduler.Paused() }

func (r *Radar) setTimeScale(f float64) {
	r.Scheduler.SetTimeScale(f)
	r.lg.Debug("time scale changed", "scale", f)
	r.Dispatcher.Dispatch(event.Event{Type: event.TimeScaleChanged, Data: f})
}

// Target returns the entity registered under name.
func (r *Radar) Target(name string) (types.EntityID, bool) {
	for _, id := range r.World.ECS.TargetIDs() {
		if r.World.ECS.Targets[id].Name == name {
			return id, true
		}
	}
	return 0, false
}
