// pkg/visibility/sensor.go
package visibility

import (
	"errors"
	"fmt"
	"math"

	"radar-ppi/pkg/utils"
)

var (
	ErrInvalidAntennaHeight = errors.New("antenna height must be positive")
	ErrInvalidGain          = errors.New("gain must be within [0, 1]")
	ErrInvalidRange         = errors.New("max range must be positive")
)

// SensorState holds the process-wide radar parameters. It has a single writer
// (the sweep task) and is read by both render passes through Snapshot.
type SensorState struct {
	origin        utils.Vec3
	sweepAngleDeg float64
	antennaHeight float64
	gain          float64
	maxRange      float64
}

// NewSensorState validates the parameters and returns a sensor pointing at bearing 0.
func NewSensorState(origin utils.Vec3, antennaHeight, gain, maxRange float64) (*SensorState, error) {
	s := &SensorState{origin: origin.XY()}
	if err := s.SetAntennaHeight(antennaHeight); err != nil {
		return nil, err
	}
	if err := s.SetMaxRange(maxRange); err != nil {
		return nil, err
	}
	if gain < 0 || gain > 1 || math.IsNaN(gain) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidGain, gain)
	}
	s.gain = gain
	return s, nil
}

func (s *SensorState) Origin() utils.Vec3 { return s.origin }
func (s *SensorState) SweepAngle() float64 { return s.sweepAngleDeg }
func (s *SensorState) AntennaHeight() float64 { return s.antennaHeight }
func (s *SensorState) Gain() float64 { return s.gain }
func (s *SensorState) MaxRange() float64 { return s.maxRange }

// SetSweepAngle stores deg normalized into [0, 360).
func (s *SensorState) SetSweepAngle(deg float64) {
	s.sweepAngleDeg = utils.NormalizeDegrees(deg)
}

// Advance rotates the sweep by deg and reports whether it wrapped past 360.
func (s *SensorState) Advance(deg float64) bool {
	next := s.sweepAngleDeg + deg
	s.sweepAngleDeg = utils.NormalizeDegrees(next)
	return next >= 360 || next < 0
}

// SetGain clamps g into [0, 1].
func (s *SensorState) SetGain(g float64) {
	s.gain = utils.Clamp01(g)
}

func (s *SensorState) SetAntennaHeight(h float64) error {
	if !(h > 0) || math.IsInf(h, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAntennaHeight, h)
	}
	s.antennaHeight = h
	return nil
}

func (s *SensorState) SetMaxRange(r float64) error {
	if !(r > 0) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidRange, r)
	}
	s.maxRange = r
	return nil
}

// Snapshot copies the current parameters into an immutable value; render passes
// evaluate against the snapshot so later writes cannot tear a frame.
func (s *SensorState) Snapshot() Snapshot {
	rad := utils.Radians(s.sweepAngleDeg)
	return Snapshot{
		Origin:        s.origin,
		SweepDeg:      s.sweepAngleDeg,
		AntennaHeight: s.antennaHeight,
		Gain:          s.gain,
		MaxRange:      s.maxRange,
		sweepDir:      utils.V3(math.Sin(rad), math.Cos(rad), 0),
	}
}
