// internal/event/types.go
package event

const (
	SweepRevolution  EventType = "SweepRevolution"  // антенна прошла 360°
	GainChanged      EventType = "GainChanged"      // новое усиление
	TimeScaleChanged EventType = "TimeScaleChanged" // x1/x2/x4 или пауза
	FrameRendered    EventType = "FrameRendered"
)

// FrameInfo is the payload of FrameRendered.
type FrameInfo struct {
	Frame    uint64
	SweepDeg float64
	Rotation float64
	Detected int // targets above the gain threshold
}
