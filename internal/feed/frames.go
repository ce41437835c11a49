package feed

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// FrameInterval is the pacing of ClockFrames, roughly one 60 Hz frame.
const FrameInterval = 16 * time.Millisecond

// FrameScheduler runs fn once at the next rendered frame.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// ClockFrames schedules frames on a clock. It stands in for the browser's
// animation-frame callback when the engine runs headless.
type ClockFrames struct {
	Clock    clockwork.Clock
	Interval time.Duration
}

// RequestFrame implements FrameScheduler.
func (f ClockFrames) RequestFrame(fn func()) {
	clock := f.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := f.Interval
	if interval <= 0 {
		interval = FrameInterval
	}
	clock.AfterFunc(interval, fn)
}
