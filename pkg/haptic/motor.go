// Package haptic defines the vibration motor boundary. Calls are
// fire-and-forget: no acknowledgment, no errors back into the pipeline.
package haptic

import (
	"time"

	"github.com/pathsense/go-pathsense/internal/log"
)

// Motor is the vibration hardware boundary.
type Motor interface {
	// Vibrate runs the motor for the duration at intensity in [0,1].
	Vibrate(d time.Duration, intensity float64)

	// Pulse plays a pattern of alternating on/off durations, starting
	// with on, at the given intensity.
	Pulse(pattern []time.Duration, intensity float64)
}

// Null discards all vibration requests.
type Null struct{}

func (Null) Vibrate(time.Duration, float64)   {}
func (Null) Pulse([]time.Duration, float64)   {}

// Logging records vibration requests to the log, for development without
// motor hardware.
type Logging struct{}

func (Logging) Vibrate(d time.Duration, intensity float64) {
	log.Debug("vibrate", "duration", d, "intensity", intensity)
}

func (Logging) Pulse(pattern []time.Duration, intensity float64) {
	log.Debug("vibrate pattern", "steps", len(pattern), "intensity", intensity)
}

var (
	_ Motor = Null{}
	_ Motor = Logging{}
)
