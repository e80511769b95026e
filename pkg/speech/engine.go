// Package speech provides implementations of the announce.Engine speech
// boundary. Real synthesis hardware lives outside this process; these
// engines cover development, simulation and tests.
package speech

import (
	"strings"
	"sync"
	"time"

	"github.com/pathsense/go-pathsense/internal/log"
)

// defaultPerWord approximates spoken pacing for simulated playback.
const defaultPerWord = 300 * time.Millisecond

// Simulated logs each message and signals completion after a duration
// proportional to the word count, mimicking a real engine's busy window.
type Simulated struct {
	// PerWord overrides the simulated pace. Zero means the default.
	PerWord time.Duration

	mu    sync.Mutex
	gen   int // invalidates pending completions on Stop
	timer *time.Timer
}

// NewSimulated returns a simulated speech engine at the default pace.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Speak logs the message and schedules its completion callback.
func (s *Simulated) Speak(text string, done func(err error)) {
	pace := s.PerWord
	if pace <= 0 {
		pace = defaultPerWord
	}
	duration := time.Duration(len(strings.Fields(text))) * pace

	log.Info("speaking", "text", text, "duration", duration)

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(duration, func() {
		s.mu.Lock()
		valid := gen == s.gen
		s.mu.Unlock()
		if valid {
			done(nil)
		}
	})
	s.mu.Unlock()
}

// Stop cancels in-flight playback. The pending completion callback is
// suppressed, per the Engine contract.
func (s *Simulated) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
