// Package announce schedules spoken messages: a small priority queue with
// deduplication, staleness pruning and strictly sequential playback.
package announce

import (
	"sync"
	"time"

	"github.com/pathsense/go-pathsense/internal/log"
)

// Priority orders pending messages. Lower values speak first.
type Priority int

const (
	// PriorityInterrupt bypasses the queue entirely: in-flight speech and
	// all pending messages are dropped and the message speaks immediately.
	PriorityInterrupt Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
)

// String returns the lowercase priority name.
func (p Priority) String() string {
	switch p {
	case PriorityInterrupt:
		return "interrupt"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Engine is the speech boundary. Implementations must call done exactly
// once per Speak, when playback completes or fails — except after Stop,
// which cancels in-flight speech and suppresses its pending done callback.
type Engine interface {
	Speak(text string, done func(err error))
	Stop()
}

// Request is one pending spoken message.
type Request struct {
	Message    string
	Priority   Priority
	EnqueuedAt time.Time
}

// Config holds scheduler bounds.
type Config struct {
	MaxQueue int           // pending messages kept, most urgent first
	MaxAge   time.Duration // entries older than this are never spoken
}

// DefaultConfig returns the production scheduler bounds.
func DefaultConfig() Config {
	return Config{MaxQueue: 5, MaxAge: 3 * time.Second}
}

// Scheduler owns the pending-message queue and the {idle, speaking} state
// machine. The engine's completion callback is the only transition trigger
// back to idle, so playback stays strictly sequential.
type Scheduler struct {
	mu        sync.Mutex
	cfg       Config
	engine    Engine
	queue     []Request
	speaking  bool
	cooldowns map[string]time.Time // dedup key -> window expiry

	now func() time.Time
}

// NewScheduler creates a scheduler over the given engine. Invalid bounds
// are clamped back to defaults.
func NewScheduler(engine Engine, cfg Config) *Scheduler {
	def := DefaultConfig()
	if cfg.MaxQueue <= 0 {
		cfg.MaxQueue = def.MaxQueue
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = def.MaxAge
	}
	return &Scheduler{
		cfg:       cfg,
		engine:    engine,
		cooldowns: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Enqueue adds a message to the queue. A message is dropped silently when
// its dedup key is still inside a cooldown window or when identical text
// is already queued. Returns whether the message was accepted.
func (s *Scheduler) Enqueue(message string, priority Priority, dedupKey string, cooldown time.Duration) bool {
	if message == "" {
		return false
	}

	s.mu.Lock()
	now := s.now()

	if dedupKey != "" {
		if expiry, ok := s.cooldowns[dedupKey]; ok && now.Before(expiry) {
			s.mu.Unlock()
			return false
		}
		if cooldown > 0 {
			s.cooldowns[dedupKey] = now.Add(cooldown)
		}
	}

	if priority == PriorityInterrupt {
		// Flush everything and speak immediately.
		s.queue = nil
		wasSpeaking := s.speaking
		s.speaking = true
		s.mu.Unlock()

		if wasSpeaking {
			s.engine.Stop()
		}
		s.engine.Speak(message, s.speechDone)
		return true
	}

	for _, r := range s.queue {
		if r.Message == message {
			s.mu.Unlock()
			return false
		}
	}

	s.queue = append(s.queue, Request{Message: message, Priority: priority, EnqueuedAt: now})
	s.sortLocked()
	s.pruneLocked(now)
	if len(s.queue) > s.cfg.MaxQueue {
		s.queue = s.queue[:s.cfg.MaxQueue]
	}
	s.mu.Unlock()

	s.process()
	return true
}

// Pending returns the number of queued messages.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Speaking reports whether the engine is mid-playback.
func (s *Scheduler) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Stop cancels in-flight speech and drops the whole queue.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	wasSpeaking := s.speaking
	s.speaking = false
	s.queue = nil
	s.mu.Unlock()

	if wasSpeaking {
		s.engine.Stop()
	}
}

// process pops the head once the engine is idle. Stale entries are pruned
// before dequeue.
func (s *Scheduler) process() {
	s.mu.Lock()
	if s.speaking {
		s.mu.Unlock()
		return
	}
	s.pruneLocked(s.now())
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return
	}

	req := s.queue[0]
	s.queue = s.queue[1:]
	s.speaking = true
	s.mu.Unlock()

	// Speak outside the lock: engines may complete synchronously.
	s.engine.Speak(req.Message, s.speechDone)
}

// speechDone is the single idle transition. An engine error counts the
// same as completion; the next queued item still plays.
func (s *Scheduler) speechDone(err error) {
	if err != nil {
		log.Warn("speech engine error", "error", err)
	}

	s.mu.Lock()
	s.speaking = false
	s.mu.Unlock()

	s.process()
}

// sortLocked keeps the queue ordered by priority, then arrival.
func (s *Scheduler) sortLocked() {
	// Insertion sort: the queue holds at most a handful of entries.
	for i := 1; i < len(s.queue); i++ {
		for j := i; j > 0; j-- {
			a, b := s.queue[j-1], s.queue[j]
			if b.Priority < a.Priority ||
				(b.Priority == a.Priority && b.EnqueuedAt.Before(a.EnqueuedAt)) {
				s.queue[j-1], s.queue[j] = b, a
			} else {
				break
			}
		}
	}
}

// pruneLocked removes entries older than the staleness bound.
func (s *Scheduler) pruneLocked(now time.Time) {
	kept := s.queue[:0]
	for _, r := range s.queue {
		if now.Sub(r.EnqueuedAt) <= s.cfg.MaxAge {
			kept = append(kept, r)
		}
	}
	s.queue = kept
}
