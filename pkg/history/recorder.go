// Package history records detections for later review. Recording is
// strictly best-effort: a slow or failing store drops entries rather than
// ever blocking the obstacle pipeline.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathsense/go-pathsense/internal/log"
)

// Entry is one recorded detection observation.
type Entry struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	ClassName  string
	Confidence float64
	Distance   float64 // meters, -1 when unknown
	RiskScore  float64
	RiskLevel  string
	Position   string
	ObservedAt time.Time
}

// Recorder accepts entries for storage.
type Recorder interface {
	Record(e Entry)
	Close()
}

// Null discards everything.
type Null struct{}

func (Null) Record(Entry) {}
func (Null) Close()       {}

// Sink is the storage boundary the async recorder writes through.
type Sink interface {
	Insert(ctx context.Context, e Entry) error
}

// insertTimeout bounds a single store write.
const insertTimeout = 2 * time.Second

// Async buffers entries and writes them from a background worker.
// When the buffer is full, new entries are dropped silently.
type Async struct {
	sink    Sink
	session uuid.UUID
	ch      chan Entry
	done    chan struct{}

	mu      sync.Mutex
	dropped int
	closed  bool
}

// NewAsync creates a recorder over the sink with the given buffer size.
func NewAsync(sink Sink, buffer int) *Async {
	if buffer <= 0 {
		buffer = 256
	}
	a := &Async{
		sink:    sink,
		session: uuid.New(),
		ch:      make(chan Entry, buffer),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Session returns the id stamped onto every entry from this recorder.
func (a *Async) Session() uuid.UUID {
	return a.session
}

// Record queues an entry, filling in its ids. Never blocks.
func (a *Async) Record(e Entry) {
	e.ID = uuid.New()
	e.SessionID = a.session

	// The send stays under the mutex so Close can never close the
	// channel out from under an in-flight Record.
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	var droppedNow int
	select {
	case a.ch <- e:
	default:
		a.dropped++
		droppedNow = a.dropped
	}
	a.mu.Unlock()

	if droppedNow%100 == 1 {
		log.Warn("history buffer full, dropping entries", "dropped", droppedNow)
	}
}

// Dropped returns how many entries were discarded due to backpressure.
func (a *Async) Dropped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// Close drains the buffer and stops the worker.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	close(a.ch)
	<-a.done
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.ch {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		if err := a.sink.Insert(ctx, e); err != nil {
			log.Debug("history insert failed", "error", err, "class", e.ClassName)
		}
		cancel()
	}
}
