package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

// memorySink collects inserts; optionally blocks until released.
type memorySink struct {
	mu      sync.Mutex
	entries []Entry
	block   chan struct{}
}

func (m *memorySink) Insert(ctx context.Context, e Entry) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memorySink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func TestAsync_DeliversEntries(t *testing.T) {
	sink := &memorySink{}
	rec := NewAsync(sink, 16)

	for i := 0; i < 5; i++ {
		rec.Record(Entry{ClassName: "person", ObservedAt: time.Now()})
	}
	rec.Close()

	if got := sink.count(); got != 5 {
		t.Fatalf("delivered: got %d, want 5", got)
	}
	// Ids and session stamped on the way in.
	sink.mu.Lock()
	defer sink.mu.Unlock()
	for _, e := range sink.entries {
		if e.ID == uuid.Nil || e.SessionID != rec.Session() {
			t.Fatalf("entry missing ids: %+v", e)
		}
	}
}

func TestAsync_NeverBlocksWhenSinkStalls(t *testing.T) {
	sink := &memorySink{block: make(chan struct{})}
	rec := NewAsync(sink, 2)
	defer close(sink.block)
	defer rec.Close()

	start := time.Now()
	for i := 0; i < 50; i++ {
		rec.Record(Entry{ClassName: "car"})
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("recording blocked for %v with a stalled sink", elapsed)
	}
	if rec.Dropped() == 0 {
		t.Error("expected drops with a stalled sink and tiny buffer")
	}
}

func TestAsync_RecordAfterCloseIsNoop(t *testing.T) {
	sink := &memorySink{}
	rec := NewAsync(sink, 4)
	rec.Close()

	// Must not panic on the closed channel.
	rec.Record(Entry{ClassName: "person"})
	rec.Close()
}
