package announce

import "sync"

// MockEngine implements Engine for testing. With AutoComplete set, each
// Speak finishes synchronously; otherwise completions are driven manually
// via CompleteNext.
type MockEngine struct {
	// AutoComplete finishes every Speak immediately.
	AutoComplete bool

	// SpeakErr is passed to the done callback on completion.
	SpeakErr error

	mu      sync.Mutex
	spoken  []string
	stopped int
	pending []func(err error)
}

// NewMockEngine returns a manually-driven mock engine.
func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

// Speak records the message and either completes it or parks the callback.
func (m *MockEngine) Speak(text string, done func(err error)) {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	if m.AutoComplete {
		err := m.SpeakErr
		m.mu.Unlock()
		done(err)
		return
	}
	m.pending = append(m.pending, done)
	m.mu.Unlock()
}

// Stop cancels in-flight speech; parked callbacks are dropped, matching
// the Engine contract.
func (m *MockEngine) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
	m.pending = nil
}

// CompleteNext fires the oldest parked completion callback.
// Returns false when nothing is in flight.
func (m *MockEngine) CompleteNext(err error) bool {
	m.mu.Lock()
	if len(m.pending) == 0 {
		m.mu.Unlock()
		return false
	}
	done := m.pending[0]
	m.pending = m.pending[1:]
	m.mu.Unlock()

	done(err)
	return true
}

// Spoken returns all messages passed to Speak, in order.
func (m *MockEngine) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// StopCount returns how many times Stop was called.
func (m *MockEngine) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

var _ Engine = (*MockEngine)(nil)
