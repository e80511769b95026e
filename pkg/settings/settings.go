// Package settings holds the user-tunable navigation preferences the
// pipeline re-reads every frame.
package settings

import "sync/atomic"

// Verbosity levels for spoken output.
const (
	VerbosityQuiet   = 0 // critical alerts only
	VerbosityNormal  = 1
	VerbosityVerbose = 2 // include low-risk observations
)

// Settings is one immutable snapshot of user preferences.
type Settings struct {
	// Mode names the active navigation profile, e.g. "walking" or
	// "indoor". Informational; class filtering is what changes behavior.
	Mode string `json:"mode"`

	// ClassFilter lists the only class names to react to. Empty means
	// react to everything.
	ClassFilter []string `json:"class_filter"`

	// Verbosity selects how much gets spoken.
	Verbosity int `json:"verbosity"`

	// Sensitivity multiplies risk scores, clamped to [0.5, 2.0].
	Sensitivity float64 `json:"sensitivity"`
}

// Default returns the out-of-box preferences.
func Default() Settings {
	return Settings{Mode: "walking", Verbosity: VerbosityNormal, Sensitivity: 1.0}
}

// Allows reports whether the class passes the filter.
func (s Settings) Allows(className string) bool {
	if len(s.ClassFilter) == 0 {
		return true
	}
	for _, c := range s.ClassFilter {
		if c == className {
			return true
		}
	}
	return false
}

// normalize clamps out-of-range values instead of rejecting them.
func (s Settings) normalize() Settings {
	if s.Sensitivity < 0.5 {
		s.Sensitivity = 0.5
	}
	if s.Sensitivity > 2.0 {
		s.Sensitivity = 2.0
	}
	if s.Verbosity < VerbosityQuiet {
		s.Verbosity = VerbosityQuiet
	}
	if s.Verbosity > VerbosityVerbose {
		s.Verbosity = VerbosityVerbose
	}
	if s.Mode == "" {
		s.Mode = Default().Mode
	}
	return s
}

// Provider hands out the current settings snapshot.
type Provider interface {
	Current() Settings
}

// Store is a live-updatable Provider. Reads are lock-free snapshots so
// the per-frame re-read costs nothing.
type Store struct {
	v atomic.Value
}

// NewStore creates a store seeded with the given settings.
func NewStore(initial Settings) *Store {
	s := &Store{}
	s.v.Store(initial.normalize())
	return s
}

// Current returns the latest snapshot.
func (s *Store) Current() Settings {
	return s.v.Load().(Settings)
}

// Update replaces the snapshot, clamping invalid values.
func (s *Store) Update(next Settings) Settings {
	norm := next.normalize()
	s.v.Store(norm)
	return norm
}
