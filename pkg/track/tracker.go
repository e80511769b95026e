// Package track maintains object identity across frames and decides which
// detections deserve a spoken announcement.
package track

import (
	"time"

	"github.com/pathsense/go-pathsense/pkg/detect"
)

// Config holds tracker tuning.
type Config struct {
	// IoUThreshold is the minimum overlap for a detection to match an
	// existing same-class track.
	IoUThreshold float64

	// MaxMissedFrames evicts a track once it goes unmatched for more
	// than this many consecutive frames.
	MaxMissedFrames int

	// Cooldowns gate re-announcement per danger level. More dangerous
	// objects may be repeated sooner.
	CriticalCooldown time.Duration
	HighCooldown     time.Duration
	MediumCooldown   time.Duration
	DefaultCooldown  time.Duration
}

// DefaultConfig returns the production tracker tuning.
func DefaultConfig() Config {
	return Config{
		IoUThreshold:     0.5,
		MaxMissedFrames:  3,
		CriticalCooldown: 2 * time.Second,
		HighCooldown:     3 * time.Second,
		MediumCooldown:   5 * time.Second,
		DefaultCooldown:  8 * time.Second,
	}
}

func (c Config) cooldownFor(level detect.DangerLevel) time.Duration {
	switch level {
	case detect.DangerCritical:
		return c.CriticalCooldown
	case detect.DangerHigh:
		return c.HighCooldown
	case detect.DangerMedium:
		return c.MediumCooldown
	default:
		return c.DefaultCooldown
	}
}

// Track is one persistent object identity.
type Track struct {
	ID            int
	ClassName     string
	Box           detect.Box
	LastDetection detect.Detection
	MissedFrames  int
	FirstSeen     time.Time
	LastAnnounced time.Time
}

// Observation reports what the tracker decided for one detection.
type Observation struct {
	Detection detect.Detection
	TrackID   int
	New       bool // first frame this object was seen
	Announce  bool // cooldown allows speaking about it now
}

// Tracker deduplicates detections across frames. It is a single-writer
// structure: all mutation happens on the pipeline's completion path, so it
// carries no internal locking.
type Tracker struct {
	cfg    Config
	tracks []*Track
	nextID int
}

// NewTracker creates a tracker, clamping invalid tuning back to defaults.
func NewTracker(cfg Config) *Tracker {
	def := DefaultConfig()
	if cfg.IoUThreshold <= 0 || cfg.IoUThreshold > 1 {
		cfg.IoUThreshold = def.IoUThreshold
	}
	if cfg.MaxMissedFrames <= 0 {
		cfg.MaxMissedFrames = def.MaxMissedFrames
	}
	if cfg.CriticalCooldown <= 0 {
		cfg.CriticalCooldown = def.CriticalCooldown
	}
	if cfg.HighCooldown <= 0 {
		cfg.HighCooldown = def.HighCooldown
	}
	if cfg.MediumCooldown <= 0 {
		cfg.MediumCooldown = def.MediumCooldown
	}
	if cfg.DefaultCooldown <= 0 {
		cfg.DefaultCooldown = def.DefaultCooldown
	}
	return &Tracker{cfg: cfg, nextID: 1}
}

// Update matches the frame's detections against existing tracks, creates
// tracks for the unmatched, ages out the missing, and reports which
// detections may be announced.
func (t *Tracker) Update(dets []detect.Detection, now time.Time) []Observation {
	matched := make(map[*Track]bool, len(t.tracks))
	observations := make([]Observation, 0, len(dets))

	for _, det := range dets {
		best := t.bestMatch(det, matched)
		if best != nil {
			matched[best] = true
			best.Box = det.Box
			best.LastDetection = det
			best.MissedFrames = 0

			announce := now.Sub(best.LastAnnounced) >= t.cfg.cooldownFor(det.Danger)
			if announce {
				best.LastAnnounced = now
			}
			observations = append(observations, Observation{
				Detection: det,
				TrackID:   best.ID,
				Announce:  announce,
			})
			continue
		}

		// First sighting: always announce once.
		tr := &Track{
			ID:            t.nextID,
			ClassName:     det.ClassName,
			Box:           det.Box,
			LastDetection: det,
			FirstSeen:     now,
			LastAnnounced: now,
		}
		t.nextID++
		t.tracks = append(t.tracks, tr)
		matched[tr] = true
		observations = append(observations, Observation{
			Detection: det,
			TrackID:   tr.ID,
			New:       true,
			Announce:  true,
		})
	}

	// Age unmatched tracks and evict the long-gone.
	alive := t.tracks[:0]
	for _, tr := range t.tracks {
		if !matched[tr] {
			tr.MissedFrames++
		}
		if tr.MissedFrames <= t.cfg.MaxMissedFrames {
			alive = append(alive, tr)
		}
	}
	t.tracks = alive

	return observations
}

// bestMatch finds the unmatched same-class track with the highest IoU at
// or above the threshold.
func (t *Tracker) bestMatch(det detect.Detection, matched map[*Track]bool) *Track {
	var best *Track
	bestIoU := 0.0
	for _, tr := range t.tracks {
		if matched[tr] || tr.ClassName != det.ClassName {
			continue
		}
		iou := tr.Box.IoU(det.Box)
		if iou >= t.cfg.IoUThreshold && iou > bestIoU {
			bestIoU = iou
			best = tr
		}
	}
	return best
}

// Tracks returns a snapshot of the live tracks.
func (t *Tracker) Tracks() []Track {
	out := make([]Track, 0, len(t.tracks))
	for _, tr := range t.tracks {
		out = append(out, *tr)
	}
	return out
}

// Reset drops all tracks, e.g. when the camera scene changes entirely.
func (t *Tracker) Reset() {
	t.tracks = nil
}
