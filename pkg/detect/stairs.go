package detect

import (
	"time"

	"github.com/pathsense/go-pathsense/pkg/frame"
)

// Auxiliary is a pluggable heuristic detector that runs alongside the
// learned model. Its outputs carry HeuristicClassID and a fixed confidence
// so they are never mistaken for network detections.
type Auxiliary interface {
	Name() string
	Detect(f *frame.Planar, now time.Time) []Detection
}

// StairsConfidence is the fixed confidence assigned to heuristic stairs
// detections. The heuristic is coarse; the value reflects that.
const StairsConfidence = 0.6

// StairsDetector scans the bottom third of the luma plane for repeated
// strong horizontal intensity gradients, the signature of stair edges seen
// from above. It needs no model and keeps running in degraded mode.
type StairsDetector struct {
	// GradientThreshold is the minimum |dY/dx| counting as an edge sample.
	GradientThreshold int

	// RowDensity is the fraction of sampled positions in a row that must
	// be edges for the row to count as a stair edge row.
	RowDensity float64

	// MinRows is how many edge rows the bottom third must contain.
	MinRows int
}

// NewStairsDetector returns a stairs detector with production defaults.
func NewStairsDetector() *StairsDetector {
	return &StairsDetector{
		GradientThreshold: 40,
		RowDensity:        0.30,
		MinRows:           3,
	}
}

// Name identifies the detector in logs and results.
func (s *StairsDetector) Name() string { return "stairs" }

// Detect returns at most one synthetic stairs detection spanning the
// scanned region.
func (s *StairsDetector) Detect(f *frame.Planar, now time.Time) []Detection {
	if f == nil || f.Width < 8 || f.Height < 9 {
		return nil
	}

	// A stair edge reads as a horizontal line: a row where luma changes
	// sharply against the row two below it, across most of the width.
	top := f.Height * 2 / 3
	edgeRows := 0
	for y := top; y+2 < f.Height; y++ {
		samples := 0
		edges := 0
		for x := 0; x < f.Width; x += 4 {
			a := int(f.LumaAt(x, y))
			b := int(f.LumaAt(x, y+2))
			samples++
			if abs(a-b) >= s.GradientThreshold {
				edges++
			}
		}
		if samples > 0 && float64(edges)/float64(samples) >= s.RowDensity {
			edgeRows++
		}
	}

	if edgeRows < s.MinRows {
		return nil
	}

	return []Detection{{
		ClassName:      "stairs",
		ClassID:        HeuristicClassID,
		Confidence:     StairsConfidence,
		Box:            Box{Left: 0, Top: float64(top), Right: float64(f.Width), Bottom: float64(f.Height)},
		Danger:         ClassDanger("stairs"),
		DistanceMeters: DistanceUnknown,
		Timestamp:      now,
	}}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
