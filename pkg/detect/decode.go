package detect

import (
	"sort"
	"time"

	"github.com/pathsense/go-pathsense/pkg/frame"
)

// RawOutput is the detection model's output matrix. Rows 0-3 hold the box
// center x/y, width and height in letterboxed tensor pixels; rows 4 onward
// hold per-class confidences. Each column is one candidate.
type RawOutput struct {
	Data []float32
	Rows int
	Cols int
}

// Empty reports whether the output holds no candidates.
func (r RawOutput) Empty() bool {
	return len(r.Data) == 0 || r.Rows <= 4 || r.Cols == 0
}

func (r RawOutput) at(row, col int) float32 {
	return r.Data[row*r.Cols+col]
}

// DecoderConfig holds tunable decoding parameters.
type DecoderConfig struct {
	// ConfidenceThreshold discards candidates below this confidence.
	// Deliberately low: a missed obstacle costs more than a false alarm.
	ConfidenceThreshold float64

	// NMSThreshold suppresses a same-class candidate whose IoU with an
	// already-kept box exceeds this value.
	NMSThreshold float64

	// MinBoxSize discards boxes narrower or shorter than this many source
	// pixels after letterbox inversion.
	MinBoxSize float64

	// MaxCandidates caps the pool entering NMS.
	MaxCandidates int

	// MaxDetections stops NMS once this many boxes are kept. Downstream
	// consumers only act on the first few, so this bounds latency.
	MaxDetections int
}

// DefaultDecoderConfig returns production decoding defaults.
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		ConfidenceThreshold: 0.10,
		NMSThreshold:        0.50,
		MinBoxSize:          10,
		MaxCandidates:       50,
		MaxDetections:       10,
	}
}

// Decoder converts raw model output into calibrated detections.
type Decoder struct {
	cfg DecoderConfig
}

// NewDecoder creates a decoder. Out-of-range configuration values are
// clamped into valid ranges rather than rejected: refusing to run is worse
// than running slightly mistuned.
func NewDecoder(cfg DecoderConfig) *Decoder {
	if cfg.ConfidenceThreshold < 0 {
		cfg.ConfidenceThreshold = 0
	}
	if cfg.ConfidenceThreshold > 1 {
		cfg.ConfidenceThreshold = 1
	}
	if cfg.NMSThreshold <= 0 || cfg.NMSThreshold > 1 {
		cfg.NMSThreshold = DefaultDecoderConfig().NMSThreshold
	}
	if cfg.MinBoxSize < 0 {
		cfg.MinBoxSize = 0
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = DefaultDecoderConfig().MaxCandidates
	}
	if cfg.MaxDetections <= 0 {
		cfg.MaxDetections = DefaultDecoderConfig().MaxDetections
	}
	return &Decoder{cfg: cfg}
}

type candidate struct {
	box        Box
	confidence float64
	classID    int
}

// Decode reprojects each candidate from tensor space back to source-image
// coordinates, applies confidence and size filters, then class-aware NMS.
func (d *Decoder) Decode(raw RawOutput, lb frame.Letterbox, imgW, imgH int, now time.Time) []Detection {
	if raw.Empty() || lb.Scale <= 0 || imgW <= 0 || imgH <= 0 {
		return nil
	}

	candidates := make([]candidate, 0, 64)
	for col := 0; col < raw.Cols; col++ {
		bestScore := float64(0)
		bestClass := 0
		for row := 4; row < raw.Rows; row++ {
			if s := float64(raw.at(row, col)); s > bestScore {
				bestScore = s
				bestClass = row - 4
			}
		}
		if bestScore < d.cfg.ConfidenceThreshold {
			continue
		}

		cx := float64(raw.at(0, col))
		cy := float64(raw.at(1, col))
		w := float64(raw.at(2, col))
		h := float64(raw.at(3, col))

		// Invert the letterbox transform: remove padding, undo scaling,
		// clamp to image bounds.
		box := Box{
			Left:   clampf((cx-w/2-float64(lb.PadX))/lb.Scale, 0, float64(imgW)),
			Top:    clampf((cy-h/2-float64(lb.PadY))/lb.Scale, 0, float64(imgH)),
			Right:  clampf((cx+w/2-float64(lb.PadX))/lb.Scale, 0, float64(imgW)),
			Bottom: clampf((cy+h/2-float64(lb.PadY))/lb.Scale, 0, float64(imgH)),
		}
		if box.Width() < d.cfg.MinBoxSize || box.Height() < d.cfg.MinBoxSize {
			continue
		}

		candidates = append(candidates, candidate{box: box, confidence: bestScore, classID: bestClass})
	}

	kept := d.nms(candidates)

	detections := make([]Detection, 0, len(kept))
	for _, c := range kept {
		name := ClassName(c.classID)
		detections = append(detections, Detection{
			ClassName:      name,
			ClassID:        c.classID,
			Confidence:     c.confidence,
			Box:            c.box,
			Danger:         ClassDanger(name),
			DistanceMeters: DistanceUnknown,
			Timestamp:      now,
		})
	}
	return detections
}

// nms greedily keeps the highest-confidence candidates, suppressing later
// same-class candidates that overlap a kept box beyond the threshold.
func (d *Decoder) nms(candidates []candidate) []candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})
	if len(candidates) > d.cfg.MaxCandidates {
		candidates = candidates[:d.cfg.MaxCandidates]
	}

	kept := make([]candidate, 0, d.cfg.MaxDetections)
	for _, c := range candidates {
		if len(kept) >= d.cfg.MaxDetections {
			break
		}
		suppressed := false
		for _, k := range kept {
			if k.classID == c.classID && k.box.IoU(c.box) > d.cfg.NMSThreshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, c)
		}
	}
	return kept
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
