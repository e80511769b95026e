package risk

import (
	"fmt"
	"math"

	"github.com/pathsense/go-pathsense/pkg/detect"
)

// Level is the discrete risk classification derived from the score.
type Level int

const (
	LevelSafe Level = iota
	LevelLow
	LevelMedium
	LevelHigh
	LevelCritical
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelCritical:
		return "critical"
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	default:
		return "safe"
	}
}

// LevelFromScore maps a normalized score onto non-overlapping half-open
// bands.
func LevelFromScore(score float64) Level {
	switch {
	case score >= 0.85:
		return LevelCritical
	case score >= 0.65:
		return LevelHigh
	case score >= 0.40:
		return LevelMedium
	case score >= 0.20:
		return LevelLow
	default:
		return LevelSafe
	}
}

// Weights blends the three risk signals. Values are clamped to [0,1].
type Weights struct {
	Distance float64 // relative box area signal
	Danger   float64 // static class danger weight
	Position float64 // horizontal centrality
}

// DefaultWeights returns the production blend.
func DefaultWeights() Weights {
	return Weights{Distance: 0.40, Danger: 0.35, Position: 0.25}
}

// Assessment pairs a detection with its risk evaluation.
type Assessment struct {
	Detection      detect.Detection
	Score          float64
	Level          Level
	Recommendation string
	ShouldAlert    bool

	// AlertKey buckets announcements for cooldown dedup:
	// class|position|level.
	AlertKey string
}

// Scorer combines distance, danger class and screen position into a
// normalized risk score.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer. Out-of-range weights are clamped, and an
// all-zero blend falls back to the defaults: a mistuned scorer must keep
// scoring.
func NewScorer(w Weights) *Scorer {
	w.Distance = clamp01(w.Distance)
	w.Danger = clamp01(w.Danger)
	w.Position = clamp01(w.Position)
	if w.Distance+w.Danger+w.Position == 0 {
		w = DefaultWeights()
	}
	return &Scorer{weights: w}
}

// stepLength approximates one walking step in meters for the spoken
// distance-in-steps phrasing.
const stepLength = 0.7

// Assess scores one detection against the actual frame dimensions.
//
// The distance factor here is box-area based and intentionally independent
// of the pinhole distance estimate: two weak signals are blended rather
// than reconciled.
func (s *Scorer) Assess(det detect.Detection, frameWidth, frameHeight float64) Assessment {
	return s.AssessScaled(det, frameWidth, frameHeight, 1.0)
}

// AssessScaled is Assess with a user sensitivity multiplier applied to the
// blended score before level derivation. Non-positive multipliers read as
// neutral.
func (s *Scorer) AssessScaled(det detect.Detection, frameWidth, frameHeight, sensitivity float64) Assessment {
	distanceFactor := 0.0
	if frameWidth > 0 {
		distanceFactor = math.Min(1, det.Box.Area()/(frameWidth*frameWidth*0.75)*5)
	}

	positionFactor := 0.2
	cx := det.Box.CenterX()
	if cx >= frameWidth/3 && cx < 2*frameWidth/3 {
		positionFactor = 1.0
	} else if cx >= 0 && cx <= frameWidth {
		positionFactor = 0.5
	}

	dangerFactor := detect.Weight(det.Danger)

	score := clamp01(s.weights.Distance*distanceFactor +
		s.weights.Danger*dangerFactor +
		s.weights.Position*positionFactor)
	if sensitivity > 0 {
		score = clamp01(score * sensitivity)
	}

	level := LevelFromScore(score)
	position := det.Position(frameWidth)

	return Assessment{
		Detection:      det,
		Score:          score,
		Level:          level,
		Recommendation: recommendation(det, level, position),
		ShouldAlert:    level > LevelLow,
		AlertKey:       fmt.Sprintf("%s|%s|%s", det.ClassName, position, level),
	}
}

// recommendation builds the spoken guidance for one assessed detection.
func recommendation(det detect.Detection, level Level, position detect.Position) string {
	where := "ahead"
	switch position {
	case detect.PositionLeft:
		where = "on your left"
	case detect.PositionRight:
		where = "on your right"
	}

	dist := ""
	if det.DistanceMeters > 0 {
		steps := int(math.Round(det.DistanceMeters / stepLength))
		if steps < 1 {
			steps = 1
		}
		if steps == 1 {
			dist = ", one step away"
		} else {
			dist = fmt.Sprintf(", about %d steps away", steps)
		}
	}

	switch level {
	case LevelCritical:
		return fmt.Sprintf("Danger! %s %s%s. Stop.", det.ClassName, where, dist)
	case LevelHigh:
		return fmt.Sprintf("Caution, %s %s%s.", det.ClassName, where, dist)
	case LevelMedium:
		return fmt.Sprintf("%s %s%s.", det.ClassName, where, dist)
	case LevelLow:
		return fmt.Sprintf("%s %s.", det.ClassName, where)
	default:
		return ""
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
