// Package risk turns detections into distance estimates and normalized
// risk assessments.
package risk

import "github.com/pathsense/go-pathsense/pkg/detect"

// EstimatorConfig holds tunable distance-estimation parameters.
type EstimatorConfig struct {
	// FocalScale times the frame height stands in for the focal length.
	// This is an uncalibrated proxy, not a true camera intrinsic; the
	// resulting distances are approximate by design.
	FocalScale float64

	// MinBoxHeight is the minimum box height in pixels for a usable
	// estimate. Smaller boxes return DistanceUnknown.
	MinBoxHeight float64

	// MinDistance and MaxDistance clamp the estimate, keeping degenerate
	// boxes from producing nonsense extremes.
	MinDistance float64
	MaxDistance float64
}

// DefaultEstimatorConfig returns production defaults.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		FocalScale:   0.9,
		MinBoxHeight: 10,
		MinDistance:  0.3,
		MaxDistance:  20.0,
	}
}

// Estimator approximates object distance from box geometry via a pinhole
// camera heuristic: distance = realHeight * focal / pixelHeight.
type Estimator struct {
	cfg EstimatorConfig
}

// NewEstimator creates an estimator, clamping invalid configuration back
// to defaults.
func NewEstimator(cfg EstimatorConfig) *Estimator {
	def := DefaultEstimatorConfig()
	if cfg.FocalScale <= 0 {
		cfg.FocalScale = def.FocalScale
	}
	if cfg.MinBoxHeight <= 0 {
		cfg.MinBoxHeight = def.MinBoxHeight
	}
	if cfg.MinDistance <= 0 {
		cfg.MinDistance = def.MinDistance
	}
	if cfg.MaxDistance <= cfg.MinDistance {
		cfg.MaxDistance = def.MaxDistance
	}
	return &Estimator{cfg: cfg}
}

// Estimate returns the approximate distance in meters for an object of the
// given class whose box is boxHeightPx tall in a frameHeightPx-tall frame.
// Returns detect.DistanceUnknown when the box is too small to be reliable.
func (e *Estimator) Estimate(className string, boxHeightPx, frameHeightPx float64) float64 {
	if boxHeightPx < e.cfg.MinBoxHeight || frameHeightPx <= 0 {
		return detect.DistanceUnknown
	}

	focal := frameHeightPx * e.cfg.FocalScale
	d := detect.KnownHeight(className) * focal / boxHeightPx

	if d < e.cfg.MinDistance {
		return e.cfg.MinDistance
	}
	if d > e.cfg.MaxDistance {
		return e.cfg.MaxDistance
	}
	return d
}
