package risk

import (
	"math"
	"testing"

	"github.com/pathsense/go-pathsense/pkg/detect"
)

func TestEstimate_CenteredPerson(t *testing.T) {
	// Person box 50% of a 640px frame: 1.7 * 576 / 320 = 3.06m.
	e := NewEstimator(DefaultEstimatorConfig())
	got := e.Estimate("person", 320, 640)
	if math.Abs(got-3.06) > 0.01 {
		t.Errorf("distance: got %v, want ~3.06", got)
	}
}

func TestEstimate_MonotonicInBoxHeight(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())
	prev := math.Inf(1)
	for h := 40.0; h <= 640; h += 40 {
		d := e.Estimate("person", h, 640)
		if d >= prev {
			t.Fatalf("distance not strictly decreasing: h=%v d=%v prev=%v", h, d, prev)
		}
		prev = d
	}
}

func TestEstimate_TooSmallBox(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())
	if got := e.Estimate("person", 9, 640); got != detect.DistanceUnknown {
		t.Errorf("tiny box: got %v, want unknown sentinel", got)
	}
}

func TestEstimate_Clamped(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())

	// Box barely above the minimum height puts a truck absurdly far away.
	if got := e.Estimate("truck", 10, 640); got != 20.0 {
		t.Errorf("far estimate: got %v, want clamp at 20", got)
	}

	// A box taller than the frame puts a cat impossibly close.
	if got := e.Estimate("cat", 640, 640); got != 0.3 {
		t.Errorf("near estimate: got %v, want clamp at 0.3", got)
	}
}

func TestEstimate_UnknownClassUsesDefaultHeight(t *testing.T) {
	e := NewEstimator(DefaultEstimatorConfig())
	got := e.Estimate("zebra", 320, 640)
	want := detect.DefaultObjectHeight * 576 / 320
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("unknown class: got %v, want %v", got, want)
	}
}

func TestNewEstimator_ClampsConfig(t *testing.T) {
	e := NewEstimator(EstimatorConfig{FocalScale: -1, MinBoxHeight: -5, MinDistance: -2, MaxDistance: -3})
	// Behaves like the default estimator instead of rejecting the config.
	if got := e.Estimate("person", 320, 640); math.Abs(got-3.06) > 0.01 {
		t.Errorf("clamped estimator: got %v, want ~3.06", got)
	}
}
