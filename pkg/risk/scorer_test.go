package risk

import (
	"math"
	"strings"
	"testing"

	"github.com/pathsense/go-pathsense/pkg/detect"
)

func personDetection(box detect.Box, distance float64) detect.Detection {
	return detect.Detection{
		ClassName:      "person",
		ClassID:        0,
		Confidence:     0.9,
		Box:            box,
		Danger:         detect.DangerHigh,
		DistanceMeters: distance,
	}
}

func TestLevelFromScore_Bands(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0.90, LevelCritical},
		{0.85, LevelCritical},
		{0.849, LevelHigh},
		{0.65, LevelHigh},
		{0.649, LevelMedium},
		{0.40, LevelMedium},
		{0.399, LevelLow},
		{0.20, LevelLow},
		{0.199, LevelSafe},
		{0.0, LevelSafe},
	}
	for _, tt := range tests {
		if got := LevelFromScore(tt.score); got != tt.want {
			t.Errorf("LevelFromScore(%v): got %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestAssess_CloseCenteredPerson(t *testing.T) {
	// Scenario: 128x320 person box centered in a 640x640 frame.
	// distance_factor = min(1, 40960/307200 * 5) = 0.6667
	// score = 0.4*0.6667 + 0.35*0.8 + 0.25*1.0 = 0.7967 -> high
	s := NewScorer(DefaultWeights())
	det := personDetection(detect.Box{Left: 256, Top: 160, Right: 384, Bottom: 480}, 3.06)

	a := s.Assess(det, 640, 640)
	if math.Abs(a.Score-0.7967) > 0.001 {
		t.Errorf("score: got %v, want ~0.7967", a.Score)
	}
	if a.Level != LevelHigh {
		t.Errorf("level: got %v, want high", a.Level)
	}
	if !a.ShouldAlert {
		t.Errorf("close centered person must alert")
	}
	if a.AlertKey != "person|center|high" {
		t.Errorf("alert key: got %q", a.AlertKey)
	}
	if !strings.Contains(a.Recommendation, "person") || !strings.Contains(a.Recommendation, "ahead") {
		t.Errorf("recommendation: got %q", a.Recommendation)
	}
	// 3.06m / 0.7m per step = ~4 steps.
	if !strings.Contains(a.Recommendation, "4 steps") {
		t.Errorf("recommendation should mention steps: got %q", a.Recommendation)
	}
}

func TestAssessScaled_SensitivityShiftsLevel(t *testing.T) {
	s := NewScorer(DefaultWeights())
	det := personDetection(detect.Box{Left: 256, Top: 160, Right: 384, Bottom: 480}, 3.06)

	base := s.AssessScaled(det, 640, 640, 1.0)
	if base.Level != LevelHigh {
		t.Fatalf("baseline level: got %v, want high", base.Level)
	}

	up := s.AssessScaled(det, 640, 640, 2.0)
	if up.Score != 1.0 || up.Level != LevelCritical {
		t.Errorf("doubled sensitivity: got score %v level %v, want 1.0/critical", up.Score, up.Level)
	}
	if !strings.Contains(up.AlertKey, "critical") {
		t.Errorf("alert key should track the scaled level, got %q", up.AlertKey)
	}

	down := s.AssessScaled(det, 640, 640, 0.5)
	if down.Level >= base.Level {
		t.Errorf("halved sensitivity should lower the level, got %v", down.Level)
	}

	// Non-positive multipliers read as neutral.
	if got := s.AssessScaled(det, 640, 640, 0); got.Score != base.Score {
		t.Errorf("zero sensitivity: got %v, want baseline %v", got.Score, base.Score)
	}
}

func TestAssess_ScoreInRange(t *testing.T) {
	s := NewScorer(DefaultWeights())
	boxes := []detect.Box{
		{Left: 0, Top: 0, Right: 640, Bottom: 640},
		{Left: 0, Top: 0, Right: 11, Bottom: 11},
		{Left: 600, Top: 600, Right: 640, Bottom: 640},
	}
	for _, b := range boxes {
		for _, lvl := range []detect.DangerLevel{detect.DangerInfo, detect.DangerCritical} {
			det := personDetection(b, 1)
			det.Danger = lvl
			a := s.Assess(det, 640, 640)
			if a.Score < 0 || a.Score > 1 {
				t.Fatalf("score %v out of [0,1] for box %+v danger %v", a.Score, b, lvl)
			}
		}
	}
}

func TestAssess_MonotonicInDangerWeight(t *testing.T) {
	s := NewScorer(DefaultWeights())
	box := detect.Box{Left: 280, Top: 200, Right: 360, Bottom: 440}

	levels := []detect.DangerLevel{
		detect.DangerInfo, detect.DangerLow, detect.DangerUnknown,
		detect.DangerMedium, detect.DangerHigh, detect.DangerCritical,
	}
	prev := -1.0
	for _, lvl := range levels {
		det := personDetection(box, 2)
		det.Danger = lvl
		a := s.Assess(det, 640, 640)
		if a.Score < prev {
			t.Fatalf("score decreased as danger weight rose: %v at %v", a.Score, lvl)
		}
		prev = a.Score
	}
}

func TestAssess_MonotonicInBoxArea(t *testing.T) {
	// Larger relative box area (closer object) never lowers the score.
	s := NewScorer(DefaultWeights())
	prev := -1.0
	for half := 20.0; half <= 300; half += 40 {
		det := personDetection(detect.Box{
			Left: 320 - half, Top: 320 - half, Right: 320 + half, Bottom: 320 + half,
		}, detect.DistanceUnknown)
		a := s.Assess(det, 640, 640)
		if a.Score < prev {
			t.Fatalf("score decreased as box grew: %v at half=%v", a.Score, half)
		}
		prev = a.Score
	}
}

func TestAssess_PositionFactor(t *testing.T) {
	s := NewScorer(DefaultWeights())
	small := func(cx float64) detect.Detection {
		return personDetection(detect.Box{Left: cx - 10, Top: 300, Right: cx + 10, Bottom: 340}, 5)
	}

	center := s.Assess(small(320), 640, 640)
	side := s.Assess(small(100), 640, 640)
	if center.Score <= side.Score {
		t.Errorf("centered object should outscore peripheral: %v vs %v", center.Score, side.Score)
	}
	if center.Detection.Position(640) != detect.PositionCenter {
		t.Errorf("position: got %v", center.Detection.Position(640))
	}
	if side.Detection.Position(640) != detect.PositionLeft {
		t.Errorf("position: got %v", side.Detection.Position(640))
	}
}

func TestAssess_ShouldAlertThreshold(t *testing.T) {
	tests := []struct {
		level Level
		want  bool
	}{
		{LevelSafe, false},
		{LevelLow, false},
		{LevelMedium, true},
		{LevelHigh, true},
		{LevelCritical, true},
	}
	for _, tt := range tests {
		if got := tt.level > LevelLow; got != tt.want {
			t.Errorf("alert for %v: got %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestRecommendation_UnknownDistanceOmitsSteps(t *testing.T) {
	s := NewScorer(DefaultWeights())
	det := personDetection(detect.Box{Left: 256, Top: 160, Right: 384, Bottom: 480}, detect.DistanceUnknown)

	a := s.Assess(det, 640, 640)
	if strings.Contains(a.Recommendation, "steps") {
		t.Errorf("unknown distance should not be spoken: %q", a.Recommendation)
	}
}

func TestNewScorer_ZeroWeightsFallBack(t *testing.T) {
	s := NewScorer(Weights{})
	det := personDetection(detect.Box{Left: 256, Top: 160, Right: 384, Bottom: 480}, 3)
	a := s.Assess(det, 640, 640)
	if a.Score == 0 {
		t.Errorf("zero weights must fall back to defaults, got score 0")
	}
}
