package detect

import (
	"math"
	"testing"
)

func TestBox_IoU(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
		want float64
	}{
		{"identical", Box{0, 0, 10, 10}, Box{0, 0, 10, 10}, 1.0},
		{"disjoint", Box{0, 0, 10, 10}, Box{20, 20, 30, 30}, 0.0},
		{"touching edges", Box{0, 0, 10, 10}, Box{10, 0, 20, 10}, 0.0},
		{"half overlap", Box{0, 0, 10, 10}, Box{5, 0, 15, 10}, 50.0 / 150.0},
		{"contained", Box{0, 0, 10, 10}, Box{2, 2, 8, 8}, 36.0 / 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IoU(tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("IoU: got %v, want %v", got, tt.want)
			}
			// IoU is symmetric.
			if got := tt.b.IoU(tt.a); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("IoU reversed: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBox_Geometry(t *testing.T) {
	b := Box{Left: 10, Top: 20, Right: 50, Bottom: 100}
	if b.Width() != 40 || b.Height() != 80 {
		t.Errorf("size: got %vx%v, want 40x80", b.Width(), b.Height())
	}
	if b.CenterX() != 30 || b.CenterY() != 60 {
		t.Errorf("center: got (%v,%v), want (30,60)", b.CenterX(), b.CenterY())
	}
	if b.Area() != 3200 {
		t.Errorf("area: got %v, want 3200", b.Area())
	}

	// Inverted boxes never produce negative dimensions.
	inv := Box{Left: 50, Top: 100, Right: 10, Bottom: 20}
	if inv.Width() != 0 || inv.Height() != 0 || inv.Area() != 0 {
		t.Errorf("inverted box: got %vx%v area %v, want zeros", inv.Width(), inv.Height(), inv.Area())
	}
}

func TestPositionOf_UsesActualFrameWidth(t *testing.T) {
	tests := []struct {
		centerX    float64
		frameWidth float64
		want       Position
	}{
		{100, 640, PositionLeft},
		{320, 640, PositionCenter},
		{600, 640, PositionRight},
		// Same pixel coordinate lands in different bands for a wider
		// frame; the width must come from the caller.
		{600, 1920, PositionLeft},
		{1000, 1920, PositionCenter},
		{1500, 1920, PositionRight},
	}

	for _, tt := range tests {
		if got := PositionOf(tt.centerX, tt.frameWidth); got != tt.want {
			t.Errorf("PositionOf(%v, %v): got %v, want %v", tt.centerX, tt.frameWidth, got, tt.want)
		}
	}
}

func TestWeight_KnownLevels(t *testing.T) {
	if Weight(DangerCritical) != 1.0 {
		t.Errorf("critical weight: got %v", Weight(DangerCritical))
	}
	if Weight(DangerInfo) != 0.1 {
		t.Errorf("info weight: got %v", Weight(DangerInfo))
	}
	if Weight(DangerUnknown) != 0.4 {
		t.Errorf("unknown weight: got %v", Weight(DangerUnknown))
	}
	if Weight(DangerLevel(99)) != 0.4 {
		t.Errorf("invalid level should fall back to unknown weight")
	}
}

func TestClassDanger(t *testing.T) {
	if ClassDanger("car") != DangerCritical {
		t.Errorf("car should be critical")
	}
	if ClassDanger("person") != DangerHigh {
		t.Errorf("person should be high")
	}
	if ClassDanger("zebra") != DangerUnknown {
		t.Errorf("unlisted class should be unknown")
	}
}
