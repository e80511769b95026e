// Package detect provides the detection data model, the raw-output decoder
// with class-aware NMS, and the detector adapters that produce raw output.
package detect

import "time"

// DistanceUnknown is the sentinel for "no distance estimate".
const DistanceUnknown = -1.0

// HeuristicClassID marks detections produced by auxiliary heuristic
// detectors rather than the learned model.
const HeuristicClassID = -1

// Position is the horizontal third of the frame a detection sits in.
type Position string

const (
	PositionLeft   Position = "left"
	PositionCenter Position = "center"
	PositionRight  Position = "right"
)

// PositionOf buckets a horizontal center into one of three equal-width
// vertical bands. The actual frame width must be passed by the caller;
// nothing in this package assumes a fixed frame size.
func PositionOf(centerX, frameWidth float64) Position {
	if frameWidth <= 0 {
		return PositionCenter
	}
	switch {
	case centerX < frameWidth/3:
		return PositionLeft
	case centerX < 2*frameWidth/3:
		return PositionCenter
	default:
		return PositionRight
	}
}

// DangerLevel classifies how hazardous an object class is to walk into.
type DangerLevel int

const (
	DangerUnknown DangerLevel = iota
	DangerInfo
	DangerLow
	DangerMedium
	DangerHigh
	DangerCritical
)

// String returns the lowercase level name.
func (d DangerLevel) String() string {
	switch d {
	case DangerCritical:
		return "critical"
	case DangerHigh:
		return "high"
	case DangerMedium:
		return "medium"
	case DangerLow:
		return "low"
	case DangerInfo:
		return "info"
	default:
		return "unknown"
	}
}

// dangerWeights maps each level to its scoring weight. Kept as a table
// rather than behavior on the enum so tuning stays in one place.
var dangerWeights = map[DangerLevel]float64{
	DangerCritical: 1.0,
	DangerHigh:     0.8,
	DangerMedium:   0.6,
	DangerLow:      0.3,
	DangerInfo:     0.1,
	DangerUnknown:  0.4,
}

// Weight returns the scoring weight for a danger level.
func Weight(level DangerLevel) float64 {
	if w, ok := dangerWeights[level]; ok {
		return w
	}
	return dangerWeights[DangerUnknown]
}

// Box is an axis-aligned rectangle in source-image pixel coordinates.
type Box struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Width returns the box width, never negative.
func (b Box) Width() float64 {
	if b.Right < b.Left {
		return 0
	}
	return b.Right - b.Left
}

// Height returns the box height, never negative.
func (b Box) Height() float64 {
	if b.Bottom < b.Top {
		return 0
	}
	return b.Bottom - b.Top
}

// CenterX returns the horizontal center.
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center.
func (b Box) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Area returns width*height.
func (b Box) Area() float64 { return b.Width() * b.Height() }

// IoU returns intersection-over-union with another box, zero when the
// boxes do not overlap.
func (b Box) IoU(o Box) float64 {
	interLeft := maxf(b.Left, o.Left)
	interTop := maxf(b.Top, o.Top)
	interRight := minf(b.Right, o.Right)
	interBottom := minf(b.Bottom, o.Bottom)

	if interRight <= interLeft || interBottom <= interTop {
		return 0
	}

	inter := (interRight - interLeft) * (interBottom - interTop)
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Detection is one observed object in one frame.
type Detection struct {
	ClassName      string
	ClassID        int
	Confidence     float64
	Box            Box
	Danger         DangerLevel
	DistanceMeters float64 // DistanceUnknown when not estimated
	Timestamp      time.Time
}

// Position returns the horizontal third the detection's center falls in,
// for the given frame width.
func (d Detection) Position(frameWidth float64) Position {
	return PositionOf(d.Box.CenterX(), frameWidth)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
