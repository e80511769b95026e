// Package guide derives a discrete steering recommendation from the
// current detection set by accumulating risk in three vertical zones.
package guide

import (
	"math"
	"time"

	"github.com/pathsense/go-pathsense/pkg/detect"
)

// Direction is the steering recommendation.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionLeft     Direction = "left"
	DirectionRight    Direction = "right"
	DirectionBackward Direction = "backward"
)

// Urgency grades how fast the user should react.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// Guidance is the per-frame steering output. It is recomputed every frame
// and never persisted.
type Guidance struct {
	Direction Direction
	Urgency   Urgency
	Message   string
}

// zone indexes into the accumulator.
const (
	zoneLeft = iota
	zoneCenter
	zoneRight
	zoneCount
)

// Config holds guidance tuning.
type Config struct {
	// ClearThreshold below which a zone counts as free.
	ClearThreshold float64

	// BlockThreshold above which a zone counts as blocked.
	BlockThreshold float64

	// Cooldown rate-limits issued guidance regardless of frame rate, so
	// the user never hears rapid contradictory instructions.
	Cooldown time.Duration

	// DistanceNormalization divides the distance estimate when computing
	// a detection's risk contribution.
	DistanceNormalization float64
}

// DefaultConfig returns the production guidance tuning.
func DefaultConfig() Config {
	return Config{
		ClearThreshold:        0.1,
		BlockThreshold:        0.5,
		Cooldown:              2 * time.Second,
		DistanceNormalization: 10.0,
	}
}

// Engine accumulates per-zone risk and applies the steering decision
// table. Single-writer: mutated only from the pipeline completion path.
type Engine struct {
	cfg        Config
	lastIssued time.Time
}

// NewEngine creates an engine, clamping invalid tuning back to defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.ClearThreshold <= 0 {
		cfg.ClearThreshold = def.ClearThreshold
	}
	if cfg.BlockThreshold <= cfg.ClearThreshold {
		cfg.BlockThreshold = def.BlockThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	if cfg.DistanceNormalization <= 0 {
		cfg.DistanceNormalization = def.DistanceNormalization
	}
	return &Engine{cfg: cfg}
}

// Evaluate derives guidance for the frame. The second return value is
// false while the issue cooldown is active; the computed guidance is
// withheld in that case.
func (e *Engine) Evaluate(dets []detect.Detection, frameWidth, frameHeight float64, now time.Time) (Guidance, bool) {
	if !e.lastIssued.IsZero() && now.Sub(e.lastIssued) < e.cfg.Cooldown {
		return Guidance{}, false
	}

	g := e.decide(e.accumulate(dets, frameWidth, frameHeight))
	e.lastIssued = now
	return g, true
}

// accumulate sums per-detection risk contributions into the three zones.
// A box straddling a zone boundary contributes half-weight to the
// neighboring zone it spills into.
func (e *Engine) accumulate(dets []detect.Detection, frameWidth, frameHeight float64) [zoneCount]float64 {
	var zones [zoneCount]float64
	if frameWidth <= 0 || frameHeight <= 0 {
		return zones
	}

	third := frameWidth / 3
	for _, d := range dets {
		contribution := e.contribution(d, frameHeight)

		home := zoneIndex(d.Box.CenterX(), frameWidth)
		zones[home] += contribution

		// Spill half-weight into straddled neighbors.
		switch home {
		case zoneLeft:
			if d.Box.Right > third {
				zones[zoneCenter] += contribution / 2
			}
		case zoneCenter:
			if d.Box.Left < third {
				zones[zoneLeft] += contribution / 2
			}
			if d.Box.Right > 2*third {
				zones[zoneRight] += contribution / 2
			}
		case zoneRight:
			if d.Box.Left < 2*third {
				zones[zoneCenter] += contribution / 2
			}
		}
	}
	return zones
}

// contribution averages three closeness signals: class danger, apparent
// size, and inverted distance.
func (e *Engine) contribution(d detect.Detection, frameHeight float64) float64 {
	danger := detect.Weight(d.Danger)
	size := math.Min(1, d.Box.Height()/frameHeight)

	// Unknown distance reads as middling proximity rather than zero risk.
	proximity := 0.5
	if d.DistanceMeters >= 0 {
		proximity = 1 - math.Min(1, d.DistanceMeters/e.cfg.DistanceNormalization)
	}

	return (danger + size + proximity) / 3
}

// decide applies the steering decision table in priority order.
func (e *Engine) decide(zones [zoneCount]float64) Guidance {
	left, center, right := zones[zoneLeft], zones[zoneCenter], zones[zoneRight]
	clear := e.cfg.ClearThreshold
	block := e.cfg.BlockThreshold

	switch {
	case left < clear && center < clear && right < clear:
		return Guidance{DirectionForward, UrgencyLow, "Path clear, continue forward."}

	case left >= block && center >= block && right >= block:
		return Guidance{DirectionBackward, UrgencyUrgent, "Obstacles everywhere. Stop and go back."}

	case center >= block:
		if left <= right {
			return Guidance{DirectionLeft, UrgencyHigh, "Obstacle ahead. Move left."}
		}
		return Guidance{DirectionRight, UrgencyHigh, "Obstacle ahead. Move right."}

	case left >= block && right < block:
		return Guidance{DirectionRight, UrgencyMedium, "Obstacle on the left. Keep right."}

	case right >= block && left < block:
		return Guidance{DirectionLeft, UrgencyMedium, "Obstacle on the right. Keep left."}

	case left >= block && right >= block:
		return Guidance{DirectionForward, UrgencyMedium, "Obstacles on both sides. Stay centered."}

	default:
		// Only low-level risk: nudge toward the calmest zone.
		switch lowestZone(left, center, right) {
		case zoneLeft:
			return Guidance{DirectionLeft, UrgencyLow, "Some obstacles around. Left side is clearest."}
		case zoneRight:
			return Guidance{DirectionRight, UrgencyLow, "Some obstacles around. Right side is clearest."}
		default:
			return Guidance{DirectionForward, UrgencyLow, "Some obstacles around. Center is clearest."}
		}
	}
}

func zoneIndex(centerX, frameWidth float64) int {
	switch detect.PositionOf(centerX, frameWidth) {
	case detect.PositionLeft:
		return zoneLeft
	case detect.PositionRight:
		return zoneRight
	default:
		return zoneCenter
	}
}

func lowestZone(left, center, right float64) int {
	if left < center && left < right {
		return zoneLeft
	}
	if right < center && right < left {
		return zoneRight
	}
	return zoneCenter
}
