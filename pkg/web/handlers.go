package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/pathsense/go-pathsense/pkg/hub"
	"github.com/pathsense/go-pathsense/pkg/pipeline"
	"github.com/pathsense/go-pathsense/pkg/settings"
)

// Event is the dashboard's JSON view of one processed frame.
type Event struct {
	Timestamp  time.Time        `json:"timestamp"`
	Degraded   bool             `json:"degraded"`
	LatencyMS  float64          `json:"latency_ms"`
	Detections []EventDetection `json:"detections"`
	Guidance   *EventGuidance   `json:"guidance,omitempty"`
	Announced  []string         `json:"announced,omitempty"`
}

// EventDetection is one detection within an event.
type EventDetection struct {
	Class      string     `json:"class"`
	Confidence float64    `json:"confidence"`
	DistanceM  float64    `json:"distance_m"`
	RiskScore  float64    `json:"risk_score"`
	RiskLevel  string     `json:"risk_level"`
	Position   string     `json:"position"`
	Box        [4]float64 `json:"box"` // left, top, right, bottom
}

// EventGuidance is the steering recommendation within an event.
type EventGuidance struct {
	Direction string `json:"direction"`
	Urgency   string `json:"urgency"`
	Message   string `json:"message"`
}

func eventFromResult(res pipeline.Result) Event {
	ev := Event{
		Timestamp: res.Timestamp,
		Degraded:  res.Degraded,
		LatencyMS: float64(res.Latency.Microseconds()) / 1000,
		Announced: res.Announced,
	}

	fw := float64(res.FrameWidth)
	for _, a := range res.Assessments {
		d := a.Detection
		ev.Detections = append(ev.Detections, EventDetection{
			Class:      d.ClassName,
			Confidence: d.Confidence,
			DistanceM:  d.DistanceMeters,
			RiskScore:  a.Score,
			RiskLevel:  a.Level.String(),
			Position:   string(d.Position(fw)),
			Box:        [4]float64{d.Box.Left, d.Box.Top, d.Box.Right, d.Box.Bottom},
		})
	}
	if res.Guidance != nil {
		ev.Guidance = &EventGuidance{
			Direction: string(res.Guidance.Direction),
			Urgency:   string(res.Guidance.Urgency),
			Message:   res.Guidance.Message,
		}
	}
	return ev
}

// Status is the /api/status payload.
type Status struct {
	Degraded      bool              `json:"degraded"`
	TargetFPS     float64           `json:"target_fps"`
	UptimeSeconds float64           `json:"uptime_seconds"`
	Subscribers   int               `json:"subscribers"`
	Settings      settings.Settings `json:"settings"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	st := Status{
		UptimeSeconds: time.Since(s.started).Seconds(),
		Subscribers:   s.events.ClientCount(),
		Settings:      s.settings.Current(),
	}
	if s.pipeline != nil {
		st.Degraded = s.pipeline.Degraded()
		st.TargetFPS = s.pipeline.TargetFPS()
	}
	return c.JSON(st)
}

func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	return c.JSON(s.settings.Current())
}

// handleUpdateSettings replaces the settings snapshot. Out-of-range values
// are clamped, never rejected; the response carries the applied values.
func (s *Server) handleUpdateSettings(c *fiber.Ctx) error {
	var next settings.Settings
	if err := c.BodyParser(&next); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid settings payload",
		})
	}
	return c.JSON(s.settings.Update(next))
}

// handleLastEvent returns the most recent processed-frame event, for
// dashboards catching up after connect.
func (s *Server) handleLastEvent(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return c.Status(fiber.StatusNoContent).Send(nil)
	}
	return c.JSON(s.last)
}

func (s *Server) handleEventsWS(c *websocket.Conn) {
	hub.NewClient(s.events, c).Run()
}
