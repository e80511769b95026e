// Package web serves the monitoring dashboard: pipeline status, live
// detection events over websocket, user settings and Prometheus metrics.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pathsense/go-pathsense/internal/log"
	"github.com/pathsense/go-pathsense/pkg/hub"
	"github.com/pathsense/go-pathsense/pkg/pipeline"
	"github.com/pathsense/go-pathsense/pkg/settings"
)

// Options configures the dashboard server.
type Options struct {
	Port     string
	Settings *settings.Store
	Pipeline *pipeline.Pipeline

	// Gatherer backs /metrics. Nil uses the process default.
	Gatherer prometheus.Gatherer
}

// Server is the dashboard HTTP and websocket server.
type Server struct {
	app      *fiber.App
	port     string
	settings *settings.Store
	pipeline *pipeline.Pipeline
	events   *hub.Hub
	started  time.Time

	mu   sync.RWMutex
	last *Event
}

// NewServer builds the server and its routes.
func NewServer(opts Options) *Server {
	if opts.Settings == nil {
		opts.Settings = settings.NewStore(settings.Default())
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		port:     opts.Port,
		settings: opts.Settings,
		pipeline: opts.Pipeline,
		events:   hub.New("events"),
		started:  time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "PathSense Dashboard",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())
	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/settings", s.handleGetSettings)
	api.Post("/settings", s.handleUpdateSettings)
	api.Get("/last", s.handleLastEvent)

	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Start runs the hub and blocks serving HTTP.
func (s *Server) Start() error {
	log.Info("dashboard listening", "port", s.port)
	go s.events.Run()
	return s.app.Listen(":" + s.port)
}

// StartAsync serves in a background goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server stopped", "error", err)
		}
	}()
}

// Publish pushes one processed frame's result to all event subscribers.
func (s *Server) Publish(res pipeline.Result) {
	ev := eventFromResult(res)

	s.mu.Lock()
	s.last = &ev
	s.mu.Unlock()

	if s.events.ClientCount() == 0 {
		return
	}
	if err := s.events.BroadcastJSON(ev); err != nil {
		log.Warn("event broadcast failed", "error", err)
	}
}

// Shutdown stops the hub and the HTTP server.
func (s *Server) Shutdown() error {
	s.events.Stop()
	return s.app.Shutdown()
}
