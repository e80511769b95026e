package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's Prometheus instruments.
type Metrics struct {
	FramesReceived  prometheus.Counter
	DroppedBusy     prometheus.Counter
	DroppedThrottle prometheus.Counter
	FramesProcessed prometheus.Counter

	InferenceFailures prometheus.Counter
	InferenceSeconds  prometheus.Histogram
	FrameSeconds      prometheus.Histogram

	Detections    prometheus.Counter
	Announcements prometheus.Counter
}

// NewMetrics registers the pipeline instruments on the given registerer.
// A nil registerer uses the process default.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		FramesReceived: f.NewCounter(prometheus.CounterOpts{
			Name: "pathsense_frames_received_total",
			Help: "Frames offered to the pipeline.",
		}),
		DroppedBusy: f.NewCounter(prometheus.CounterOpts{
			Name: "pathsense_frames_dropped_busy_total",
			Help: "Frames dropped because a frame was already in flight.",
		}),
		DroppedThrottle: f.NewCounter(prometheus.CounterOpts{
			Name: "pathsense_frames_dropped_throttled_total",
			Help: "Frames dropped by the FPS throttle.",
		}),
		FramesProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "pathsense_frames_processed_total",
			Help: "Frames that ran the full pipeline.",
		}),
		InferenceFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "pathsense_inference_failures_total",
			Help: "Model forward passes that returned an error.",
		}),
		InferenceSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathsense_inference_seconds",
			Help:    "Model forward pass latency.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		FrameSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathsense_frame_seconds",
			Help:    "End-to-end per-frame pipeline latency.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		Detections: f.NewCounter(prometheus.CounterOpts{
			Name: "pathsense_detections_total",
			Help: "Detections surviving decode, filtering and grouping.",
		}),
		Announcements: f.NewCounter(prometheus.CounterOpts{
			Name: "pathsense_announcements_total",
			Help: "Messages accepted by the announcement scheduler.",
		}),
	}
}
