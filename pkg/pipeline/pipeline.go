// Package pipeline wires the per-frame processing chain: preprocess,
// inference, decode, heuristics, risk, tracking, guidance, announcements.
// It owns the real-time discipline — frames are throttled and dropped,
// never queued.
package pipeline

import (
	"sync/atomic"
	"time"

	"github.com/pathsense/go-pathsense/internal/log"
	"github.com/pathsense/go-pathsense/pkg/announce"
	"github.com/pathsense/go-pathsense/pkg/detect"
	"github.com/pathsense/go-pathsense/pkg/frame"
	"github.com/pathsense/go-pathsense/pkg/guide"
	"github.com/pathsense/go-pathsense/pkg/haptic"
	"github.com/pathsense/go-pathsense/pkg/history"
	"github.com/pathsense/go-pathsense/pkg/risk"
	"github.com/pathsense/go-pathsense/pkg/settings"
	"github.com/pathsense/go-pathsense/pkg/track"
)

// Frame-rate bounds for the adaptive throttle.
const (
	MinFPS = 1.0
	MaxFPS = 8.0
)

// criticalBuzz is the single vibration fired for a critical obstacle.
const criticalBuzz = 400 * time.Millisecond

// Config holds the tuning for every pipeline stage.
type Config struct {
	InputSize  int
	TargetFPS  float64
	MinCluster int

	Decoder   detect.DecoderConfig
	Estimator risk.EstimatorConfig
	Weights   risk.Weights
	Tracker   track.Config
	Guide     guide.Config
}

// DefaultConfig returns production tuning for all stages.
func DefaultConfig() Config {
	return Config{
		InputSize:  frame.DefaultInputSize,
		TargetFPS:  4,
		MinCluster: track.DefaultMinCluster,
		Decoder:    detect.DefaultDecoderConfig(),
		Estimator:  risk.DefaultEstimatorConfig(),
		Weights:    risk.DefaultWeights(),
		Tracker:    track.DefaultConfig(),
		Guide:      guide.DefaultConfig(),
	}
}

// Deps are the pipeline's collaborators. Nil optional dependencies are
// replaced with no-op implementations.
type Deps struct {
	Inferencer detect.Inferencer // nil runs degraded, heuristics only
	Auxiliary  []detect.Auxiliary
	Scheduler  *announce.Scheduler
	Settings   settings.Provider
	Recorder   history.Recorder
	Motor      haptic.Motor
	Metrics    *Metrics

	// OnResult receives every processed frame's result, e.g. for the
	// dashboard feed. Called from the processing goroutine.
	OnResult func(Result)
}

// Result is the typed outcome of processing one frame.
type Result struct {
	FrameWidth  int
	FrameHeight int
	Timestamp   time.Time
	Degraded    bool

	Detections   []detect.Detection // post-filter, post-grouping
	Observations []track.Observation
	Assessments  []risk.Assessment
	Guidance     *guide.Guidance // nil while the guidance cooldown holds
	Announced    []string

	Latency time.Duration
}

// Pipeline runs the full per-frame chain. At most one frame is in flight;
// excess frames are dropped at Submit. All stateful stages (tracker,
// guidance engine) are mutated only from the single processing goroutine.
type Pipeline struct {
	cfg        Config
	pre        *frame.Preprocessor
	inferencer detect.Inferencer
	aux        []detect.Auxiliary
	decoder    *detect.Decoder
	estimator  *risk.Estimator
	scorer     *risk.Scorer
	tracker    *track.Tracker
	guide      *guide.Engine
	scheduler  *announce.Scheduler
	settings   settings.Provider
	recorder   history.Recorder
	motor      haptic.Motor
	metrics    *Metrics
	onResult   func(Result)

	busy         atomic.Bool
	intervalNs   atomic.Int64
	lastAccepted atomic.Int64 // unix nanos of the last accepted frame

	now func() time.Time
}

// New creates a pipeline. Invalid tuning is clamped by each stage's own
// constructor.
func New(cfg Config, deps Deps) *Pipeline {
	def := DefaultConfig()
	if cfg.InputSize <= 0 {
		cfg.InputSize = def.InputSize
	}
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = def.TargetFPS
	}
	if cfg.MinCluster <= 1 {
		cfg.MinCluster = def.MinCluster
	}

	if deps.Settings == nil {
		deps.Settings = settings.NewStore(settings.Default())
	}
	if deps.Recorder == nil {
		deps.Recorder = history.Null{}
	}
	if deps.Motor == nil {
		deps.Motor = haptic.Null{}
	}

	p := &Pipeline{
		cfg:        cfg,
		pre:        frame.NewPreprocessor(cfg.InputSize),
		inferencer: deps.Inferencer,
		aux:        deps.Auxiliary,
		decoder:    detect.NewDecoder(cfg.Decoder),
		estimator:  risk.NewEstimator(cfg.Estimator),
		scorer:     risk.NewScorer(cfg.Weights),
		tracker:    track.NewTracker(cfg.Tracker),
		guide:      guide.NewEngine(cfg.Guide),
		scheduler:  deps.Scheduler,
		settings:   deps.Settings,
		recorder:   deps.Recorder,
		motor:      deps.Motor,
		metrics:    deps.Metrics,
		onResult:   deps.OnResult,
		now:        time.Now,
	}
	p.SetTargetFPS(cfg.TargetFPS)
	return p
}

// SetTargetFPS adjusts the throttle, clamped to [MinFPS, MaxFPS]. Safe to
// call from any goroutine while frames are flowing.
func (p *Pipeline) SetTargetFPS(fps float64) {
	if fps < MinFPS {
		fps = MinFPS
	}
	if fps > MaxFPS {
		fps = MaxFPS
	}
	p.intervalNs.Store(int64(float64(time.Second) / fps))
}

// TargetFPS returns the current throttle target.
func (p *Pipeline) TargetFPS() float64 {
	return float64(time.Second) / float64(p.intervalNs.Load())
}

// Degraded reports whether the pipeline is running without a usable model.
func (p *Pipeline) Degraded() bool {
	return p.inferencer == nil || !p.inferencer.Loaded()
}

// Submit offers a frame. Returns false when the frame was dropped, either
// by the FPS throttle or because a frame is already in flight. Accepted
// frames are processed on a background goroutine.
func (p *Pipeline) Submit(f *frame.Planar) bool {
	if p.metrics != nil {
		p.metrics.FramesReceived.Inc()
	}

	now := p.now()
	if last := p.lastAccepted.Load(); last != 0 &&
		now.UnixNano()-last < p.intervalNs.Load() {
		if p.metrics != nil {
			p.metrics.DroppedThrottle.Inc()
		}
		return false
	}

	if !p.busy.CompareAndSwap(false, true) {
		if p.metrics != nil {
			p.metrics.DroppedBusy.Inc()
		}
		return false
	}
	p.lastAccepted.Store(now.UnixNano())

	go func() {
		res := p.Process(f, p.now())
		// Release before the callback so a consumer reacting to the
		// result can submit the next frame immediately.
		p.busy.Store(false)
		if p.onResult != nil {
			p.onResult(res)
		}
	}()
	return true
}

// Process runs the full chain synchronously. Submit uses it internally;
// it is also the direct entry point for offline replay.
func (p *Pipeline) Process(f *frame.Planar, now time.Time) Result {
	start := time.Now()
	st := p.settings.Current()
	fw, fh := float64(f.Width), float64(f.Height)

	tensor, lb := p.pre.Process(f)

	var raw detect.RawOutput
	degraded := p.Degraded()
	if !degraded {
		t0 := time.Now()
		out, err := p.inferencer.Infer(tensor)
		if p.metrics != nil {
			p.metrics.InferenceSeconds.Observe(time.Since(t0).Seconds())
		}
		if err != nil {
			// Inference failure degrades the frame, it never kills the
			// pipeline: heuristic detectors still run below.
			log.Debug("inference failed", "error", err)
			if p.metrics != nil {
				p.metrics.InferenceFailures.Inc()
			}
			degraded = true
		} else {
			raw = out
		}
	}

	dets := p.decoder.Decode(raw, lb, f.Width, f.Height, now)
	for _, a := range p.aux {
		dets = append(dets, a.Detect(f, now)...)
	}

	kept := make([]detect.Detection, 0, len(dets))
	for _, d := range dets {
		if !st.Allows(d.ClassName) {
			continue
		}
		d.DistanceMeters = p.estimator.Estimate(d.ClassName, d.Box.Height(), fh)
		kept = append(kept, d)
	}

	grouped := track.GroupClustered(kept, fw, p.cfg.MinCluster)
	observations := p.tracker.Update(grouped, now)

	assessments := make([]risk.Assessment, 0, len(observations))
	var announced []string
	for _, obs := range observations {
		a := p.scorer.AssessScaled(obs.Detection, fw, fh, st.Sensitivity)
		assessments = append(assessments, a)

		if obs.Announce && speakAlert(a.Level, st.Verbosity) {
			if p.enqueue(a.Recommendation, alertPriority(a.Level), a.AlertKey, alertCooldown(a.Level)) {
				announced = append(announced, a.Recommendation)
			}
		}
		if a.Level == risk.LevelCritical {
			p.motor.Vibrate(criticalBuzz, 1.0)
		}

		p.recorder.Record(history.Entry{
			ClassName:  obs.Detection.ClassName,
			Confidence: obs.Detection.Confidence,
			Distance:   obs.Detection.DistanceMeters,
			RiskScore:  a.Score,
			RiskLevel:  a.Level.String(),
			Position:   string(obs.Detection.Position(fw)),
			ObservedAt: now,
		})
	}

	var g *guide.Guidance
	if guidance, issued := p.guide.Evaluate(grouped, fw, fh, now); issued {
		g = &guidance
		if speakGuidance(guidance.Urgency, st.Verbosity) {
			if p.enqueue(guidance.Message, guidancePriority(guidance.Urgency), "", 0) {
				announced = append(announced, guidance.Message)
			}
		}
		if guidance.Urgency == guide.UrgencyUrgent {
			p.motor.Pulse([]time.Duration{
				150 * time.Millisecond, 100 * time.Millisecond,
				150 * time.Millisecond, 100 * time.Millisecond,
				150 * time.Millisecond,
			}, 1.0)
		}
	}

	latency := time.Since(start)
	if p.metrics != nil {
		p.metrics.FramesProcessed.Inc()
		p.metrics.Detections.Add(float64(len(grouped)))
		p.metrics.FrameSeconds.Observe(latency.Seconds())
	}

	return Result{
		FrameWidth:   f.Width,
		FrameHeight:  f.Height,
		Timestamp:    now,
		Degraded:     degraded,
		Detections:   grouped,
		Observations: observations,
		Assessments:  assessments,
		Guidance:     g,
		Announced:    announced,
		Latency:      latency,
	}
}

// enqueue forwards to the scheduler, tolerating its absence.
func (p *Pipeline) enqueue(message string, prio announce.Priority, key string, cooldown time.Duration) bool {
	if p.scheduler == nil || message == "" {
		return false
	}
	ok := p.scheduler.Enqueue(message, prio, key, cooldown)
	if ok && p.metrics != nil {
		p.metrics.Announcements.Inc()
	}
	return ok
}

// speakAlert gates obstacle announcements by verbosity.
func speakAlert(level risk.Level, verbosity int) bool {
	switch verbosity {
	case settings.VerbosityQuiet:
		return level == risk.LevelCritical
	case settings.VerbosityVerbose:
		return level >= risk.LevelLow
	default:
		return level > risk.LevelLow
	}
}

// speakGuidance gates steering announcements by verbosity. Low-urgency
// guidance is chatty and only speaks at verbose.
func speakGuidance(u guide.Urgency, verbosity int) bool {
	switch verbosity {
	case settings.VerbosityQuiet:
		return u == guide.UrgencyUrgent
	case settings.VerbosityVerbose:
		return true
	default:
		return u != guide.UrgencyLow
	}
}

func alertPriority(level risk.Level) announce.Priority {
	switch level {
	case risk.LevelCritical:
		return announce.PriorityInterrupt
	case risk.LevelHigh:
		return announce.PriorityHigh
	case risk.LevelMedium:
		return announce.PriorityNormal
	default:
		return announce.PriorityLow
	}
}

// alertCooldown mirrors the tracker's per-level cooldowns so distinct
// tracks of the same class, position and level cannot flood the queue.
func alertCooldown(level risk.Level) time.Duration {
	switch level {
	case risk.LevelCritical:
		return 2 * time.Second
	case risk.LevelHigh:
		return 3 * time.Second
	case risk.LevelMedium:
		return 5 * time.Second
	default:
		return 8 * time.Second
	}
}

func guidancePriority(u guide.Urgency) announce.Priority {
	switch u {
	case guide.UrgencyUrgent:
		return announce.PriorityInterrupt
	case guide.UrgencyHigh:
		return announce.PriorityHigh
	case guide.UrgencyMedium:
		return announce.PriorityNormal
	default:
		return announce.PriorityLow
	}
}
