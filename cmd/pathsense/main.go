// PathSense - real-time obstacle detection and spoken navigation guidance
// from a single camera feed.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pathsense/go-pathsense/internal/config"
	"github.com/pathsense/go-pathsense/internal/log"
	"github.com/pathsense/go-pathsense/pkg/announce"
	"github.com/pathsense/go-pathsense/pkg/camera"
	"github.com/pathsense/go-pathsense/pkg/detect"
	"github.com/pathsense/go-pathsense/pkg/frame"
	"github.com/pathsense/go-pathsense/pkg/haptic"
	"github.com/pathsense/go-pathsense/pkg/history"
	"github.com/pathsense/go-pathsense/pkg/pipeline"
	"github.com/pathsense/go-pathsense/pkg/settings"
	"github.com/pathsense/go-pathsense/pkg/speech"
	"github.com/pathsense/go-pathsense/pkg/web"
)

func main() {
	modelPath := flag.String("model", config.ModelPath(), "ONNX detection model path")
	device := flag.String("camera", strconv.Itoa(config.CameraDevice()), "capture device index or path")
	port := flag.String("port", config.DashboardPort(), "dashboard port")
	fps := flag.Float64("fps", 4, "target processing frame rate")
	synthetic := flag.Bool("synthetic", false, "use the synthetic frame source instead of a camera")
	logLevel := flag.String("log-level", config.LogLevel(), "log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Speech and announcement scheduling.
	scheduler := announce.NewScheduler(speech.NewSimulated(), announce.DefaultConfig())
	defer scheduler.Stop()

	// Detection history is optional; no DSN means no recording.
	var recorder history.Recorder = history.Null{}
	if dsn := config.PostgresDSN(); dsn != "" {
		pg, err := history.OpenPostgres(ctx, dsn)
		if err != nil {
			log.Warn("history store unavailable, recording disabled", "error", err)
		} else {
			defer pg.Close()
			recorder = history.NewAsync(pg, 256)
		}
	}
	defer recorder.Close()

	// A missing model degrades to heuristic detectors instead of exiting:
	// the cane must keep tapping even when the eyes are closed.
	var inferencer detect.Inferencer
	if runner, err := detect.NewRunner(*modelPath, frame.DefaultInputSize); err != nil {
		log.Warn("model unavailable, running degraded", "path", *modelPath, "error", err)
	} else {
		defer runner.Close()
		inferencer = runner
	}

	store := settings.NewStore(settings.Default())
	metrics := pipeline.NewMetrics(nil)

	var server *web.Server
	cfg := pipeline.DefaultConfig()
	cfg.TargetFPS = *fps
	pipe := pipeline.New(cfg, pipeline.Deps{
		Inferencer: inferencer,
		Auxiliary:  []detect.Auxiliary{detect.NewStairsDetector()},
		Scheduler:  scheduler,
		Settings:   store,
		Recorder:   recorder,
		Motor:      haptic.Logging{},
		Metrics:    metrics,
		OnResult:   func(r pipeline.Result) { server.Publish(r) },
	})

	// The server must exist before the first frame is submitted.
	server = web.NewServer(web.Options{Port: *port, Settings: store, Pipeline: pipe})
	server.StartAsync()
	defer server.Shutdown()

	source, err := openSource(*synthetic, *device)
	if err != nil {
		log.Error("camera unavailable", "device", *device, "error", err)
		os.Exit(1)
	}
	defer source.Close()

	log.Info("pathsense running",
		"degraded", pipe.Degraded(), "fps", *fps, "dashboard", *port)

	for {
		f, err := source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("shutting down")
				return
			}
			log.Error("frame capture failed", "error", err)
			os.Exit(1)
		}
		pipe.Submit(f)
	}
}

func openSource(synthetic bool, device string) (camera.Source, error) {
	if synthetic {
		return camera.NewSynthetic(640, 480), nil
	}
	return camera.OpenWebcam(device)
}
