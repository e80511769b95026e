// simulate replays synthetic scenes through the full pipeline and prints
// what a user would hear, for tuning without camera or model hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/pathsense/go-pathsense/internal/log"
	"github.com/pathsense/go-pathsense/pkg/announce"
	"github.com/pathsense/go-pathsense/pkg/camera"
	"github.com/pathsense/go-pathsense/pkg/detect"
	"github.com/pathsense/go-pathsense/pkg/frame"
	"github.com/pathsense/go-pathsense/pkg/pipeline"
)

// printEngine implements announce.Engine by printing each message.
type printEngine struct{}

func (printEngine) Speak(text string, done func(err error)) {
	fmt.Printf("  \U0001F50A %s\n", text)
	done(nil)
}

func (printEngine) Stop() {}

// scriptedInferencer stands in for the detection model: it emits one
// person box walking toward the camera, growing each frame.
type scriptedInferencer struct {
	tick int
}

const numClasses = 80

func (s *scriptedInferencer) Infer(*frame.Tensor) (detect.RawOutput, error) {
	s.tick++

	// Approaching person: the box height grows until it fills most of
	// the tensor, then the walker resets.
	h := float32(80 + (s.tick%30)*16)
	raw := detect.RawOutput{Rows: 4 + numClasses, Cols: 1}
	raw.Data = make([]float32, raw.Rows*raw.Cols)
	raw.Data[0] = 320     // center x
	raw.Data[1] = 320     // center y
	raw.Data[2] = h * 0.4 // width
	raw.Data[3] = h       // height
	raw.Data[4] = 0.9     // person confidence
	return raw, nil
}

func (s *scriptedInferencer) Loaded() bool { return true }

func main() {
	frames := flag.Int("frames", 40, "frames to simulate")
	stairs := flag.Bool("stairs", false, "add a stair-like floor pattern")
	model := flag.Bool("model", true, "include the scripted detection model")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	log.Init(*logLevel)

	var inferencer detect.Inferencer
	if *model {
		inferencer = &scriptedInferencer{}
	}

	scheduler := announce.NewScheduler(printEngine{}, announce.DefaultConfig())
	pipe := pipeline.New(pipeline.DefaultConfig(), pipeline.Deps{
		Inferencer: inferencer,
		Auxiliary:  []detect.Auxiliary{detect.NewStairsDetector()},
		Scheduler:  scheduler,
	})

	source := camera.NewSynthetic(640, 480)
	source.Interval = 0
	source.Stairs = *stairs

	now := time.Now()
	for i := 0; i < *frames; i++ {
		f, err := source.Next(context.Background())
		if err != nil {
			break
		}
		now = now.Add(250 * time.Millisecond)

		res := pipe.Process(f, now)
		fmt.Printf("frame %2d: detections=%d", i, len(res.Detections))
		if res.Guidance != nil {
			fmt.Printf("  guidance=%s/%s", res.Guidance.Direction, res.Guidance.Urgency)
		}
		fmt.Println()
	}
	scheduler.Stop()
}
