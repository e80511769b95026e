package detect

import (
	"testing"
	"time"

	"github.com/pathsense/go-pathsense/pkg/frame"
)

// lumaFrame builds a frame whose luma rows are produced by rowValue.
func lumaFrame(w, h int, rowValue func(y int) byte) *frame.Planar {
	y := make([]byte, w*h)
	for row := 0; row < h; row++ {
		v := rowValue(row)
		for col := 0; col < w; col++ {
			y[row*w+col] = v
		}
	}
	uv := make([]byte, (w/2)*(h/2))
	for i := range uv {
		uv[i] = 128
	}
	return &frame.Planar{
		Y: y, U: uv, V: uv,
		YStride: w, UVStride: w / 2, UVPixelStride: 1,
		Width: w, Height: h,
	}
}

func TestStairsDetector_BandedFloor(t *testing.T) {
	// Alternating bright/dark bands in the bottom third look like stair
	// edges from above.
	f := lumaFrame(120, 90, func(y int) byte {
		if y < 60 {
			return 128
		}
		if (y/4)%2 == 0 {
			return 50
		}
		return 200
	})

	now := time.Now()
	dets := NewStairsDetector().Detect(f, now)
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1", len(dets))
	}

	det := dets[0]
	if det.ClassName != "stairs" {
		t.Errorf("class: got %s", det.ClassName)
	}
	if det.ClassID != HeuristicClassID {
		t.Errorf("heuristic detections must carry the sentinel class id, got %d", det.ClassID)
	}
	if det.Confidence != StairsConfidence {
		t.Errorf("confidence: got %v, want fixed %v", det.Confidence, StairsConfidence)
	}
	if det.Danger != DangerCritical {
		t.Errorf("danger: got %v, want critical", det.Danger)
	}
	if det.Box.Top != 60 || det.Box.Bottom != 90 || det.Box.Left != 0 || det.Box.Right != 120 {
		t.Errorf("box should span the scanned region, got %+v", det.Box)
	}
}

func TestStairsDetector_FlatFloor(t *testing.T) {
	f := lumaFrame(120, 90, func(y int) byte { return 128 })
	if dets := NewStairsDetector().Detect(f, time.Now()); dets != nil {
		t.Errorf("flat luma produced %d detections", len(dets))
	}
}

func TestStairsDetector_TooFewEdgeRows(t *testing.T) {
	// A single sharp transition is a shadow line, not a staircase.
	f := lumaFrame(120, 90, func(y int) byte {
		if y >= 74 {
			return 200
		}
		return 60
	})
	if dets := NewStairsDetector().Detect(f, time.Now()); dets != nil {
		t.Errorf("single edge produced %d detections", len(dets))
	}
}

func TestStairsDetector_TinyFrame(t *testing.T) {
	f := lumaFrame(4, 4, func(y int) byte { return 128 })
	if dets := NewStairsDetector().Detect(f, time.Now()); dets != nil {
		t.Errorf("tiny frame produced detections")
	}
}
