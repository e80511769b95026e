package frame

import (
	"math"
	"testing"
)

const floatTolerance = 1e-6

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// uniformFrame builds a planar frame filled with constant YUV values.
func uniformFrame(w, h int, y, u, v byte) *Planar {
	yPlane := make([]byte, w*h)
	for i := range yPlane {
		yPlane[i] = y
	}
	uvStride := (w + 1) / 2
	uvRows := (h + 1) / 2
	uPlane := make([]byte, uvStride*uvRows)
	vPlane := make([]byte, uvStride*uvRows)
	for i := range uPlane {
		uPlane[i] = u
		vPlane[i] = v
	}
	return &Planar{
		Y: yPlane, U: uPlane, V: vPlane,
		YStride: w, UVStride: uvStride, UVPixelStride: 1,
		Width: w, Height: h,
	}
}

func TestProcess_LetterboxMetadata(t *testing.T) {
	tests := []struct {
		name       string
		w, h, size int
		scale      float64
		padX, padY int
	}{
		{"wide 16:9", 1280, 720, 640, 0.5, 0, 140},
		{"tall", 360, 640, 640, 1.0, 140, 0},
		{"square", 640, 640, 640, 1.0, 0, 0},
		{"small landscape", 32, 16, 64, 2.0, 0, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPreprocessor(tt.size)
			_, lb := p.Process(uniformFrame(tt.w, tt.h, 128, 128, 128))
			if !floatEquals(lb.Scale, tt.scale) {
				t.Errorf("scale: got %v, want %v", lb.Scale, tt.scale)
			}
			if lb.PadX != tt.padX || lb.PadY != tt.padY {
				t.Errorf("pad: got (%d,%d), want (%d,%d)", lb.PadX, lb.PadY, tt.padX, tt.padY)
			}
			if lb.ScaledW+2*lb.PadX > tt.size || lb.ScaledH+2*lb.PadY > tt.size {
				t.Errorf("scaled image + padding exceeds canvas")
			}
		})
	}
}

func TestProcess_PaddingIsNeutralGray(t *testing.T) {
	p := NewPreprocessor(64)
	tensor, lb := p.Process(uniformFrame(32, 16, 235, 128, 128))

	if lb.PadY == 0 {
		t.Fatal("expected top padding for a wide frame")
	}
	for c := 0; c < 3; c++ {
		if got := tensor.At(c, 0, 0); got != 0.5 {
			t.Errorf("pad pixel channel %d: got %v, want 0.5", c, got)
		}
		// First image row is below the padding band.
		if got := tensor.At(c, lb.PadY, 0); got == 0.5 {
			t.Errorf("image pixel channel %d still gray", c)
		}
	}
}

func TestProcess_GrayYUVMapsToGrayRGB(t *testing.T) {
	p := NewPreprocessor(64)
	tensor, lb := p.Process(uniformFrame(64, 64, 128, 128, 128))

	want := float32(128.0 / 255.0)
	got := tensor.At(0, lb.PadY+10, lb.PadX+10)
	if math.Abs(float64(got-want)) > 1e-4 {
		t.Errorf("gray luma: got %v, want %v", got, want)
	}
}

func TestProcess_ChromaConversion(t *testing.T) {
	// Strong V (red difference): R clamps to 255, G drops, B stays at luma.
	p := NewPreprocessor(64)
	tensor, lb := p.Process(uniformFrame(64, 64, 128, 128, 228))

	x, y := lb.PadX+20, lb.PadY+20
	r := float64(tensor.At(0, y, x)) * 255
	g := float64(tensor.At(1, y, x)) * 255
	b := float64(tensor.At(2, y, x)) * 255

	if math.Abs(r-255) > 0.5 {
		t.Errorf("R: got %v, want 255 (clamped)", r)
	}
	wantG := 128 - 0.714*100
	if math.Abs(g-wantG) > 0.5 {
		t.Errorf("G: got %v, want %v", g, wantG)
	}
	if math.Abs(b-128) > 0.5 {
		t.Errorf("B: got %v, want 128", b)
	}
}

func TestProcess_MalformedPlanesDegradeToGray(t *testing.T) {
	f := uniformFrame(64, 64, 235, 90, 200)
	// Truncate the planes so most reads run past the end.
	f.Y = f.Y[:10]
	f.U = f.U[:2]
	f.V = nil

	p := NewPreprocessor(64)
	tensor, lb := p.Process(f)

	// A pixel past the truncation point reads 128/128/128 -> gray.
	want := float32(128.0 / 255.0)
	for c := 0; c < 3; c++ {
		got := tensor.At(c, lb.PadY+32, lb.PadX+32)
		if math.Abs(float64(got-want)) > 1e-4 {
			t.Errorf("channel %d: got %v, want neutral %v", c, got, want)
		}
	}
}

func TestProcess_FastPathFillsEveryPixel(t *testing.T) {
	// Wide source triggers stride-2 sampling; replication must leave no
	// gray holes inside the image region.
	p := NewPreprocessor(64)
	tensor, lb := p.Process(uniformFrame(1280, 720, 235, 128, 128))

	for oy := 0; oy < lb.ScaledH; oy++ {
		for ox := 0; ox < lb.ScaledW; ox++ {
			if tensor.At(0, lb.PadY+oy, lb.PadX+ox) == 0.5 {
				t.Fatalf("gray hole at (%d,%d) inside image region", ox, oy)
			}
		}
	}
}

func TestProcess_TensorShape(t *testing.T) {
	p := NewPreprocessor(0)
	if p.Size() != DefaultInputSize {
		t.Fatalf("default size: got %d, want %d", p.Size(), DefaultInputSize)
	}

	p = NewPreprocessor(64)
	tensor, _ := p.Process(uniformFrame(32, 16, 128, 128, 128))
	if len(tensor.Data) != 3*64*64 {
		t.Errorf("tensor length: got %d, want %d", len(tensor.Data), 3*64*64)
	}
	for _, v := range tensor.Data {
		if v < 0 || v > 1 {
			t.Fatalf("tensor value %v out of [0,1]", v)
		}
	}
}
