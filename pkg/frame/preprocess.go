package frame

// DefaultInputSize is the square model input side length.
const DefaultInputSize = 640

// fastPathWidth is the source width at or above which the preprocessor
// samples every second pixel and replicates it into the skipped positions.
// This is a lossy approximation accepted for latency on large frames, not
// an exact resize.
const fastPathWidth = 1280

// neutralGray is the normalized padding value for letterbox borders.
const neutralGray = 0.5

// Preprocessor converts planar frames into normalized letterboxed tensors.
type Preprocessor struct {
	size int
}

// NewPreprocessor creates a preprocessor for a square model input of the
// given side length. Non-positive sizes fall back to DefaultInputSize.
func NewPreprocessor(size int) *Preprocessor {
	if size <= 0 {
		size = DefaultInputSize
	}
	return &Preprocessor{size: size}
}

// Size returns the model input side length.
func (p *Preprocessor) Size() int {
	return p.size
}

// Process letterboxes the frame into an S-square canvas, converts YUV to
// RGB, and returns the normalized CHW tensor plus the letterbox metadata
// needed to map detections back to source coordinates.
func (p *Preprocessor) Process(f *Planar) (*Tensor, Letterbox) {
	s := p.size
	scale := minf(float64(s)/float64(f.Width), float64(s)/float64(f.Height))
	lb := Letterbox{
		Scale:   scale,
		ScaledW: int(float64(f.Width) * scale),
		ScaledH: int(float64(f.Height) * scale),
	}
	lb.PadX = (s - lb.ScaledW) / 2
	lb.PadY = (s - lb.ScaledH) / 2

	plane := s * s
	data := make([]float32, 3*plane)
	for i := range data {
		data[i] = neutralGray
	}

	step := 1
	if f.Width >= fastPathWidth {
		step = 2
	}

	for oy := 0; oy < lb.ScaledH; oy += step {
		sy := int(float64(oy) / scale)
		if sy >= f.Height {
			sy = f.Height - 1
		}
		for ox := 0; ox < lb.ScaledW; ox += step {
			sx := int(float64(ox) / scale)
			if sx >= f.Width {
				sx = f.Width - 1
			}

			y := float64(f.LumaAt(sx, sy))
			u := float64(f.chromaAt(f.U, sx, sy)) - 128
			v := float64(f.chromaAt(f.V, sx, sy)) - 128

			r := clamp255(y + 1.402*v)
			g := clamp255(y - 0.344*u - 0.714*v)
			b := clamp255(y + 1.772*u)

			// Replicate into the skipped positions on the fast path.
			for dy := 0; dy < step && oy+dy < lb.ScaledH; dy++ {
				for dx := 0; dx < step && ox+dx < lb.ScaledW; dx++ {
					idx := (lb.PadY+oy+dy)*s + (lb.PadX + ox + dx)
					data[idx] = float32(r / 255)
					data[plane+idx] = float32(g / 255)
					data[2*plane+idx] = float32(b / 255)
				}
			}
		}
	}

	return &Tensor{Data: data, Size: s}, lb
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
