package camera

import (
	"context"
	"time"

	"github.com/pathsense/go-pathsense/pkg/frame"
)

// Synthetic generates frames without hardware: a mid-gray scene with a
// dark obstacle drifting across it, optionally over a banded floor that
// reads as stairs to the heuristic detector.
type Synthetic struct {
	Width    int
	Height   int
	Interval time.Duration // pacing between frames, 0 yields immediately
	Stairs   bool

	tick int
}

// NewSynthetic returns a generator with sane defaults.
func NewSynthetic(width, height int) *Synthetic {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	return &Synthetic{Width: width, Height: height, Interval: 125 * time.Millisecond}
}

// Next produces the next frame, pacing by Interval.
func (s *Synthetic) Next(ctx context.Context) (*frame.Planar, error) {
	if s.Interval > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.Interval):
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := s.render(time.Now())
	s.tick++
	return f, nil
}

// Close is a no-op; the generator holds no resources.
func (s *Synthetic) Close() error { return nil }

func (s *Synthetic) render(ts time.Time) *frame.Planar {
	w, h := s.Width, s.Height
	y := make([]byte, w*h)
	for i := range y {
		y[i] = 128
	}

	if s.Stairs {
		for row := h * 2 / 3; row < h; row++ {
			v := byte(200)
			if (row/4)%2 == 0 {
				v = 50
			}
			for col := 0; col < w; col++ {
				y[row*w+col] = v
			}
		}
	}

	// Obstacle: a dark block sweeping back and forth across the frame.
	bw, bh := w/5, h/2
	span := w - bw
	pos := (s.tick * 8) % (2 * span)
	if pos > span {
		pos = 2*span - pos
	}
	for row := h/4 + 1; row < h/4+bh && row < h; row++ {
		for col := pos; col < pos+bw && col < w; col++ {
			y[row*w+col] = 30
		}
	}

	cw, ch := (w+1)/2, (h+1)/2
	uv := make([]byte, cw*ch)
	for i := range uv {
		uv[i] = 128
	}
	u := uv
	v := make([]byte, cw*ch)
	copy(v, uv)

	return &frame.Planar{
		Y: y, U: u, V: v,
		YStride: w, UVStride: cw, UVPixelStride: 1,
		Width: w, Height: h,
		Timestamp: ts,
	}
}

var _ Source = (*Synthetic)(nil)
