// Package frame provides the planar camera frame type and the tensor
// preprocessor that feeds the detection model.
package frame

import "time"

// Planar is a camera frame in planar YUV layout: a full-resolution luma
// plane and two subsampled chroma planes, each with its own stride. This
// matches what mobile camera stacks hand out, so no copy is needed on the
// delivery path.
type Planar struct {
	Y []byte // luma plane
	U []byte // chroma plane (blue-difference)
	V []byte // chroma plane (red-difference)

	YStride       int // bytes per luma row
	UVStride      int // bytes per chroma row
	UVPixelStride int // bytes between horizontally adjacent chroma samples

	Width  int
	Height int

	Timestamp time.Time
}

// LumaAt returns the luma value at pixel (x, y).
// Out-of-range reads return neutral gray (128) so a malformed frame
// degrades instead of crashing the pipeline.
func (f *Planar) LumaAt(x, y int) byte {
	idx := y*f.YStride + x
	if idx < 0 || idx >= len(f.Y) {
		return 128
	}
	return f.Y[idx]
}

// chromaAt returns the chroma sample for pixel (x, y) from the given plane,
// honoring row and pixel strides. Exhausted planes read as 128.
func (f *Planar) chromaAt(plane []byte, x, y int) byte {
	idx := (y/2)*f.UVStride + (x/2)*f.UVPixelStride
	if idx < 0 || idx >= len(plane) {
		return 128
	}
	return plane[idx]
}

// Letterbox describes how a source frame was fitted into the square model
// input, so detector output can be projected back to source coordinates.
type Letterbox struct {
	Scale   float64 // source pixels * Scale = tensor pixels
	PadX    int     // left padding in the tensor, pixels
	PadY    int     // top padding in the tensor, pixels
	ScaledW int     // scaled image width inside the tensor
	ScaledH int     // scaled image height inside the tensor
}

// Tensor is a normalized [3,S,S] CHW float tensor in [0,1] channel space.
type Tensor struct {
	Data []float32
	Size int // side length S
}

// At returns the value at (channel, y, x).
func (t *Tensor) At(c, y, x int) float32 {
	return t.Data[c*t.Size*t.Size+y*t.Size+x]
}
