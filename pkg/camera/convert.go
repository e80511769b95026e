package camera

import (
	"time"

	"github.com/pathsense/go-pathsense/pkg/frame"
)

// bgrToPlanar converts packed 8-bit BGR into planar YUV420 using BT.601
// full-range coefficients. Chroma is subsampled by taking the top-left
// pixel of each 2x2 block.
func bgrToPlanar(bgr []byte, width, height int, ts time.Time) *frame.Planar {
	y := make([]byte, width*height)
	cw, ch := (width+1)/2, (height+1)/2
	u := make([]byte, cw*ch)
	v := make([]byte, cw*ch)

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			i := (row*width + col) * 3
			b := float64(bgr[i])
			g := float64(bgr[i+1])
			r := float64(bgr[i+2])

			y[row*width+col] = clampByte(0.299*r + 0.587*g + 0.114*b)

			if row%2 == 0 && col%2 == 0 {
				ci := (row/2)*cw + col/2
				u[ci] = clampByte(-0.169*r - 0.331*g + 0.5*b + 128)
				v[ci] = clampByte(0.5*r - 0.419*g - 0.081*b + 128)
			}
		}
	}

	return &frame.Planar{
		Y: y, U: u, V: v,
		YStride: width, UVStride: cw, UVPixelStride: 1,
		Width: width, Height: height,
		Timestamp: ts,
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
