package camera

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/pathsense/go-pathsense/pkg/frame"
)

// Webcam captures frames from a V4L2 device through OpenCV.
type Webcam struct {
	cap *gocv.VideoCapture
	mat gocv.Mat
}

// OpenWebcam opens the device, e.g. "0" or "/dev/video0".
func OpenWebcam(device string) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("open capture device %s: %w", device, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("capture device %s not opened", device)
	}
	return &Webcam{cap: cap, mat: gocv.NewMat()}, nil
}

// Next grabs one frame. Capture is synchronous; the context is only
// checked between attempts on transient empty reads.
func (w *Webcam) Next(ctx context.Context) (*frame.Planar, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !w.cap.Read(&w.mat) {
			return nil, fmt.Errorf("capture device closed")
		}
		if w.mat.Empty() {
			continue
		}

		data, err := w.mat.DataPtrUint8()
		if err != nil {
			return nil, fmt.Errorf("read frame data: %w", err)
		}
		return bgrToPlanar(data, w.mat.Cols(), w.mat.Rows(), time.Now()), nil
	}
}

// Close releases the device.
func (w *Webcam) Close() error {
	w.mat.Close()
	return w.cap.Close()
}

var _ Source = (*Webcam)(nil)
