// Package camera provides frame sources for the pipeline: a live webcam
// capture and a synthetic generator for development without hardware.
package camera

import (
	"context"

	"github.com/pathsense/go-pathsense/pkg/frame"
)

// Source yields planar frames until closed.
type Source interface {
	// Next blocks until a frame is available or the context ends. The
	// returned frame is owned by the caller.
	Next(ctx context.Context) (*frame.Planar, error)

	Close() error
}
