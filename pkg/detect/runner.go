package detect

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/pathsense/go-pathsense/pkg/frame"
)

// Inferencer runs a detection model on a preprocessed tensor. A failed or
// unavailable model yields an empty RawOutput, never a crash.
type Inferencer interface {
	Infer(t *frame.Tensor) (RawOutput, error)
	Loaded() bool
}

// Runner executes a pre-trained ONNX detection network via the OpenCV DNN
// backend. The network is a black box: Runner only shuttles tensors in and
// raw output matrices out.
type Runner struct {
	net       gocv.Net
	inputSize int
	loaded    bool
	mu        sync.Mutex
}

// NewRunner loads the ONNX model at the given path. A missing or unloadable
// model returns an error; callers are expected to continue in degraded mode
// with heuristic detectors only.
func NewRunner(modelPath string, inputSize int) (*Runner, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model from %s", modelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	if inputSize <= 0 {
		inputSize = frame.DefaultInputSize
	}
	return &Runner{net: net, inputSize: inputSize, loaded: true}, nil
}

// Loaded reports whether a model is available for inference.
func (r *Runner) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Infer runs a forward pass and returns the raw output matrix unmodified.
func (r *Runner) Infer(t *frame.Tensor) (RawOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		return RawOutput{}, ErrModelNotLoaded
	}
	if t == nil || t.Size != r.inputSize || len(t.Data) != 3*t.Size*t.Size {
		return RawOutput{}, ErrBadTensor
	}

	blob, err := gocv.NewMatWithSizesFromBytes(
		[]int{1, 3, t.Size, t.Size}, gocv.MatTypeCV32F, floatBytes(t.Data))
	if err != nil {
		return RawOutput{}, fmt.Errorf("build input blob: %w", err)
	}
	defer blob.Close()

	r.net.SetInput(blob, "")
	output := r.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return RawOutput{}, fmt.Errorf("read output: %w", err)
	}

	// Output shape is [1, 4+numClasses, numBoxes]; Rows/Cols expose the
	// trailing two dimensions.
	raw := RawOutput{
		Rows: output.Rows(),
		Cols: output.Cols(),
		Data: make([]float32, len(data)),
	}
	copy(raw.Data, data)
	return raw, nil
}

// Close releases the network.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		r.loaded = false
		return r.net.Close()
	}
	return nil
}

// floatBytes converts a float32 slice to its little-endian byte layout for
// Mat construction.
func floatBytes(data []float32) []byte {
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
