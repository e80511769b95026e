package detect

import "errors"

// Sentinel errors for detector adapters.
var (
	// ErrModelNotLoaded is returned when inference is requested before a
	// model is available. Callers treat it as an empty detection list.
	ErrModelNotLoaded = errors.New("detect: model not loaded")

	// ErrBadTensor is returned when the input tensor does not match the
	// model's expected shape.
	ErrBadTensor = errors.New("detect: tensor shape mismatch")
)
