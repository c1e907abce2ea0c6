package domain

import "errors"

var (
	// ErrInputShape reports a field whose dimensions disagree with its
	// coordinate arrays, or whose coordinates are not strictly monotonic.
	ErrInputShape = errors.New("input shape mismatch")

	// ErrOutput reports an output path that could not be written.
	ErrOutput = errors.New("output not writable")
)
