package method

import (
	"errors"
	"fmt"
)

// ErrUnavailable is the expected, non-fatal signal that a method cannot produce a forecast for
// the given input. Callers test for it with errors.Is and skip the method for that round.
var ErrUnavailable = errors.New("forecast unavailable")

var (
	ErrInsufficientData = fmt.Errorf("insufficient data, %w", ErrUnavailable)
	ErrDegenerate       = fmt.Errorf("numerically degenerate input, %w", ErrUnavailable)
)

// Unexpected failures. These indicate a bug in the caller or the method and are logged.
var (
	ErrLenMismatch      = errors.New("index and value slices have different lengths")
	ErrHorizonMismatch  = errors.New("forecast length does not match the requested horizon")
	ErrMethodPanic      = errors.New("forecast method panicked")
	ErrUnknownMethod    = errors.New("unknown prediction method")
	ErrInvalidWindow    = errors.New("moving average window must be at least 1")
	ErrInvalidSmoothing = errors.New("smoothing constant must be in (0, 1]")
	ErrInvalidDegree    = errors.New("polynomial degree must be at least 1")
)
