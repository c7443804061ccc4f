// Package method implements the prediction methods. Each method fits the observed series
// and extrapolates it onto a set of future indices.
package method

import (
	"fmt"
	"math"
)

// Forecaster is the contract shared by every prediction method. Implementations are pure:
// they never retain or mutate their inputs, and the same input always yields the same
// forecast. A method that cannot forecast the input returns an error wrapping ErrUnavailable.
type Forecaster interface {
	Kind() Kind
	Forecast(x []int, y []float64, xPredict []int) ([]float64, error)
}

// New returns the forecaster for the given kind configured with opt. A nil opt uses the
// default options.
func New(kind Kind, opt *Options) (Forecaster, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindBayesian:
		return NewBayesian(opt.PriorPrecision, opt.NoisePrecision), nil
	case KindMovingAverage:
		return NewMovingAverage(opt.Window), nil
	case KindExponentialSmoothing:
		return NewExponentialSmoothing(opt.SmoothingAlpha), nil
	case KindPolynomial:
		return NewPolynomial(opt.Degree), nil
	default:
		return nil, fmt.Errorf("%s, %w", kind, ErrUnknownMethod)
	}
}

// NewAll returns one forecaster per kind in canonical order
func NewAll(opt *Options) ([]Forecaster, error) {
	kinds := All()
	forecasters := make([]Forecaster, 0, len(kinds))
	for _, k := range kinds {
		f, err := New(k, opt)
		if err != nil {
			return nil, fmt.Errorf("unable to initialize %s, %w", k, err)
		}
		forecasters = append(forecasters, f)
	}
	return forecasters, nil
}

// Run calls the forecaster and guards the call boundary: a panic inside the method is
// returned as an error wrapping ErrMethodPanic and a result of the wrong length as
// ErrHorizonMismatch.
func Run(f Forecaster, x []int, y []float64, xPredict []int) (res []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%s: %v, %w", f.Kind(), r, ErrMethodPanic)
		}
	}()

	res, err = f.Forecast(x, y, xPredict)
	if err != nil {
		return nil, err
	}
	if len(res) != len(xPredict) {
		return nil, fmt.Errorf("%s returned %d values for %d indices, %w", f.Kind(), len(res), len(xPredict), ErrHorizonMismatch)
	}
	return res, nil
}

func validateInput(x []int, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("got %d indices and %d values, %w", len(x), len(y), ErrLenMismatch)
	}
	return nil
}

func requireObservations(n, minObs int) error {
	if n < minObs {
		return fmt.Errorf("need at least %d observations, got %d, %w", minObs, n, ErrInsufficientData)
	}
	return nil
}

// flat returns a forecast repeating val for every requested index
func flat(val float64, xPredict []int) []float64 {
	res := make([]float64, len(xPredict))
	for i := range res {
		res[i] = val
	}
	return res
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
