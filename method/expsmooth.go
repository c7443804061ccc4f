package method

import (
	"fmt"
)

// ExponentialSmoothing forecasts a flat line at the simple exponentially smoothed level
type ExponentialSmoothing struct {
	Alpha float64
}

func NewExponentialSmoothing(alpha float64) *ExponentialSmoothing {
	return &ExponentialSmoothing{Alpha: alpha}
}

func (e *ExponentialSmoothing) Kind() Kind {
	return KindExponentialSmoothing
}

// Forecast requires at least two observations and alpha in (0, 1]. The level starts at the
// first value and folds in each later value as alpha*v + (1-alpha)*level.
func (e *ExponentialSmoothing) Forecast(x []int, y []float64, xPredict []int) ([]float64, error) {
	if err := validateInput(x, y); err != nil {
		return nil, err
	}
	if err := requireObservations(len(y), 2); err != nil {
		return nil, err
	}

	alpha := e.Alpha
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("got %g, %w", alpha, ErrInvalidSmoothing)
	}

	smoothed := y[0]
	for _, val := range y[1:] {
		smoothed = alpha*val + (1-alpha)*smoothed
	}
	return flat(smoothed, xPredict), nil
}
