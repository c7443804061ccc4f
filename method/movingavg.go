package method

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// MovingAverage forecasts a flat line at the mean of the trailing window of observations
type MovingAverage struct {
	Window int
}

func NewMovingAverage(window int) *MovingAverage {
	return &MovingAverage{Window: window}
}

func (m *MovingAverage) Kind() Kind {
	return KindMovingAverage
}

// Forecast requires at least one observation and a window of at least 1. Series shorter than
// the window are averaged in full.
func (m *MovingAverage) Forecast(x []int, y []float64, xPredict []int) ([]float64, error) {
	if err := validateInput(x, y); err != nil {
		return nil, err
	}
	if err := requireObservations(len(y), 1); err != nil {
		return nil, err
	}

	if m.Window < 1 {
		return nil, fmt.Errorf("got %d, %w", m.Window, ErrInvalidWindow)
	}
	window := min(m.Window, len(y))

	avg := stat.Mean(y[len(y)-window:], nil)
	return flat(avg, xPredict), nil
}
