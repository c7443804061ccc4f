// Package series holds the observed, gap free sequence of user entered values that the
// prediction methods forecast from.
package series

import (
	"errors"
	"fmt"
)

var (
	ErrDatasetLenMismatch = errors.New("index feature has a different length than observations")
	ErrNonMonotonic       = errors.New("index feature is not monotonic")
	ErrIndexGap           = errors.New("index feature does not increase by exactly one")
	ErrInvalidStartIndex  = errors.New("index feature must start at 1")
)

// Observation is a single user entered value at a 1-based entry index.
type Observation struct {
	Index int     `json:"entry_number"`
	Value float64 `json:"value"`
}

// Series represents the observed values and their entry indices. Both must be of the
// same length, with X starting at 1 and increasing by exactly one.
type Series struct {
	X []int
	Y []float64
}

// NewSeries returns an instance of a Series given an index and value slice. The inputs are
// copied so later changes to them are not reflected in the Series.
func NewSeries(x []int, y []float64) (Series, error) {
	if len(x) != len(y) {
		return Series{}, fmt.Errorf(
			"index feature has length of %d, but values has a length of %d, %w",
			len(x), len(y), ErrDatasetLenMismatch,
		)
	}

	for i := 0; i < len(x); i++ {
		if i == 0 {
			if x[i] != 1 {
				return Series{}, fmt.Errorf("got first index %d, %w", x[i], ErrInvalidStartIndex)
			}
			continue
		}
		if x[i] <= x[i-1] {
			return Series{}, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		if x[i] != x[i-1]+1 {
			return Series{}, fmt.Errorf("jump from %d to %d at %d, %w", x[i-1], x[i], i, ErrIndexGap)
		}
	}

	xSeries := make([]int, len(x))
	ySeries := make([]float64, len(y))
	copy(xSeries, x)
	copy(ySeries, y)
	return Series{X: xSeries, Y: ySeries}, nil
}

// FromValues builds a Series from values alone, assigning indices 1..n.
func FromValues(y []float64) Series {
	s := Series{
		X: make([]int, len(y)),
		Y: make([]float64, len(y)),
	}
	for i := range y {
		s.X[i] = i + 1
	}
	copy(s.Y, y)
	return s
}

// Len returns the number of observations
func (s Series) Len() int {
	return len(s.Y)
}

// LastIndex returns the index of the latest observation or 0 for an empty series
func (s Series) LastIndex() int {
	if len(s.X) == 0 {
		return 0
	}
	return s.X[len(s.X)-1]
}

// Observations returns the series as a slice of index/value pairs
func (s Series) Observations() []Observation {
	obs := make([]Observation, 0, len(s.X))
	for i := range s.X {
		obs = append(obs, Observation{Index: s.X[i], Value: s.Y[i]})
	}
	return obs
}

func (s Series) Copy() Series {
	xSeries := make([]int, len(s.X))
	ySeries := make([]float64, len(s.Y))
	copy(xSeries, s.X)
	copy(ySeries, s.Y)
	return Series{X: xSeries, Y: ySeries}
}
