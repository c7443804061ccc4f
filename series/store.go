package series

import (
	"errors"
	"math"
)

var ErrNonFiniteValue = errors.New("value must be a finite number")

// Store is the append only source of truth for observed values. Indices are assigned on
// append and start over at 1 after a Reset. A Store is not safe for concurrent use; the
// owning session serializes access.
type Store struct {
	x []int
	y []float64
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{}
}

// Append records a value at the next index and returns the created observation
func (s *Store) Append(value float64) (Observation, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Observation{}, ErrNonFiniteValue
	}
	obs := Observation{
		Index: len(s.x) + 1,
		Value: value,
	}
	s.x = append(s.x, obs.Index)
	s.y = append(s.y, obs.Value)
	return obs, nil
}

// Reset drops every observation
func (s *Store) Reset() {
	s.x = nil
	s.y = nil
}

// Len returns the number of stored observations
func (s *Store) Len() int {
	return len(s.x)
}

// Snapshot returns a copy of the stored observations as a Series
func (s *Store) Snapshot() Series {
	return Series{X: s.x, Y: s.y}.Copy()
}
