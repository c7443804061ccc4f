package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAppend(t *testing.T) {
	s := NewStore()
	for i, v := range []float64{3, 1, 4} {
		obs, err := s.Append(v)
		require.Nil(t, err)
		assert.Equal(t, Observation{Index: i + 1, Value: v}, obs)
	}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, Series{X: []int{1, 2, 3}, Y: []float64{3, 1, 4}}, s.Snapshot())
}

func TestStoreAppendNonFinite(t *testing.T) {
	testData := map[string]float64{
		"nan":  math.NaN(),
		"+inf": math.Inf(1),
		"-inf": math.Inf(-1),
	}

	for name, v := range testData {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			_, err := s.Append(v)
			assert.ErrorIs(t, err, ErrNonFiniteValue)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestStoreSnapshotIsolated(t *testing.T) {
	s := NewStore()
	_, err := s.Append(1)
	require.Nil(t, err)

	snap := s.Snapshot()
	_, err = s.Append(2)
	require.Nil(t, err)

	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, 2, s.Len())
}

func TestStoreReset(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		_, err := s.Append(float64(i))
		require.Nil(t, err)
	}
	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, Series{X: []int{}, Y: []float64{}}, s.Snapshot())

	obs, err := s.Append(42)
	require.Nil(t, err)
	assert.Equal(t, Observation{Index: 1, Value: 42}, obs)
}
