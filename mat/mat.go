// Package mat builds gonum design matrices from the integer indexed series the prediction
// methods work on.
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch    = errors.New("column size mismatch")
	ErrNegativeDegree = errors.New("negative polynomial degree")
)

// NewDenseFromArray flattens a row major 2D slice into a dense matrix. Every row must have
// the same number of columns.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewVandermonde returns the len(x) by degree matrix whose j-th column is x^(j+1). The constant
// column is left out since the regression models add their own intercept.
func NewVandermonde(x []int, degree int) (*mat.Dense, error) {
	if degree < 0 {
		return nil, ErrNegativeDegree
	}
	if len(x) == 0 || degree == 0 {
		return nil, mat.ErrZeroLength
	}

	data := make([]float64, 0, len(x)*degree)
	for _, xi := range x {
		pow := 1.0
		for j := 0; j < degree; j++ {
			pow *= float64(xi)
			data = append(data, pow)
		}
	}
	return mat.NewDense(len(x), degree, data), nil
}

// NewColumn returns a single column matrix of the integer indices
func NewColumn(x []int) (*mat.Dense, error) {
	return NewVandermonde(x, 1)
}

// NewTarget returns a single column matrix of the observed values. The values are copied.
func NewTarget(y []float64) (*mat.Dense, error) {
	if len(y) == 0 {
		return nil, mat.ErrZeroLength
	}
	data := make([]float64, len(y))
	copy(data, y)
	return mat.NewDense(len(y), 1, data), nil
}
