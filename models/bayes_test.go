package models

import (
	"testing"

	mat_ "github.com/aouyang1/go-predictplot/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBayesOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *BayesOptions
		err      error
		expected *BayesOptions
	}{
		"nil": {nil, nil, NewDefaultBayesOptions()},
		"valid": {
			&BayesOptions{PriorPrecision: 0.5, NoisePrecision: 2.0},
			nil,
			&BayesOptions{PriorPrecision: 0.5, NoisePrecision: 2.0},
		},
		"negative prior": {
			&BayesOptions{PriorPrecision: -1, NoisePrecision: 1},
			ErrNegativePriorPrecision, nil,
		},
		"zero noise": {
			&BayesOptions{PriorPrecision: 1},
			ErrNonPositiveNoise, nil,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestBayesRegression(t *testing.T) {
	tol := 1e-3
	testData := map[string]struct {
		x         [][]float64
		y         []float64
		opt       *BayesOptions
		intercept float64
		coef      []float64
	}{
		"weak prior line": {
			x:         [][]float64{{1}, {2}, {3}, {4}, {5}},
			y:         []float64{3, 5, 7, 9, 11},
			intercept: 1.0,
			coef:      []float64{2.0},
		},
		"weak prior plane": {
			x: [][]float64{
				{0, 0},
				{3, 5},
				{9, 20},
				{12, 6},
				{15, 10},
			},
			y:         []float64{2, 31, 109, 62, 87},
			intercept: 2.0,
			coef:      []float64{3.0, 4.0},
		},
		"no intercept": {
			x:         [][]float64{{1, 1}, {1, 2}, {1, 3}},
			y:         []float64{2, 3, 4},
			opt:       &BayesOptions{PriorPrecision: 1e-9, NoisePrecision: 1},
			intercept: 0.0,
			coef:      []float64{1.0, 1.0},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, err := mat_.NewDenseFromArray(td.x)
			require.Nil(t, err)

			y := mat.NewDense(len(td.y), 1, td.y)

			model, err := NewBayesRegression(td.opt)
			require.Nil(t, err)

			testModel(t, model, x, y, td.intercept, td.coef, tol)
		})
	}
}

func TestBayesRegressionShrinkage(t *testing.T) {
	// a strong prior pulls the weights towards zero
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})

	model, err := NewBayesRegression(&BayesOptions{PriorPrecision: 1e6, NoisePrecision: 1, FitIntercept: true})
	require.Nil(t, err)
	require.Nil(t, model.Fit(x, y))

	assert.InDelta(t, 0.0, model.Intercept(), 1e-3)
	assert.InDeltaSlice(t, []float64{0.0}, model.Coef(), 1e-3)
}

func TestBayesRegressionCovariance(t *testing.T) {
	model, err := NewBayesRegression(nil)
	require.Nil(t, err)
	assert.Nil(t, model.Covariance())

	_, err = model.Predict(mat.NewDense(1, 1, []float64{1}))
	assert.ErrorIs(t, err, ErrUntrained)

	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	require.Nil(t, model.Fit(x, y))

	cov := model.Covariance()
	require.NotNil(t, cov)
	r, c := cov.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)

	// posterior covariance is symmetric and inverts alpha*I + beta*X'X
	assert.InDelta(t, cov.At(0, 1), cov.At(1, 0), 1e-9)
	var precision mat.Dense
	precision.Mul(cov, mat.NewDense(2, 2, []float64{4 + 1e-6, 10, 10, 30 + 1e-6}))
	assert.InDelta(t, 1.0, precision.At(0, 0), 1e-6)
	assert.InDelta(t, 0.0, precision.At(0, 1), 1e-6)

	cov.Set(0, 0, 1000)
	assert.NotEqual(t, 1000.0, model.Covariance().At(0, 0))
}

func TestBayesRegressionTargetMismatch(t *testing.T) {
	model, err := NewBayesRegression(nil)
	require.Nil(t, err)

	err = model.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}), mat.NewDense(2, 1, []float64{1, 2}))
	assert.ErrorIs(t, err, ErrTargetLenMismatch)

	err = model.Fit(nil, mat.NewDense(2, 1, []float64{1, 2}))
	assert.ErrorIs(t, err, ErrNoTrainingMatrix)
}
