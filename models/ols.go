package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultRankTolerance is the smallest ratio of a diagonal entry of R to the largest one
// before the design matrix is treated as rank deficient
const DefaultRankTolerance = 1e-10

// OLSOptions represents input options to run the OLS Regression
type OLSOptions struct {
	// FitIntercept adds a constant 1.0 feature as the first column if set to true
	FitIntercept bool

	// RankTolerance bounds how close to singular the R factor may get. Zero uses
	// DefaultRankTolerance.
	RankTolerance float64
}

// Validate runs basic validation on OLS options
func (o *OLSOptions) Validate() (*OLSOptions, error) {
	if o == nil {
		o = NewDefaultOLSOptions()
	}
	if o.RankTolerance <= 0 {
		o.RankTolerance = DefaultRankTolerance
	}

	return o, nil
}

// NewDefaultOLSOptions returns a default set of OLS Regression options
func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept:  true,
		RankTolerance: DefaultRankTolerance,
	}
}

// OLSRegression computes ordinary least squares using QR factorization
type OLSRegression struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64
	trained   bool
}

// NewOLSRegression initializes an ordinary least squares model ready for fitting
func NewOLSRegression(opt *OLSOptions) (*OLSRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &OLSRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data. A design matrix with fewer rows than
// columns or with linearly dependent columns fails with ErrUnderdetermined or
// ErrRankDeficient instead of producing unbounded coefficients.
func (o *OLSRegression) Fit(x, y mat.Matrix) error {
	if o.opt == nil {
		return ErrNoOptions
	}
	x, err := validateTraining(x, y, o.opt.FitIntercept)
	if err != nil {
		return err
	}
	m, n := x.Dims()
	if m < n {
		return fmt.Errorf("got %d observations for %d coefficients, %w", m, n, ErrUnderdetermined)
	}

	qr := new(mat.QR)
	qr.Factorize(x)

	// R is m by n so the rank check stays linear in the number of observations
	r := new(mat.Dense)
	qr.RTo(r)

	maxDiag := 0.0
	for i := 0; i < n; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(r.At(i, i)))
	}
	for i := 0; i < n; i++ {
		if maxDiag == 0 || math.Abs(r.At(i, i)) <= o.opt.RankTolerance*maxDiag {
			return fmt.Errorf("column %d is linearly dependent, %w", i, ErrRankDeficient)
		}
	}

	coefMx := new(mat.Dense)
	if err := qr.SolveTo(coefMx, false, y); err != nil {
		return fmt.Errorf("unable to solve least squares, %s, %w", err.Error(), ErrSingularMatrix)
	}
	c := mat.Col(nil, 0, coefMx)
	if !allFinite(c) {
		return ErrNonFiniteCoef
	}

	if o.opt.FitIntercept {
		o.intercept = c[0]
		o.coef = c[1:]
	} else {
		o.intercept = 0
		o.coef = c
	}
	o.trained = true

	return nil
}

// Predict using the OLS model
func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	if !o.trained {
		return nil, ErrUntrained
	}
	return linearPredict(x, o.intercept, o.coef, o.opt.FitIntercept)
}

// Score computes the coefficient of determination of the prediction
func (o *OLSRegression) Score(x, y mat.Matrix) (float64, error) {
	if o.opt == nil {
		return 0.0, ErrNoOptions
	}
	return r2Score(o, x, y)
}

// Intercept returns the computed intercept if FitIntercept is set to true. Defaults to 0.0 if not set.
func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

// Coef returns a slice of the trained coefficients in the same order of the training feature Matrix by column.
func (o *OLSRegression) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}
