package models

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	DefaultPriorPrecision = 1e-6
	DefaultNoisePrecision = 1.0
)

var (
	ErrNegativePriorPrecision = errors.New("negative prior precision")
	ErrNonPositiveNoise       = errors.New("noise precision must be positive")
)

// BayesOptions represents input options to run the Bayesian linear regression
type BayesOptions struct {
	// PriorPrecision is the precision alpha of the zero mean isotropic Gaussian prior over the
	// weights. Small values give a weak prior, converging to OLS.
	PriorPrecision float64

	// NoisePrecision is the assumed precision beta of the observation noise.
	NoisePrecision float64

	// FitIntercept adds a constant 1.0 feature as the first column if set to true
	FitIntercept bool
}

// Validate runs basic validation on Bayesian regression options
func (b *BayesOptions) Validate() (*BayesOptions, error) {
	if b == nil {
		b = NewDefaultBayesOptions()
	}
	if b.PriorPrecision < 0 {
		return nil, ErrNegativePriorPrecision
	}
	if b.NoisePrecision <= 0 {
		return nil, ErrNonPositiveNoise
	}
	return b, nil
}

// NewDefaultBayesOptions returns a weak prior with unit noise precision
func NewDefaultBayesOptions() *BayesOptions {
	return &BayesOptions{
		PriorPrecision: DefaultPriorPrecision,
		NoisePrecision: DefaultNoisePrecision,
		FitIntercept:   true,
	}
}

// BayesRegression computes the posterior of a linear model with a Gaussian prior and known
// noise precision.
//
//	S = (alpha*I + beta*X'X)^-1
//	m = beta*S*X'y
//
// The posterior mean m is used as the model coefficients.
type BayesRegression struct {
	opt *BayesOptions

	covariance *mat.Dense
	coef       []float64
	intercept  float64
	trained    bool
}

// NewBayesRegression initializes a Bayesian linear regression ready for fitting
func NewBayesRegression(opt *BayesOptions) (*BayesRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &BayesRegression{
		opt: opt,
	}, nil
}

// Fit computes the posterior mean and covariance given the training data. A posterior
// precision matrix that cannot be inverted fails with ErrSingularMatrix.
func (b *BayesRegression) Fit(x, y mat.Matrix) error {
	if b.opt == nil {
		return ErrNoOptions
	}
	x, err := validateTraining(x, y, b.opt.FitIntercept)
	if err != nil {
		return err
	}
	_, n := x.Dims()

	var precision mat.Dense
	precision.Mul(x.T(), x)
	precision.Scale(b.opt.NoisePrecision, &precision)
	for i := 0; i < n; i++ {
		precision.Set(i, i, precision.At(i, i)+b.opt.PriorPrecision)
	}

	covariance := new(mat.Dense)
	if err := covariance.Inverse(&precision); err != nil {
		return fmt.Errorf("unable to invert posterior precision, %s, %w", err.Error(), ErrSingularMatrix)
	}

	var xty mat.Dense
	xty.Mul(x.T(), y)

	var mean mat.Dense
	mean.Mul(covariance, &xty)
	mean.Scale(b.opt.NoisePrecision, &mean)

	c := mat.Col(nil, 0, &mean)
	if !allFinite(c) {
		return ErrNonFiniteCoef
	}

	b.covariance = covariance
	if b.opt.FitIntercept {
		b.intercept = c[0]
		b.coef = c[1:]
	} else {
		b.intercept = 0
		b.coef = c
	}
	b.trained = true
	return nil
}

// Predict evaluates the posterior mean model on x
func (b *BayesRegression) Predict(x mat.Matrix) ([]float64, error) {
	if b.opt == nil {
		return nil, ErrNoOptions
	}
	if !b.trained {
		return nil, ErrUntrained
	}
	return linearPredict(x, b.intercept, b.coef, b.opt.FitIntercept)
}

// Score computes the coefficient of determination of the prediction
func (b *BayesRegression) Score(x, y mat.Matrix) (float64, error) {
	if b.opt == nil {
		return 0.0, ErrNoOptions
	}
	return r2Score(b, x, y)
}

// Intercept returns the posterior mean of the intercept if FitIntercept is set to true.
func (b *BayesRegression) Intercept() float64 {
	return b.intercept
}

// Coef returns the posterior mean of the coefficients in the order of the training columns.
func (b *BayesRegression) Coef() []float64 {
	c := make([]float64, len(b.coef))
	copy(c, b.coef)
	return c
}

// Covariance returns a copy of the posterior covariance, including the intercept row and
// column first when FitIntercept is set. Nil before fitting.
func (b *BayesRegression) Covariance() *mat.Dense {
	if b.covariance == nil {
		return nil
	}
	return mat.DenseCopyOf(b.covariance)
}
