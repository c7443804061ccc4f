package method

import (
	"errors"
	"fmt"

	mat_ "github.com/aouyang1/go-predictplot/mat"
	"github.com/aouyang1/go-predictplot/models"
)

// Bayesian fits a Bayesian linear regression of the values on the index with a zero mean
// Gaussian prior and extrapolates the posterior mean line.
type Bayesian struct {
	PriorPrecision float64
	NoisePrecision float64
}

func NewBayesian(priorPrecision, noisePrecision float64) *Bayesian {
	return &Bayesian{
		PriorPrecision: priorPrecision,
		NoisePrecision: noisePrecision,
	}
}

func (b *Bayesian) Kind() Kind {
	return KindBayesian
}

// Forecast requires at least two observations with at least two distinct indices
func (b *Bayesian) Forecast(x []int, y []float64, xPredict []int) ([]float64, error) {
	if err := validateInput(x, y); err != nil {
		return nil, err
	}
	if err := requireObservations(len(x), 2); err != nil {
		return nil, err
	}
	if !hasDistinct(x) {
		return nil, fmt.Errorf("all %d indices are equal, %w", len(x), ErrDegenerate)
	}

	model, err := models.NewBayesRegression(&models.BayesOptions{
		PriorPrecision: b.PriorPrecision,
		NoisePrecision: b.NoisePrecision,
		FitIntercept:   true,
	})
	if err != nil {
		return nil, err
	}

	xMx, err := mat_.NewColumn(x)
	if err != nil {
		return nil, err
	}
	yMx, err := mat_.NewTarget(y)
	if err != nil {
		return nil, err
	}
	if err := model.Fit(xMx, yMx); err != nil {
		if errors.Is(err, models.ErrSingularMatrix) || errors.Is(err, models.ErrNonFiniteCoef) {
			return nil, fmt.Errorf("%s, %w", err.Error(), ErrDegenerate)
		}
		return nil, err
	}

	if len(xPredict) == 0 {
		return []float64{}, nil
	}
	pMx, err := mat_.NewColumn(xPredict)
	if err != nil {
		return nil, err
	}
	res, err := model.Predict(pMx)
	if err != nil {
		return nil, err
	}
	if !finite(res) {
		return nil, fmt.Errorf("non-finite bayesian forecast, %w", ErrDegenerate)
	}
	return res, nil
}

func hasDistinct(x []int) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return true
		}
	}
	return false
}
