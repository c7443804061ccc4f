package method

import (
	"errors"
	"fmt"

	mat_ "github.com/aouyang1/go-predictplot/mat"
	"github.com/aouyang1/go-predictplot/models"
)

// Polynomial fits a least squares polynomial of the values on the index and evaluates it on
// the requested indices
type Polynomial struct {
	Degree int
}

func NewPolynomial(degree int) *Polynomial {
	return &Polynomial{Degree: degree}
}

func (p *Polynomial) Kind() Kind {
	return KindPolynomial
}

// Forecast requires at least degree+1 observations and at least degree+1 distinct indices
func (p *Polynomial) Forecast(x []int, y []float64, xPredict []int) ([]float64, error) {
	if err := validateInput(x, y); err != nil {
		return nil, err
	}
	degree := p.Degree
	if degree < 1 {
		return nil, fmt.Errorf("got %d, %w", degree, ErrInvalidDegree)
	}
	if err := requireObservations(len(x), degree+1); err != nil {
		return nil, err
	}

	model, err := models.NewOLSRegression(models.NewDefaultOLSOptions())
	if err != nil {
		return nil, err
	}

	xMx, err := mat_.NewVandermonde(x, degree)
	if err != nil {
		return nil, err
	}
	yMx, err := mat_.NewTarget(y)
	if err != nil {
		return nil, err
	}
	if err := model.Fit(xMx, yMx); err != nil {
		if errors.Is(err, models.ErrRankDeficient) ||
			errors.Is(err, models.ErrUnderdetermined) ||
			errors.Is(err, models.ErrSingularMatrix) ||
			errors.Is(err, models.ErrNonFiniteCoef) {
			return nil, fmt.Errorf("%s, %w", err.Error(), ErrDegenerate)
		}
		return nil, err
	}

	if len(xPredict) == 0 {
		return []float64{}, nil
	}
	pMx, err := mat_.NewVandermonde(xPredict, degree)
	if err != nil {
		return nil, err
	}
	res, err := model.Predict(pMx)
	if err != nil {
		return nil, err
	}
	if !finite(res) {
		return nil, fmt.Errorf("non-finite polynomial forecast, %w", ErrDegenerate)
	}
	return res, nil
}
