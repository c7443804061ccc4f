package method

import (
	"github.com/aouyang1/go-predictplot/models"
)

const (
	DefaultWindow         = 3
	DefaultSmoothingAlpha = 0.3
	DefaultDegree         = 2
)

// Options holds the tunable constants of every prediction method
type Options struct {
	// Window is the number of trailing observations averaged by the moving average. Shorter
	// series average everything they have.
	Window int `json:"window"`

	// SmoothingAlpha is the exponential smoothing constant in (0, 1]
	SmoothingAlpha float64 `json:"smoothing_alpha"`

	// Degree is the polynomial regression degree
	Degree int `json:"degree"`

	// PriorPrecision and NoisePrecision parameterize the Bayesian linear regression
	PriorPrecision float64 `json:"prior_precision"`
	NoisePrecision float64 `json:"noise_precision"`
}

// NewDefaultOptions returns the reference constants
func NewDefaultOptions() *Options {
	return &Options{
		Window:         DefaultWindow,
		SmoothingAlpha: DefaultSmoothingAlpha,
		Degree:         DefaultDegree,
		PriorPrecision: models.DefaultPriorPrecision,
		NoisePrecision: models.DefaultNoisePrecision,
	}
}

// Validate runs basic validation on the method options. A nil receiver returns the defaults.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.Window < 1 {
		return nil, ErrInvalidWindow
	}
	if o.SmoothingAlpha <= 0 || o.SmoothingAlpha > 1 {
		return nil, ErrInvalidSmoothing
	}
	if o.Degree < 1 {
		return nil, ErrInvalidDegree
	}
	bayesOpt := &models.BayesOptions{
		PriorPrecision: o.PriorPrecision,
		NoisePrecision: o.NoisePrecision,
	}
	if _, err := bayesOpt.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}
