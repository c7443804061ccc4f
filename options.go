package predictplot

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-predictplot/method"
)

const (
	DefaultHorizon        = 10
	DefaultPersistTimeout = 5 * time.Second

	// MinObservations is the series length below which no forecasting is attempted
	MinObservations = 2
)

var ErrInvalidHorizon = errors.New("horizon must be at least 1")

// Options configures the orchestrator and the sessions built on it
type Options struct {
	// Horizon is the number of future indices every enabled method forecasts
	Horizon int `json:"horizon"`

	// Methods holds the per method constants
	Methods *method.Options `json:"methods"`

	// RequireConsent blocks adding points until the disclaimer has been accepted. Selection
	// changes and chart reads are never gated.
	RequireConsent bool `json:"require_consent"`

	// PersistTimeout bounds each best effort write to the persistence collaborator
	PersistTimeout time.Duration `json:"persist_timeout"`
}

// NewDefaultOptions returns the reference configuration
func NewDefaultOptions() *Options {
	return &Options{
		Horizon:        DefaultHorizon,
		Methods:        method.NewDefaultOptions(),
		RequireConsent: false,
		PersistTimeout: DefaultPersistTimeout,
	}
}

// Validate runs basic validation on the options, filling in defaults for unset method
// options and persist timeout
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.Horizon < 1 {
		return nil, fmt.Errorf("got %d, %w", o.Horizon, ErrInvalidHorizon)
	}

	methodOpt, err := o.Methods.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid method options, %w", err)
	}
	o.Methods = methodOpt

	if o.PersistTimeout <= 0 {
		o.PersistTimeout = DefaultPersistTimeout
	}
	return o, nil
}
