package method

import (
	"fmt"
)

// Kind identifies one of the supported prediction methods. The declaration order is the
// canonical order used when merging forecasts into a chart dataset.
type Kind int

const (
	KindBayesian Kind = iota
	KindMovingAverage
	KindExponentialSmoothing
	KindPolynomial

	numKinds
)

var kindNames = [numKinds]string{
	KindBayesian:             "Bayesian Inference",
	KindMovingAverage:        "Moving Average",
	KindExponentialSmoothing: "Exponential Smoothing",
	KindPolynomial:           "Polynomial Regression",
}

// All returns every method kind in canonical order
func All() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Names returns the display name of every method in canonical order
func Names() []string {
	names := make([]string, 0, numKinds)
	for _, k := range All() {
		names = append(names, k.String())
	}
	return names
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// String returns the display name which is also used as the chart series label
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a display name back to its Kind
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%q, %w", name, ErrUnknownMethod)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%d, %w", int(k), ErrUnknownMethod)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
