package predictplot

import (
	"context"

	"github.com/aouyang1/go-predictplot/series"
)

// Persister durably records observations. Sessions call it after every new observation
// without waiting on the result; a failure is logged and never affects the in-memory series.
type Persister interface {
	Persist(ctx context.Context, obs series.Observation) error
}

// PersisterFunc adapts a function to the Persister interface
type PersisterFunc func(ctx context.Context, obs series.Observation) error

func (f PersisterFunc) Persist(ctx context.Context, obs series.Observation) error {
	return f(ctx, obs)
}

// NopPersister discards every observation
type NopPersister struct{}

func (NopPersister) Persist(context.Context, series.Observation) error {
	return nil
}
