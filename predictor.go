// Package predictplot merges an observed series with the forecasts of the enabled prediction
// methods into a single plottable dataset, and keeps that dataset current for a session as
// points are added, the series is reset or the method selection changes.
package predictplot

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-predictplot/method"
	"github.com/aouyang1/go-predictplot/series"
)

// Predictor builds chart datasets from a series and a method selection. It holds no series
// state and is safe for concurrent use.
type Predictor struct {
	opt         *Options
	forecasters []method.Forecaster // canonical order
}

// NewPredictor creates a predictor with the given options. If none are provided a default
// is used.
func NewPredictor(opt *Options) (*Predictor, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	forecasters, err := method.NewAll(opt.Methods)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize prediction methods, %w", err)
	}
	return &Predictor{
		opt:         opt,
		forecasters: forecasters,
	}, nil
}

// Options returns the validated options the predictor was built with
func (p *Predictor) Options() Options {
	return *p.opt
}

// Horizon returns the n consecutive indices following last
func Horizon(last, n int) []int {
	if n < 0 {
		n = 0
	}
	x := make([]int, n)
	for i := range x {
		x[i] = last + i + 1
	}
	return x
}

// Dataset merges the observations in s with the forecasts of every method enabled in sel.
// Series shorter than MinObservations are returned as observations only. Methods are run in
// canonical order; a method that is unavailable or fails contributes nothing and never
// prevents the others from running. A series whose indices and values differ in length is
// logged and yields an empty dataset.
func (p *Predictor) Dataset(s series.Series, sel method.Selection) ChartDataset {
	if len(s.X) != len(s.Y) {
		slog.Error("series indices and values differ in length", "indices", len(s.X), "values", len(s.Y))
		return NewChartDataset(0)
	}
	n := s.Len()
	if n < MinObservations {
		ds := NewChartDataset(n)
		for i := 0; i < n; i++ {
			ds.add(s.X[i], s.Y[i], LabelUserInput)
		}
		return ds
	}

	xPredict := Horizon(s.LastIndex(), p.opt.Horizon)
	ds := NewChartDataset(n + sel.Len()*len(xPredict))
	for i := 0; i < n; i++ {
		ds.add(s.X[i], s.Y[i], LabelUserInput)
	}

	for _, f := range p.forecasters {
		kind := f.Kind()
		if !sel.Has(kind) {
			continue
		}

		res, err := method.Run(f, s.X, s.Y, xPredict)
		if err != nil {
			if errors.Is(err, method.ErrUnavailable) {
				slog.Debug("prediction method unavailable", "method", kind.String(), "observations", n, "reason", err.Error())
				continue
			}
			slog.Error("prediction method failed", "method", kind.String(), "observations", n, "error", err.Error())
			continue
		}

		label := kind.String()
		for i, x := range xPredict {
			ds.add(x, res[i], label)
		}
	}
	return ds
}

// BuildDataset is a convenience wrapper that builds a one-off Predictor from opt. Invalid
// options are logged and replaced by the defaults.
func BuildDataset(s series.Series, sel method.Selection, opt *Options) ChartDataset {
	p, err := NewPredictor(opt)
	if err != nil {
		slog.Warn("invalid predictor options, using defaults", "error", err.Error())
		p, _ = NewPredictor(nil)
	}
	return p.Dataset(s, sel)
}
