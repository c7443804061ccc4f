package predictplot

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/aouyang1/go-predictplot/method"
)

const (
	ChartTitle = "Data Prediction Visualization"
	AxisXName  = "Entry Number"
	AxisYName  = "Value"

	// missing marks an x axis position a series has no point at
	missing = "-"
)

// SeriesColors pins the colors of specific series. Unlisted series use the chart palette.
var SeriesColors = map[string]string{
	LabelUserInput:               "#FF0000",
	method.KindBayesian.String(): "#FFA500",
}

// LineDataset generates an echart line chart with markers for the dataset, one series per
// label. The x axis spans every entry number from 1 to the largest in the dataset and each
// series leaves a gap where it has no point.
func LineDataset(title string, ds ChartDataset) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: AxisXName,
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: AxisYName,
			},
		),
		charts.WithTooltipOpts(
			opts.Tooltip{
				Show:    opts.Bool(true),
				Trigger: "axis",
			},
		),
		charts.WithLegendOpts(
			opts.Legend{
				Show: opts.Bool(true),
				Top:  "bottom",
			},
		),
	)

	maxX := ds.MaxX()
	xAxis := make([]int, maxX)
	for i := range xAxis {
		xAxis[i] = i + 1
	}
	line = line.SetXAxis(xAxis)

	for _, label := range ds.SeriesLabels() {
		lineData := make([]opts.LineData, maxX)
		for i := range lineData {
			lineData[i] = opts.LineData{Value: missing}
		}
		x, y := ds.Segment(label)
		for i := range x {
			if x[i] < 1 {
				continue
			}
			lineData[x[i]-1] = opts.LineData{Value: y[i]}
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(
				opts.LineChart{
					ShowSymbol: opts.Bool(true),
				},
			),
		}
		if color, exists := SeriesColors[label]; exists {
			seriesOpts = append(seriesOpts,
				charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
			)
		}
		line = line.AddSeries(label, lineData, seriesOpts...)
	}
	return line
}

// PlotDataset renders the dataset as a standalone HTML chart page
func PlotDataset(w io.Writer, ds ChartDataset) error {
	return LineDataset(ChartTitle, ds).Render(w)
}
