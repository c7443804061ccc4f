package predictplot

// LabelUserInput tags observed points in a ChartDataset
const LabelUserInput = "User Input"

// ChartDataset is the merged, tagged collection of observed and forecast points. The three
// slices always have the same length; point i is (X[i], Y[i]) tagged Labels[i]. Observations
// come first, followed by one contiguous segment per enabled method in canonical order.
type ChartDataset struct {
	X      []int     `json:"entry_number"`
	Y      []float64 `json:"value"`
	Labels []string  `json:"type"`
}

// NewChartDataset returns an empty dataset with room for n points
func NewChartDataset(n int) ChartDataset {
	return ChartDataset{
		X:      make([]int, 0, n),
		Y:      make([]float64, 0, n),
		Labels: make([]string, 0, n),
	}
}

func (ds *ChartDataset) add(x int, y float64, label string) {
	ds.X = append(ds.X, x)
	ds.Y = append(ds.Y, y)
	ds.Labels = append(ds.Labels, label)
}

// Len returns the number of points
func (ds ChartDataset) Len() int {
	return len(ds.X)
}

// Copy returns a deep copy of the dataset
func (ds ChartDataset) Copy() ChartDataset {
	res := ChartDataset{
		X:      make([]int, len(ds.X)),
		Y:      make([]float64, len(ds.Y)),
		Labels: make([]string, len(ds.Labels)),
	}
	copy(res.X, ds.X)
	copy(res.Y, ds.Y)
	copy(res.Labels, ds.Labels)
	return res
}

// SeriesLabels returns the distinct labels in the order they first appear
func (ds ChartDataset) SeriesLabels() []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, label := range ds.Labels {
		if _, exists := seen[label]; exists {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}

// Segment returns the points tagged with label in dataset order
func (ds ChartDataset) Segment(label string) ([]int, []float64) {
	var x []int
	var y []float64
	for i, l := range ds.Labels {
		if l != label {
			continue
		}
		x = append(x, ds.X[i])
		y = append(y, ds.Y[i])
	}
	return x, y
}

// MaxX returns the largest x value or 0 for an empty dataset
func (ds ChartDataset) MaxX() int {
	maxX := 0
	for _, x := range ds.X {
		maxX = max(maxX, x)
	}
	return maxX
}
