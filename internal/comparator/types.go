package comparator

// #region comparison-data
// ComparisonData is everything a presentation layer needs to render the
// train-vs-test comparison for a set of runs: overlaid per-epoch training
// curves and a grouped bar chart of held-out scores. Pure data, no pixels.
type ComparisonData struct {
	RunNames    []string
	MetricNames []string
	TrainCurves []TrainCurve
	TestBars    BarChart
}

// #endregion comparison-data

// #region train-curve
// TrainCurve is one line on the training plot: one (run, metric) pair.
// Color keys off the run index, marker off the metric index, both stable
// across calls given the same input ordering.
type TrainCurve struct {
	Run        string
	Metric     string
	Color      string // palette key, "C0", "C1", ...
	Marker     string // glyph code from the marker cycle
	MarkEvery  int
	MarkerSize int
	Epochs     []int
	Values     []float64
}

// #endregion train-curve

// #region bar-chart
// BarChart is the held-out comparison: one group per metric, one bar per
// run, with precomputed offsets around each group center.
type BarChart struct {
	Spacing  float64 // gap fraction left between groups
	BarWidth float64
	Groups   []BarGroup
}

// BarGroup holds the bars for one metric of interest. The group is centered
// at its metric's index on the x axis.
type BarGroup struct {
	Metric string
	Center float64
	Bars   []Bar
}

// Bar is one run's held-out score for one metric.
type Bar struct {
	Run    string
	Color  string
	Offset float64 // relative to the group center
	Value  float64
}

// #endregion bar-chart
