// Package comparator assembles the numeric data behind side-by-side
// comparison of trained runs. Rendering is delegated entirely to the
// presentation collaborator; this package only computes curves, bars, and
// their stable legend metadata.
package comparator

import (
	"fmt"

	"github.com/SashaGoldin/ml-experiments/internal/dataset"
	"github.com/SashaGoldin/ml-experiments/internal/experiment"
)

// markerCycle matches the classic plotting marker rotation; metric i takes
// markerCycle[i % len].
var markerCycle = []string{".", "*", "d", "s", "p", "x"}

const (
	defaultMarkEvery  = 4
	defaultMarkerSize = 10
	groupSpacing      = 0.3
)

// #region scorer
// Scorer produces held-out scores for a run. The evaluator satisfies this.
type Scorer interface {
	Evaluate(run *experiment.Run, testFeatures *dataset.Table, testLabels []float64) (experiment.MetricScores, error)
}

// #endregion scorer

// #region comparator
// Comparator builds comparison data across runs, borrowing each run
// read-only.
type Comparator struct {
	scorer Scorer
}

// New creates a comparator on top of the given scorer.
func New(scorer Scorer) *Comparator {
	return &Comparator{scorer: scorer}
}

// #endregion comparator

// #region compare
// Compare verifies every metric of interest exists in every run's history,
// then assembles training curves and one held-out evaluation per run. The
// check is eager: on any unknown metric it fails before a single
// evaluation happens.
func (c *Comparator) Compare(runs []*experiment.Run, metricsOfInterest []string, testFeatures *dataset.Table, testLabels []float64) (*ComparisonData, error) {
	for _, metric := range metricsOfInterest {
		for _, run := range runs {
			if _, ok := run.MetricsHistory[metric]; !ok {
				return nil, &experiment.UnknownMetricError{
					Run:    run.Name,
					Metric: metric,
					Known:  run.MetricNames(),
				}
			}
		}
	}

	data := &ComparisonData{
		RunNames:    make([]string, len(runs)),
		MetricNames: append([]string(nil), metricsOfInterest...),
	}
	for i, run := range runs {
		data.RunNames[i] = run.Name
	}

	for i, metric := range metricsOfInterest {
		for j, run := range runs {
			data.TrainCurves = append(data.TrainCurves, TrainCurve{
				Run:        run.Name,
				Metric:     metric,
				Color:      runColor(j),
				Marker:     markerCycle[i%len(markerCycle)],
				MarkEvery:  defaultMarkEvery,
				MarkerSize: defaultMarkerSize,
				Epochs:     append([]int(nil), run.Epochs...),
				Values:     append([]float64(nil), run.MetricsHistory[metric]...),
			})
		}
	}

	bars, err := c.testBars(runs, metricsOfInterest, testFeatures, testLabels)
	if err != nil {
		return nil, err
	}
	data.TestBars = bars
	return data, nil
}

// testBars evaluates each run once on the held-out set and lays the scores
// out as grouped bars: one group per metric, one bar per run.
func (c *Comparator) testBars(runs []*experiment.Run, metricsOfInterest []string, testFeatures *dataset.Table, testLabels []float64) (BarChart, error) {
	nRuns := len(runs)
	chart := BarChart{
		Spacing:  groupSpacing,
		BarWidth: (1 - groupSpacing) / float64(nRuns),
		Groups:   make([]BarGroup, len(metricsOfInterest)),
	}
	for i, metric := range metricsOfInterest {
		chart.Groups[i] = BarGroup{Metric: metric, Center: float64(i)}
	}

	for j, run := range runs {
		scores, err := c.scorer.Evaluate(run, testFeatures, testLabels)
		if err != nil {
			return BarChart{}, fmt.Errorf("score %s: %w", run.Name, err)
		}
		offset := chart.BarWidth * (float64(j) + 0.5 - float64(nRuns)/2)
		for i, metric := range metricsOfInterest {
			value, ok := scores[metric]
			if !ok {
				return BarChart{}, &experiment.UnknownMetricError{
					Run:    run.Name,
					Metric: metric,
					Known:  run.MetricNames(),
				}
			}
			chart.Groups[i].Bars = append(chart.Groups[i].Bars, Bar{
				Run:    run.Name,
				Color:  runColor(j),
				Offset: offset,
				Value:  value,
			})
		}
	}
	return chart, nil
}

// #endregion compare

// #region helpers
// runColor assigns a stable palette key per run index.
func runColor(index int) string {
	return fmt.Sprintf("C%d", index)
}

// #endregion helpers
