package replay

import (
	"fmt"

	"github.com/SashaGoldin/ml-experiments/internal/dataset"
	"github.com/SashaGoldin/ml-experiments/internal/evaluator"
	"github.com/SashaGoldin/ml-experiments/internal/experiment"
	"github.com/SashaGoldin/ml-experiments/internal/metrics"
	"github.com/SashaGoldin/ml-experiments/internal/trainer"
)

// #region types
// Result captures the outcome of one expectation check.
type Result struct {
	Run    string
	Metric string
	Side   string
	Value  float64
	Passed bool
	Reason string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Experiments int
	Checks      int
	Passed      int
	Failed      int
}

// #endregion types

// #region replay
// Replay trains every experiment the fixture names, evaluates each on the
// holdout data, and checks every expectation. Operates entirely in memory.
func Replay(f *Fixture) ([]Result, error) {
	trainTbl, trainLabels, err := toTable(f.Train)
	if err != nil {
		return nil, fmt.Errorf("train data: %w", err)
	}
	holdoutTbl, holdoutLabels, err := toTable(f.Holdout)
	if err != nil {
		return nil, fmt.Errorf("holdout data: %w", err)
	}

	tr := trainer.Default()
	ev := evaluator.New()

	runs := make(map[string]*experiment.Run, len(f.Experiments))
	scores := make(map[string]experiment.MetricScores, len(f.Experiments))
	for _, fe := range f.Experiments {
		settings, err := fe.Settings.toSettings()
		if err != nil {
			return nil, fmt.Errorf("experiment %s: %w", fe.Name, err)
		}
		run, err := tr.Train(fe.Name, settings, trainTbl, trainLabels,
			metrics.DefaultBinarySet(settings.ClassificationThreshold))
		if err != nil {
			return nil, fmt.Errorf("experiment %s: %w", fe.Name, err)
		}
		held, err := ev.Evaluate(run, holdoutTbl, holdoutLabels)
		if err != nil {
			return nil, fmt.Errorf("experiment %s: %w", fe.Name, err)
		}
		runs[fe.Name] = run
		scores[fe.Name] = held
	}

	results := make([]Result, 0, len(f.Expectations))
	for _, exp := range f.Expectations {
		results = append(results, check(exp, runs, scores))
	}
	return results, nil
}

// check resolves one expectation against the trained runs.
func check(exp FixtureExpectation, runs map[string]*experiment.Run, scores map[string]experiment.MetricScores) Result {
	r := Result{Run: exp.Run, Metric: exp.Metric, Side: exp.Side}

	run, ok := runs[exp.Run]
	if !ok {
		r.Reason = fmt.Sprintf("no experiment named %q in fixture", exp.Run)
		return r
	}

	switch exp.Side {
	case "train":
		v, err := run.FinalMetricValue(exp.Metric)
		if err != nil {
			r.Reason = err.Error()
			return r
		}
		r.Value = v
	case "test":
		v, ok := scores[exp.Run][exp.Metric]
		if !ok {
			r.Reason = fmt.Sprintf("metric %q not in held-out scores for %q", exp.Metric, exp.Run)
			return r
		}
		r.Value = v
	default:
		r.Reason = fmt.Sprintf("unknown side %q (want train or test)", exp.Side)
		return r
	}

	if exp.Min != nil && r.Value < *exp.Min {
		r.Reason = fmt.Sprintf("%s %s %.4f below minimum %.4f", exp.Side, exp.Metric, r.Value, *exp.Min)
		return r
	}
	if exp.Max != nil && r.Value > *exp.Max {
		r.Reason = fmt.Sprintf("%s %s %.4f above maximum %.4f", exp.Side, exp.Metric, r.Value, *exp.Max)
		return r
	}

	r.Passed = true
	return r
}

// Summarize computes aggregate stats from replay results.
func Summarize(f *Fixture, results []Result) Summary {
	s := Summary{
		Experiments: len(f.Experiments),
		Checks:      len(results),
	}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// #endregion replay

// #region helpers
// toTable builds a dataset table from inline fixture columns.
func toTable(data FixtureData) (*dataset.Table, []float64, error) {
	tbl, err := dataset.FromColumns(data.Features, nil)
	if err != nil {
		return nil, nil, err
	}
	if tbl.NumRows() != len(data.Labels) {
		return nil, nil, &experiment.DataError{
			Reason: fmt.Sprintf("%d labels for %d rows", len(data.Labels), tbl.NumRows()),
		}
	}
	return tbl, data.Labels, nil
}

// #endregion helpers
