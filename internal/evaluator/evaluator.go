// Package evaluator scores trained runs on held-out data.
package evaluator

import (
	"fmt"

	"github.com/SashaGoldin/ml-experiments/internal/dataset"
	"github.com/SashaGoldin/ml-experiments/internal/experiment"
)

// #region evaluator
// Evaluator invokes a run's model handle in inference mode. It holds no
// state of its own, so evaluations are idempotent.
type Evaluator struct{}

// New creates an evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate computes every instrumented metric over the entire held-out set
// in a single pass, iterating in the run's configured batch size. The run
// is never mutated and never retrained.
func (e *Evaluator) Evaluate(run *experiment.Run, testFeatures *dataset.Table, testLabels []float64) (experiment.MetricScores, error) {
	cols, err := testFeatures.Features(run.Settings.InputFeatures)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", run.Name, err)
	}
	if testFeatures.NumRows() != len(testLabels) {
		return nil, fmt.Errorf("evaluate %s: %w", run.Name,
			&experiment.DataError{Reason: fmt.Sprintf("%d labels for %d rows", len(testLabels), testFeatures.NumRows())})
	}

	scores, err := run.Model.Evaluate(cols, testLabels, run.Settings.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", run.Name, err)
	}
	return scores, nil
}

// #endregion evaluator
