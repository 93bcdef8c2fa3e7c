// Package trainer drives a training run: it builds a model through the
// modeling collaborator, feeds it the dataset, and binds the result into a
// read-only experiment run.
package trainer

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/SashaGoldin/ml-experiments/internal/dataset"
	"github.com/SashaGoldin/ml-experiments/internal/experiment"
	"github.com/SashaGoldin/ml-experiments/internal/metrics"
	"github.com/SashaGoldin/ml-experiments/internal/model"
)

// #region trainer
// Trainer produces trained runs from settings and labeled data.
type Trainer struct {
	builder model.Builder
}

// New creates a trainer on top of the given model builder.
func New(builder model.Builder) *Trainer {
	return &Trainer{builder: builder}
}

// Default returns a trainer backed by the linear single-unit builder.
func Default() *Trainer {
	return New(model.LinearBuilder{})
}

// #endregion trainer

// #region train
// Train builds a model for the settings, instrumented with the supplied
// metric set, and runs the configured number of epochs over the data.
// A missing feature column or misaligned labels surface as DataError.
func (t *Trainer) Train(name string, settings experiment.Settings, features *dataset.Table, labels []float64, metricSet []metrics.Metric) (*experiment.Run, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	cols, err := features.Features(settings.InputFeatures)
	if err != nil {
		return nil, fmt.Errorf("train %s: %w", name, err)
	}
	if features.NumRows() != len(labels) {
		return nil, fmt.Errorf("train %s: %w", name,
			&experiment.DataError{Reason: fmt.Sprintf("%d labels for %d rows", len(labels), features.NumRows())})
	}

	m, err := t.builder.Build(model.Config{
		InputFeatures: settings.InputFeatures,
		LearningRate:  settings.LearningRate,
		Metrics:       metricSet,
	})
	if err != nil {
		return nil, fmt.Errorf("build model for %s: %w", name, err)
	}

	history, err := m.Fit(cols, labels, settings.NumberEpochs, settings.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", name, err)
	}

	return &experiment.Run{
		Name:           name,
		RunID:          uuid.New().String(),
		Settings:       settings,
		Model:          m,
		Epochs:         history.Epochs,
		MetricsHistory: history.Metrics,
	}, nil
}

// #endregion train
