// Package model is the modeling collaborator: it builds and trains binary
// classifiers behind a narrow handle supporting only fit, evaluate and
// predict. The concrete model is a single sigmoid decision unit over the
// configured input features, optimized against binary cross-entropy.
package model

import (
	"github.com/SashaGoldin/ml-experiments/internal/experiment"
	"github.com/SashaGoldin/ml-experiments/internal/metrics"
)

// #region config
// Config describes the model to build: one input slot per feature name,
// concatenated into a single sigmoid unit, instrumented with the given
// metric set. Loss is always binary cross-entropy.
type Config struct {
	InputFeatures []string
	LearningRate  float64
	Metrics       []metrics.Metric
}

// #endregion config

// #region history
// History records what a fit produced: the ordered epoch indices actually
// completed and one value per instrumented metric per epoch.
type History struct {
	Epochs  []int
	Metrics map[string][]float64
}

// #endregion history

// #region interfaces
// Model extends the inference-only run handle with training.
type Model interface {
	experiment.Handle
	Fit(features map[string][]float64, labels []float64, epochs, batchSize int) (History, error)
}

// Builder constructs models from a config.
type Builder interface {
	Build(cfg Config) (Model, error)
}

// #endregion interfaces

// #region validation
// checkInputs verifies every configured feature column is present, equally
// sized, and aligned with the labels.
func checkInputs(featureNames []string, features map[string][]float64, labels []float64) error {
	for _, name := range featureNames {
		col, ok := features[name]
		if !ok {
			return &experiment.DataError{Column: name, Reason: "is missing"}
		}
		if len(col) != len(labels) {
			return &experiment.DataError{Column: name, Reason: "does not align with labels"}
		}
	}
	return nil
}

// #endregion validation
