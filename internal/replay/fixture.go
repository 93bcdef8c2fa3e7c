// Package replay runs recorded experiment fixtures entirely in memory:
// inline datasets, named settings, and expected metric bounds, checked
// deterministically without touching a registry or the filesystem beyond
// the fixture file itself.
package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SashaGoldin/ml-experiments/internal/experiment"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description       string               `json:"description"`
	Train             FixtureData          `json:"train"`
	Holdout           FixtureData          `json:"holdout"`
	Experiments       []FixtureExperiment  `json:"experiments"`
	MetricsOfInterest []string             `json:"metrics_of_interest"`
	Expectations      []FixtureExpectation `json:"expectations"`
}

// FixtureData is an inline dataset: named feature columns plus aligned
// binary labels.
type FixtureData struct {
	Features map[string][]float64 `json:"features"`
	Labels   []float64            `json:"labels"`
}

// FixtureSettings mirrors experiment.Settings with JSON tags.
type FixtureSettings struct {
	LearningRate            float64  `json:"learning_rate"`
	NumberEpochs            int      `json:"number_epochs"`
	BatchSize               int      `json:"batch_size"`
	ClassificationThreshold float64  `json:"classification_threshold"`
	InputFeatures           []string `json:"input_features"`
}

// FixtureExperiment names one configuration to train.
type FixtureExperiment struct {
	Name     string          `json:"name"`
	Settings FixtureSettings `json:"settings"`
}

// FixtureExpectation bounds one metric for one run. Side selects the final
// training value ("train") or the held-out score ("test").
type FixtureExpectation struct {
	Run    string   `json:"run"`
	Metric string   `json:"metric"`
	Side   string   `json:"side"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// #endregion fixture-loader

// #region settings-conversion

// toSettings converts fixture settings into a validated Settings value.
func (fs FixtureSettings) toSettings() (experiment.Settings, error) {
	return experiment.NewSettings(
		fs.LearningRate,
		fs.NumberEpochs,
		fs.BatchSize,
		fs.ClassificationThreshold,
		fs.InputFeatures,
	)
}

// #endregion settings-conversion
