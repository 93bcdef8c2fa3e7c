package experiment

import "sort"

// #region settings
// Settings lists the hyperparameters and input features used to train a model.
// Values are fixed at construction; Validate rejects anything a training run
// could not honor.
type Settings struct {
	LearningRate            float64
	NumberEpochs            int
	BatchSize               int
	ClassificationThreshold float64
	InputFeatures           []string
}

// NewSettings builds a validated Settings value. The feature list is copied
// so later mutation of the caller's slice cannot leak into the run.
func NewSettings(learningRate float64, numberEpochs, batchSize int, classificationThreshold float64, inputFeatures []string) (Settings, error) {
	s := Settings{
		LearningRate:            learningRate,
		NumberEpochs:            numberEpochs,
		BatchSize:               batchSize,
		ClassificationThreshold: classificationThreshold,
		InputFeatures:           append([]string(nil), inputFeatures...),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks every field against its allowed range.
func (s Settings) Validate() error {
	if s.LearningRate <= 0 {
		return &ConfigError{Field: "learning_rate", Reason: "must be positive"}
	}
	if s.NumberEpochs <= 0 {
		return &ConfigError{Field: "number_epochs", Reason: "must be positive"}
	}
	if s.BatchSize <= 0 {
		return &ConfigError{Field: "batch_size", Reason: "must be positive"}
	}
	if s.ClassificationThreshold < 0 || s.ClassificationThreshold > 1 {
		return &ConfigError{Field: "classification_threshold", Reason: "must be in [0, 1]"}
	}
	if len(s.InputFeatures) == 0 {
		return &ConfigError{Field: "input_features", Reason: "must name at least one feature"}
	}
	for _, f := range s.InputFeatures {
		if f == "" {
			return &ConfigError{Field: "input_features", Reason: "feature names must be non-empty"}
		}
	}
	return nil
}

// #endregion settings

// #region metric-scores
// MetricScores maps a metric name to a single scalar value, produced per
// evaluation call. Ephemeral, never persisted.
type MetricScores map[string]float64

// #endregion metric-scores

// #region handle
// Handle is the opaque capability a Run holds on its trained model. Only
// inference is reachable through it; training belongs to the builder.
type Handle interface {
	// Evaluate scores the held-out set in one pass, iterating in batches of
	// batchSize but accumulating every metric over the whole set.
	Evaluate(features map[string][]float64, labels []float64, batchSize int) (MetricScores, error)
	// Predict returns the sigmoid output per row.
	Predict(features map[string][]float64) ([]float64, error)
}

// #endregion handle

// #region run
// Run stores the settings used for a training run, the resulting model
// handle, and the per-epoch metrics history. Read-only after creation; the
// model handle may be invoked but never retrained.
type Run struct {
	Name           string
	RunID          string
	Settings       Settings
	Model          Handle
	Epochs         []int
	MetricsHistory map[string][]float64
}

// FinalMetricValue returns the last recorded training value for the given
// metric, failing with UnknownMetricError when the run never tracked it.
func (r *Run) FinalMetricValue(metricName string) (float64, error) {
	series, ok := r.MetricsHistory[metricName]
	if !ok || len(series) == 0 {
		return 0, &UnknownMetricError{Run: r.Name, Metric: metricName, Known: r.MetricNames()}
	}
	return series[len(series)-1], nil
}

// MetricNames returns the tracked metric names in sorted order.
func (r *Run) MetricNames() []string {
	names := make([]string, 0, len(r.MetricsHistory))
	for name := range r.MetricsHistory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// #endregion run
