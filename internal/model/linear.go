package model

import (
	"math"

	"github.com/SashaGoldin/ml-experiments/internal/experiment"
	"github.com/SashaGoldin/ml-experiments/internal/metrics"
)

// RMSprop accumulator constants, matching the optimizer's common defaults.
const (
	rmspropRho = 0.9
	rmspropEps = 1e-7
)

// #region linear-builder
// LinearBuilder builds single-unit sigmoid classifiers.
type LinearBuilder struct{}

// Build creates a zero-initialized linear model for the config. Zero init
// keeps training fully deterministic for a given dataset and settings.
func (LinearBuilder) Build(cfg Config) (Model, error) {
	if len(cfg.InputFeatures) == 0 {
		return nil, &experiment.ConfigError{Field: "input_features", Reason: "must name at least one feature"}
	}
	if cfg.LearningRate <= 0 {
		return nil, &experiment.ConfigError{Field: "learning_rate", Reason: "must be positive"}
	}
	m := &Linear{
		features:     append([]string(nil), cfg.InputFeatures...),
		weights:      make(map[string]float64, len(cfg.InputFeatures)),
		cacheW:       make(map[string]float64, len(cfg.InputFeatures)),
		learningRate: cfg.LearningRate,
		loss:         metrics.NewBCELoss(),
		metrics:      cfg.Metrics,
	}
	for _, f := range cfg.InputFeatures {
		m.weights[f] = 0
		m.cacheW[f] = 0
	}
	return m, nil
}

// #endregion linear-builder

// #region linear
// Linear is one weight per input feature plus a bias, squashed through a
// sigmoid. Trained by mini-batch gradient descent with an RMSprop
// accumulator per parameter.
type Linear struct {
	features     []string
	weights      map[string]float64
	bias         float64
	cacheW       map[string]float64
	cacheB       float64
	learningRate float64
	loss         *metrics.BCELoss
	metrics      []metrics.Metric
}

// #endregion linear

// #region fit
// Fit runs the requested number of passes over the data in batches,
// recording each instrumented metric (and the loss) once per epoch over the
// full training set.
func (m *Linear) Fit(features map[string][]float64, labels []float64, epochs, batchSize int) (History, error) {
	if err := checkInputs(m.features, features, labels); err != nil {
		return History{}, err
	}

	history := History{
		Epochs:  make([]int, 0, epochs),
		Metrics: make(map[string][]float64, len(m.metrics)+1),
	}

	n := len(labels)
	for epoch := 0; epoch < epochs; epoch++ {
		for start := 0; start < n; start += batchSize {
			end := start + batchSize
			if end > n {
				end = n
			}
			m.fitBatch(features, labels, start, end)
		}

		m.resetMetrics()
		for i := 0; i < n; i++ {
			pred := m.forward(features, i)
			m.loss.Update(pred, labels[i])
			for _, metric := range m.metrics {
				metric.Update(pred, labels[i])
			}
		}

		history.Epochs = append(history.Epochs, epoch)
		history.Metrics["loss"] = append(history.Metrics["loss"], m.loss.Result())
		for _, metric := range m.metrics {
			history.Metrics[metric.Name()] = append(history.Metrics[metric.Name()], metric.Result())
		}
	}

	return history, nil
}

// fitBatch applies one RMSprop step from the mean gradient over [start, end).
// For sigmoid + binary cross-entropy the output gradient is (pred - label).
func (m *Linear) fitBatch(features map[string][]float64, labels []float64, start, end int) {
	gradW := make(map[string]float64, len(m.features))
	var gradB float64

	for i := start; i < end; i++ {
		diff := m.forward(features, i) - labels[i]
		for _, f := range m.features {
			gradW[f] += diff * features[f][i]
		}
		gradB += diff
	}

	size := float64(end - start)
	for _, f := range m.features {
		g := gradW[f] / size
		m.cacheW[f] = rmspropRho*m.cacheW[f] + (1-rmspropRho)*g*g
		m.weights[f] -= m.learningRate * g / (math.Sqrt(m.cacheW[f]) + rmspropEps)
	}
	g := gradB / size
	m.cacheB = rmspropRho*m.cacheB + (1-rmspropRho)*g*g
	m.bias -= m.learningRate * g / (math.Sqrt(m.cacheB) + rmspropEps)
}

// #endregion fit

// #region evaluate
// Evaluate scores the data in a single inference pass. Iteration is batched
// for parity with training, but every metric accumulates over the whole set
// so partial batches are never double-counted.
func (m *Linear) Evaluate(features map[string][]float64, labels []float64, batchSize int) (experiment.MetricScores, error) {
	if err := checkInputs(m.features, features, labels); err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = len(labels)
	}

	m.resetMetrics()
	n := len(labels)
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		for i := start; i < end; i++ {
			pred := m.forward(features, i)
			m.loss.Update(pred, labels[i])
			for _, metric := range m.metrics {
				metric.Update(pred, labels[i])
			}
		}
	}

	scores := make(experiment.MetricScores, len(m.metrics)+1)
	scores["loss"] = m.loss.Result()
	for _, metric := range m.metrics {
		scores[metric.Name()] = metric.Result()
	}
	return scores, nil
}

// #endregion evaluate

// #region predict
// Predict returns the sigmoid output per row.
func (m *Linear) Predict(features map[string][]float64) ([]float64, error) {
	var n int
	for _, name := range m.features {
		col, ok := features[name]
		if !ok {
			return nil, &experiment.DataError{Column: name, Reason: "is missing"}
		}
		if n != 0 && len(col) != n {
			return nil, &experiment.DataError{Column: name, Reason: "does not align with the other feature columns"}
		}
		n = len(col)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = m.forward(features, i)
	}
	return out, nil
}

// #endregion predict

// #region snapshot
// Snapshot is a serializable copy of a trained model's parameters.
type Snapshot struct {
	InputFeatures []string           `json:"input_features"`
	Weights       map[string]float64 `json:"weights"`
	Bias          float64            `json:"bias"`
	LearningRate  float64            `json:"learning_rate"`
}

// Snapshot exports the model's parameters.
func (m *Linear) Snapshot() Snapshot {
	weights := make(map[string]float64, len(m.weights))
	for f, w := range m.weights {
		weights[f] = w
	}
	return Snapshot{
		InputFeatures: append([]string(nil), m.features...),
		Weights:       weights,
		Bias:          m.bias,
		LearningRate:  m.learningRate,
	}
}

// FromSnapshot rebuilds an inference-ready model from saved parameters,
// instrumented with the given metric set.
func FromSnapshot(snap Snapshot, metricSet []metrics.Metric) *Linear {
	m := &Linear{
		features:     append([]string(nil), snap.InputFeatures...),
		weights:      make(map[string]float64, len(snap.Weights)),
		cacheW:       make(map[string]float64, len(snap.Weights)),
		bias:         snap.Bias,
		learningRate: snap.LearningRate,
		loss:         metrics.NewBCELoss(),
		metrics:      metricSet,
	}
	for f, w := range snap.Weights {
		m.weights[f] = w
	}
	return m
}

// #endregion snapshot

// #region helpers
func (m *Linear) forward(features map[string][]float64, row int) float64 {
	z := m.bias
	for _, f := range m.features {
		z += m.weights[f] * features[f][row]
	}
	return sigmoid(z)
}

func (m *Linear) resetMetrics() {
	m.loss.Reset()
	for _, metric := range m.metrics {
		metric.Reset()
	}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// #endregion helpers
