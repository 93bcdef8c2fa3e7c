// Package metrics provides streaming binary-classification metrics. A metric
// accumulates (prediction, label) pairs and reports one scalar; accumulation
// over a full pass gives whole-set values rather than per-batch averages.
package metrics

import "math"

// #region metric-interface
// Metric is a streaming scalar measure of classification quality.
// Predictions are sigmoid outputs in [0, 1]; labels are 0 or 1.
type Metric interface {
	Name() string
	Update(pred, label float64)
	Result() float64
	Reset()
}

// #endregion metric-interface

// #region default-set
// DefaultBinarySet mirrors the standard instrumentation for a binary
// classifier: thresholded accuracy, precision and recall, plus AUC.
func DefaultBinarySet(threshold float64) []Metric {
	return []Metric{
		NewBinaryAccuracy("accuracy", threshold),
		NewPrecision("precision", threshold),
		NewRecall("recall", threshold),
		NewAUC("auc", 100),
	}
}

// #endregion default-set

// #region binary-accuracy
// BinaryAccuracy is the fraction of predictions on the correct side of the
// classification threshold.
type BinaryAccuracy struct {
	name      string
	threshold float64
	correct   int
	total     int
}

// NewBinaryAccuracy creates an accuracy metric with the given decision threshold.
func NewBinaryAccuracy(name string, threshold float64) *BinaryAccuracy {
	return &BinaryAccuracy{name: name, threshold: threshold}
}

func (m *BinaryAccuracy) Name() string { return m.name }

func (m *BinaryAccuracy) Update(pred, label float64) {
	m.total++
	if predictedClass(pred, m.threshold) == (label >= 0.5) {
		m.correct++
	}
}

func (m *BinaryAccuracy) Result() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.correct) / float64(m.total)
}

func (m *BinaryAccuracy) Reset() {
	m.correct, m.total = 0, 0
}

// #endregion binary-accuracy

// #region precision
// Precision is TP / (TP + FP) at the configured threshold; zero when the
// model never predicts positive.
type Precision struct {
	name      string
	threshold float64
	tp        int
	fp        int
}

// NewPrecision creates a precision metric with the given decision threshold.
func NewPrecision(name string, threshold float64) *Precision {
	return &Precision{name: name, threshold: threshold}
}

func (m *Precision) Name() string { return m.name }

func (m *Precision) Update(pred, label float64) {
	if !predictedClass(pred, m.threshold) {
		return
	}
	if label >= 0.5 {
		m.tp++
	} else {
		m.fp++
	}
}

func (m *Precision) Result() float64 {
	if m.tp+m.fp == 0 {
		return 0
	}
	return float64(m.tp) / float64(m.tp+m.fp)
}

func (m *Precision) Reset() {
	m.tp, m.fp = 0, 0
}

// #endregion precision

// #region recall
// Recall is TP / (TP + FN) at the configured threshold; zero when the data
// has no positives.
type Recall struct {
	name      string
	threshold float64
	tp        int
	fn        int
}

// NewRecall creates a recall metric with the given decision threshold.
func NewRecall(name string, threshold float64) *Recall {
	return &Recall{name: name, threshold: threshold}
}

func (m *Recall) Name() string { return m.name }

func (m *Recall) Update(pred, label float64) {
	if label < 0.5 {
		return
	}
	if predictedClass(pred, m.threshold) {
		m.tp++
	} else {
		m.fn++
	}
}

func (m *Recall) Result() float64 {
	if m.tp+m.fn == 0 {
		return 0
	}
	return float64(m.tp) / float64(m.tp+m.fn)
}

func (m *Recall) Reset() {
	m.tp, m.fn = 0, 0
}

// #endregion recall

// #region auc
// AUC approximates the area under the ROC curve by accumulating confusion
// counts at evenly spaced thresholds and integrating TPR over FPR with the
// trapezoid rule.
type AUC struct {
	name       string
	thresholds []float64
	tp         []int
	fp         []int
	tn         []int
	fn         []int
}

// NewAUC creates an AUC metric with numThresholds evenly spaced thresholds.
func NewAUC(name string, numThresholds int) *AUC {
	if numThresholds < 2 {
		numThresholds = 2
	}
	const eps = 1e-7
	thresholds := make([]float64, numThresholds)
	for i := range thresholds {
		thresholds[i] = float64(i) / float64(numThresholds-1)
	}
	// Pull the extremes just past [0, 1] so every prediction lands strictly
	// inside one side at each end.
	thresholds[0] = -eps
	thresholds[numThresholds-1] = 1 + eps
	return &AUC{
		name:       name,
		thresholds: thresholds,
		tp:         make([]int, numThresholds),
		fp:         make([]int, numThresholds),
		tn:         make([]int, numThresholds),
		fn:         make([]int, numThresholds),
	}
}

func (m *AUC) Name() string { return m.name }

func (m *AUC) Update(pred, label float64) {
	positive := label >= 0.5
	for i, t := range m.thresholds {
		if pred > t {
			if positive {
				m.tp[i]++
			} else {
				m.fp[i]++
			}
		} else {
			if positive {
				m.fn[i]++
			} else {
				m.tn[i]++
			}
		}
	}
}

func (m *AUC) Result() float64 {
	type point struct{ fpr, tpr float64 }
	points := make([]point, len(m.thresholds))
	for i := range m.thresholds {
		var fpr, tpr float64
		if m.fp[i]+m.tn[i] > 0 {
			fpr = float64(m.fp[i]) / float64(m.fp[i]+m.tn[i])
		}
		if m.tp[i]+m.fn[i] > 0 {
			tpr = float64(m.tp[i]) / float64(m.tp[i]+m.fn[i])
		}
		points[i] = point{fpr: fpr, tpr: tpr}
	}
	// Thresholds ascend, so FPR descends; integrate from the high-threshold end.
	var area float64
	for i := len(points) - 1; i > 0; i-- {
		lo, hi := points[i], points[i-1]
		area += (hi.fpr - lo.fpr) * (hi.tpr + lo.tpr) / 2
	}
	return area
}

func (m *AUC) Reset() {
	for i := range m.thresholds {
		m.tp[i], m.fp[i], m.tn[i], m.fn[i] = 0, 0, 0, 0
	}
}

// #endregion auc

// #region bce-loss
// BCELoss is the mean binary cross-entropy over all observed pairs.
type BCELoss struct {
	sum   float64
	count int
}

// NewBCELoss creates a mean binary cross-entropy metric named "loss".
func NewBCELoss() *BCELoss {
	return &BCELoss{}
}

func (m *BCELoss) Name() string { return "loss" }

func (m *BCELoss) Update(pred, label float64) {
	const eps = 1e-7
	p := math.Min(math.Max(pred, eps), 1-eps)
	m.sum += -(label*math.Log(p) + (1-label)*math.Log(1-p))
	m.count++
}

func (m *BCELoss) Result() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

func (m *BCELoss) Reset() {
	m.sum, m.count = 0, 0
}

// #endregion bce-loss

// #region helpers
func predictedClass(pred, threshold float64) bool {
	return pred >= threshold
}

// #endregion helpers
