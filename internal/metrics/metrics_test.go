package metrics

import (
	"math"
	"testing"
)

func feed(m Metric, preds, labels []float64) {
	for i := range preds {
		m.Update(preds[i], labels[i])
	}
}

func TestBinaryAccuracy(t *testing.T) {
	m := NewBinaryAccuracy("accuracy", 0.5)
	feed(m, []float64{0.9, 0.8, 0.2, 0.4}, []float64{1, 0, 0, 1})
	// correct: 0.9→1 vs 1, 0.2→0 vs 0; wrong: 0.8→1 vs 0, 0.4→0 vs 1
	if got := m.Result(); got != 0.5 {
		t.Fatalf("expected 0.5, got %f", got)
	}
}

func TestBinaryAccuracyThreshold(t *testing.T) {
	m := NewBinaryAccuracy("accuracy", 0.35)
	m.Update(0.4, 1)
	if got := m.Result(); got != 1.0 {
		t.Fatalf("0.4 should count positive at threshold 0.35, accuracy %f", got)
	}
}

func TestPrecisionRecall(t *testing.T) {
	preds := []float64{0.9, 0.8, 0.7, 0.2, 0.1}
	labels := []float64{1, 0, 1, 1, 0}
	// at 0.5: predicted positive {0.9, 0.8, 0.7} → tp=2 fp=1; positives seen 3 → fn=1

	p := NewPrecision("precision", 0.5)
	feed(p, preds, labels)
	if got := p.Result(); math.Abs(got-2.0/3.0) > 1e-12 {
		t.Fatalf("expected precision 2/3, got %f", got)
	}

	r := NewRecall("recall", 0.5)
	feed(r, preds, labels)
	if got := r.Result(); math.Abs(got-2.0/3.0) > 1e-12 {
		t.Fatalf("expected recall 2/3, got %f", got)
	}
}

func TestPrecisionNoPositivePredictions(t *testing.T) {
	p := NewPrecision("precision", 0.9)
	feed(p, []float64{0.1, 0.2}, []float64{1, 0})
	if got := p.Result(); got != 0 {
		t.Fatalf("expected 0 with no positive predictions, got %f", got)
	}
}

func TestAUCPerfectSeparation(t *testing.T) {
	m := NewAUC("auc", 100)
	feed(m,
		[]float64{0.9, 0.85, 0.8, 0.2, 0.15, 0.1},
		[]float64{1, 1, 1, 0, 0, 0})
	if got := m.Result(); got < 0.99 {
		t.Fatalf("expected AUC near 1 on separable scores, got %f", got)
	}
}

func TestAUCConstantScores(t *testing.T) {
	m := NewAUC("auc", 100)
	feed(m, []float64{0.5, 0.5, 0.5, 0.5}, []float64{1, 0, 1, 0})
	if got := m.Result(); math.Abs(got-0.5) > 0.05 {
		t.Fatalf("expected AUC near 0.5 on uninformative scores, got %f", got)
	}
}

func TestBCELoss(t *testing.T) {
	m := NewBCELoss()
	m.Update(0.5, 1)
	want := -math.Log(0.5)
	if got := m.Result(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, got)
	}
}

func TestResetClearsState(t *testing.T) {
	set := DefaultBinarySet(0.5)
	for _, m := range set {
		feed(m, []float64{0.9, 0.1}, []float64{1, 0})
		first := m.Result()
		m.Reset()
		feed(m, []float64{0.9, 0.1}, []float64{1, 0})
		if second := m.Result(); second != first {
			t.Fatalf("%s not idempotent across Reset: %f vs %f", m.Name(), first, second)
		}
	}
}

func TestDefaultBinarySetNames(t *testing.T) {
	set := DefaultBinarySet(0.35)
	want := []string{"accuracy", "precision", "recall", "auc"}
	if len(set) != len(want) {
		t.Fatalf("expected %d metrics, got %d", len(want), len(set))
	}
	for i, m := range set {
		if m.Name() != want[i] {
			t.Fatalf("expected metric %s at %d, got %s", want[i], i, m.Name())
		}
	}
}
