package registry

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/SashaGoldin/ml-experiments/internal/dataset"
	"github.com/SashaGoldin/ml-experiments/internal/experiment"
	"github.com/SashaGoldin/ml-experiments/internal/metrics"
	"github.com/SashaGoldin/ml-experiments/internal/trainer"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func trainedRun(t *testing.T, name string) (*experiment.Run, *dataset.Table, []float64) {
	t.Helper()
	f1 := make([]float64, 30)
	labels := make([]float64, 30)
	for i := range f1 {
		if i%2 == 0 {
			f1[i] = 1.5
			labels[i] = 1
		} else {
			f1[i] = -1.5
		}
	}
	tbl, err := dataset.FromColumns(map[string][]float64{"f1": f1}, []string{"f1"})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	s, err := experiment.NewSettings(0.01, 4, 10, 0.5, []string{"f1"})
	if err != nil {
		t.Fatalf("NewSettings: %v", err)
	}
	run, err := trainer.Default().Train(name, s, tbl, labels, metrics.DefaultBinarySet(s.ClassificationThreshold))
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	return run, tbl, labels
}

func TestSaveAndGetRun(t *testing.T) {
	s := tempStore(t)
	run, _, _ := trainedRun(t, "persisted")

	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	loaded, err := s.GetRun("persisted")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if loaded.RunID != run.RunID {
		t.Fatalf("run ID changed across persistence: %s vs %s", run.RunID, loaded.RunID)
	}
	if len(loaded.Epochs) != 4 {
		t.Fatalf("expected 4 epochs, got %v", loaded.Epochs)
	}
	if loaded.Settings.LearningRate != run.Settings.LearningRate {
		t.Fatalf("settings mangled: %+v", loaded.Settings)
	}

	for metric, series := range run.MetricsHistory {
		got := loaded.MetricsHistory[metric]
		if len(got) != len(series) {
			t.Fatalf("metric %s: expected %d values, got %d", metric, len(series), len(got))
		}
		for i := range series {
			if got[i] != series[i] {
				t.Fatalf("metric %s diverges at epoch %d: %f vs %f", metric, i, series[i], got[i])
			}
		}
	}

	want, err := run.FinalMetricValue("accuracy")
	if err != nil {
		t.Fatalf("FinalMetricValue: %v", err)
	}
	got, err := loaded.FinalMetricValue("accuracy")
	if err != nil {
		t.Fatalf("loaded FinalMetricValue: %v", err)
	}
	if got != want {
		t.Fatalf("final accuracy changed across persistence: %f vs %f", want, got)
	}
}

func TestLoadedModelPredictsIdentically(t *testing.T) {
	s := tempStore(t)
	run, tbl, _ := trainedRun(t, "weights")
	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	loaded, err := s.GetRun("weights")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if loaded.Model == nil {
		t.Fatal("expected a restored model handle")
	}

	features, err := tbl.Features(run.Settings.InputFeatures)
	if err != nil {
		t.Fatalf("Features: %v", err)
	}
	want, err := run.Model.Predict(features)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	got, err := loaded.Model.Predict(features)
	if err != nil {
		t.Fatalf("loaded Predict: %v", err)
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-12 {
			t.Fatalf("restored model diverges at row %d: %f vs %f", i, want[i], got[i])
		}
	}
}

func TestSaveRunRejectsDuplicateName(t *testing.T) {
	s := tempStore(t)
	run, _, _ := trainedRun(t, "dup")
	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	other, _, _ := trainedRun(t, "dup")
	if err := s.SaveRun(other); err == nil {
		t.Fatal("expected unique-name violation on second save")
	}
}

func TestListRuns(t *testing.T) {
	s := tempStore(t)
	for _, name := range []string{"one", "two", "three"} {
		run, _, _ := trainedRun(t, name)
		if err := s.SaveRun(run); err != nil {
			t.Fatalf("SaveRun %s: %v", name, err)
		}
	}

	records, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(records))
	}
	for _, rec := range records {
		if rec.Epochs != 4 {
			t.Fatalf("run %s: expected 4 epochs, got %d", rec.Name, rec.Epochs)
		}
		if len(rec.Settings.InputFeatures) != 1 {
			t.Fatalf("run %s: settings not restored: %+v", rec.Name, rec.Settings)
		}
	}
}
