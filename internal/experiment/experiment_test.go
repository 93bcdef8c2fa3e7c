package experiment

import (
	"errors"
	"strings"
	"testing"
)

func validSettings(t *testing.T) Settings {
	t.Helper()
	s, err := NewSettings(0.001, 60, 100, 0.35, []string{"Eccentricity", "Major_Axis_Length", "Area"})
	if err != nil {
		t.Fatalf("NewSettings: %v", err)
	}
	return s
}

func TestNewSettingsValid(t *testing.T) {
	s := validSettings(t)
	if len(s.InputFeatures) != 3 {
		t.Fatalf("expected 3 features, got %d", len(s.InputFeatures))
	}
}

func TestNewSettingsCopiesFeatures(t *testing.T) {
	features := []string{"f1", "f2"}
	s, err := NewSettings(0.01, 5, 10, 0.5, features)
	if err != nil {
		t.Fatalf("NewSettings: %v", err)
	}
	features[0] = "mutated"
	if s.InputFeatures[0] != "f1" {
		t.Fatalf("settings aliased the caller's feature slice: %v", s.InputFeatures)
	}
}

func TestNewSettingsRejectsBadValues(t *testing.T) {
	cases := []struct {
		name      string
		lr        float64
		epochs    int
		batch     int
		threshold float64
		features  []string
		field     string
	}{
		{"zero learning rate", 0, 5, 10, 0.5, []string{"f1"}, "learning_rate"},
		{"negative epochs", 0.01, -1, 10, 0.5, []string{"f1"}, "number_epochs"},
		{"zero batch size", 0.01, 5, 0, 0.5, []string{"f1"}, "batch_size"},
		{"threshold above one", 0.01, 5, 10, 1.5, []string{"f1"}, "classification_threshold"},
		{"empty feature list", 0.01, 5, 10, 0.5, nil, "input_features"},
		{"blank feature name", 0.01, 5, 10, 0.5, []string{""}, "input_features"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSettings(tc.lr, tc.epochs, tc.batch, tc.threshold, tc.features)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tc.field {
				t.Fatalf("expected field %s, got %s", tc.field, cfgErr.Field)
			}
		})
	}
}

func TestFinalMetricValue(t *testing.T) {
	run := &Run{
		Name:   "baseline",
		Epochs: []int{0, 1, 2},
		MetricsHistory: map[string][]float64{
			"accuracy": {0.5, 0.7, 0.9},
			"loss":     {0.8, 0.5, 0.3},
		},
	}

	v, err := run.FinalMetricValue("accuracy")
	if err != nil {
		t.Fatalf("FinalMetricValue: %v", err)
	}
	if v != 0.9 {
		t.Fatalf("expected 0.9, got %f", v)
	}
}

func TestFinalMetricValueUnknown(t *testing.T) {
	run := &Run{
		Name:           "baseline",
		MetricsHistory: map[string][]float64{"accuracy": {0.9}, "loss": {0.3}},
	}

	_, err := run.FinalMetricValue("nonexistent")
	var umErr *UnknownMetricError
	if !errors.As(err, &umErr) {
		t.Fatalf("expected UnknownMetricError, got %v", err)
	}
	if umErr.Metric != "nonexistent" || umErr.Run != "baseline" {
		t.Fatalf("error carries wrong context: %+v", umErr)
	}
	msg := err.Error()
	if !strings.Contains(msg, "nonexistent") {
		t.Fatalf("error should mention the requested metric: %s", msg)
	}
	if !strings.Contains(msg, "accuracy") || !strings.Contains(msg, "loss") {
		t.Fatalf("error should list known metrics: %s", msg)
	}
}

func TestMetricNamesSorted(t *testing.T) {
	run := &Run{MetricsHistory: map[string][]float64{
		"recall": {1}, "accuracy": {1}, "precision": {1},
	}}
	names := run.MetricNames()
	want := []string{"accuracy", "precision", "recall"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}
