package experiment

import (
	"fmt"
	"strings"
)

// #region config-error
// ConfigError reports an invalid Settings value, raised at construction
// rather than deep inside training.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid settings: %s %s", e.Field, e.Reason)
}

// #endregion config-error

// #region unknown-metric-error
// UnknownMetricError reports a requested metric name absent from a run's
// history. Known carries the available names for diagnosability.
type UnknownMetricError struct {
	Run    string
	Metric string
	Known  []string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q for run %q: available metrics are [%s]",
		e.Metric, e.Run, strings.Join(e.Known, ", "))
}

// #endregion unknown-metric-error

// #region data-error
// DataError reports a dataset that cannot feed the model: a missing feature
// column or labels misaligned with features. Never recovered, only surfaced.
type DataError struct {
	Column string
	Reason string
}

func (e *DataError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("bad data: %s", e.Reason)
	}
	return fmt.Sprintf("bad data: column %q %s", e.Column, e.Reason)
}

// #endregion data-error
