package registry

import (
	"time"

	"github.com/SashaGoldin/ml-experiments/internal/experiment"
)

// #region run-record
// RunRecord is the registry's summary row for a persisted run: identity and
// settings without the full metric history or model parameters.
type RunRecord struct {
	RunID     string
	Name      string
	Settings  experiment.Settings
	Epochs    int
	CreatedAt time.Time
}

// #endregion run-record
