// Package registry persists trained runs in SQLite: settings, per-epoch
// metric history, and the model's parameter snapshot, keyed by run name.
// Loading a run restores an inference-ready model handle.
package registry

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/SashaGoldin/ml-experiments/internal/experiment"
	"github.com/SashaGoldin/ml-experiments/internal/metrics"
	"github.com/SashaGoldin/ml-experiments/internal/model"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	name          TEXT NOT NULL UNIQUE,
	settings_json TEXT NOT NULL,
	epochs        INTEGER NOT NULL,
	weights_json  TEXT,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metric_history (
	run_id  TEXT NOT NULL,
	metric  TEXT NOT NULL,
	series  BLOB NOT NULL,
	PRIMARY KEY (run_id, metric),
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);

CREATE TABLE IF NOT EXISTS run_events (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT,
	event        TEXT NOT NULL,
	details_json TEXT,
	created_at   TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store manages persisted runs in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. runlog).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region save-run
// snapshotter is the optional capability a model handle exposes for
// persistence. The linear model implements it.
type snapshotter interface {
	Snapshot() model.Snapshot
}

// SaveRun persists a run's settings, metric history, and (when the handle
// supports it) model parameters. The run ID is assigned here when the run
// carries none.
func (s *Store) SaveRun(run *experiment.Run) error {
	runID := run.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	settingsJSON, err := json.Marshal(run.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	var weightsPtr interface{}
	if snap, ok := run.Model.(snapshotter); ok {
		weightsJSON, err := json.Marshal(snap.Snapshot())
		if err != nil {
			return fmt.Errorf("marshal weights: %w", err)
		}
		weightsPtr = string(weightsJSON)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, name, settings_json, epochs, weights_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, run.Name, string(settingsJSON), len(run.Epochs), weightsPtr,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.Name, err)
	}

	for metric, series := range run.MetricsHistory {
		_, err = tx.Exec(
			`INSERT INTO metric_history (run_id, metric, series) VALUES (?, ?, ?)`,
			runID, metric, encodeSeries(series),
		)
		if err != nil {
			return fmt.Errorf("insert history %s/%s: %w", run.Name, metric, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion save-run

// #region get-run
// GetRun loads a persisted run by name, restoring a model handle from the
// saved parameter snapshot when one exists.
func (s *Store) GetRun(name string) (*experiment.Run, error) {
	var (
		runID        string
		settingsJSON string
		epochs       int
		weightsJSON  sql.NullString
	)
	err := s.db.QueryRow(
		`SELECT run_id, settings_json, epochs, weights_json FROM runs WHERE name = ?`, name,
	).Scan(&runID, &settingsJSON, &epochs, &weightsJSON)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", name, err)
	}

	run := &experiment.Run{
		Name:           name,
		RunID:          runID,
		Epochs:         make([]int, epochs),
		MetricsHistory: map[string][]float64{},
	}
	for i := range run.Epochs {
		run.Epochs[i] = i
	}
	if err := json.Unmarshal([]byte(settingsJSON), &run.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings for %s: %w", name, err)
	}

	rows, err := s.db.Query(`SELECT metric, series FROM metric_history WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var metric string
		var blob []byte
		if err := rows.Scan(&metric, &blob); err != nil {
			return nil, fmt.Errorf("scan history for %s: %w", name, err)
		}
		run.MetricsHistory[metric] = decodeSeries(blob)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history for %s: %w", name, err)
	}

	if weightsJSON.Valid {
		var snap model.Snapshot
		if err := json.Unmarshal([]byte(weightsJSON.String), &snap); err != nil {
			return nil, fmt.Errorf("unmarshal weights for %s: %w", name, err)
		}
		run.Model = model.FromSnapshot(snap, metrics.DefaultBinarySet(run.Settings.ClassificationThreshold))
	}
	return run, nil
}

// #endregion get-run

// #region list-runs
// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, name, settings_json, epochs, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			rec          RunRecord
			settingsJSON string
			createdStr   string
		)
		if err := rows.Scan(&rec.RunID, &rec.Name, &settingsJSON, &rec.Epochs, &createdStr); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(settingsJSON), &rec.Settings); err != nil {
			return nil, fmt.Errorf("unmarshal settings for %s: %w", rec.Name, err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

// #endregion list-runs

// #region series-codec
// encodeSeries packs a float64 series as little-endian bytes.
func encodeSeries(series []float64) []byte {
	buf := make([]byte, 8*len(series))
	for i, v := range series {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// decodeSeries unpacks a little-endian float64 series.
func decodeSeries(blob []byte) []float64 {
	series := make([]float64, len(blob)/8)
	for i := range series {
		series[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return series
}

// #endregion series-codec
