// Package runlog appends experiment lifecycle events to the registry
// database: a run was trained, evaluated, or included in a comparison.
package runlog

import (
	"database/sql"
	"fmt"
	"time"
)

// Event names written by the commands.
const (
	EventTrained   = "trained"
	EventEvaluated = "evaluated"
	EventCompared  = "compared"
)

// #region entry
// Entry is one lifecycle event for a run. RunID may be empty for events
// spanning multiple runs (e.g. a comparison).
type Entry struct {
	RunID       string
	Event       string
	DetailsJSON string
	CreatedAt   time.Time
}

// #endregion entry

// #region log-event
// LogEvent writes an entry to the run_events table.
func LogEvent(db *sql.DB, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO run_events (run_id, event, details_json, created_at)
		 VALUES (?, ?, ?, ?)`,
		nullIfEmpty(entry.RunID),
		entry.Event,
		nullIfEmpty(entry.DetailsJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

// #endregion log-event

// #region recent
// Recent returns the latest events, newest first.
func Recent(db *sql.DB, limit int) ([]Entry, error) {
	rows, err := db.Query(
		`SELECT run_id, event, details_json, created_at
		 FROM run_events ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			runID      sql.NullString
			details    sql.NullString
			createdStr string
		)
		if err := rows.Scan(&runID, &e.Event, &details, &createdStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if runID.Valid {
			e.RunID = runID.String
		}
		if details.Valid {
			e.DetailsJSON = details.String
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return entries, nil
}

// #endregion recent

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
