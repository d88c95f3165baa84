package store

import (
	"database/sql"
	"fmt"

	"github.com/ayusman/fitassess/internal/results"
)

// ResultRepository stores the per-exercise records of a session.
type ResultRepository struct {
	db *sql.DB
}

// Results returns the result repository for this store.
func (s *Store) Results() *ResultRepository {
	return &ResultRepository{db: s.db}
}

// AddAll inserts records for sessionID in a single transaction, keeping
// their order.
func (r *ResultRepository) AddAll(sessionID string, records []results.Record) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO results (session_id, position, timestamp, exercise, component, reps, duration, score, form_errors, feedback)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.Exec(
			sessionID, i, rec.Timestamp, rec.Exercise, rec.Component,
			rec.Reps, rec.Duration, rec.Score, rec.FormErrors, rec.Feedback,
		); err != nil {
			return fmt.Errorf("insert result %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ListBySession returns the records of a session in insertion order.
func (r *ResultRepository) ListBySession(sessionID string) ([]results.Record, error) {
	rows, err := r.db.Query(
		`SELECT timestamp, exercise, component, reps, duration, score, form_errors, feedback
		 FROM results WHERE session_id = ? ORDER BY position`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []results.Record
	for rows.Next() {
		var rec results.Record
		if err := rows.Scan(&rec.Timestamp, &rec.Exercise, &rec.Component,
			&rec.Reps, &rec.Duration, &rec.Score, &rec.FormErrors, &rec.Feedback); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}
