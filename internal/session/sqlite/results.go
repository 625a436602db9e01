package sqlite

import (
	"context"
	"time"

	"quizline/internal/session"
)

func (s *Store) RecordResult(ctx context.Context, r session.Result) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO results (subscriber, score, total, completed_at_unix) VALUES (?, ?, ?, ?)`,
		r.Subscriber,
		r.Score,
		r.Total,
		r.CompletedAt.UnixNano(),
	)
	if err != nil {
		return &session.StoreError{Op: "record result", Err: err}
	}
	return nil
}

// Results returns the completion history for one subscriber, newest first.
func (s *Store) Results(ctx context.Context, subscriber string) ([]session.Result, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT score, total, completed_at_unix FROM results
		 WHERE subscriber = ? ORDER BY completed_at_unix DESC`,
		subscriber,
	)
	if err != nil {
		return nil, &session.StoreError{Op: "list results", Err: err}
	}
	defer rows.Close()

	var results []session.Result
	for rows.Next() {
		var (
			r               session.Result
			completedAtUnix int64
		)
		if err := rows.Scan(&r.Score, &r.Total, &completedAtUnix); err != nil {
			return nil, &session.StoreError{Op: "list results", Err: err}
		}
		r.Subscriber = subscriber
		r.CompletedAt = time.Unix(0, completedAtUnix).UTC()
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &session.StoreError{Op: "list results", Err: err}
	}
	return results, nil
}
