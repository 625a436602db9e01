package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"quizline/internal/session"
)

func (s *Store) Get(ctx context.Context, subscriber string) (session.Session, error) {
	var (
		questionsJSON  string
		currentIndex   int
		currentScore   int
		aggregateScore int
	)
	err := s.db.QueryRowContext(
		ctx,
		`SELECT questions_json, current_index, current_score, aggregate_score
		 FROM sessions WHERE subscriber = ?`,
		subscriber,
	).Scan(&questionsJSON, &currentIndex, &currentScore, &aggregateScore)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, session.ErrNoActiveSession
	}
	if err != nil {
		return session.Session{}, &session.StoreError{Op: "get", Err: err}
	}

	var questions []session.Question
	if err := json.Unmarshal([]byte(questionsJSON), &questions); err != nil {
		return session.Session{}, &session.StoreError{Op: "get", Err: err}
	}

	return session.Session{
		Subscriber:     subscriber,
		Questions:      questions,
		CurrentIndex:   currentIndex,
		CurrentScore:   currentScore,
		AggregateScore: aggregateScore,
	}, nil
}

func (s *Store) Put(ctx context.Context, subscriber string, value session.Session) error {
	questionsJSON, err := json.Marshal(value.Questions)
	if err != nil {
		return &session.StoreError{Op: "put", Err: err}
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO sessions
		 (subscriber, questions_json, current_index, current_score, aggregate_score, updated_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		subscriber,
		string(questionsJSON),
		value.CurrentIndex,
		value.CurrentScore,
		value.AggregateScore,
		time.Now().UTC().UnixNano(),
	)
	if err != nil {
		return &session.StoreError{Op: "put", Err: err}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, subscriber string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE subscriber = ?`, subscriber); err != nil {
		return &session.StoreError{Op: "delete", Err: err}
	}
	return nil
}
