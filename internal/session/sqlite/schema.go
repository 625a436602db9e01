package sqlite

import (
	"context"
)

func (s *Store) initSchema(ctx context.Context) error {
	// No FK between sessions and results: a session row is deleted the
	// moment its result row is written, in separate statements.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			subscriber TEXT PRIMARY KEY,
			questions_json TEXT NOT NULL,
			current_index INTEGER NOT NULL,
			current_score INTEGER NOT NULL,
			aggregate_score INTEGER NOT NULL,
			updated_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			subscriber TEXT NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL,
			completed_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_subscriber ON results(subscriber, completed_at_unix DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
