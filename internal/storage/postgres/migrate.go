package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS survey_snapshots (
		id UUID PRIMARY KEY,
		dataset_version TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		skipped_rows INTEGER NOT NULL DEFAULT 0,
		result JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_snapshots_created_at ON survey_snapshots (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_snapshots_version ON survey_snapshots (dataset_version)`,
}

// Migrate creates the snapshot schema. Every statement is idempotent.
func Migrate(ctx context.Context, db Execer) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
