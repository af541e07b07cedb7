package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

// SnapshotRepository handles PostgreSQL operations for pipeline snapshots
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a snapshot and fills in the server-side created_at.
func (r *SnapshotRepository) Create(ctx context.Context, s *domain.Snapshot) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	result := []byte(s.Result)
	if len(result) == 0 {
		result = []byte("{}")
	}

	query := `
		INSERT INTO survey_snapshots (id, dataset_version, record_count, skipped_rows, result)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, query, s.ID, s.DatasetVersion, s.RecordCount, s.SkippedRows, result).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	s.CreatedAt = createdAt
	return nil
}

// GetByID retrieves one snapshot including its result document.
func (r *SnapshotRepository) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	query := `
		SELECT id, dataset_version, record_count, skipped_rows, result, created_at
		FROM survey_snapshots
		WHERE id = $1
	`
	var s domain.Snapshot
	var result []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.DatasetVersion, &s.RecordCount, &s.SkippedRows, &result, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	s.Result = result
	return &s, nil
}

// ListRecent returns the newest snapshots first, without result bodies.
func (r *SnapshotRepository) ListRecent(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	query := `
		SELECT id, dataset_version, record_count, skipped_rows, created_at
		FROM survey_snapshots
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	out := []domain.Snapshot{}
	for rows.Next() {
		var s domain.Snapshot
		if err := rows.Scan(&s.ID, &s.DatasetVersion, &s.RecordCount, &s.SkippedRows, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return out, nil
}
