package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-wellbeing/survey-graph-backend/internal/mental_health_survey/domain"
)

func setupCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client, time.Minute), mr
}

func TestCacheRepository_SetGet(t *testing.T) {
	repo, mr := setupCacheRepo(t)
	ctx := context.Background()

	var miss []domain.FrequencyEntry
	err := repo.Get(ctx, "v1", "frequencies", "gender", &miss)
	assert.ErrorIs(t, err, ErrCacheMiss)

	in := []domain.FrequencyEntry{{Value: "male", Label: "Male", Count: 2, Percentage: 66.5}}
	require.NoError(t, repo.Set(ctx, "v1", "frequencies", "gender", in))
	assert.True(t, mr.Exists("survey:out:v1:frequencies:gender"))

	var out []domain.FrequencyEntry
	require.NoError(t, repo.Get(ctx, "v1", "frequencies", "gender", &out))
	assert.Equal(t, in, out)

	ttl := mr.TTL("survey:out:v1:frequencies:gender")
	assert.Equal(t, time.Minute, ttl)
}

func TestCacheRepository_Expiry(t *testing.T) {
	repo, mr := setupCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "v1", "matrix", "default", map[string]int{"a": 1}))
	mr.FastForward(2 * time.Minute)

	var out map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "v1", "matrix", "default", &out), ErrCacheMiss)
}

func TestCacheRepository_InvalidateVersion(t *testing.T) {
	repo, mr := setupCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "v1", "matrix", "default", 1))
	require.NoError(t, repo.Set(ctx, "v1", "flow", "year,age", 2))
	require.NoError(t, repo.Set(ctx, "v2", "matrix", "default", 3))

	require.NoError(t, repo.InvalidateVersion(ctx, "v1"))
	assert.False(t, mr.Exists("survey:out:v1:matrix:default"))
	assert.False(t, mr.Exists("survey:out:v1:flow:year,age"))
	assert.False(t, mr.Exists("survey:version:v1"))
	assert.True(t, mr.Exists("survey:out:v2:matrix:default"))
}

func TestCacheRepository_Disabled(t *testing.T) {
	repo := NewCacheRepository(nil, 0)
	ctx := context.Background()
	assert.False(t, repo.Enabled())
	assert.Equal(t, DefaultCacheTTL, repo.ttl)

	var out int
	assert.ErrorIs(t, repo.Get(ctx, "v", "k", "p", &out), ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "v", "k", "p", 1))
	assert.NoError(t, repo.InvalidateVersion(ctx, "v"))
	assert.NoError(t, repo.Ping(ctx))
}

func TestCacheRepository_Ping(t *testing.T) {
	repo, _ := setupCacheRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))

	down, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: down.Addr(), MaxRetries: -1})
	defer client.Close()
	down.Close()
	assert.Error(t, NewCacheRepository(client, time.Minute).Ping(context.Background()))
}

func setupSnapshotRepo(t *testing.T) (*SnapshotRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewSnapshotRepository(db), mock, db
}

func TestSnapshotRepository_Create(t *testing.T) {
	repo, mock, db := setupSnapshotRepo(t)
	defer db.Close()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	snap := &domain.Snapshot{DatasetVersion: "abc", RecordCount: 101, SkippedRows: 3}

	mock.ExpectQuery(`INSERT INTO survey_snapshots`).
		WithArgs(sqlmock.AnyArg(), "abc", 101, 3, []byte("{}")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	require.NoError(t, repo.Create(context.Background(), snap))
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, created, snap.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_CreateError(t *testing.T) {
	repo, mock, db := setupSnapshotRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO survey_snapshots`).WillReturnError(sql.ErrConnDone)

	err := repo.Create(context.Background(), &domain.Snapshot{ID: "id-1"})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_GetByID(t *testing.T) {
	repo, mock, db := setupSnapshotRepo(t)
	defer db.Close()

	t.Run("found", func(t *testing.T) {
		created := time.Now().UTC()
		mock.ExpectQuery(`SELECT id, dataset_version, record_count, skipped_rows, result, created_at`).
			WithArgs("snap-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "dataset_version", "record_count", "skipped_rows", "result", "created_at"}).
				AddRow("snap-1", "abc", 10, 1, []byte(`{"run_id":"snap-1"}`), created))

		s, err := repo.GetByID(context.Background(), "snap-1")
		require.NoError(t, err)
		assert.Equal(t, "abc", s.DatasetVersion)
		assert.Equal(t, 10, s.RecordCount)
		assert.JSONEq(t, `{"run_id":"snap-1"}`, string(s.Result))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, dataset_version`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSnapshotRepository_ListRecent(t *testing.T) {
	repo, mock, db := setupSnapshotRepo(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, dataset_version, record_count, skipped_rows, created_at`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "dataset_version", "record_count", "skipped_rows", "created_at"}).
			AddRow("b", "v2", 12, 0, now).
			AddRow("a", "v1", 10, 2, now.Add(-time.Hour)))

	list, err := repo.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, 2, list[1].SkippedRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
