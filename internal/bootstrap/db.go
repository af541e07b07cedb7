package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-wellbeing/survey-graph-backend/config"
	"github.com/campus-wellbeing/survey-graph-backend/internal/storage/postgres"
)

type DBOptions struct {
	ConnectTO time.Duration
	PingTO    time.Duration
}

// Stores bundles the two Postgres handles: pgx for migrations and health,
// database/sql for the snapshot repository.
type Stores struct {
	Pool *pgxpool.Pool
	SQL  *sql.DB
}

func (s *Stores) Close() {
	if s == nil {
		return
	}
	if s.SQL != nil {
		_ = s.SQL.Close()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func OpenDB(ctx context.Context, dsn string, opt DBOptions) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	pool, err := pgxpool.New(cctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()

	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return pool, nil
}

// OpenStores connects, migrates and returns nil when no database is
// configured. Snapshots are then unavailable but the API still serves.
func OpenStores(ctx context.Context, cfg *config.DatabaseConfig) (*Stores, error) {
	if !cfg.Enabled() {
		log.Println("[info] operation=open_stores database not configured, snapshots disabled")
		return nil, nil
	}
	pool, err := OpenDB(ctx, postgres.DSN(cfg), DBOptions{})
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	db, err := postgres.NewConnection(cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &Stores{Pool: pool, SQL: db}, nil
}
