package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresCounter is a Counter backed by a usage_windows table, for
// deployments that already run Postgres and want durable quota state.
type PostgresCounter struct {
	pool rowQuerier
}

// NewPostgresCounter connects a pool for the given DSN.
func NewPostgresCounter(ctx context.Context, dsn string) (*PostgresCounter, error) {
	if dsn == "" {
		return nil, fmt.Errorf("quota.postgres_dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresCounter{pool: pool}, nil
}

// NewPostgresCounterWithPool constructs a counter from an existing pool
// (primarily for testing).
func NewPostgresCounterWithPool(pool rowQuerier) (*PostgresCounter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &PostgresCounter{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (p *PostgresCounter) Close() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Close()
}

// Incr atomically increments key via an upsert and returns the new
// count. The expiry column lets stale windows be reaped out of band.
func (p *PostgresCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	query := `
INSERT INTO usage_windows (window_key, count, expires_at)
VALUES ($1, 1, $2)
ON CONFLICT (window_key)
DO UPDATE SET count = usage_windows.count + 1
RETURNING count`

	var count int64
	err := p.pool.QueryRow(ctx, query, key, time.Now().Add(ttl)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("upsert usage window: %w", err)
	}
	return count, nil
}

// Get returns the current count for key, zero if no live window exists.
func (p *PostgresCounter) Get(ctx context.Context, key string) (int64, error) {
	query := `SELECT count FROM usage_windows WHERE window_key = $1 AND expires_at > now()`

	var count int64
	err := p.pool.QueryRow(ctx, query, key).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read usage window: %w", err)
	}
	return count, nil
}
