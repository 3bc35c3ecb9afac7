package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a KV backed by a pgx connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres creates a connection pool and verifies it with a ping.
// Migrations are run separately with RunMigrations.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// Get returns the value stored under key.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, rev, err := p.GetRevision(ctx, key)
	return value, rev > 0, err
}

// GetRevision returns the value stored under key and its revision.
func (p *Postgres) GetRevision(ctx context.Context, key string) ([]byte, int64, error) {
	var value []byte
	var rev int64
	err := p.Pool.QueryRow(ctx, `SELECT value, revision FROM kv_store WHERE key = $1`, key).Scan(&value, &rev)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, rev, nil
}

// Put stores value under key, replacing any previous value.
func (p *Postgres) Put(ctx context.Context, key string, value []byte) error {
	_, err := p.Pool.Exec(ctx,
		`INSERT INTO kv_store (key, value, revision, updated_at) VALUES ($1, $2, 1, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, revision = kv_store.revision + 1, updated_at = EXCLUDED.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// CompareAndPut stores value under key if the key is still at rev.
func (p *Postgres) CompareAndPut(ctx context.Context, key string, value []byte, rev int64) (int64, error) {
	var tag pgconn.CommandTag
	var err error
	if rev == 0 {
		tag, err = p.Pool.Exec(ctx,
			`INSERT INTO kv_store (key, value, revision, updated_at) VALUES ($1, $2, 1, now())
			 ON CONFLICT (key) DO NOTHING`,
			key, value,
		)
	} else {
		tag, err = p.Pool.Exec(ctx,
			`UPDATE kv_store SET value = $1, revision = revision + 1, updated_at = now()
			 WHERE key = $2 AND revision = $3`,
			value, key, rev,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("writing %s at revision %d: %w", key, rev, ErrConflict)
	}
	return rev + 1, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}
