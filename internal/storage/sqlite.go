package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteFile is the database file name inside the data directory.
const SQLiteFile = "gymlog.db"

// SQLite is a KV backed by a single SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) dir/gymlog.db and migrates it.
func OpenSQLite(ctx context.Context, dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}
	dbPath := filepath.Join(dir, SQLiteFile)

	if err := RunMigrations(DialectSQLite, "sqlite://"+dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get returns the value stored under key.
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, rev, err := s.GetRevision(ctx, key)
	return value, rev > 0, err
}

// GetRevision returns the value stored under key and its revision.
func (s *SQLite) GetRevision(ctx context.Context, key string) ([]byte, int64, error) {
	var value []byte
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT value, revision FROM kv_store WHERE key = ?`, key).Scan(&value, &rev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, rev, nil
}

// Put stores value under key, replacing any previous value.
func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, revision, updated_at) VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, revision = kv_store.revision + 1, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// CompareAndPut stores value under key if the key is still at rev.
func (s *SQLite) CompareAndPut(ctx context.Context, key string, value []byte, rev int64) (int64, error) {
	var res sql.Result
	var err error
	if rev == 0 {
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO kv_store (key, value, revision, updated_at) VALUES (?, ?, 1, CURRENT_TIMESTAMP)
			 ON CONFLICT(key) DO NOTHING`,
			key, value,
		)
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE kv_store SET value = ?, revision = revision + 1, updated_at = CURRENT_TIMESTAMP
			 WHERE key = ? AND revision = ?`,
			value, key, rev,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", key, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("writing %s at revision %d: %w", key, rev, ErrConflict)
	}
	return rev + 1, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
