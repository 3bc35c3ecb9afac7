package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Location says where a backend keeps its data. DataDir is used by SQLite
// and PostgresDSN by PostgreSQL.
type Location struct {
	Backend     string
	DataDir     string
	PostgresDSN string
}

// Migrate applies pending schema migrations for loc without opening a store.
func Migrate(loc Location) error {
	switch loc.Backend {
	case BackendSQLite:
		if err := os.MkdirAll(loc.DataDir, 0o755); err != nil {
			return fmt.Errorf("creating data dir %s: %w", loc.DataDir, err)
		}
		return RunMigrations(DialectSQLite, "sqlite://"+filepath.Join(loc.DataDir, SQLiteFile))
	case BackendPostgres:
		return RunMigrations(DialectPostgres, loc.PostgresDSN)
	default:
		return fmt.Errorf("unknown storage backend %q", loc.Backend)
	}
}

// Open migrates and opens the backend described by loc.
func Open(ctx context.Context, loc Location) (KV, error) {
	switch loc.Backend {
	case BackendSQLite:
		return OpenSQLite(ctx, loc.DataDir)
	case BackendPostgres:
		if err := Migrate(loc); err != nil {
			return nil, err
		}
		return NewPostgres(ctx, loc.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", loc.Backend)
	}
}
