// Package storage contains the storage-agnostic contracts of the load and
// report stages: the Repository interface, a factory keyed by backend kind,
// a registry of backend DDL bootstrappers, and a generic batched loader.
//
// Concrete backends (postgres, sqlite, mysql, mssql) live in subpackages and
// register themselves with the factory at init time; importing
// salesetl/internal/storage/all (typically as a blank import in the wiring
// layer) makes every built-in backend available.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config carries the backend-agnostic connection settings derived from the
// pipeline's storage block.
type Config struct {
	// Kind selects the registered backend, e.g. "postgres".
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table (schema-qualified where supported).
	Table string

	// Columns is the ordered destination column list for CopyFrom.
	Columns []string
}

// ResultSet is the materialized result of an analytical query. Rows are
// aligned with Columns; values keep the driver's native types.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Repository is the minimal surface the pipeline needs from a relational
// backend: bulk append, DDL execution, and read-only analytical queries.
type Repository interface {
	// CopyFrom bulk-inserts rows aligned to the columns order and returns
	// the number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a statement (typically DDL) with no result.
	Exec(ctx context.Context, sql string) error

	// Query runs a read-only statement and materializes the full result.
	// Report result sets are small by construction.
	Query(ctx context.Context, sql string) (*ResultSet, error)

	// Close releases the underlying connection or pool.
	Close()
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a storage kind. It is
// called from backend packages' init functions.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New constructs a Repository for cfg.Kind via the registered factory.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind=%q", cfg.Kind)
	}
	return f(ctx, cfg)
}
