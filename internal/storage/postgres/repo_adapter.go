// This adapter wires the Postgres backend into the storage-agnostic factory
// by registering a constructor at init time. The CLI (cmd/salesetl) and other
// callers can then obtain a Repository via storage.New(...) without importing
// this package directly.
//
// The adapter also registers a DDL bootstrapper so that callers can apply
// backend-specific DDL based only on storage.Kind, without branching on the
// backend themselves.
package postgres

import (
	"context"
	"fmt"

	"salesetl/internal/config"
	"salesetl/internal/ddl"
	"salesetl/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to the concrete
// *postgres.Repository while providing a Close method that calls the close
// function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// Query adapts the concrete result type to storage.ResultSet.
func (w *wrappedRepo) Query(ctx context.Context, sql string) (*storage.ResultSet, error) {
	rs, err := w.Repository.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return &storage.ResultSet{Columns: rs.Columns, Rows: rs.Rows}, nil
}

// MapType translates a contract logical type to a Postgres column type.
func MapType(logical string) string {
	switch logical {
	case "int":
		return "BIGINT"
	case "float", "money":
		return "DOUBLE PRECISION"
	case "bool":
		return "BOOLEAN"
	case "date":
		return "DATE"
	default:
		return "TEXT"
	}
}

// init registers the "postgres" backend with the storage factory and a DDL
// bootstrapper for storage.Kind == "postgres". This keeps the wiring in one
// place and allows callers to remain backend-agnostic.
func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("postgres",
		func(ctx context.Context, repo storage.Repository, spec config.Pipeline) error {
			td, err := ddl.FromPipeline(spec, MapType)
			if err != nil {
				return fmt.Errorf("infer table definition: %w", err)
			}
			stmt, err := ddl.BuildCreateTableSQL(td, ddl.QuoteDouble)
			if err != nil {
				return fmt.Errorf("build DDL: %w", err)
			}
			if err := repo.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply DDL: %w", err)
			}
			return nil
		})
}
