// Package sqlite wires a SQLite-backed storage.Repository into the factory.
// It builds on the shared sqlrepo implementation; SQLite has no bulk-load
// wire protocol, so batched transactional INSERTs are the fastest append path
// modernc.org/sqlite offers.
package sqlite

import (
	"context"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo

	"salesetl/internal/config"
	"salesetl/internal/ddl"
	"salesetl/internal/storage"
	"salesetl/internal/storage/sqlrepo"
)

var dialect = sqlrepo.Dialect{
	Driver:      "sqlite",
	Placeholder: func(int) string { return "?" },
	Quote:       ddl.QuoteDouble,
}

// newRepository is a test hook so tests can avoid opening real databases.
var newRepository = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	r, err := sqlrepo.New(ctx, dialect, cfg)
	if err != nil {
		return nil, err
	}
	// Keep referential checks on for ad-hoc DDL; the driver tolerates the
	// pragma on read-only files.
	_, _ = r.DB().ExecContext(ctx, "PRAGMA foreign_keys = ON;")
	return r, nil
}

// MapType translates a contract logical type to a SQLite column type.
// SQLite stores dates as TEXT in ISO-8601, which the report catalog relies on.
func MapType(logical string) string {
	switch logical {
	case "int", "bool":
		return "INTEGER"
	case "float", "money":
		return "REAL"
	default:
		return "TEXT"
	}
}

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return newRepository(ctx, cfg)
	})

	storage.RegisterDDL("sqlite",
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
