// Package mysql wires a MySQL-backed storage.Repository into the factory,
// built on the shared sqlrepo implementation. MySQL's LOAD DATA needs
// server-side file access, so batched transactional INSERTs are used instead.
package mysql

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"salesetl/internal/config"
	"salesetl/internal/ddl"
	"salesetl/internal/storage"
	"salesetl/internal/storage/sqlrepo"
)

var dialect = sqlrepo.Dialect{
	Driver:      "mysql",
	Placeholder: func(int) string { return "?" },
	Quote:       ddl.QuoteBacktick,
}

// newRepository is a test hook so tests can avoid opening real databases.
var newRepository = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	return sqlrepo.New(ctx, dialect, cfg)
}

// MapType translates a contract logical type to a MySQL column type.
func MapType(logical string) string {
	switch logical {
	case "int":
		return "BIGINT"
	case "float", "money":
		return "DOUBLE"
	case "bool":
		return "TINYINT(1)"
	case "date":
		return "DATE"
	default:
		return "TEXT"
	}
}

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return newRepository(ctx, cfg)
	})

	storage.RegisterDDL("mysql",
		func(ctx context.Context, repo storage.Repository, spec config.Pipeline) error {
			td, err := ddl.FromPipeline(spec, MapType)
			if err != nil {
				return fmt.Errorf("infer table definition: %w", err)
			}
			stmt, err := ddl.BuildCreateTableSQL(td, ddl.QuoteBacktick)
			if err != nil {
				return fmt.Errorf("build DDL: %w", err)
			}
			if err := repo.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply DDL: %w", err)
			}
			return nil
		})
}
