// Package mssql wires a SQL Server-backed storage.Repository into the
// factory. Exec and Query come from the shared sqlrepo implementation;
// CopyFrom is overridden to use go-mssqldb's bulk copy API, which streams
// rows over TDS instead of issuing per-row INSERTs.
package mssql

import (
	"context"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"salesetl/internal/config"
	"salesetl/internal/ddl"
	"salesetl/internal/storage"
	"salesetl/internal/storage/sqlrepo"
)

var dialect = sqlrepo.Dialect{
	Driver:      "sqlserver",
	Placeholder: func(i int) string { return fmt.Sprintf("@p%d", i) },
	Quote:       ddl.QuoteBracket,
}

// Repository wraps the shared sqlrepo with a bulk-copy CopyFrom.
type Repository struct {
	*sqlrepo.Repository
	table string
}

var _ storage.Repository = (*Repository)(nil)

// CopyFrom streams rows into the configured table via TDS bulk copy.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mssql: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(bulkTableName(r.table), mssql.BulkOptions{}, columns...))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("mssql: prepare bulk copy: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if len(row) != len(columns) {
			rollback()
			return 0, fmt.Errorf("mssql: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			rollback()
			return 0, fmt.Errorf("mssql: bulk row: %w", err)
		}
	}

	// Final Exec with no args flushes the bulk batch.
	res, err := stmt.ExecContext(ctx)
	if err != nil {
		rollback()
		return 0, fmt.Errorf("mssql: bulk flush: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mssql: commit: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// bulkTableName strips identifier quoting; CopyIn quotes internally.
func bulkTableName(table string) string {
	return strings.NewReplacer("[", "", "]", "").Replace(table)
}

// newRepository is a test hook so tests can avoid opening real databases.
var newRepository = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	// Validate the DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}
	base, err := sqlrepo.New(ctx, dialect, cfg)
	if err != nil {
		return nil, err
	}
	return &Repository{Repository: base, table: cfg.Table}, nil
}

// MapType translates a contract logical type to a SQL Server column type.
func MapType(logical string) string {
	switch logical {
	case "int":
		return "BIGINT"
	case "float", "money":
		return "FLOAT"
	case "bool":
		return "BIT"
	case "date":
		return "DATE"
	default:
		return "NVARCHAR(255)"
	}
}

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return newRepository(ctx, cfg)
	})

	// SQL Server has no CREATE TABLE IF NOT EXISTS, so the bootstrap wraps
	// the unguarded statement in an OBJECT_ID existence check.
	storage.RegisterDDL("mssql",
		func(ctx context.Context, repo storage.Repository, spec config.Pipeline) error {
			td, err := ddl.FromPipeline(spec, MapType)
			if err != nil {
				return fmt.Errorf("infer table definition: %w", err)
			}
			create, err := ddl.BuildCreateTableSQLNoGuard(td, ddl.QuoteBracket)
			if err != nil {
				return fmt.Errorf("build DDL: %w", err)
			}
			stmt := fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n%s\nEND",
				strings.ReplaceAll(td.FQN, "'", "''"), create)
			if err := repo.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply DDL: %w", err)
			}
			return nil
		})
}
