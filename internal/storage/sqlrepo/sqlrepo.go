// Package sqlrepo implements the common database/sql repository shared by the
// sqlite, mysql and mssql backends. None of those engines expose a wire-level
// bulk load through database/sql, so CopyFrom runs a prepared INSERT inside a
// single transaction. Backends differ only in driver name, placeholder style
// and identifier quoting.
package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"salesetl/internal/ddl"
	"salesetl/internal/storage"
)

// Dialect captures the per-engine differences the shared repository needs.
type Dialect struct {
	// Driver is the database/sql driver name, e.g. "sqlite" or "mysql".
	Driver string

	// Placeholder renders the i-th (1-based) statement parameter, e.g.
	// "?" for mysql/sqlite or "@p1" for sqlserver.
	Placeholder func(i int) string

	// Quote quotes a single identifier segment.
	Quote func(id string) string
}

// Repository is a database/sql-backed implementation of storage.Repository.
type Repository struct {
	db      *sql.DB
	dialect Dialect
	cfg     storage.Config
}

// New opens a connection for cfg.DSN using the dialect's driver and verifies
// it with a short ping.
func New(ctx context.Context, d Dialect, cfg storage.Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("%s: DSN must not be empty", d.Driver)
	}
	db, err := sql.Open(d.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.Driver, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", d.Driver, err)
	}
	return &Repository{db: db, dialect: d, cfg: cfg}, nil
}

// DB exposes the underlying handle for backend-specific setup (pragmas etc).
func (r *Repository) DB() *sql.DB { return r.db }

// CopyFrom inserts the given rows into the configured table using a single
// transaction and a prepared INSERT statement. It returns the number of rows
// inserted before the first error.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("%s: CopyFrom: columns must not be empty", r.dialect.Driver)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	stmtSQL := r.insertSQL(columns)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", r.dialect.Driver, err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("%s: prepare insert: %w", r.dialect.Driver, err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("%s: CopyFrom: row length %d != columns length %d",
				r.dialect.Driver, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("%s: insert: %w", r.dialect.Driver, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("%s: commit: %w", r.dialect.Driver, err)
	}
	return inserted, nil
}

// insertSQL builds INSERT INTO <table> (<cols>) VALUES (<placeholders>).
func (r *Repository) insertSQL(columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = r.dialect.Quote(c)
		placeholders[i] = r.dialect.Placeholder(i + 1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		ddl.QuoteFQN(r.cfg.Table, r.dialect.Quote),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if strings.TrimSpace(sqlText) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("%s: exec: %w", r.dialect.Driver, err)
	}
	return nil
}

// Query runs a read-only statement and materializes the full result set.
func (r *Repository) Query(ctx context.Context, sqlText string) (*storage.ResultSet, error) {
	rows, err := r.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", r.dialect.Driver, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%s: columns: %w", r.dialect.Driver, err)
	}

	rs := &storage.ResultSet{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", r.dialect.Driver, err)
		}
		for i, v := range vals {
			// Drivers commonly hand back []byte for text columns.
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", r.dialect.Driver, err)
	}
	return rs, nil
}

// Close closes the underlying pool.
func (r *Repository) Close() {
	_ = r.db.Close()
}

var _ storage.Repository = (*Repository)(nil)
