package postgres

import (
	"context"
	"strings"
	"testing"

	"salesetl/internal/config"
	"salesetl/internal/storage"
)

func TestFactoryRegistration(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var seen Config
	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		seen = cfg
		return &Repository{cfg: cfg}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{
		Kind:    "postgres",
		DSN:     "postgres://etl@localhost/sales",
		Table:   "public.walmart_sales",
		Columns: []string{"branch"},
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}

	if seen.DSN != "postgres://etl@localhost/sales" || seen.Table != "public.walmart_sales" {
		t.Fatalf("factory saw %+v", seen)
	}
	repo.Close()
	if !closed {
		t.Fatal("Close did not invoke the pool close function")
	}
}

func TestCloseNilSafe(t *testing.T) {
	w := &wrappedRepo{Repository: &Repository{}}
	w.Close() // must not panic without a closeFn
}

type execRecorder struct {
	stmts []string
}

func (f *execRecorder) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}
func (f *execRecorder) Exec(ctx context.Context, sql string) error {
	f.stmts = append(f.stmts, sql)
	return nil
}
func (f *execRecorder) Query(ctx context.Context, sql string) (*storage.ResultSet, error) {
	return &storage.ResultSet{}, nil
}
func (f *execRecorder) Close() {}

func TestDDLBootstrap(t *testing.T) {
	spec := config.Pipeline{
		Storage: config.Storage{
			Kind: "postgres",
			DB: config.DBConfig{
				DSN:             "postgres://etl@localhost/sales",
				Table:           "public.walmart_sales",
				AutoCreateTable: true,
			},
		},
	}

	rec := &execRecorder{}
	if err := storage.EnsureTableFromPipeline(context.Background(), spec, rec); err != nil {
		t.Fatalf("EnsureTableFromPipeline: %v", err)
	}
	if len(rec.stmts) != 1 {
		t.Fatalf("executed %d statements, want 1", len(rec.stmts))
	}

	stmt := rec.stmts[0]
	for _, want := range []string{
		`CREATE TABLE IF NOT EXISTS "public"."walmart_sales"`,
		`"unit_price" DOUBLE PRECISION NOT NULL`,
		`"quantity" BIGINT NOT NULL`,
		`"date" DATE NOT NULL`,
		`"total_amount" DOUBLE PRECISION NOT NULL`,
	} {
		if !strings.Contains(stmt, want) {
			t.Errorf("DDL missing %q:\n%s", want, stmt)
		}
	}
}

func TestMapType(t *testing.T) {
	cases := map[string]string{
		"int":   "BIGINT",
		"float": "DOUBLE PRECISION",
		"money": "DOUBLE PRECISION",
		"bool":  "BOOLEAN",
		"date":  "DATE",
		"text":  "TEXT",
	}
	for logical, want := range cases {
		if got := MapType(logical); got != want {
			t.Errorf("MapType(%q) = %q, want %q", logical, got, want)
		}
	}
}
