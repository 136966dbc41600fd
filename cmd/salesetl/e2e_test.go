package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"salesetl/internal/storage"
)

// Full pipeline against a real SQLite file: parse, clean, create the table,
// load, and read the loaded rows back.
func TestRunEndToEndSQLite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "walmart.csv")
	dbPath := filepath.Join(dir, "sales.db")

	csv := header +
		"WALM003,San Antonio,Health and beauty,$74.69,7,05/01/19,13:08:00,Ewallet,9.1,0.48\n" +
		"WALM003,San Antonio,Health and beauty,$74.69,7,05/01/19,13:08:00,Ewallet,9.1,0.48\n" +
		"WALM048,Dallas,Electronic accessories,$15.28,5,08/03/19,10:29:00,Cash,7.0,0.33\n"
	if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	spec := salesSpec()
	spec.Source.File.Path = csvPath
	spec.Storage.DB.DSN = dbPath
	spec.Reports = []string{"revenue_by_branch", "payment_method_mix"}

	ctx := context.Background()
	sum, err := run(ctx, "e2e-run", spec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Inserted != 2 || sum.Deduplicated != 1 {
		t.Fatalf("summary = %+v, want 2 inserted and 1 deduplicated", sum)
	}

	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: dbPath, Table: "walmart_sales"})
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	rs, err := repo.Query(ctx, "SELECT branch, total_amount FROM walmart_sales ORDER BY branch")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("loaded %d rows, want 2", len(rs.Rows))
	}
	if got := rs.Rows[0][1].(float64); got != 74.69*7 {
		t.Errorf("WALM003 total_amount = %v, want %v", got, 74.69*7)
	}
	if got := rs.Rows[1][1].(float64); got != 15.28*5 {
		t.Errorf("WALM048 total_amount = %v, want %v", got, 15.28*5)
	}
}

// Re-running the same pipeline appends; the cleaning chain itself never
// produces different output for the same input file.
func TestRunEndToEndSecondRunAppends(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "walmart.csv")
	dbPath := filepath.Join(dir, "sales.db")

	csv := header +
		"WALM003,San Antonio,Health and beauty,$10.0,3,05/01/19,13:08:00,Ewallet,9.1,0.48\n"
	if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	spec := salesSpec()
	spec.Source.File.Path = csvPath
	spec.Storage.DB.DSN = dbPath

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := run(ctx, "e2e-run", spec); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: dbPath, Table: "walmart_sales"})
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()

	rs, err := repo.Query(ctx, "SELECT COUNT(*) FROM walmart_sales")
	if err != nil {
		t.Fatal(err)
	}
	if got := rs.Rows[0][0].(int64); got != 2 {
		t.Fatalf("row count after two runs = %d, want 2", got)
	}
}
