package reports

import (
	"context"
	"errors"
	"strings"
	"testing"

	"salesetl/internal/storage"
)

type queryRecorder struct {
	queries []string
	err     error
}

func (q *queryRecorder) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return 0, nil
}
func (q *queryRecorder) Exec(ctx context.Context, sql string) error { return nil }
func (q *queryRecorder) Query(ctx context.Context, sql string) (*storage.ResultSet, error) {
	q.queries = append(q.queries, sql)
	if q.err != nil {
		return nil, q.err
	}
	return &storage.ResultSet{Columns: []string{"x"}, Rows: [][]any{{1}}}, nil
}
func (q *queryRecorder) Close() {}

func TestDialectFor(t *testing.T) {
	if d, ok := DialectFor("postgres"); !ok || d != DialectPostgres {
		t.Fatalf("postgres: got %q, %v", d, ok)
	}
	if d, ok := DialectFor("sqlite"); !ok || d != DialectSQLite {
		t.Fatalf("sqlite: got %q, %v", d, ok)
	}
	for _, kind := range []string{"mysql", "mssql", ""} {
		if _, ok := DialectFor(kind); ok {
			t.Errorf("%q should be load-only", kind)
		}
	}
}

func TestFindStar(t *testing.T) {
	reps, err := Find([]string{"*"})
	if err != nil {
		t.Fatal(err)
	}
	if len(reps) != len(Catalog()) {
		t.Fatalf("got %d reports, want %d", len(reps), len(Catalog()))
	}
}

func TestFindPreservesCatalogOrder(t *testing.T) {
	reps, err := Find([]string{"yoy_revenue_decline", "revenue_by_branch"})
	if err != nil {
		t.Fatal(err)
	}
	if len(reps) != 2 {
		t.Fatalf("got %d reports, want 2", len(reps))
	}
	if reps[0].Name != "revenue_by_branch" || reps[1].Name != "yoy_revenue_decline" {
		t.Fatalf("order = %s, %s", reps[0].Name, reps[1].Name)
	}
}

func TestFindUnknown(t *testing.T) {
	if _, err := Find([]string{"no_such_report"}); err == nil {
		t.Fatal("expected error for unknown report")
	}
}

func TestRenderDialectDifferences(t *testing.T) {
	var yoy Report
	for _, r := range Catalog() {
		if r.Name == "yoy_revenue_decline" {
			yoy = r
		}
	}

	pg := yoy.Render(DialectPostgres, "public.walmart_sales")
	if !strings.Contains(pg, `EXTRACT(YEAR FROM "date")`) {
		t.Errorf("postgres render missing EXTRACT:\n%s", pg)
	}
	if !strings.Contains(pg, `"public"."walmart_sales"`) {
		t.Errorf("postgres render missing quoted FQN:\n%s", pg)
	}
	if !strings.Contains(pg, "ROUND(CAST((p.revenue - c.revenue) / p.revenue * 100 AS NUMERIC), 2)") {
		t.Errorf("postgres render missing decline ratio:\n%s", pg)
	}
	if !strings.Contains(pg, "WHERE c.revenue < p.revenue") {
		t.Errorf("render must keep only declining branches:\n%s", pg)
	}

	lite := yoy.Render(DialectSQLite, "walmart_sales")
	if !strings.Contains(lite, `strftime('%Y', "date")`) {
		t.Errorf("sqlite render missing strftime:\n%s", lite)
	}
	if strings.Contains(lite, "EXTRACT") {
		t.Errorf("sqlite render must not use EXTRACT:\n%s", lite)
	}
}

func TestRenderBusiestDay(t *testing.T) {
	var busiest Report
	for _, r := range Catalog() {
		if r.Name == "busiest_day_per_branch" {
			busiest = r
		}
	}
	lite := busiest.Render(DialectSQLite, "walmart_sales")
	if !strings.Contains(lite, `strftime('%w', "date")`) || !strings.Contains(lite, "'Sunday'") {
		t.Errorf("sqlite weekday mapping missing:\n%s", lite)
	}
	pg := busiest.Render(DialectPostgres, "walmart_sales")
	if !strings.Contains(pg, `TO_CHAR("date", 'Day')`) {
		t.Errorf("postgres day name missing:\n%s", pg)
	}
}

func TestRunAll(t *testing.T) {
	rec := &queryRecorder{}
	results, err := Run(context.Background(), rec, DialectSQLite, "walmart_sales", []string{"*"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(Catalog()) {
		t.Fatalf("got %d results, want %d", len(results), len(Catalog()))
	}
	if len(rec.queries) != len(Catalog()) {
		t.Fatalf("executed %d queries, want %d", len(rec.queries), len(Catalog()))
	}
	for _, q := range rec.queries {
		if !strings.Contains(q, `"walmart_sales"`) {
			t.Errorf("query does not target the table:\n%s", q)
		}
	}
}

func TestRunQueryError(t *testing.T) {
	boom := errors.New("connection reset")
	rec := &queryRecorder{err: boom}
	_, err := Run(context.Background(), rec, DialectPostgres, "t", []string{"revenue_by_branch"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestWriteText(t *testing.T) {
	var sb strings.Builder
	results := []Result{{
		Report: Report{Name: "payment_method_mix", Title: "Transactions per payment method"},
		Set: &storage.ResultSet{
			Columns: []string{"payment_method", "transactions", "qty_sold"},
			Rows: [][]any{
				{"Ewallet", int64(5), int64(16)},
				{"Cash", int64(1), nil},
			},
		},
	}}
	if err := WriteText(&sb, results); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"payment_method_mix", "Ewallet", "Cash", "NULL"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
