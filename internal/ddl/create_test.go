package ddl

import (
	"strings"
	"testing"
)

func sampleDef() TableDef {
	return TableDef{
		FQN: "public.walmart_sales",
		Columns: []ColumnDef{
			{Name: "branch", SQLType: "TEXT", Nullable: false},
			{Name: "rating", SQLType: "DOUBLE PRECISION", Nullable: true},
			{Name: "total_amount", SQLType: "DOUBLE PRECISION", Nullable: false},
		},
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	got, err := BuildCreateTableSQL(sampleDef(), QuoteDouble)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	for _, want := range []string{
		`CREATE TABLE IF NOT EXISTS "public"."walmart_sales"`,
		`"branch" TEXT NOT NULL`,
		`"rating" DOUBLE PRECISION,`,
		`"total_amount" DOUBLE PRECISION NOT NULL`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestBuildCreateTableSQLPrimaryKey(t *testing.T) {
	def := sampleDef()
	def.Columns[0].PrimaryKey = true
	got, err := BuildCreateTableSQL(def, QuoteDouble)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `PRIMARY KEY ("branch")`) {
		t.Errorf("missing primary key clause:\n%s", got)
	}
}

func TestBuildCreateTableSQLErrors(t *testing.T) {
	if _, err := BuildCreateTableSQL(TableDef{FQN: "t"}, QuoteDouble); err == nil {
		t.Error("no error for empty column list")
	}
	if _, err := BuildCreateTableSQL(TableDef{Columns: sampleDef().Columns}, QuoteDouble); err == nil {
		t.Error("no error for empty FQN")
	}
	bad := sampleDef()
	bad.Columns[1].SQLType = ""
	if _, err := BuildCreateTableSQL(bad, QuoteDouble); err == nil {
		t.Error("no error for missing SQLType")
	}
}

func TestQuoteStyles(t *testing.T) {
	tests := []struct {
		quote func(string) string
		in    string
		want  string
	}{
		{QuoteDouble, `weird"name`, `"weird""name"`},
		{QuoteBacktick, "na`me", "`na``me`"},
		{QuoteBracket, "na]me", "[na]]me]"},
	}
	for _, tt := range tests {
		if got := tt.quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
