package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"salesetl/internal/datasource/file"
)

const sampleCSV = "\uFEFFBranch,City,Unit price,Quantity,Date,Rating,Completed\n" +
	"WALM003,San Antonio,$74.69,7,05/01/19,9.1,true\n" +
	"WALM048,Dallas,$15.28,5,08/03/19,7.0,false\n" +
	"WALM009,Irving,$46.33,8,03/03/19,8.4,true\n"

func sampleSource(t *testing.T, contents string) *file.Local {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return file.NewLocal(path)
}

func TestSampleInfersColumns(t *testing.T) {
	cols, err := Sample(context.Background(), sampleSource(t, sampleCSV), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != 7 {
		t.Fatalf("got %d columns, want 7", len(cols))
	}

	want := map[string]string{
		"branch":     "text",
		"city":       "text",
		"unit_price": "money",
		"quantity":   "int",
		"date":       "date",
		"rating":     "float",
		"completed":  "bool",
	}
	for _, c := range cols {
		if want[c.Name] == "" {
			t.Errorf("unexpected column %q (header %q)", c.Name, c.Header)
			continue
		}
		if c.Type != want[c.Name] {
			t.Errorf("%s: type = %q, want %q", c.Name, c.Type, want[c.Name])
		}
	}
	// The BOM must not leak into the first header.
	if cols[0].Header != "Branch" {
		t.Errorf("first header = %q, want Branch", cols[0].Header)
	}
}

func TestSampleDropsTruncatedTail(t *testing.T) {
	// No trailing newline: the final partial record must be discarded.
	truncated := "Branch,Quantity\nWALM003,7\nWALM048,5\nWALM0"
	cols, err := Sample(context.Background(), sampleSource(t, truncated), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cols[1].Type != "int" {
		t.Fatalf("quantity type = %q, want int (partial row must be dropped)", cols[1].Type)
	}
}

func TestNormalizeField(t *testing.T) {
	cases := map[string]string{
		"Unit price":     "unit_price",
		"  Payment-Type": "payment_type",
		"Café Müller":    "cafe_muller",
		"profit.margin":  "profit_margin",
		"___":            "col",
		"Total Amount ":  "total_amount",
	}
	for in, want := range cases {
		if got := NormalizeField(in); got != want {
			t.Errorf("NormalizeField(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInferTypeMoneyVersusFloat(t *testing.T) {
	if got := inferType([]string{"$74.69", "$15.28"}); got != "money" {
		t.Fatalf("currency column = %q, want money", got)
	}
	if got := inferType([]string{"74.69", "15.28"}); got != "float" {
		t.Fatalf("plain decimal column = %q, want float", got)
	}
	if got := inferType([]string{"74.69", "abc"}); got != "text" {
		t.Fatalf("mixed column = %q, want text", got)
	}
	if got := inferType([]string{"", "  "}); got != "text" {
		t.Fatalf("empty column = %q, want text", got)
	}
}

func TestSuggestPipeline(t *testing.T) {
	cols := []Column{
		{Header: "Branch", Name: "branch", Type: "text"},
		{Header: "Unit price", Name: "unit_price", Type: "money"},
		{Header: "Quantity", Name: "quantity", Type: "int"},
	}
	p := SuggestPipeline("Walmart Sales", cols)

	if p.Job != "walmart_sales" {
		t.Fatalf("job = %q", p.Job)
	}
	hm := p.Parser.Options.StringMap("header_map")
	if hm["Unit price"] != "unit_price" {
		t.Fatalf("header_map = %v", hm)
	}
	if _, mapped := hm["branch"]; mapped {
		t.Fatal("identity headers must not be mapped")
	}
	if p.Storage.DB.Table != "walmart_sales" || !p.Storage.DB.AutoCreateTable {
		t.Fatalf("storage = %+v", p.Storage.DB)
	}
	if len(p.Storage.DB.Columns) != 3 {
		t.Fatalf("columns = %v", p.Storage.DB.Columns)
	}

	out, err := RenderJSON(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		t.Fatal("rendered JSON must end with a newline")
	}
}
