package config

import (
	"encoding/json"
	"strings"
	"testing"
)

const samplePipeline = `{
  "job": "walmart_sales",
  "source": { "kind": "file", "file": { "path": "data/walmart.csv" } },
  "parser": { "kind": "csv", "options": { "has_header": true, "comma": ",", "trim_space": true } },
  "transform": [
    { "kind": "normalize" },
    { "kind": "require", "options": { "fields": ["branch", "unit_price", "quantity"] } },
    { "kind": "coerce", "options": { "types": { "unit_price": "money", "quantity": "int" } } },
    { "kind": "dedup" },
    { "kind": "derive", "options": { "out": "total_amount", "left": "unit_price", "right": "quantity" } }
  ],
  "storage": { "kind": "sqlite", "db": { "dsn": "sales.db", "table": "walmart_sales", "auto_create_table": true } },
  "reports": ["*"],
  "runtime": { "batch_size": 500 }
}`

func decodeSample(t *testing.T) Pipeline {
	t.Helper()
	var p Pipeline
	if err := json.NewDecoder(strings.NewReader(samplePipeline)).Decode(&p); err != nil {
		t.Fatalf("decode pipeline: %v", err)
	}
	return p
}

func TestPipelineDecode(t *testing.T) {
	p := decodeSample(t)

	if p.Job != "walmart_sales" {
		t.Errorf("job = %q, want walmart_sales", p.Job)
	}
	if p.Source.Kind != "file" || p.Source.File.Path != "data/walmart.csv" {
		t.Errorf("source = %+v", p.Source)
	}
	if got := len(p.Transform); got != 5 {
		t.Fatalf("transform count = %d, want 5", got)
	}
	if p.Transform[1].Kind != "require" {
		t.Errorf("transform[1].kind = %q", p.Transform[1].Kind)
	}
	if !p.Storage.DB.AutoCreateTable {
		t.Errorf("auto_create_table not decoded")
	}
	if p.Runtime.BatchSize != 500 {
		t.Errorf("batch_size = %d, want 500", p.Runtime.BatchSize)
	}
}

func TestOptionsMissingDecodesEmpty(t *testing.T) {
	p := decodeSample(t)

	// transform[0] ("normalize") has no options object in the JSON; the
	// decoded Options must still be usable without nil checks.
	opts := p.Transform[0].Options
	if opts == nil {
		t.Fatalf("options map is nil")
	}
	if got := opts.String("anything", "fallback"); got != "fallback" {
		t.Errorf("String on empty options = %q", got)
	}
}

func TestOptionsTypedAccess(t *testing.T) {
	p := decodeSample(t)

	csvOpts := p.Parser.Options
	if !csvOpts.Bool("has_header", false) {
		t.Errorf("has_header = false, want true")
	}
	if got := csvOpts.Rune("comma", ';'); got != ',' {
		t.Errorf("comma = %q, want ','", got)
	}

	coerce := p.Transform[2].Options
	types := coerce.StringMap("types")
	if types["unit_price"] != "money" || types["quantity"] != "int" {
		t.Errorf("types = %v", types)
	}

	req := p.Transform[1].Options
	fields := req.StringSlice("fields")
	if len(fields) != 3 || fields[0] != "branch" {
		t.Errorf("fields = %v", fields)
	}
}

func TestOptionsIntAcceptsJSONNumbers(t *testing.T) {
	o := Options{"n": float64(7), "m": 3}
	if got := o.Int("n", 0); got != 7 {
		t.Errorf("Int(float64) = %d, want 7", got)
	}
	if got := o.Int("m", 0); got != 3 {
		t.Errorf("Int(int) = %d, want 3", got)
	}
	if got := o.Int("absent", 42); got != 42 {
		t.Errorf("Int(absent) = %d, want 42", got)
	}
}
