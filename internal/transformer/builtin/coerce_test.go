package builtin

import (
	"testing"
	"time"

	"salesetl/internal/schema"
	"salesetl/pkg/records"
)

func TestCoerceCurrencyStrings(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$74.69", 74.69},
		{"74.69", 74.69},
		{"$1,024.50", 1024.50},
		{" $ 9.99 ", 9.99},
	}
	for _, tt := range tests {
		r := records.Record{"unit_price": tt.in}
		Coerce{Types: map[string]string{"unit_price": "money"}}.Apply([]records.Record{r})
		got, ok := r["unit_price"].(float64)
		if !ok || got != tt.want {
			t.Errorf("coerce(%q) = %#v, want %v", tt.in, r["unit_price"], tt.want)
		}
	}
}

func TestCoerceDateLayouts(t *testing.T) {
	c := Coerce{
		Types:   map[string]string{"date": "date"},
		Layouts: schema.DateLayouts,
	}

	r := records.Record{"date": "05/01/19"}
	c.Apply([]records.Record{r})
	d, ok := r["date"].(time.Time)
	if !ok {
		t.Fatalf("date not coerced: %#v", r["date"])
	}
	if d.Year() != 2019 || d.Month() != time.January || d.Day() != 5 {
		t.Fatalf("date = %v, want 2019-01-05", d)
	}

	// ISO input parses too, so cleaned output re-coerces unchanged.
	r2 := records.Record{"date": "2019-01-05"}
	c.Apply([]records.Record{r2})
	if d2, ok := r2["date"].(time.Time); !ok || !d2.Equal(d) {
		t.Fatalf("ISO date = %#v, want %v", r2["date"], d)
	}
}

func TestCoerceLeavesUnparseableForValidate(t *testing.T) {
	r := records.Record{"quantity": "three"}
	Coerce{Types: map[string]string{"quantity": "int"}}.Apply([]records.Record{r})
	if r["quantity"] != "three" {
		t.Fatalf("unparseable value mutated: %#v", r["quantity"])
	}
}

func TestCoerceIsIdempotent(t *testing.T) {
	c := Coerce{
		Types:   map[string]string{"unit_price": "money", "quantity": "int", "date": "date"},
		Layouts: schema.DateLayouts,
	}
	r := records.Record{"unit_price": "$10.00", "quantity": "3", "date": "05/01/19"}
	c.Apply([]records.Record{r})
	first := records.Record{}
	for k, v := range r {
		first[k] = v
	}

	c.Apply([]records.Record{r})
	for k, v := range first {
		if r[k] != v {
			t.Fatalf("field %q changed on second pass: %#v -> %#v", k, v, r[k])
		}
	}
}
