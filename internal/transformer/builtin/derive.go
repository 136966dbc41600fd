package builtin

import "salesetl/pkg/records"

// Derive appends one numeric column computed as the product of two existing
// numeric columns (e.g. total_amount = unit_price * quantity). It is a pure,
// deterministic function of the row: no I/O, no shared state, and rows are
// never dropped. Given positive inputs the product is always positive.
//
// Rows where either operand is missing or non-numeric are left without the
// output column; run Derive after Validate so that never happens in practice.
type Derive struct {
	Out   string
	Left  string
	Right string
}

func (d Derive) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		l, lok := asFloat(r[d.Left])
		rv, rok := asFloat(r[d.Right])
		if !lok || !rok {
			continue
		}
		r[d.Out] = l * rv
	}
	return in
}

// asFloat widens the numeric types produced by Coerce to float64.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}
