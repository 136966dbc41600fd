package builtin

import (
	"fmt"
	"time"

	"salesetl/internal/schema"
	"salesetl/pkg/records"
)

// RejectedRow describes a record dropped by a cleaning stage.
type RejectedRow struct {
	Raw    records.Record
	Reason string
	Stage  string
}

// Validate checks records against a schema.Contract after coercion. Records
// that still hold unparseable values, miss required fields, or violate a
// positivity constraint are dropped, never fatal. Each drop is reported
// through the optional Reject sink.
type Validate struct {
	Contract schema.Contract
	Reject   func(RejectedRow)
}

// Apply returns the records satisfying the contract.
func (v Validate) Apply(in []records.Record) []records.Record {
	out := make([]records.Record, 0, len(in))
	for _, rec := range in {
		if reason := v.check(rec); reason == "" {
			out = append(out, rec)
		} else if v.Reject != nil {
			v.Reject(RejectedRow{Raw: rec, Reason: reason, Stage: "validate"})
		}
	}
	return out
}

// check returns an empty string for a valid record, otherwise the first
// violation found.
func (v Validate) check(r records.Record) string {
	for _, f := range v.Contract.Fields {
		val, exists := r[f.Name]
		empty := !exists || val == nil || val == ""

		if f.Required && empty {
			return fmt.Sprintf("required field %q missing", f.Name)
		}
		if empty {
			continue
		}

		switch f.Type {
		case "int":
			n, ok := val.(int64)
			if !ok {
				return fmt.Sprintf("field %q: %v is not an integer", f.Name, val)
			}
			if f.Positive && n <= 0 {
				return fmt.Sprintf("field %q: %d is not positive", f.Name, n)
			}
		case "float", "money":
			x, ok := val.(float64)
			if !ok {
				return fmt.Sprintf("field %q: %v is not numeric", f.Name, val)
			}
			if f.Positive && x <= 0 {
				return fmt.Sprintf("field %q: %g is not positive", f.Name, x)
			}
		case "date":
			t, ok := val.(time.Time)
			if !ok {
				return fmt.Sprintf("field %q: %v is not a valid date", f.Name, val)
			}
			if t.IsZero() {
				return fmt.Sprintf("field %q: zero date", f.Name)
			}
		case "bool":
			if _, ok := val.(bool); !ok {
				return fmt.Sprintf("field %q: %v is not a boolean", f.Name, val)
			}
		}

		if len(f.Enum) > 0 {
			s, _ := val.(string)
			found := false
			for _, e := range f.Enum {
				if s == e {
					found = true
					break
				}
			}
			if !found {
				return fmt.Sprintf("field %q: %q not in enum %v", f.Name, s, f.Enum)
			}
		}
	}
	return ""
}
