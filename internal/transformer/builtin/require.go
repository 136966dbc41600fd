package builtin

import "salesetl/pkg/records"

// Require removes any record missing a value for any of the specified fields.
type Require struct {
	Fields []string

	// Reject, when set, receives each dropped record.
	Reject func(RejectedRow)
}

// Apply returns a filtered slice containing only records that have all
// required fields present and non-empty.
func (r Require) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, rec := range in {
		missing := ""
		for _, f := range r.Fields {
			v, exists := rec[f]
			if !exists || v == nil || v == "" {
				missing = f
				break
			}
		}
		if missing == "" {
			out = append(out, rec)
			continue
		}
		if r.Reject != nil {
			r.Reject(RejectedRow{Raw: rec, Reason: "required field " + missing + " missing", Stage: "require"})
		}
	}
	return out
}
