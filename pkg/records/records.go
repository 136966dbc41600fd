// Package records defines the row representation shared by every pipeline
// stage. A Record maps canonical column names to parsed values; raw values
// arrive as strings (or nil for empty cells) and transformers replace them
// in place with typed values (int64, float64, time.Time, ...).
package records

// Record is a single row keyed by canonical column name.
type Record map[string]any

// Clone returns a shallow copy of r. Values are shared; only the map
// structure is duplicated.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
