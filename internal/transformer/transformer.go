// Package transformer defines the row transformation contract used by the
// cleaning stage. Transformers are composed into an ordered Chain; each one
// receives the full batch and returns the (possibly filtered) batch. Row
// mutation happens in place, row removal happens by returning fewer rows.
package transformer

import "salesetl/pkg/records"

// Transformer applies a transformation to a batch of records.
type Transformer interface {
	Apply([]records.Record) []records.Record
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs every transformer in order over the batch.
func (c Chain) Apply(in []records.Record) []records.Record {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
