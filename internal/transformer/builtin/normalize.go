// Package builtin contains the reusable transformers that make up the
// cleaning chain: whitespace normalization, required-field filtering, type
// coercion, contract validation, de-duplication, and column derivation.
package builtin

import (
	"strings"

	"salesetl/pkg/records"
)

// Normalize trims surrounding whitespace from every string value and turns
// values that become empty into nil so downstream required-field checks see
// them as missing.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			if s, ok := v.(string); ok {
				s = strings.TrimSpace(s)
				if s == "" {
					r[k] = nil
					continue
				}
				r[k] = s
			}
		}
	}
	return in
}
