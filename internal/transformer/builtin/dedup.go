package builtin

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"salesetl/pkg/records"
)

// DeDup removes duplicate records, where duplicate means full-row equality:
// two records with identical values for every column are the same
// transaction recorded twice. The first occurrence wins; input order is
// preserved.
//
// Columns fixes the set and order of fields participating in the row key.
// When empty, each record's own field names are used in sorted order, which
// gives the same key for records sharing a schema. Row keys are xxh3 hashes
// of the joined, type-stable string forms; hashing keeps the seen-set small
// on wide rows.
//
// Run DeDup after Normalize/Coerce so formatting noise ("  A " vs "A",
// "$10.0" vs 10.0) does not hide duplicates.
type DeDup struct {
	Columns []string

	// Reject, when set, receives each dropped duplicate.
	Reject func(RejectedRow)
}

// Apply returns the batch with later full-row duplicates removed.
func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 {
		return in
	}

	seen := make(map[uint64]struct{}, len(in))
	out := in[:0]
	for _, r := range in {
		key := d.keyOf(r)
		if _, dup := seen[key]; dup {
			if d.Reject != nil {
				d.Reject(RejectedRow{Raw: r, Reason: "duplicate row", Stage: "dedup"})
			}
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func (d DeDup) keyOf(r records.Record) uint64 {
	cols := d.Columns
	if len(cols) == 0 {
		cols = make([]string, 0, len(r))
		for k := range r {
			cols = append(cols, k)
		}
		sort.Strings(cols)
	}

	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte('\x1f') // unlikely separator
		}
		b.WriteString(stableString(r[c]))
	}
	return xxh3.HashString(b.String())
}

// stableString renders a value so that equal values of the same type always
// produce the same key fragment, and nil never collides with "".
func stableString(v any) string {
	switch t := v.(type) {
	case nil:
		return "\x00"
	case string:
		return "s:" + t
	case int64:
		return fmt.Sprintf("i:%d", t)
	case float64:
		return fmt.Sprintf("f:%g", t)
	case bool:
		return fmt.Sprintf("b:%t", t)
	case time.Time:
		return "t:" + t.Format(time.RFC3339)
	default:
		return fmt.Sprintf("x:%v", t)
	}
}
