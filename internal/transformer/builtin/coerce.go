package builtin

import (
	"strconv"
	"strings"
	"time"

	"salesetl/pkg/records"
)

// Coerce converts string values into typed values in place, best-effort:
// values that fail to parse are left as-is for Validate to reject. Already
// typed values pass through untouched, which makes the cleaning chain
// idempotent on its own output.
type Coerce struct {
	// Types maps field name to one of: "int", "float", "money", "date",
	// "bool", "string".
	Types map[string]string

	// Layouts are candidate date layouts tried in order for "date" fields.
	Layouts []string
}

func (c Coerce) Apply(in []records.Record) []records.Record {
	if len(c.Types) == 0 {
		return in
	}
	for _, r := range in {
		for field, typ := range c.Types {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				continue
			}
			switch typ {
			case "int":
				if i, err := strconv.ParseInt(s, 10, 64); err == nil {
					r[field] = i
				}
			case "float":
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					r[field] = f
				}
			case "money":
				if f, err := strconv.ParseFloat(stripCurrency(s), 64); err == nil {
					r[field] = f
				}
			case "bool":
				if b, err := strconv.ParseBool(s); err == nil {
					r[field] = b
				}
			case "date":
				if t, ok := parseDate(s, c.Layouts); ok {
					r[field] = t
				}
			case "string":
				// already string
			}
		}
	}
	return in
}

// stripCurrency removes the formatting characters seen in currency columns
// ("$74.69", "1,024.50 $") leaving a plain decimal for ParseFloat.
func stripCurrency(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

// parseDate tries each layout in order and reports whether any matched.
func parseDate(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
