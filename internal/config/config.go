// Package config defines the canonical, JSON-serializable configuration model
// for the sales ETL. It is intentionally small and explicit so that pipelines
// can be loaded from disk and passed through the program without extra glue.
//
// Example (trimmed):
//
//	{
//	  "job":      "walmart_sales",
//	  "source":   { "kind": "file", "file": { "path": "data/walmart.csv" } },
//	  "parser":   { "kind": "csv", "options": { "has_header": true } },
//	  "transform":[
//	    { "kind": "require", "options": { "fields": ["branch", "unit_price"] } }
//	  ],
//	  "storage":  { "kind": "sqlite", "db": { "dsn": "sales.db", "table": "walmart_sales" } }
//	}
package config

import "encoding/json"

// Pipeline describes the full ETL run decoded from a pipeline file under
// configs/pipelines/*.json.
type Pipeline struct {
	// Job identifies the run for logs and metric labels.
	Job string `json:"job"`

	// Source describes where input data comes from (local file or HTTP).
	Source Source `json:"source"`

	// Parser configures how raw bytes become records.
	Parser Parser `json:"parser"`

	// Transform lists the ordered cleaning/derivation steps. Each step has a
	// kind and an options bag whose shape is defined by the implementation.
	Transform []Transform `json:"transform"`

	// Storage describes the relational sink.
	Storage Storage `json:"storage"`

	// Reports optionally names catalog queries to run after the load; the
	// single entry "*" runs the whole catalog.
	Reports []string `json:"reports,omitempty"`

	Runtime RuntimeConfig `json:"runtime"`
}

// RuntimeConfig controls batching and channel buffering on the load path.
type RuntimeConfig struct {
	BatchSize     int `json:"batch_size"`
	ChannelBuffer int `json:"channel_buffer"`
}

// Source identifies the data source.
type Source struct {
	// Kind selects the source implementation: "file" or "http".
	Kind string `json:"kind"`

	File SourceFile `json:"file"`
	HTTP SourceHTTP `json:"http"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	URL string `json:"url"`

	// TimeoutSeconds bounds each request; 0 uses the client default.
	TimeoutSeconds int `json:"timeout_seconds"`

	// MaxRetries is the number of retry attempts after the initial request.
	MaxRetries int `json:"max_retries"`
}

// Parser selects how to parse the raw source into rows.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV, typical keys: has_header (bool), comma (string),
	// trim_space (bool), header_map (object).
	Options Options `json:"options"`
}

// Transform defines a single transformation step. The sequence of steps forms
// the cleaning chain executed by the pipeline.
type Transform struct {
	// Kind selects the transform implementation ("normalize", "require",
	// "coerce", "validate", "dedup", "derive").
	Kind string `json:"kind"`

	Options Options `json:"options"`
}

// Storage selects the sink used to persist cleaned records.
type Storage struct {
	// Kind selects the storage backend: "postgres", "sqlite", "mysql", "mssql".
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures the relational sink.
type DBConfig struct {
	// DSN is the backend connection string.
	DSN string `json:"dsn"`

	// Table is the destination table name (schema-qualified where the
	// backend supports it, e.g. "public.walmart_sales").
	Table string `json:"table"`

	// Columns enumerates the destination columns in insert order. When empty
	// the canonical sales columns are used.
	Columns []string `json:"columns"`

	// AutoCreateTable creates the destination table if absent before loading.
	AutoCreateTable bool `json:"auto_create_table"`
}

// Options fetches typed values from arbitrary JSON maps without a third-party
// configuration library. It performs only minimal coercion and returns the
// provided default when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so float64 is accepted and truncated.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def. Useful for
// single-character parser settings such as the CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of
// strings. Returns nil when the key is missing or not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// Any returns the raw value for key, which may be a nested map[string]any to
// be unmarshaled into a typed struct by the caller (e.g. an inline contract).
func (o Options) Any(key string) any {
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

// UnmarshalJSON decodes a missing or null "options" object to a non-nil,
// empty Options map so call sites need no nil checks.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
