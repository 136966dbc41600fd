package probe

import (
	"encoding/json"
	"fmt"
	"strings"

	"salesetl/internal/config"
)

// SuggestPipeline builds a starter pipeline config from probed columns. The
// header map, coerce types and storage skeleton are filled in; the operator
// adjusts required fields and the DSN before running it.
func SuggestPipeline(name string, cols []Column) config.Pipeline {
	job := NormalizeField(name)
	if job == "col" {
		job = "sales"
	}

	headerMap := map[string]any{}
	coerceTypes := map[string]any{}
	columns := make([]string, 0, len(cols))
	for _, c := range cols {
		if c.Header != c.Name {
			headerMap[c.Header] = c.Name
		}
		if c.Type != "text" {
			coerceTypes[c.Name] = c.Type
		}
		columns = append(columns, c.Name)
	}

	return config.Pipeline{
		Job: job,
		Source: config.Source{
			Kind: "file",
			File: config.SourceFile{Path: job + ".csv"},
		},
		Parser: config.Parser{
			Kind: "csv",
			Options: config.Options{
				"has_header": true,
				"trim_space": true,
				"header_map": headerMap,
			},
		},
		Transform: []config.Transform{
			{Kind: "normalize"},
			{Kind: "coerce", Options: config.Options{"types": coerceTypes}},
			{Kind: "dedup"},
		},
		Storage: config.Storage{
			Kind: "sqlite",
			DB: config.DBConfig{
				DSN:             job + ".db",
				Table:           job,
				Columns:         columns,
				AutoCreateTable: true,
			},
		},
		Runtime: config.RuntimeConfig{BatchSize: 1000, ChannelBuffer: 1000},
	}
}

// RenderJSON pretty-prints a suggested pipeline.
func RenderJSON(p config.Pipeline) ([]byte, error) {
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("probe: marshal pipeline: %w", err)
	}
	return append(out, '\n'), nil
}

// RenderText returns one "header,name,type" line per column.
func RenderText(cols []Column) []byte {
	var sb strings.Builder
	for _, c := range cols {
		fmt.Fprintf(&sb, "%s,%s,%s\n", c.Header, c.Name, c.Type)
	}
	return []byte(sb.String())
}
