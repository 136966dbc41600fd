// Package config provides configuration models and helpers for ETL pipelines.
//
// This file adds a lightweight linter for Pipeline values. It performs static
// checks over a decoded Pipeline and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced to users but
	// does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single lint finding for a Pipeline. Path is a dotted path
// into the config (e.g. "storage.kind", "transform[1].options").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

var knownTransforms = map[string]bool{
	"normalize": true,
	"require":   true,
	"coerce":    true,
	"validate":  true,
	"dedup":     true,
	"derive":    true,
}

var knownStorageKinds = map[string]bool{
	"postgres": true,
	"sqlite":   true,
	"mysql":    true,
	"mssql":    true,
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it labels logs and metrics",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateRuntime(p.Runtime)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue
	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{SeverityError, "source.file.path", "path must not be empty for kind=file"})
		}
	case "http":
		if strings.TrimSpace(s.HTTP.URL) == "" {
			issues = append(issues, Issue{SeverityError, "source.http.url", "url must not be empty for kind=http"})
		}
	case "":
		issues = append(issues, Issue{SeverityError, "source.kind", "source.kind is required (file|http)"})
	default:
		issues = append(issues, Issue{SeverityError, "source.kind", fmt.Sprintf("unknown source kind %q", s.Kind)})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue
	switch p.Kind {
	case "csv":
		// ok
	case "":
		issues = append(issues, Issue{SeverityError, "parser.kind", "parser.kind is required"})
	default:
		issues = append(issues, Issue{SeverityError, "parser.kind", fmt.Sprintf("unknown parser kind %q", p.Kind)})
	}
	if p.Kind == "csv" && !p.Options.Bool("has_header", true) {
		issues = append(issues, Issue{SeverityWarning, "parser.options.has_header",
			"headerless CSV relies on positional col_N names; header_map will not apply"})
	}
	return issues
}

func validateTransforms(ts []Transform) []Issue {
	var issues []Issue
	for i, t := range ts {
		path := fmt.Sprintf("transform[%d]", i)
		if !knownTransforms[t.Kind] {
			issues = append(issues, Issue{SeverityError, path + ".kind", fmt.Sprintf("unknown transform kind %q", t.Kind)})
			continue
		}
		switch t.Kind {
		case "derive":
			for _, k := range []string{"out", "left", "right"} {
				if t.Options.String(k, "") == "" {
					issues = append(issues, Issue{SeverityError, path + ".options." + k,
						"derive needs out, left and right column names"})
				}
			}
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	if !knownStorageKinds[s.Kind] {
		issues = append(issues, Issue{SeverityError, "storage.kind",
			fmt.Sprintf("unknown storage kind %q (postgres|sqlite|mysql|mssql)", s.Kind)})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.dsn", "dsn must not be empty"})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{SeverityError, "storage.db.table", "table must not be empty"})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue
	if r.BatchSize < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.batch_size", "batch_size must be >= 0"})
	}
	if r.ChannelBuffer < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.channel_buffer", "channel_buffer must be >= 0"})
	}
	return issues
}
