// Package probe samples the head of a delimited sales export, normalizes its
// headers into SQL-safe column names and infers a logical type per column.
// Its output seeds new pipeline configs so onboarding a fresh export does not
// start from a blank JSON file.
package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"salesetl/internal/datasource"
	"salesetl/internal/schema"
)

// Options control sampling behavior.
type Options struct {
	// MaxBytes to sample from the start of the input. Zero means 256 KiB.
	MaxBytes int

	// Delimiter is the field separator. Zero means ','.
	Delimiter rune
}

const defaultMaxBytes = 256 << 10

// Column is the probe result for one input column.
type Column struct {
	// Header is the original header text.
	Header string

	// Name is the normalized SQL-safe column name.
	Name string

	// Type is the inferred logical type: "int", "float", "money", "bool",
	// "date" or "text".
	Type string
}

// Sample reads up to MaxBytes from src and infers one Column per header.
func Sample(ctx context.Context, src datasource.Source, opt Options) ([]Column, error) {
	maxBytes := opt.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("probe: open source: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, int64(maxBytes)))
	if err != nil {
		return nil, fmt.Errorf("probe: read sample: %w", err)
	}
	// Cut at the last newline so a truncated trailing record is dropped.
	if i := bytes.LastIndexByte(data, '\n'); i > 0 {
		data = data[:i+1]
	}

	headers, rows, err := readSample(data, opt.Delimiter)
	if err != nil {
		return nil, err
	}

	cols := make([]Column, len(headers))
	for i, h := range headers {
		vals := make([]string, 0, len(rows))
		for _, row := range rows {
			if i < len(row) {
				vals = append(vals, row[i])
			}
		}
		cols[i] = Column{
			Header: h,
			Name:   NormalizeField(h),
			Type:   inferType(vals),
		}
	}
	return cols, nil
}

// readSample parses the byte sample, skipping ragged rows.
func readSample(data []byte, delim rune) ([]string, [][]string, error) {
	if delim == 0 {
		delim = ','
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("probe: read header: %w", err)
	}
	headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(row) != len(headers) {
			continue
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// inferType guesses the narrowest logical type all non-empty values satisfy.
func inferType(values []string) string {
	var nonEmpty []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			nonEmpty = append(nonEmpty, v)
		}
	}
	if len(nonEmpty) == 0 {
		return "text"
	}

	switch {
	case allMatch(nonEmpty, isBool):
		return "bool"
	case allMatch(nonEmpty, isInt):
		return "int"
	case allMatch(nonEmpty, isMoney):
		return "money"
	case allMatch(nonEmpty, isFloat):
		return "float"
	case allMatch(nonEmpty, isDate):
		return "date"
	default:
		return "text"
	}
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isMoney accepts floats carrying a currency sigil or thousands separators,
// e.g. "$74.69" or "1,234.50".
func isMoney(s string) bool {
	if !strings.ContainsAny(s, "$,") {
		return false
	}
	clean := strings.NewReplacer("$", "", ",", "").Replace(s)
	_, err := strconv.ParseFloat(clean, 64)
	return err == nil
}

func isFloat(s string) bool {
	if isInt(s) {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isDate(s string) bool {
	for _, layout := range schema.DateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// NormalizeField converts arbitrary header text into a lowercase ASCII
// identifier suitable for SQL schemas: accents are stripped (NFD, remove
// nonspacing marks, NFC), separators become underscores, and anything else
// is dropped.
func NormalizeField(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return name
}
