// Package csv implements a streaming CSV parser tolerant of real-world retail
// exports: BOM-prefixed headers, ragged rows, stray quotes. It avoids
// whole-file buffering and soft-fails malformed rows so a single bad line
// never aborts the batch.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"salesetl/pkg/records"
)

// Options configures the CSV parser behavior. All fields are optional;
// sensible defaults are applied when a field is zero.
type Options struct {
	// HasHeader indicates whether the first row contains column headers.
	HasHeader bool

	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// ExpectedFields, when > 0, enforces a fixed field count per record for
	// headerless input. Rows with a different width are skipped and counted.
	ExpectedFields int

	// HeaderMap maps source header names to canonical keys (e.g. "Unit price"
	// to "unit_price"). Only applies when HasHeader is true.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// logSkipLimit caps per-row skip logging; further skips are only counted.
const logSkipLimit = 400

// Parse consumes CSV records from r and returns the parsed rows along with
// the number of rows skipped due to parse errors or field-count mismatches.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1 // width enforced after read

	var headers []string
	var out []records.Record
	var skipped int

	// line tracks the file line of the row about to be read, so skip logs
	// match line numbers in the source file.
	line := 1
	if p.opt.HasHeader {
		line++
		h, err := cr.Read()
		if err != nil {
			return nil, 0, fmt.Errorf("read csv header: %w", err)
		}
		headers = normalizeHeaders(h, p.opt)
	} else if p.opt.ExpectedFields > 0 {
		headers = make([]string, p.opt.ExpectedFields)
		for i := range headers {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
	}

	for ; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < logSkipLimit {
				log.Printf("csv: skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}

		if len(headers) > 0 && len(row) != len(headers) {
			if skipped < logSkipLimit {
				log.Printf("csv: skipping row %d: expected %d fields, got %d", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[keyFor(i, headers)] = emptyToNil(val)
		}
		out = append(out, rec)
	}

	return out, skipped, nil
}

// keyFor returns the column key for index idx, using headers when available,
// otherwise synthesizing a "col_N" name.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// emptyToNil converts an empty string to nil; other values pass through.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical header keys using HeaderMap (when
// provided) and simple normalization (lowercase, spaces to underscores). It
// also strips a UTF-8 BOM from the first cell if present.
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if opt.HeaderMap != nil {
			if m, ok := opt.HeaderMap[c]; ok {
				res[i] = m
				continue
			}
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}
