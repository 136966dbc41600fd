package parser

import (
	"io"

	"salesetl/pkg/records"
)

// Parser turns raw bytes into records. The int result is the number of rows
// skipped due to parse errors (soft failures).
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
