package datasource

import (
	"context"
	"io"
)

// Source yields the raw bytes of a dataset.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
