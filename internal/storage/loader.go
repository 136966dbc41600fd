// This file implements a generic, batched loader that drains rows from a
// channel and invokes a provided bulk-insert function (CopyFn) per batch.
//
// Backends implement CopyFn with their most efficient primitive (Postgres
// COPY, multi-row INSERT elsewhere). On every successful flush a concise
// progress line is logged with running totals and instantaneous rows/sec.
package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to the columns order) and return the number of
// rows inserted. They should cancel promptly when ctx is done.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains rows from in, groups them into batches of batchSize, and
// calls copyFn for each non-empty batch. It returns the total number of rows
// reported by copyFn and the first error encountered.
//
// Cancellation: returns (total, ctx.Err()) when canceled. Progress is logged
// on each successful flush.
func LoadBatches(
	ctx context.Context,
	columns []string,
	in <-chan []any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total       int64
		batches     int64
		batch       = make([][]any, 0, batchSize)
		start       = time.Now()
		lastFlushTS = start
		lastTotal   int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, columns, batch)
		total += n
		batch = batch[:0]

		if err != nil {
			log.Printf("loader: flush failed after=%d total=%d err=%v", n, total, err)
			return err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(total-lastTotal) / sinceLast.Seconds()
		}
		log.Printf(
			"batch #%d: rps=%.0f inserted=%d total_inserted=%s elapsed=%s",
			batches, rps, n, humanize.Comma(total),
			now.Sub(start).Truncate(time.Millisecond),
		)
		lastFlushTS = now
		lastTotal = total

		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case row, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				return total, nil
			}
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
