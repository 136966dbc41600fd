// This file contains the pipeline execution logic: source, parse, clean,
// batched load, reports. The CLI layer stays storage-agnostic; backends are
// registered via the blank import of storage/all in main.go.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"salesetl/internal/config"
	"salesetl/internal/datasource"
	"salesetl/internal/datasource/file"
	"salesetl/internal/datasource/httpds"
	"salesetl/internal/ddl"
	"salesetl/internal/metrics"
	csvparser "salesetl/internal/parser/csv"
	"salesetl/internal/reports"
	"salesetl/internal/schema"
	"salesetl/internal/storage"
	"salesetl/internal/transformer"
	"salesetl/internal/transformer/builtin"
	"salesetl/pkg/records"
)

// Function variables used to introduce test seams. In production these point
// to real implementations; tests override them to avoid real databases.
var (
	newRepositoryFn = storage.New
	openSourceFn    = openSource
)

// rejectSampleLimit bounds how many reject reasons a run keeps for the logs.
const rejectSampleLimit = 5

// runSummary aggregates per-stage row accounting for one pipeline run.
type runSummary struct {
	RunID          string
	Parsed         int
	ParseSkipped   int
	DroppedMissing int64
	DroppedInvalid int64
	Deduplicated   int64
	Inserted       int64
	Batches        int64

	// RejectSamples holds the first few reject reasons, stage-prefixed.
	RejectSamples []string
}

func (s *runSummary) sampleReject(r builtin.RejectedRow) {
	if len(s.RejectSamples) < rejectSampleLimit {
		s.RejectSamples = append(s.RejectSamples, r.Stage+": "+r.Reason)
	}
}

// openSource builds the configured data source.
func openSource(spec config.Pipeline) (datasource.Source, error) {
	switch spec.Source.Kind {
	case "file":
		return file.NewLocal(spec.Source.File.Path), nil
	case "http":
		cfg := httpds.Config{
			Timeout:    time.Duration(spec.Source.HTTP.TimeoutSeconds) * time.Second,
			MaxRetries: spec.Source.HTTP.MaxRetries,
		}
		return httpds.NewRemote(cfg, spec.Source.HTTP.URL), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", spec.Source.Kind)
	}
}

// buildChain assembles the cleaning chain from the pipeline's transform steps.
// Reject callbacks feed the run summary; omitted options fall back to the
// canonical sales contract.
func buildChain(spec config.Pipeline, sum *runSummary) (transformer.Chain, error) {
	contract := ddl.ContractFromPipeline(spec)

	var chain transformer.Chain
	for i, step := range spec.Transform {
		switch step.Kind {
		case "normalize":
			chain = append(chain, builtin.Normalize{})

		case "require":
			fields := step.Options.StringSlice("fields")
			if len(fields) == 0 {
				for _, f := range contract.Fields {
					if f.Required {
						fields = append(fields, f.Name)
					}
				}
			}
			chain = append(chain, builtin.Require{
				Fields: fields,
				Reject: func(r builtin.RejectedRow) { sum.DroppedMissing++; sum.sampleReject(r) },
			})

		case "coerce":
			types := stringMapOf(step.Options.Any("types"))
			if len(types) == 0 {
				types = map[string]string{}
				for _, f := range contract.Fields {
					if f.Type != "text" {
						types[f.Name] = f.Type
					}
				}
			}
			layouts := step.Options.StringSlice("layouts")
			if len(layouts) == 0 {
				layouts = schema.DateLayouts
			}
			chain = append(chain, builtin.Coerce{Types: types, Layouts: layouts})

		case "validate":
			chain = append(chain, builtin.Validate{
				Contract: contract,
				Reject:   func(r builtin.RejectedRow) { sum.DroppedInvalid++; sum.sampleReject(r) },
			})

		case "dedup":
			cols := step.Options.StringSlice("columns")
			if len(cols) == 0 {
				cols = contract.ColumnNames()
			}
			chain = append(chain, builtin.DeDup{
				Columns: cols,
				Reject:  func(builtin.RejectedRow) { sum.Deduplicated++ },
			})

		case "derive":
			out := step.Options.String("out", "")
			left := step.Options.String("left", "")
			right := step.Options.String("right", "")
			if out == "" || left == "" || right == "" {
				return nil, fmt.Errorf("transform[%d]: derive needs out, left and right", i)
			}
			chain = append(chain, builtin.Derive{Out: out, Left: left, Right: right})

		default:
			return nil, fmt.Errorf("transform[%d]: unknown kind %q", i, step.Kind)
		}
	}
	return chain, nil
}

func stringMapOf(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

// rowFromRecord projects a record onto the destination column order. Dates
// travel as ISO-8601 text, which every backend's DATE type and SQLite's date
// functions accept.
func rowFromRecord(rec records.Record, columns []string) []any {
	row := make([]any, len(columns))
	for i, c := range columns {
		v := rec[c]
		if t, ok := v.(time.Time); ok {
			v = t.Format("2006-01-02")
		}
		row[i] = v
	}
	return row
}

// run executes the full pipeline described by spec and returns the run
// summary.
func run(ctx context.Context, runID string, spec config.Pipeline) (runSummary, error) {
	sum := runSummary{RunID: runID}
	job := spec.Job

	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:    spec.Storage.Kind,
		DSN:     spec.Storage.DB.DSN,
		Table:   spec.Storage.DB.Table,
		Columns: spec.Storage.DB.Columns,
	})
	if err != nil {
		return sum, fmt.Errorf("open storage: %w", err)
	}
	defer repo.Close()

	if spec.Storage.DB.AutoCreateTable {
		start := time.Now()
		err := storage.EnsureTableFromPipeline(ctx, spec, repo)
		metrics.RecordStage(job, "ddl", err, time.Since(start))
		if err != nil {
			return sum, fmt.Errorf("apply DDL: %w", err)
		}
	}

	// Parse the whole source. Sales exports are bounded files; cleaning
	// steps like dedup need the full batch anyway.
	start := time.Now()
	recs, skipped, err := parseSource(ctx, spec)
	metrics.RecordStage(job, "parse", err, time.Since(start))
	if err != nil {
		return sum, err
	}
	sum.Parsed = len(recs)
	sum.ParseSkipped = skipped
	metrics.RecordRows(job, "parsed", int64(len(recs)))
	metrics.RecordRows(job, "parse_skipped", int64(skipped))
	log.Printf("parse: run=%s rows=%s skipped=%d", runID, humanize.Comma(int64(len(recs))), skipped)

	chain, err := buildChain(spec, &sum)
	if err != nil {
		return sum, err
	}
	start = time.Now()
	cleaned := chain.Apply(recs)
	metrics.RecordStage(job, "clean", nil, time.Since(start))
	metrics.RecordRows(job, "dropped_missing", sum.DroppedMissing)
	metrics.RecordRows(job, "dropped_invalid", sum.DroppedInvalid)
	metrics.RecordRows(job, "deduplicated", sum.Deduplicated)
	log.Printf("clean: run=%s kept=%s dropped_missing=%d dropped_invalid=%d deduplicated=%d",
		runID, humanize.Comma(int64(len(cleaned))), sum.DroppedMissing, sum.DroppedInvalid, sum.Deduplicated)
	for _, reason := range sum.RejectSamples {
		log.Printf("clean: run=%s reject %s", runID, reason)
	}

	columns := ddl.LoadColumnsFromPipeline(spec)
	batchSize := spec.Runtime.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	buffer := spec.Runtime.ChannelBuffer
	if buffer <= 0 {
		buffer = batchSize
	}

	copyFn := func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
		n, err := repo.CopyFrom(ctx, cols, rows)
		if err == nil {
			sum.Batches++
			metrics.RecordBatches(job, 1)
		}
		return n, err
	}

	rowCh := make(chan []any, buffer)
	start = time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rowCh)
		for _, rec := range cleaned {
			select {
			case rowCh <- rowFromRecord(rec, columns):
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		n, err := storage.LoadBatches(gctx, columns, rowCh, batchSize, copyFn)
		sum.Inserted = n
		return err
	})
	err = g.Wait()
	metrics.RecordStage(job, "load", err, time.Since(start))
	if err != nil {
		return sum, fmt.Errorf("load: %w", err)
	}
	metrics.RecordRows(job, "inserted", sum.Inserted)
	log.Printf("load: run=%s inserted=%s batches=%d table=%s",
		runID, humanize.Comma(sum.Inserted), sum.Batches, spec.Storage.DB.Table)

	if len(spec.Reports) > 0 {
		if err := runReports(ctx, repo, spec); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func parseSource(ctx context.Context, spec config.Pipeline) ([]records.Record, int, error) {
	if spec.Parser.Kind != "csv" {
		return nil, 0, fmt.Errorf("unknown parser kind %q", spec.Parser.Kind)
	}

	src, err := openSourceFn(spec)
	if err != nil {
		return nil, 0, fmt.Errorf("source: %w", err)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()

	p := csvparser.NewParser(csvparser.Options{
		HasHeader:      spec.Parser.Options.Bool("has_header", true),
		Comma:          spec.Parser.Options.Rune("comma", ','),
		TrimSpace:      spec.Parser.Options.Bool("trim_space", true),
		ExpectedFields: spec.Parser.Options.Int("expected_fields", 0),
		HeaderMap:      spec.Parser.Options.StringMap("header_map"),
	})
	return p.Parse(rc)
}

func runReports(ctx context.Context, repo storage.Repository, spec config.Pipeline) error {
	d, ok := reports.DialectFor(spec.Storage.Kind)
	if !ok {
		log.Printf("reports: storage kind %q is load-only, skipping %d report(s)",
			spec.Storage.Kind, len(spec.Reports))
		return nil
	}
	start := time.Now()
	results, err := reports.Run(ctx, repo, d, spec.Storage.DB.Table, spec.Reports)
	metrics.RecordStage(spec.Job, "reports", err, time.Since(start))
	if err != nil {
		return err
	}
	return reports.WriteText(os.Stdout, results)
}
