package reports

import (
	"context"
	"fmt"
	"io"
	"log"
	"text/tabwriter"
	"time"

	"salesetl/internal/storage"
)

// Result pairs a catalog report with its materialized rows.
type Result struct {
	Report Report
	Set    *storage.ResultSet
}

// Run renders and executes the named reports against repo in dialect d,
// returning results in catalog order. Each report logs its duration.
func Run(ctx context.Context, repo storage.Repository, d Dialect, table string, names []string) ([]Result, error) {
	reps, err := Find(names)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(reps))
	for _, r := range reps {
		start := time.Now()
		rs, err := repo.Query(ctx, r.Render(d, table))
		if err != nil {
			return results, fmt.Errorf("report %s: %w", r.Name, err)
		}
		log.Printf("report=%s rows=%d elapsed=%s", r.Name, len(rs.Rows), time.Since(start).Truncate(time.Millisecond))
		results = append(results, Result{Report: r, Set: rs})
	}
	return results, nil
}

// WriteText renders results as aligned text tables, one per report.
func WriteText(w io.Writer, results []Result) error {
	for _, res := range results {
		if _, err := fmt.Fprintf(w, "\n== %s: %s\n", res.Report.Name, res.Report.Title); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		for i, col := range res.Set.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, col)
		}
		fmt.Fprintln(tw)
		for _, row := range res.Set.Rows {
			for i, v := range row {
				if i > 0 {
					fmt.Fprint(tw, "\t")
				}
				if v == nil {
					fmt.Fprint(tw, "NULL")
				} else {
					fmt.Fprintf(tw, "%v", v)
				}
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
