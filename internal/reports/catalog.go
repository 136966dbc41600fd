// Package reports holds the fixed catalog of analytical queries run against a
// loaded sales table, rendered per SQL dialect, plus a small runner that
// executes them through a storage.Repository.
//
// Only the backends with a usable analytical dialect here (postgres, sqlite)
// can run reports; mysql and mssql remain load-only sinks.
package reports

import (
	"fmt"
	"strings"

	"salesetl/internal/ddl"
)

// Dialect selects the SQL flavor reports are rendered in.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DialectFor maps a storage kind to a report dialect. ok is false for
// load-only backends.
func DialectFor(storageKind string) (Dialect, bool) {
	switch storageKind {
	case "postgres":
		return DialectPostgres, true
	case "sqlite":
		return DialectSQLite, true
	default:
		return "", false
	}
}

// Report is one catalog entry. Render produces the dialect-specific SQL
// against the (schema-qualified) table name.
type Report struct {
	Name   string
	Title  string
	render func(d Dialect, table string) string
}

// Render returns the SQL for the report against table in dialect d.
func (r Report) Render(d Dialect, table string) string {
	return r.render(d, quoteTable(table))
}

func quoteTable(table string) string {
	return ddl.QuoteFQN(table, ddl.QuoteDouble)
}

// yearExpr extracts the calendar year of the "date" column as an integer.
func yearExpr(d Dialect, col string) string {
	if d == DialectSQLite {
		return fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", col)
	}
	return fmt.Sprintf("EXTRACT(YEAR FROM %s)", col)
}

// dayNameExpr yields the weekday name of the "date" column. SQLite has no
// day-name function, so the weekday number is mapped through a CASE.
func dayNameExpr(d Dialect, col string) string {
	if d == DialectSQLite {
		return fmt.Sprintf(`CASE CAST(strftime('%%w', %s) AS INTEGER)
  WHEN 0 THEN 'Sunday' WHEN 1 THEN 'Monday' WHEN 2 THEN 'Tuesday'
  WHEN 3 THEN 'Wednesday' WHEN 4 THEN 'Thursday' WHEN 5 THEN 'Friday'
  ELSE 'Saturday' END`, col)
	}
	return fmt.Sprintf("TRIM(TO_CHAR(%s, 'Day'))", col)
}

// round2 rounds expr to two decimals. Postgres only has the two-argument
// ROUND for NUMERIC, so the expression is cast first.
func round2(d Dialect, expr string) string {
	if d == DialectPostgres {
		return fmt.Sprintf("ROUND(CAST(%s AS NUMERIC), 2)", expr)
	}
	return fmt.Sprintf("ROUND(%s, 2)", expr)
}

// shiftExpr buckets the "time" column into Morning/Afternoon/Evening. Times
// are stored as zero-padded HH:MM:SS text, so lexical comparison is ordered.
func shiftExpr(col string) string {
	return fmt.Sprintf(`CASE
  WHEN %[1]s < '12:00:00' THEN 'Morning'
  WHEN %[1]s < '17:00:00' THEN 'Afternoon'
  ELSE 'Evening' END`, col)
}

// catalog is the fixed set of analytical queries, in presentation order.
var catalog = []Report{
	{
		Name:  "revenue_by_branch",
		Title: "Total revenue per branch",
		render: func(d Dialect, t string) string {
			return fmt.Sprintf(`SELECT branch, city, %s AS revenue
FROM %s
GROUP BY branch, city
ORDER BY revenue DESC`, round2(d, "SUM(total_amount)"), t)
		},
	},
	{
		Name:  "category_performance",
		Title: "Revenue and average rating per category",
		render: func(d Dialect, t string) string {
			return fmt.Sprintf(`SELECT category,
       %s AS revenue,
       %s AS avg_rating
FROM %s
GROUP BY category
ORDER BY revenue DESC`, round2(d, "SUM(total_amount)"), round2(d, "AVG(rating)"), t)
		},
	},
	{
		Name:  "top_category_per_branch",
		Title: "Highest-rated category in each branch",
		render: func(d Dialect, t string) string {
			return fmt.Sprintf(`WITH ranked AS (
  SELECT branch, category, AVG(rating) AS avg_rating,
         RANK() OVER (PARTITION BY branch ORDER BY AVG(rating) DESC) AS rnk
  FROM %s
  GROUP BY branch, category
)
SELECT branch, category, %s AS avg_rating
FROM ranked
WHERE rnk = 1
ORDER BY branch`, t, round2(d, "avg_rating"))
		},
	},
	{
		Name:  "payment_method_mix",
		Title: "Transactions and quantity sold per payment method",
		render: func(d Dialect, t string) string {
			return fmt.Sprintf(`SELECT payment_method,
       COUNT(*) AS transactions,
       SUM(quantity) AS qty_sold
FROM %s
GROUP BY payment_method
ORDER BY transactions DESC`, t)
		},
	},
	{
		Name:  "busiest_day_per_branch",
		Title: "Busiest weekday for each branch",
		render: func(d Dialect, t string) string {
			return fmt.Sprintf(`WITH daily AS (
  SELECT branch, %s AS day_name, COUNT(*) AS transactions,
         RANK() OVER (PARTITION BY branch ORDER BY COUNT(*) DESC) AS rnk
  FROM %s
  GROUP BY branch, day_name
)
SELECT branch, day_name, transactions
FROM daily
WHERE rnk = 1
ORDER BY branch`, dayNameExpr(d, `"date"`), t)
		},
	},
	{
		Name:  "sales_by_shift",
		Title: "Transactions per branch and shift",
		render: func(d Dialect, t string) string {
			return fmt.Sprintf(`SELECT branch, %s AS shift, COUNT(*) AS transactions
FROM %s
GROUP BY branch, shift
ORDER BY branch, transactions DESC`, shiftExpr(`"time"`), t)
		},
	},
	{
		Name:  "yoy_revenue_decline",
		Title: "Branches with revenue decline versus the previous year",
		render: func(d Dialect, t string) string {
			return fmt.Sprintf(`WITH yearly AS (
  SELECT branch, %s AS yr, SUM(total_amount) AS revenue
  FROM %s
  GROUP BY branch, yr
)
SELECT c.branch,
       p.yr AS prev_year, c.yr AS cur_year,
       %s AS prev_revenue,
       %s AS cur_revenue,
       %s AS decline_pct
FROM yearly c
JOIN yearly p ON p.branch = c.branch AND c.yr = p.yr + 1
WHERE c.revenue < p.revenue
ORDER BY decline_pct DESC`, yearExpr(d, `"date"`), t,
				round2(d, "p.revenue"), round2(d, "c.revenue"),
				round2(d, "(p.revenue - c.revenue) / p.revenue * 100"))
		},
	},
}

// Catalog returns the full report catalog in presentation order.
func Catalog() []Report {
	out := make([]Report, len(catalog))
	copy(out, catalog)
	return out
}

// Find resolves the requested names against the catalog, preserving catalog
// order. The single entry "*" selects everything.
func Find(names []string) ([]Report, error) {
	if len(names) == 1 && names[0] == "*" {
		return Catalog(), nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.TrimSpace(n)] = true
	}
	var out []Report
	for _, r := range catalog {
		if want[r.Name] {
			out = append(out, r)
			delete(want, r.Name)
		}
	}
	for n := range want {
		return nil, fmt.Errorf("reports: unknown report %q", n)
	}
	return out, nil
}
