package ddl

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement for the
// given definition using the provided identifier quoting function. Backends
// whose dialect lacks IF NOT EXISTS (MSSQL) wrap the result themselves.
//
//	CREATE TABLE IF NOT EXISTS "table" (
//	  "col1" TYPE [NOT NULL] [DEFAULT expr],
//	  "col2" TYPE,
//	  PRIMARY KEY ("pk1", "pk2")
//	);
func BuildCreateTableSQL(t TableDef, quote func(string) string) (string, error) {
	body, fqn, err := buildCreateBody(t, quote)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", fqn, body), nil
}

// BuildCreateTableSQLNoGuard renders a plain CREATE TABLE statement without
// the IF NOT EXISTS guard.
func BuildCreateTableSQLNoGuard(t TableDef, quote func(string) string) (string, error) {
	body, fqn, err := buildCreateBody(t, quote)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", fqn, body), nil
}

func buildCreateBody(t TableDef, quote func(string) string) (body, fqn string, err error) {
	name := strings.TrimSpace(t.FQN)
	if name == "" {
		return "", "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		cn := strings.TrimSpace(c.Name)
		if cn == "" {
			return "", "", fmt.Errorf("ddl: column with empty name in table %s", name)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", "", fmt.Errorf("ddl: column %s missing SQLType", cn)
		}

		var sb strings.Builder
		sb.WriteString(quote(cn))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quote(cn))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return strings.Join(cols, ",\n  "), QuoteFQN(name, quote), nil
}

// QuoteFQN quotes each non-empty dot-separated segment of a possibly
// schema-qualified table name.
func QuoteFQN(fqn string, quote func(string) string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}

// QuoteDouble is the ANSI double-quote identifier style (Postgres, SQLite).
func QuoteDouble(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteBacktick is the MySQL identifier style.
func QuoteBacktick(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// QuoteBracket is the SQL Server identifier style.
func QuoteBracket(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
