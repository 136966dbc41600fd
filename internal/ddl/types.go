// Package ddl holds the backend-agnostic table definition model plus shared
// helpers for inferring a definition from a pipeline and rendering CREATE
// TABLE statements. Backend packages supply the two dialect-specific pieces:
// a logical-to-SQL type mapping and an identifier quoting style.
package ddl

// ColumnDef describes a single destination column.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	Default    string // raw SQL, rendered verbatim
	PrimaryKey bool
}

// TableDef describes a destination table. FQN may be schema-qualified
// ("public.walmart_sales"); each dot-separated segment is quoted separately.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
