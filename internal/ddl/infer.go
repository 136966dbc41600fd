package ddl

import (
	"encoding/json"
	"fmt"

	"salesetl/internal/config"
	"salesetl/internal/schema"
)

// ContractFromPipeline returns the dataset contract governing a pipeline: an
// inline contract attached to a "validate" transform when present, otherwise
// the canonical sales contract.
func ContractFromPipeline(p config.Pipeline) schema.Contract {
	for _, t := range p.Transform {
		if t.Kind != "validate" {
			continue
		}
		raw := t.Options.Any("contract")
		if raw == nil {
			continue
		}
		b, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		var c schema.Contract
		if err := json.Unmarshal(b, &c); err == nil && len(c.Fields) > 0 {
			return c
		}
	}
	return schema.SalesContract()
}

// LoadColumnsFromPipeline resolves the destination column order: the explicit
// storage column list when configured, otherwise the contract columns plus
// the derived total column.
func LoadColumnsFromPipeline(p config.Pipeline) []string {
	if len(p.Storage.DB.Columns) > 0 {
		return p.Storage.DB.Columns
	}
	return schema.LoadColumns(ContractFromPipeline(p))
}

// FromPipeline derives a TableDef for a pipeline using a backend-supplied
// logical-to-SQL type mapping.
//
// Rules:
//   - Table name comes from p.Storage.DB.Table.
//   - Columns come from LoadColumnsFromPipeline, in order.
//   - Contract fields drive type and nullability (Required -> NOT NULL);
//     the derived total column is a non-nullable float; any other column
//     not named by the contract falls back to nullable text.
func FromPipeline(p config.Pipeline, mapType func(string) string) (TableDef, error) {
	table := p.Storage.DB.Table
	if table == "" {
		return TableDef{}, fmt.Errorf("ddl: missing storage.db.table")
	}

	contract := ContractFromPipeline(p)
	cols := LoadColumnsFromPipeline(p)

	defs := make([]ColumnDef, 0, len(cols))
	for _, name := range cols {
		if f, ok := contract.Field(name); ok {
			defs = append(defs, ColumnDef{
				Name:     name,
				SQLType:  mapType(f.Type),
				Nullable: !f.Required,
			})
			continue
		}
		if name == schema.DerivedColumn {
			defs = append(defs, ColumnDef{Name: name, SQLType: mapType("float"), Nullable: false})
			continue
		}
		defs = append(defs, ColumnDef{Name: name, SQLType: mapType("text"), Nullable: true})
	}

	return TableDef{FQN: table, Columns: defs}, nil
}
