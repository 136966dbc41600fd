package schema

// Field describes one logical column of a dataset contract.
type Field struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"` // "int" | "float" | "money" | "text" | "bool" | "date"
	Required bool     `json:"required,omitempty"`
	Positive bool     `json:"positive,omitempty"` // numeric value must be > 0
	Enum     []string `json:"enum,omitempty"`
	Layouts  []string `json:"layouts,omitempty"` // candidate date layouts, tried in order
}

// Contract is the logical schema a cleaned dataset must satisfy. HeaderMap
// translates raw source headers to canonical field names before the contract
// is applied.
type Contract struct {
	Name      string            `json:"name"`
	Fields    []Field           `json:"fields"`
	HeaderMap map[string]string `json:"header_map,omitempty"`
}

// Field returns the contract field with the given canonical name, or a zero
// Field when the name is unknown.
func (c Contract) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ColumnNames returns the canonical column names in contract order.
func (c Contract) ColumnNames() []string {
	out := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		out[i] = f.Name
	}
	return out
}
