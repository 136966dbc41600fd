// Package schema defines the logical dataset contract model plus the canonical
// contract for the retail sales dataset this pipeline was built around.
package schema

import "time"

// DateLayouts are the calendar-date layouts accepted for the sales dataset,
// tried in order. The source file uses day-first slashes with two- or
// four-digit years; ISO is accepted so cleaned output re-validates unchanged.
var DateLayouts = []string{"2006-01-02", "02/01/06", "02/01/2006"}

// SalesRecord is one retail transaction after cleaning and derivation.
type SalesRecord struct {
	Branch        string    `db:"branch"`
	City          string    `db:"city"`
	Category      string    `db:"category"`
	UnitPrice     float64   `db:"unit_price"`
	Quantity      int64     `db:"quantity"`
	Date          time.Time `db:"date"`
	Time          string    `db:"time"` // "HH:MM:SS" wall-clock, kept as text
	PaymentMethod string    `db:"payment_method"`
	Rating        *float64  `db:"rating"`
	ProfitMargin  *float64  `db:"profit_margin"`
	TotalAmount   float64   `db:"total_amount"`
}

// SalesContract is the canonical contract for the retail sales dataset.
//
// Missing-value policy per column: required fields drop the whole row when
// absent or uncoercible; rating and profit_margin are non-essential and load
// as NULL when missing.
func SalesContract() Contract {
	return Contract{
		Name: "walmart_sales",
		Fields: []Field{
			{Name: "branch", Type: "text", Required: true},
			{Name: "city", Type: "text", Required: true},
			{Name: "category", Type: "text", Required: true},
			{Name: "unit_price", Type: "money", Required: true, Positive: true},
			{Name: "quantity", Type: "int", Required: true, Positive: true},
			{Name: "date", Type: "date", Required: true, Layouts: DateLayouts},
			{Name: "time", Type: "text", Required: true},
			{Name: "payment_method", Type: "text", Required: true},
			{Name: "rating", Type: "float"},
			{Name: "profit_margin", Type: "float"},
		},
		HeaderMap: map[string]string{
			"Branch":         "branch",
			"City":           "city",
			"Category":       "category",
			"Unit price":     "unit_price",
			"Quantity":       "quantity",
			"Date":           "date",
			"Time":           "time",
			"Payment method": "payment_method",
			"Rating":         "rating",
			"Profit margin":  "profit_margin",
		},
	}
}

// DerivedColumn is the name of the derived revenue column appended by the
// pipeline: unit_price * quantity.
const DerivedColumn = "total_amount"

// LoadColumns returns the destination column order for the sales table:
// the contract columns followed by the derived total_amount column.
func LoadColumns(c Contract) []string {
	return append(c.ColumnNames(), DerivedColumn)
}
