package model

import "github.com/shopspring/decimal"

// CBCParameter is a reference range for one complete-blood-count test type.
// Min and Max are null when the uploaded value could not be parsed.
type CBCParameter struct {
	Name string              `json:"name"`
	Unit string              `json:"unit"`
	Min  decimal.NullDecimal `json:"min"`
	Max  decimal.NullDecimal `json:"max"`
}
