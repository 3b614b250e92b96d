package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of record dates.
const DateLayout = "2006-01-02"

func init() {
	// Record values and CBC bounds go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// MedicalForm is a single test observation entered through the medical form.
// Nothing prevents several entries for the same user, type and day.
type MedicalForm struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"userId" gorm:"not null;index"`
	Type       string          `json:"type" gorm:"size:100;not null"`
	Value      decimal.Decimal `json:"value" gorm:"type:decimal(12,4);not null"`
	Date       string          `json:"date" gorm:"size:10;not null;index"`
	IsAbnormal bool            `json:"isAbnormal" gorm:"default:false"`
	CreatedAt  time.Time       `json:"createdAt"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}
