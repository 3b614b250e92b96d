package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BloodTest is a blood panel result. Same shape as MedicalForm, but the date is a SQL DATE.
type BloodTest struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"userId" gorm:"not null;index"`
	Type       string          `json:"type" gorm:"size:100;not null"`
	Value      decimal.Decimal `json:"value" gorm:"type:decimal(12,4);not null"`
	Date       datatypes.Date  `json:"date" gorm:"not null;index"`
	IsAbnormal bool            `json:"isAbnormal" gorm:"default:false"`
	CreatedAt  time.Time       `json:"createdAt"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// MarshalJSON renders Date as YYYY-MM-DD like MedicalForm.
func (b BloodTest) MarshalJSON() ([]byte, error) {
	type alias BloodTest
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{
		alias: alias(b),
		Date:  time.Time(b.Date).Format(DateLayout),
	})
}
