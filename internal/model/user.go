package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an account holder and the owner of all test records.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Profile
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	MedicalForms []MedicalForm `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	BloodTests   []BloodTest   `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// Profile holds the optional medical profile of a user. Embedded into User's table.
type Profile struct {
	FirstName         *string             `json:"firstName" gorm:"size:100"`
	LastName          *string             `json:"lastName" gorm:"size:100"`
	DateOfBirth       *string             `json:"dateOfBirth" gorm:"size:10"`
	Gender            *string             `json:"gender" gorm:"size:20"`
	BloodType         *string             `json:"bloodType" gorm:"size:3"`
	HeightCm          decimal.NullDecimal `json:"heightCm" gorm:"type:decimal(5,1)"`
	WeightKg          decimal.NullDecimal `json:"weightKg" gorm:"type:decimal(5,1)"`
	Allergies         *string             `json:"allergies" gorm:"type:text"`
	ChronicConditions *string             `json:"chronicConditions" gorm:"type:text"`
	Medications       *string             `json:"medications" gorm:"type:text"`
	PhoneNumber       *string             `json:"phoneNumber" gorm:"size:30"`
}
