package handler

import (
	"github.com/shopspring/decimal"

	"medtrack/internal/service"
)

// RecordRequest is the body for creating a medical form entry or a blood test.
type RecordRequest struct {
	Type       string           `json:"type" validate:"required,max=100"`
	Value      *decimal.Decimal `json:"value" validate:"required" swaggertype:"number"`
	Date       string           `json:"date" validate:"required,datetime=2006-01-02"`
	IsAbnormal bool             `json:"isAbnormal"`
}

func (r RecordRequest) toInput() service.RecordInput {
	return service.RecordInput{
		Type:       r.Type,
		Value:      *r.Value,
		Date:       r.Date,
		IsAbnormal: r.IsAbnormal,
	}
}
