package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "medtrack/internal/errors"
	"medtrack/internal/model"
)

const maxRecordTypeLen = 100

// maxRecordValue bounds the magnitude a decimal(12,4) column can hold.
var maxRecordValue = decimal.New(1, 8)

// RecordInput is the payload for a new medical form entry or blood test.
type RecordInput struct {
	Type       string
	Value      decimal.Decimal
	Date       string
	IsAbnormal bool
}

// normalize trims the input and parses its date.
func (in RecordInput) normalize() (RecordInput, time.Time, error) {
	in.Type = strings.TrimSpace(in.Type)
	in.Date = strings.TrimSpace(in.Date)
	if in.Type == "" || len(in.Type) > maxRecordTypeLen {
		return in, time.Time{}, fmt.Errorf("%w: type must be 1-%d characters", apperrors.ErrInvalidInput, maxRecordTypeLen)
	}
	in.Value = in.Value.Round(4)
	if in.Value.Abs().GreaterThanOrEqual(maxRecordValue) {
		return in, time.Time{}, fmt.Errorf("%w: value must be less than %s in magnitude", apperrors.ErrInvalidInput, maxRecordValue)
	}
	date, err := time.Parse(model.DateLayout, in.Date)
	if err != nil {
		return in, time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrInvalidInput)
	}
	return in, date, nil
}
