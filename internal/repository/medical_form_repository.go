package repository

import (
	"context"

	"gorm.io/gorm"

	"medtrack/internal/model"
)

// MedicalFormRepository defines medical form persistence operations.
type MedicalFormRepository interface {
	Create(ctx context.Context, form *model.MedicalForm) error
	ListByUser(ctx context.Context, userID uint) ([]model.MedicalForm, error)
}

type medicalFormRepository struct {
	db *gorm.DB
}

// NewMedicalFormRepository creates a new medical form repository.
func NewMedicalFormRepository(db *gorm.DB) MedicalFormRepository {
	return &medicalFormRepository{db: db}
}

// Create inserts a new entry.
func (r *medicalFormRepository) Create(ctx context.Context, form *model.MedicalForm) error {
	return r.db.WithContext(ctx).Create(form).Error
}

// ListByUser returns every entry owned by the user, newest first.
func (r *medicalFormRepository) ListByUser(ctx context.Context, userID uint) ([]model.MedicalForm, error) {
	forms := []model.MedicalForm{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").Order("id DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}
