package service

import (
	"context"
	"fmt"

	"medtrack/internal/model"
	"medtrack/internal/repository"
)

// MedicalFormService handles medical form entries.
type MedicalFormService interface {
	Create(ctx context.Context, userID uint, input RecordInput) (*model.MedicalForm, error)
	ListByUser(ctx context.Context, userID uint) ([]model.MedicalForm, error)
}

type medicalFormService struct {
	repo repository.MedicalFormRepository
}

// NewMedicalFormService creates a new medical form service.
func NewMedicalFormService(repo repository.MedicalFormRepository) MedicalFormService {
	return &medicalFormService{repo: repo}
}

// Create stores an entry owned by userID. Duplicate entries are allowed.
func (s *medicalFormService) Create(ctx context.Context, userID uint, input RecordInput) (*model.MedicalForm, error) {
	input, _, err := input.normalize()
	if err != nil {
		return nil, err
	}

	form := &model.MedicalForm{
		UserID:     userID,
		Type:       input.Type,
		Value:      input.Value,
		Date:       input.Date,
		IsAbnormal: input.IsAbnormal,
	}
	if err := s.repo.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("create medical form: %w", err)
	}
	return form, nil
}

// ListByUser returns all entries owned by userID.
func (s *medicalFormService) ListByUser(ctx context.Context, userID uint) ([]model.MedicalForm, error) {
	forms, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list medical forms: %w", err)
	}
	return forms, nil
}
