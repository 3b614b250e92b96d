package service

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"medtrack/internal/model"
	"medtrack/internal/repository"
)

// BloodTestService handles blood test records.
type BloodTestService interface {
	Create(ctx context.Context, userID uint, input RecordInput) (*model.BloodTest, error)
	ListByUser(ctx context.Context, userID uint) ([]model.BloodTest, error)
}

type bloodTestService struct {
	repo repository.BloodTestRepository
}

// NewBloodTestService creates a new blood test service.
func NewBloodTestService(repo repository.BloodTestRepository) BloodTestService {
	return &bloodTestService{repo: repo}
}

func (s *bloodTestService) Create(ctx context.Context, userID uint, input RecordInput) (*model.BloodTest, error) {
	input, date, err := input.normalize()
	if err != nil {
		return nil, err
	}

	test := &model.BloodTest{
		UserID:     userID,
		Type:       input.Type,
		Value:      input.Value,
		Date:       datatypes.Date(date),
		IsAbnormal: input.IsAbnormal,
	}
	if err := s.repo.Create(ctx, test); err != nil {
		return nil, fmt.Errorf("create blood test: %w", err)
	}
	return test, nil
}

func (s *bloodTestService) ListByUser(ctx context.Context, userID uint) ([]model.BloodTest, error) {
	tests, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list blood tests: %w", err)
	}
	return tests, nil
}
