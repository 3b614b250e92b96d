package repository

import (
	"context"

	"gorm.io/gorm"

	"medtrack/internal/model"
)

// BloodTestRepository defines blood test persistence operations.
type BloodTestRepository interface {
	Create(ctx context.Context, test *model.BloodTest) error
	ListByUser(ctx context.Context, userID uint) ([]model.BloodTest, error)
}

type bloodTestRepository struct {
	db *gorm.DB
}

// NewBloodTestRepository creates a new blood test repository.
func NewBloodTestRepository(db *gorm.DB) BloodTestRepository {
	return &bloodTestRepository{db: db}
}

func (r *bloodTestRepository) Create(ctx context.Context, test *model.BloodTest) error {
	return r.db.WithContext(ctx).Create(test).Error
}

func (r *bloodTestRepository) ListByUser(ctx context.Context, userID uint) ([]model.BloodTest, error) {
	tests := []model.BloodTest{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").Order("id DESC").
		Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}
