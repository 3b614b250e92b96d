package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"medtrack/internal/cache"
	apperrors "medtrack/internal/errors"
	"medtrack/internal/model"
	"medtrack/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// Upper bounds for body measurements; both columns are decimal(5,1).
var (
	maxHeightCm = decimal.NewFromInt(300)
	maxWeightKg = decimal.NewFromInt(1000)
)

// checkMeasurement requires 0 < d <= limit.
func checkMeasurement(field string, d, limit decimal.Decimal) error {
	if !d.IsPositive() || d.GreaterThan(limit) {
		return fmt.Errorf("%w: %s must be greater than 0 and at most %s", apperrors.ErrInvalidInput, field, limit)
	}
	return nil
}

// validateProfile checks the measurements of a new user's profile.
func validateProfile(p model.Profile) error {
	if p.HeightCm.Valid {
		if err := checkMeasurement("heightCm", p.HeightCm.Decimal, maxHeightCm); err != nil {
			return err
		}
	}
	if p.WeightKg.Valid {
		if err := checkMeasurement("weightKg", p.WeightKg.Decimal, maxWeightKg); err != nil {
			return err
		}
	}
	return nil
}

// ProfileUpdate carries the profile fields to change. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName         *string
	LastName          *string
	DateOfBirth       *string
	Gender            *string
	BloodType         *string
	HeightCm          *decimal.Decimal
	WeightKg          *decimal.Decimal
	Allergies         *string
	ChronicConditions *string
	Medications       *string
	PhoneNumber       *string
}

func (u ProfileUpdate) validate() error {
	if u.HeightCm != nil {
		if err := checkMeasurement("heightCm", *u.HeightCm, maxHeightCm); err != nil {
			return err
		}
	}
	if u.WeightKg != nil {
		if err := checkMeasurement("weightKg", *u.WeightKg, maxWeightKg); err != nil {
			return err
		}
	}
	return nil
}

func (u ProfileUpdate) columns() map[string]interface{} {
	fields := map[string]interface{}{}
	strs := map[string]*string{
		"first_name":         u.FirstName,
		"last_name":          u.LastName,
		"date_of_birth":      u.DateOfBirth,
		"gender":             u.Gender,
		"blood_type":         u.BloodType,
		"allergies":          u.Allergies,
		"chronic_conditions": u.ChronicConditions,
		"medications":        u.Medications,
		"phone_number":       u.PhoneNumber,
	}
	for col, v := range strs {
		if v != nil {
			fields[col] = *v
		}
	}
	if u.HeightCm != nil {
		fields["height_cm"] = decimal.NewNullDecimal(*u.HeightCm)
	}
	if u.WeightKg != nil {
		fields["weight_kg"] = decimal.NewNullDecimal(*u.WeightKg)
	}
	return fields
}

// UserService exposes profile operations.
type UserService interface {
	GetProfile(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetProfile returns the user, from cache when possible. The cached copy never holds the hash.
func (s *userService) GetProfile(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

// UpdateProfile applies the update and returns the fresh record.
func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	if err := update.validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}

	if err := s.repo.UpdateFields(ctx, id, update.columns()); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	return s.GetProfile(ctx, id)
}
