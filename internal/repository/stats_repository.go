package repository

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"medtrack/internal/model"
)

// StatsSnapshot holds per-user record counts and latest dates read at one point in time.
// Latest* is the greatest record date of that table, nil when the user has no rows there.
type StatsSnapshot struct {
	MedicalFormCount  int64
	BloodTestCount    int64
	LatestMedicalForm *time.Time
	LatestBloodTest   *time.Time
}

// StatsRepository defines the aggregate reads behind the dashboard summary.
type StatsRepository interface {
	Snapshot(ctx context.Context, userID uint) (*StatsSnapshot, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Snapshot runs all four reads in one read-only repeatable-read transaction,
// so the counts and dates cannot disagree under concurrent inserts.
func (r *statsRepository) Snapshot(ctx context.Context, userID uint) (*StatsSnapshot, error) {
	snap := &StatsSnapshot{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.MedicalForm{}).Where("user_id = ?", userID).Count(&snap.MedicalFormCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.BloodTest{}).Where("user_id = ?", userID).Count(&snap.BloodTestCount).Error; err != nil {
			return err
		}

		var forms []model.MedicalForm
		if err := tx.Where("user_id = ?", userID).Order("date DESC").Limit(1).Find(&forms).Error; err != nil {
			return err
		}
		if len(forms) > 0 {
			if t, err := time.Parse(model.DateLayout, forms[0].Date); err == nil {
				snap.LatestMedicalForm = &t
			}
		}

		var tests []model.BloodTest
		if err := tx.Where("user_id = ?", userID).Order("date DESC").Limit(1).Find(&tests).Error; err != nil {
			return err
		}
		if len(tests) > 0 {
			t := time.Time(tests[0].Date)
			snap.LatestBloodTest = &t
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}
	return snap, nil
}
