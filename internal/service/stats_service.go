package service

import (
	"context"
	"fmt"

	"medtrack/internal/model"
	"medtrack/internal/repository"
)

// StatsService computes the dashboard summary.
type StatsService interface {
	Summary(ctx context.Context, userID uint) (*model.TestStats, error)
}

type statsService struct {
	repo repository.StatsRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(repo repository.StatsRepository) StatsService {
	return &statsService{repo: repo}
}

// Summary combines one consistent snapshot of both record tables.
func (s *statsService) Summary(ctx context.Context, userID uint) (*model.TestStats, error) {
	// One Snapshot call holds both counts and both latest dates from a single
	// transaction. Totals must not be assembled from separate reads.
	snap, err := s.repo.Snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("stats snapshot: %w", err)
	}

	stats := &model.TestStats{
		UserID:           userID,
		MedicalFormCount: snap.MedicalFormCount,
		BloodTestCount:   snap.BloodTestCount,
		TotalTests:       snap.MedicalFormCount + snap.BloodTestCount,
	}

	latest := snap.LatestMedicalForm
	if snap.LatestBloodTest != nil && (latest == nil || snap.LatestBloodTest.After(*latest)) {
		latest = snap.LatestBloodTest
	}
	if latest != nil {
		d := latest.Format(model.DateLayout)
		stats.LastTestDate = &d
	}
	return stats, nil
}
