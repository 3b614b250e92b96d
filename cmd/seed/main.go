package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"medtrack/internal/auth"
	"medtrack/internal/config"
	"medtrack/internal/db"
	apperrors "medtrack/internal/errors"
	"medtrack/internal/logger"
	"medtrack/internal/model"
	"medtrack/internal/repository"
	"medtrack/internal/service"
)

// seedConfig names the demo account.
type seedConfig struct {
	Email    string `env:"SEED_EMAIL" envDefault:"demo@medtrack.local"`
	Password string `env:"SEED_PASSWORD" envDefault:"demo-password"`
}

// sampleRecord is one observation written for the demo user.
type sampleRecord struct {
	Type       string
	Value      string
	Date       string
	IsAbnormal bool
}

var sampleMedicalForms = []sampleRecord{
	{Type: "glucose", Value: "5.4", Date: "2024-01-15"},
	{Type: "glucose", Value: "7.9", Date: "2024-02-15", IsAbnormal: true},
	{Type: "cholesterol", Value: "4.8", Date: "2024-02-15"},
	{Type: "blood_pressure_systolic", Value: "128", Date: "2024-03-01"},
}

var sampleBloodTests = []sampleRecord{
	{Type: "hemoglobin", Value: "13.8", Date: "2024-01-20"},
	{Type: "wbc", Value: "11.6", Date: "2024-01-20", IsAbnormal: true},
	{Type: "platelets", Value: "250", Date: "2024-03-05"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("Starting seed script...")

	var seedCfg seedConfig
	if err := env.Parse(&seedCfg); err != nil {
		log.Fatalf("parse seed config: %v", err)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Info("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, auth.NewJWTService(cfg.JWTSecret), auth.NewTokenStore(nil))
	formService := service.NewMedicalFormService(repository.NewMedicalFormRepository(gormDB))
	bloodService := service.NewBloodTestService(repository.NewBloodTestRepository(gormDB))

	user, created, err := ensureUser(ctx, authService, userRepo, seedCfg)
	if err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}
	log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email, "created": created}).Info("Demo user ready")

	forms, err := formService.ListByUser(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to list medical forms: %v", err)
	}
	tests, err := bloodService.ListByUser(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to list blood tests: %v", err)
	}
	if len(forms) > 0 || len(tests) > 0 {
		log.WithFields(logrus.Fields{"medical_forms": len(forms), "blood_tests": len(tests)}).
			Info("Demo user already has records, skipping")
		return
	}

	formCount, err := seedRecords(ctx, sampleMedicalForms, func(ctx context.Context, in service.RecordInput) error {
		_, err := formService.Create(ctx, user.ID, in)
		return err
	})
	if err != nil {
		log.Fatalf("Failed to seed medical forms: %v", err)
	}
	testCount, err := seedRecords(ctx, sampleBloodTests, func(ctx context.Context, in service.RecordInput) error {
		_, err := bloodService.Create(ctx, user.ID, in)
		return err
	})
	if err != nil {
		log.Fatalf("Failed to seed blood tests: %v", err)
	}

	log.Info("Seed completed successfully!")
	log.Infof("  - Medical forms created: %d", formCount)
	log.Infof("  - Blood tests created: %d", testCount)
}

// ensureUser registers the demo account or loads it when it already exists.
func ensureUser(ctx context.Context, authService service.AuthService, repo repository.UserRepository, cfg seedConfig) (*model.User, bool, error) {
	firstName, lastName := "Demo", "Patient"
	user, err := authService.Register(ctx, cfg.Email, cfg.Password, model.Profile{
		FirstName: &firstName,
		LastName:  &lastName,
	})
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, apperrors.ErrUserAlreadyExists) {
		return nil, false, err
	}

	existing, err := repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(cfg.Email)))
	if err != nil {
		return nil, false, fmt.Errorf("load existing user: %w", err)
	}
	return existing, false, nil
}

// seedRecords writes each sample through create and returns how many were stored.
func seedRecords(ctx context.Context, samples []sampleRecord, create func(context.Context, service.RecordInput) error) (int, error) {
	seeded := 0
	for _, s := range samples {
		value, err := decimal.NewFromString(s.Value)
		if err != nil {
			return seeded, fmt.Errorf("sample %s value %q: %w", s.Type, s.Value, err)
		}
		if err := create(ctx, service.RecordInput{
			Type:       s.Type,
			Value:      value,
			Date:       s.Date,
			IsAbnormal: s.IsAbnormal,
		}); err != nil {
			return seeded, fmt.Errorf("sample %s on %s: %w", s.Type, s.Date, err)
		}
		seeded++
	}
	return seeded, nil
}
