package handler_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"medtrack/internal/auth"
	"medtrack/internal/model"
	"medtrack/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password string, profile model.Profile) (*model.User, error) {
	args := m.Called(ctx, email, password, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*auth.TokenPair, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*auth.TokenPair), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.TokenPair), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uint, update service.ProfileUpdate) (*model.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockMedicalFormService struct {
	mock.Mock
}

func (m *MockMedicalFormService) Create(ctx context.Context, userID uint, input service.RecordInput) (*model.MedicalForm, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalForm), args.Error(1)
}

func (m *MockMedicalFormService) ListByUser(ctx context.Context, userID uint) ([]model.MedicalForm, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MedicalForm), args.Error(1)
}

type MockBloodTestService struct {
	mock.Mock
}

func (m *MockBloodTestService) Create(ctx context.Context, userID uint, input service.RecordInput) (*model.BloodTest, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BloodTest), args.Error(1)
}

func (m *MockBloodTestService) ListByUser(ctx context.Context, userID uint) ([]model.BloodTest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BloodTest), args.Error(1)
}

type MockCBCService struct {
	mock.Mock
}

func (m *MockCBCService) Import(ctx context.Context, userID uint, r io.Reader) (*service.CBCImport, error) {
	args := m.Called(ctx, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CBCImport), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Summary(ctx context.Context, userID uint) (*model.TestStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TestStats), args.Error(1)
}

// MockTokenStore only answers blacklist lookups; the auth service is mocked.
type MockTokenStore struct {
	auth.TokenStoreInterface
	mock.Mock
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}
