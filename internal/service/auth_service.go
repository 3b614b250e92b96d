package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"medtrack/internal/auth"
	apperrors "medtrack/internal/errors"
	"medtrack/internal/model"
	"medtrack/internal/repository"
)

const (
	bcryptCost = 10
	// bcrypt rejects longer passwords; the limit is bytes, not characters.
	maxPasswordBytes = 72
)

// AuthService handles registration and the token lifecycle.
type AuthService interface {
	Register(ctx context.Context, email, password string, profile model.Profile) (*model.User, error)
	Login(ctx context.Context, email, password string) (*auth.TokenPair, *model.User, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, email, password string, profile model.Profile) (*model.User, error) {
	email = normalizeEmail(email)
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", apperrors.ErrInvalidInput, maxPasswordBytes)
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Profile:      profile,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *authService) Login(ctx context.Context, email, password string) (*auth.TokenPair, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new pair is issued.
// Every verification failure collapses into ErrInvalidRefreshToken.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	stored, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if stored.UserID != userID || stored.Email != claims.Email {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issue(ctx, userID, claims.Email)
}

// Logout revokes whichever of the two tokens is still valid. Invalid tokens are ignored.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.jwtService.ValidateRefreshToken(refreshToken); err == nil {
		if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
	}
	if claims, err := s.jwtService.ValidateAccessToken(accessToken); err == nil {
		if err := s.tokenStore.BlacklistAccessToken(ctx, claims.ID, s.jwtService.Remaining(claims)); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}

func (s *authService) issue(ctx context.Context, userID uint, email string) (*auth.TokenPair, error) {
	pair, err := s.jwtService.GeneratePair(userID, email)
	if err != nil {
		return nil, err
	}

	session := auth.RefreshSession{UserID: userID, Email: email}
	if err := s.tokenStore.StoreRefreshToken(ctx, pair.RefreshTokenID, session, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}
