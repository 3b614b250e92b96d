package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"medtrack/internal/middleware"
	"medtrack/internal/model"
	"medtrack/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookies     CookieOptions
	log         logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookies CookieOptions, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, log: log}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	ProfileRequest
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned by login and refresh. Tokens travel only in cookies.
type SessionResponse struct {
	Message              string      `json:"message"`
	User                 *model.User `json:"user,omitempty"`
	AccessTokenExpiresAt time.Time   `json:"accessTokenExpiresAt"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.ProfileRequest.toProfile())
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    user,
	})
}

// Login godoc
// @Summary Login user
// @Description Sets the access_token and refresh_token HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(err)
	}

	h.cookies.setSession(c, pair)
	return c.JSON(http.StatusOK, SessionResponse{
		Message:              "login successful",
		User:                 user,
		AccessTokenExpiresAt: pair.AccessExpiresAt,
	})
}

// Refresh godoc
// @Summary Refresh session tokens
// @Description Reads the refresh_token cookie, revokes it and sets a new cookie pair.
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	pair, err := h.authService.Refresh(c.Request().Context(), cookieValue(c, middleware.RefreshTokenCookie))
	if err != nil {
		return respondError(err)
	}

	h.cookies.setSession(c, pair)
	return c.JSON(http.StatusOK, SessionResponse{
		Message:              "tokens refreshed",
		AccessTokenExpiresAt: pair.AccessExpiresAt,
	})
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the current tokens and clears both cookies. Always succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	access := cookieValue(c, middleware.AccessTokenCookie)
	refresh := cookieValue(c, middleware.RefreshTokenCookie)
	if err := h.authService.Logout(c.Request().Context(), access, refresh); err != nil {
		h.log.WithError(err).Warn("logout revocation failed")
	}

	h.cookies.clearSession(c)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}
