package middleware

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"medtrack/internal/auth"
	apperrors "medtrack/internal/errors"
	"medtrack/internal/model"
)

const (
	// AccessTokenCookie carries the short-lived access token.
	AccessTokenCookie = "access_token"
	// RefreshTokenCookie carries the long-lived refresh token.
	RefreshTokenCookie = "refresh_token"

	claimsKey = "claims"
	userKey   = "current_user"
)

// UserLookup resolves a token subject to a user.
type UserLookup interface {
	GetProfile(ctx context.Context, id uint) (*model.User, error)
}

// Session authenticates requests through the access token cookie and attaches
// the resolved user to the echo context.
func Session(jwtService *auth.JWTService, tokens auth.TokenStoreInterface, users UserLookup, log logrus.FieldLogger) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + AccessTokenCookie,
		ContextKey:  claimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				return nil, err
			}
			revoked, err := tokens.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil || revoked {
				return nil, apperrors.ErrUnauthorized
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			log.WithError(err).WithField("path", c.Path()).Debug("session rejected")
			return unauthorized()
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(resolveUser(users, next))
	}
}

func resolveUser(users UserLookup, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(claimsKey).(*auth.Claims)
		if !ok {
			return unauthorized()
		}
		userID, err := claims.UserID()
		if err != nil {
			return unauthorized()
		}

		user, err := users.GetProfile(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return unauthorized()
			}
			httpErr := apperrors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}

		c.Set(userKey, user)
		return next(c)
	}
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: apperrors.ErrUnauthorized.Error(),
		Code:  "UNAUTHORIZED",
	})
}

// CurrentUser returns the user attached by Session.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(userKey).(*model.User)
	return user, ok && user != nil
}

// CurrentClaims returns the access token claims attached by Session.
func CurrentClaims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	return claims, ok
}
