package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"medtrack/internal/auth"
	"medtrack/internal/middleware"
)

// refreshCookiePath limits the refresh token to the auth endpoints.
const refreshCookiePath = "/auth"

// CookieOptions controls how session cookies are written.
type CookieOptions struct {
	Secure bool
	Domain string
}

func (o CookieOptions) cookie(name, value, path string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Domain:   o.Domain,
		MaxAge:   int(maxAge.Seconds()),
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o CookieOptions) setSession(c echo.Context, pair *auth.TokenPair) {
	c.SetCookie(o.cookie(middleware.AccessTokenCookie, pair.AccessToken, "/", auth.AccessTokenExpiry))
	c.SetCookie(o.cookie(middleware.RefreshTokenCookie, pair.RefreshToken, refreshCookiePath, auth.RefreshTokenExpiry))
}

func (o CookieOptions) clearSession(c echo.Context) {
	access := o.cookie(middleware.AccessTokenCookie, "", "/", 0)
	access.MaxAge = -1
	refresh := o.cookie(middleware.RefreshTokenCookie, "", refreshCookiePath, 0)
	refresh.MaxAge = -1
	c.SetCookie(access)
	c.SetCookie(refresh)
}

// cookieValue returns the named cookie's value or "".
func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
