package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"medtrack/internal/auth"
	"medtrack/internal/config"
	apperrors "medtrack/internal/errors"
	"medtrack/internal/handler"
	"medtrack/internal/middleware"
	"medtrack/internal/model"
	"medtrack/internal/router"
	"medtrack/internal/service"
)

const testUserID uint = 7

type testApp struct {
	e      *echo.Echo
	jwt    *auth.JWTService
	auth   *MockAuthService
	users  *MockUserService
	forms  *MockMedicalFormService
	blood  *MockBloodTestService
	cbc    *MockCBCService
	stats  *MockStatsService
	tokens *MockTokenStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log, _ := test.NewNullLogger()
	app := &testApp{
		e:      echo.New(),
		jwt:    auth.NewJWTService("test-secret"),
		auth:   new(MockAuthService),
		users:  new(MockUserService),
		forms:  new(MockMedicalFormService),
		blood:  new(MockBloodTestService),
		cbc:    new(MockCBCService),
		stats:  new(MockStatsService),
		tokens: new(MockTokenStore),
	}

	cfg := &config.Config{CORSOrigins: []string{"http://localhost:3000"}}
	cookies := handler.CookieOptions{}
	router.Register(app.e, cfg, log, router.Handlers{
		Auth:        handler.NewAuthHandler(app.auth, cookies, log),
		User:        handler.NewUserHandler(app.users),
		MedicalForm: handler.NewMedicalFormHandler(app.forms, app.cbc),
		BloodTest:   handler.NewBloodTestHandler(app.blood),
		Stats:       handler.NewStatsHandler(app.stats),
	}, middleware.Session(app.jwt, app.tokens, app.users, log))
	return app
}

// signIn returns a valid access cookie and primes the session lookups for testUserID.
func (a *testApp) signIn(t *testing.T) *http.Cookie {
	t.Helper()
	pair, err := a.jwt.GeneratePair(testUserID, "jane@example.com")
	require.NoError(t, err)
	a.tokens.On("IsAccessTokenBlacklisted", mock.Anything, pair.AccessTokenID).Return(false, nil)
	a.users.On("GetProfile", mock.Anything, testUserID).Return(&model.User{ID: testUserID, Email: "jane@example.com"}, nil)
	return &http.Cookie{Name: middleware.AccessTokenCookie, Value: pair.AccessToken}
}

func (a *testApp) do(method, path string, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*MockAuthService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: `{"email":"jane@example.com","password":"secret123","firstName":"Jane","bloodType":"O+"}`,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "jane@example.com", "secret123",
					mock.MatchedBy(func(p model.Profile) bool {
						return p.FirstName != nil && *p.FirstName == "Jane" && *p.BloodType == "O+"
					})).Return(&model.User{ID: 1, Email: "jane@example.com"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "email taken",
			body: `{"email":"jane@example.com","password":"secret123"}`,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "jane@example.com", "secret123", model.Profile{}).
					Return(nil, apperrors.ErrUserAlreadyExists)
			},
			wantStatus: http.StatusConflict,
			wantCode:   "USER_ALREADY_EXISTS",
		},
		{
			name: "password longer than 72 bytes",
			body: `{"email":"jane@example.com","password":"` + strings.Repeat("é", 72) + `"}`,
			setup: func(m *MockAuthService) {
				m.On("Register", mock.Anything, "jane@example.com", strings.Repeat("é", 72), model.Profile{}).
					Return(nil, fmt.Errorf("%w: password must be at most 72 bytes", apperrors.ErrInvalidInput))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "invalid email",
			body:       `{"email":"not-an-email","password":"secret123"}`,
			setup:      func(*MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "short password",
			body:       `{"email":"jane@example.com","password":"123"}`,
			setup:      func(*MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "unknown blood type",
			body:       `{"email":"jane@example.com","password":"secret123","bloodType":"Z"}`,
			setup:      func(*MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			setup:      func(*MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			tt.setup(app.auth)

			rec := app.do(http.MethodPost, "/auth/register", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			} else {
				assert.NotContains(t, rec.Body.String(), "password")
			}
			app.auth.AssertExpectations(t)
		})
	}
}

func TestLoginSetsCookiesAndOpensSession(t *testing.T) {
	app := newTestApp(t)
	pair, err := app.jwt.GeneratePair(testUserID, "jane@example.com")
	require.NoError(t, err)
	user := &model.User{ID: testUserID, Email: "jane@example.com"}

	app.auth.On("Login", mock.Anything, "jane@example.com", "secret123").Return(pair, user, nil)
	app.tokens.On("IsAccessTokenBlacklisted", mock.Anything, pair.AccessTokenID).Return(false, nil)
	app.users.On("GetProfile", mock.Anything, testUserID).Return(user, nil)

	rec := app.do(http.MethodPost, "/auth/login", `{"email":"jane@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), pair.AccessToken)

	access := findCookie(rec, middleware.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, pair.AccessToken, access.Value)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Equal(t, int(auth.AccessTokenExpiry.Seconds()), access.MaxAge)

	refresh := findCookie(rec, middleware.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, pair.RefreshToken, refresh.Value)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, "/auth", refresh.Path)
	assert.Equal(t, int(auth.RefreshTokenExpiry.Seconds()), refresh.MaxAge)

	profile := app.do(http.MethodGet, "/auth/profile", "", access)
	require.Equal(t, http.StatusOK, profile.Code)
	var got model.User
	require.NoError(t, json.Unmarshal(profile.Body.Bytes(), &got))
	assert.Equal(t, testUserID, got.ID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.auth.On("Login", mock.Anything, "jane@example.com", "wrong").
		Return(nil, nil, apperrors.ErrInvalidCredentials)

	rec := app.do(http.MethodPost, "/auth/login", `{"email":"jane@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, rec).Code)
	assert.Nil(t, findCookie(rec, middleware.AccessTokenCookie))
}

func TestRefresh(t *testing.T) {
	t.Run("rotates cookies", func(t *testing.T) {
		app := newTestApp(t)
		next, err := app.jwt.GeneratePair(testUserID, "jane@example.com")
		require.NoError(t, err)
		app.auth.On("Refresh", mock.Anything, "old-refresh").Return(next, nil)

		rec := app.do(http.MethodPost, "/auth/refresh", "",
			&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "old-refresh"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, next.AccessToken, findCookie(rec, middleware.AccessTokenCookie).Value)
		assert.Equal(t, next.RefreshToken, findCookie(rec, middleware.RefreshTokenCookie).Value)
	})

	t.Run("missing cookie", func(t *testing.T) {
		app := newTestApp(t)
		app.auth.On("Refresh", mock.Anything, "").Return(nil, apperrors.ErrInvalidRefreshToken)

		rec := app.do(http.MethodPost, "/auth/refresh", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_REFRESH_TOKEN", decodeError(t, rec).Code)
	})
}

func TestLogoutAlwaysClearsCookies(t *testing.T) {
	tests := []struct {
		name      string
		logoutErr error
	}{
		{name: "revoked"},
		{name: "store unavailable", logoutErr: errors.New("redis down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.auth.On("Logout", mock.Anything, "a", "r").Return(tt.logoutErr)

			rec := app.do(http.MethodPost, "/auth/logout", "",
				&http.Cookie{Name: middleware.AccessTokenCookie, Value: "a"},
				&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "r"})

			require.Equal(t, http.StatusOK, rec.Code)
			for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
				c := findCookie(rec, name)
				require.NotNil(t, c, name)
				assert.Empty(t, c.Value)
				assert.Negative(t, c.MaxAge)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signIn(t)
	height := decimal.RequireFromString("172.5")
	app.users.On("UpdateProfile", mock.Anything, testUserID, mock.MatchedBy(func(u service.ProfileUpdate) bool {
		return u.HeightCm != nil && u.HeightCm.Equal(height) && u.FirstName == nil
	})).Return(&model.User{ID: testUserID, Profile: model.Profile{HeightCm: decimal.NewNullDecimal(height)}}, nil)

	rec := app.do(http.MethodPut, "/auth/profile", `{"heightCm":172.5}`, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"heightCm":172.5`)
	app.users.AssertExpectations(t)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/auth/profile"},
		{http.MethodPut, "/auth/profile"},
		{http.MethodPost, "/medical-form"},
		{http.MethodGet, "/medical-form/7"},
		{http.MethodPost, "/medical-form/upload-csv"},
		{http.MethodPost, "/blood-tests"},
		{http.MethodGet, "/blood-tests/7"},
		{http.MethodGet, "/api/tests/stats"},
	}
	for _, r := range routes {
		rec := app.do(r.method, r.path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", r.method, r.path)
	}
}

func TestCreateMedicalForm(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*MockMedicalFormService)
		wantStatus int
	}{
		{
			name: "created for the session user",
			body: `{"type":"glucose","value":5.4,"date":"2024-03-01","isAbnormal":true,"userId":99}`,
			setup: func(m *MockMedicalFormService) {
				m.On("Create", mock.Anything, testUserID, mock.MatchedBy(func(in service.RecordInput) bool {
					return in.Type == "glucose" && in.Value.Equal(decimal.RequireFromString("5.4")) &&
						in.Date == "2024-03-01" && in.IsAbnormal
				})).Return(&model.MedicalForm{ID: 3, UserID: testUserID, Type: "glucose"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing value",
			body:       `{"type":"glucose","date":"2024-03-01"}`,
			setup:      func(*MockMedicalFormService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad date",
			body:       `{"type":"glucose","value":1,"date":"01/03/2024"}`,
			setup:      func(*MockMedicalFormService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			cookie := app.signIn(t)
			tt.setup(app.forms)

			rec := app.do(http.MethodPost, "/medical-form", tt.body, cookie)

			assert.Equal(t, tt.wantStatus, rec.Code)
			app.forms.AssertExpectations(t)
		})
	}
}

func TestListRecordsOwnership(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(*testApp)
		wantStatus int
		wantCode   string
	}{
		{
			name: "own medical forms",
			path: "/medical-form/7",
			setup: func(a *testApp) {
				a.forms.On("ListByUser", mock.Anything, testUserID).Return([]model.MedicalForm{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "own blood tests",
			path: "/blood-tests/7",
			setup: func(a *testApp) {
				a.blood.On("ListByUser", mock.Anything, testUserID).Return([]model.BloodTest{{ID: 1, UserID: testUserID}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "someone else's medical forms",
			path:       "/medical-form/8",
			setup:      func(*testApp) {},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "someone else's blood tests",
			path:       "/blood-tests/8",
			setup:      func(*testApp) {},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "non-numeric id",
			path:       "/blood-tests/abc",
			setup:      func(*testApp) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_USER_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			cookie := app.signIn(t)
			tt.setup(app)

			rec := app.do(http.MethodGet, tt.path, "", cookie)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			} else {
				assert.True(t, strings.HasPrefix(rec.Body.String(), "["))
			}
			app.forms.AssertExpectations(t)
			app.blood.AssertExpectations(t)
		})
	}
}

func TestBloodTestDateRendersAsDay(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signIn(t)
	app.blood.On("Create", mock.Anything, testUserID, mock.AnythingOfType("service.RecordInput")).
		Return(&model.BloodTest{
			ID:     2,
			UserID: testUserID,
			Type:   "hb",
			Value:  decimal.RequireFromString("13.2"),
			Date:   datatypes.Date(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		}, nil)

	rec := app.do(http.MethodPost, "/blood-tests", `{"type":"hb","value":"13.2","date":"2024-03-01"}`, cookie)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"value":13.2`)
	assert.Contains(t, rec.Body.String(), `"date":"2024-03-01"`)
}

func TestUploadCSV(t *testing.T) {
	multipartBody := func(t *testing.T, field, content string) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile(field, "cbc.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return &buf, w.FormDataContentType()
	}

	t.Run("imports rows", func(t *testing.T) {
		app := newTestApp(t)
		cookie := app.signIn(t)
		app.cbc.On("Import", mock.Anything, testUserID, mock.Anything).Return(&service.CBCImport{
			Parameters: []model.CBCParameter{{Name: "WBC", Unit: "10^9/L"}},
			Count:      1,
		}, nil)

		body, contentType := multipartBody(t, "file", "name,unit,min,max\nWBC,10^9/L,4,11\n")
		req := httptest.NewRequest(http.MethodPost, "/medical-form/upload-csv", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		app.e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"count":1`)
		app.cbc.AssertExpectations(t)
	})

	t.Run("missing file field", func(t *testing.T) {
		app := newTestApp(t)
		cookie := app.signIn(t)

		body, contentType := multipartBody(t, "upload", "name,unit,min,max\n")
		req := httptest.NewRequest(http.MethodPost, "/medical-form/upload-csv", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		app.e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, rec).Code)
		app.cbc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStatsSummary(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signIn(t)
	last := "2024-03-01"
	app.stats.On("Summary", mock.Anything, testUserID).Return(&model.TestStats{
		UserID:           testUserID,
		MedicalFormCount: 2,
		BloodTestCount:   3,
		TotalTests:       5,
		LastTestDate:     &last,
	}, nil)

	rec := app.do(http.MethodGet, "/api/tests/stats", "", cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":7,"medicalFormCount":2,"bloodTestCount":3,"totalTests":5,"lastTestDate":"2024-03-01"}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
