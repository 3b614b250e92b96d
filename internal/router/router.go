package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"medtrack/internal/config"
	"medtrack/internal/handler"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	MedicalForm *handler.MedicalFormHandler
	BloodTest   *handler.BloodTestHandler
	Stats       *handler.StatsHandler
}

// Register wires routes and middleware. session guards every route that needs a signed-in user.
func Register(e *echo.Echo, cfg *config.Config, log logrus.FieldLogger, h Handlers, session echo.MiddlewareFunc) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit("2M"))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authGroup := e.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", h.Auth.Logout)
	authGroup.GET("/profile", h.User.GetProfile, session)
	authGroup.PUT("/profile", h.User.UpdateProfile, session)

	forms := e.Group("/medical-form", session)
	forms.POST("", h.MedicalForm.Create)
	forms.POST("/upload-csv", h.MedicalForm.UploadCSV)
	forms.GET("/:userId", h.MedicalForm.ListByUser)

	bloodTests := e.Group("/blood-tests", session)
	bloodTests.POST("", h.BloodTest.Create)
	bloodTests.GET("/:userId", h.BloodTest.ListByUser)

	e.GET("/api/tests/stats", h.Stats.Summary, session)
}

func requestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Round(time.Microsecond).Seconds() * 1000,
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
