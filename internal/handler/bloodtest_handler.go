package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medtrack/internal/service"
)

// BloodTestHandler handles blood test results.
type BloodTestHandler struct {
	svc service.BloodTestService
}

// NewBloodTestHandler creates a new blood test handler.
func NewBloodTestHandler(svc service.BloodTestService) *BloodTestHandler {
	return &BloodTestHandler{svc: svc}
}

// Create godoc
// @Summary Add a blood test result for the current user
// @Tags blood-tests
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body RecordRequest true "Result"
// @Success 201 {object} model.BloodTest
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /blood-tests [post]
func (h *BloodTestHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req RecordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	test, err := h.svc.Create(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, test)
}

// ListByUser godoc
// @Summary List blood test results of a user
// @Tags blood-tests
// @Produce json
// @Security CookieAuth
// @Param userId path int true "User ID"
// @Success 200 {array} model.BloodTest
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /blood-tests/{userId} [get]
func (h *BloodTestHandler) ListByUser(c echo.Context) error {
	userID, err := ownerFromPath(c)
	if err != nil {
		return err
	}

	tests, err := h.svc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, tests)
}
