package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medtrack/internal/errors"
	"medtrack/internal/service"
)

// MedicalFormHandler handles medical form entries and CBC uploads.
type MedicalFormHandler struct {
	forms service.MedicalFormService
	cbc   service.CBCService
}

// NewMedicalFormHandler creates a new medical form handler.
func NewMedicalFormHandler(forms service.MedicalFormService, cbc service.CBCService) *MedicalFormHandler {
	return &MedicalFormHandler{forms: forms, cbc: cbc}
}

// Create godoc
// @Summary Add a medical form entry for the current user
// @Tags medical-form
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body RecordRequest true "Entry"
// @Success 201 {object} model.MedicalForm
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /medical-form [post]
func (h *MedicalFormHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req RecordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	form, err := h.forms.Create(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, form)
}

// ListByUser godoc
// @Summary List medical form entries of a user
// @Tags medical-form
// @Produce json
// @Security CookieAuth
// @Param userId path int true "User ID"
// @Success 200 {array} model.MedicalForm
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /medical-form/{userId} [get]
func (h *MedicalFormHandler) ListByUser(c echo.Context) error {
	userID, err := ownerFromPath(c)
	if err != nil {
		return err
	}

	forms, err := h.forms.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, forms)
}

// UploadCSV godoc
// @Summary Upload CBC reference parameters
// @Description Accepts a CSV file with a header row followed by name,unit,min,max rows.
// @Tags medical-form
// @Accept multipart/form-data
// @Produce json
// @Security CookieAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} service.CBCImport
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /medical-form/upload-csv [post]
func (h *MedicalFormHandler) UploadCSV(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "file is required",
			Code:  "FILE_REQUIRED",
		})
	}
	if header.Size > service.MaxCSVBytes {
		return respondError(errors.ErrInvalidCSV)
	}

	file, err := header.Open()
	if err != nil {
		return respondError(errors.ErrInvalidCSV)
	}
	defer file.Close()

	result, err := h.cbc.Import(c.Request().Context(), user.ID, file)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, result)
}
