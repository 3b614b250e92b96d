package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"medtrack/internal/model"
	"medtrack/internal/service"
)

// ProfileRequest carries the optional profile fields. Omitted fields stay unchanged.
type ProfileRequest struct {
	FirstName         *string          `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName          *string          `json:"lastName,omitempty" validate:"omitempty,max=100"`
	DateOfBirth       *string          `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender            *string          `json:"gender,omitempty" validate:"omitempty,max=20"`
	BloodType         *string          `json:"bloodType,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	HeightCm          *decimal.Decimal `json:"heightCm,omitempty" swaggertype:"number"`
	WeightKg          *decimal.Decimal `json:"weightKg,omitempty" swaggertype:"number"`
	Allergies         *string          `json:"allergies,omitempty" validate:"omitempty,max=2000"`
	ChronicConditions *string          `json:"chronicConditions,omitempty" validate:"omitempty,max=2000"`
	Medications       *string          `json:"medications,omitempty" validate:"omitempty,max=2000"`
	PhoneNumber       *string          `json:"phoneNumber,omitempty" validate:"omitempty,max=30"`
}

func (r ProfileRequest) toProfile() model.Profile {
	p := model.Profile{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		DateOfBirth:       r.DateOfBirth,
		Gender:            r.Gender,
		BloodType:         r.BloodType,
		Allergies:         r.Allergies,
		ChronicConditions: r.ChronicConditions,
		Medications:       r.Medications,
		PhoneNumber:       r.PhoneNumber,
	}
	if r.HeightCm != nil {
		p.HeightCm = decimal.NewNullDecimal(*r.HeightCm)
	}
	if r.WeightKg != nil {
		p.WeightKg = decimal.NewNullDecimal(*r.WeightKg)
	}
	return p
}

func (r ProfileRequest) toUpdate() service.ProfileUpdate {
	return service.ProfileUpdate{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		DateOfBirth:       r.DateOfBirth,
		Gender:            r.Gender,
		BloodType:         r.BloodType,
		HeightCm:          r.HeightCm,
		WeightKg:          r.WeightKg,
		Allergies:         r.Allergies,
		ChronicConditions: r.ChronicConditions,
		Medications:       r.Medications,
		PhoneNumber:       r.PhoneNumber,
	}
}

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetProfile godoc
// @Summary Get the current user's profile
// @Tags auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/profile [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req ProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.svc.UpdateProfile(c.Request().Context(), user.ID, req.toUpdate())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, updated)
}
