package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"medtrack/internal/errors"
	"medtrack/internal/middleware"
	"medtrack/internal/model"
)

// respondError converts a service error into the uniform error body.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "BAD_REQUEST",
	})
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

func currentUser(c echo.Context) (*model.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, respondError(errors.ErrUnauthorized)
	}
	return user, nil
}

// ownerFromPath reads :userId and only lets users read their own records.
func ownerFromPath(c echo.Context) (uint, error) {
	user, err := currentUser(c)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_USER_ID",
		})
	}
	if uint(id) != user.ID {
		return 0, respondError(errors.ErrForbidden)
	}
	return user.ID, nil
}
