package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"shopfront/internal/service"
)

// mapError translates the service taxonomy into HTTP statuses. Anything
// unclassified becomes a generic 500 without internal detail.
func mapError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserExists):
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrUpload):
		return echo.NewHTTPError(http.StatusBadGateway, "asset upload failed")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
