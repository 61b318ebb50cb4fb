package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "notely/internal/errors"
)

// respondError maps a service error to its status and envelope. The cause is
// kept as the internal error so the central error handler can log it.
func respondError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// badRequest reports a request the handler rejected before calling a service.
func badRequest(message string, cause error) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error:   true,
		Message: message,
		Code:    "VALIDATION_ERROR",
	}).SetInternal(cause)
}
