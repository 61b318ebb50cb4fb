package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"notely/internal/auth"
	apperrors "notely/internal/errors"
	"notely/internal/model"
	"notely/internal/service"
)

// UserHandler serves the caller's profile.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UserResponse wraps the caller's profile.
type UserResponse struct {
	Error bool        `json:"error"`
	User  *model.User `json:"user"`
}

// GetUser godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /get-user [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return respondError(apperrors.ErrUnauthorized)
	}
	user, err := h.svc.GetUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, UserResponse{User: user})
}
