package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"notely/internal/model"
	"notely/internal/service"
)

// AuthHandler handles sign-up and sign-in endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CreateAccountRequest represents a sign-up request.
type CreateAccountRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a sign-in request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both sign-up and sign-in.
type AuthResponse struct {
	Error       bool        `json:"error"`
	Message     string      `json:"message"`
	AccessToken string      `json:"accessToken"`
	User        *model.User `json:"user,omitempty"`
}

// CreateAccount godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /create-account [post]
func (h *AuthHandler) CreateAccount(c echo.Context) error {
	const msg = "All fields are required"

	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(msg, err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(msg, err)
	}

	accessToken, user, err := h.authService.Register(c.Request().Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message:     "Account created successfully",
		AccessToken: accessToken,
		User:        user,
	})
}

// Login godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	const msg = "Email and password are required"

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(msg, err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(msg, err)
	}

	accessToken, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message:     "Login successful",
		AccessToken: accessToken,
		User:        user,
	})
}
