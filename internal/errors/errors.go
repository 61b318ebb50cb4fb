package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when a required field is missing or blank.
	ErrValidation = errors.New("validation error")
	// ErrUserAlreadyExists is returned when the normalized email is already registered.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// Unknown email and wrong password both produce it.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is returned when a user id does not resolve to a stored user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized is returned when an authenticated identity is required but absent.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMissingCredential is returned by the access guard when no bearer token is supplied.
	ErrMissingCredential = errors.New("access token missing")
	// ErrInvalidCredential is returned by the access guard when the bearer token does not verify.
	ErrInvalidCredential = errors.New("invalid token")
	// ErrNoteNotFound is returned when a note does not exist or is owned by someone else.
	ErrNoteNotFound = errors.New("note not found")
)

// ValidationError is a validation failure with a client-facing message.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports ErrValidation as the sentinel for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation builds a ValidationError.
func Validation(message string) error {
	return &ValidationError{Message: message}
}

// ErrorResponse is the JSON envelope written for every failed request.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   true,
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised
// becomes a generic 500 so store or crypto details never reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return NewHTTPError(http.StatusBadRequest, validationErr.Message, "VALIDATION_ERROR")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, "All fields are required", "VALIDATION_ERROR")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusConflict, "User already exists", "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrMissingCredential):
		return NewHTTPError(http.StatusUnauthorized, "Access token missing", "MISSING_TOKEN")
	case errors.Is(err, ErrInvalidCredential):
		return NewHTTPError(http.StatusForbidden, "Invalid token", "INVALID_TOKEN")
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED")
	case errors.Is(err, ErrNoteNotFound):
		return NewHTTPError(http.StatusNotFound, "Note not found", "NOTE_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Server error", "INTERNAL_ERROR")
	}
}
