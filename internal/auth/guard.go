package auth

import (
	"context"
	"errors"
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "notely/internal/errors"
)

const userIDContextKey = "userID"

type ctxKey struct{}

// Guard returns middleware that admits only requests carrying a valid
// "Authorization: Bearer <token>" header. A missing header fails with
// ErrMissingCredential, a token that does not verify with
// ErrInvalidCredential. On success the user id is attached to both the echo
// context and the request context.
func Guard(tokens *TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  userIDContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			userID, err := tokens.Verify(raw)
			if err != nil {
				return nil, err
			}
			req := c.Request()
			c.SetRequest(req.WithContext(WithUserID(req.Context(), userID)))
			return userID, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, ErrInvalidToken) {
				return fmt.Errorf("%w: %v", apperrors.ErrInvalidCredential, err)
			}
			return apperrors.ErrMissingCredential
		},
	})
}

// UserIDFromContext returns the authenticated user id stored by Guard.
func UserIDFromContext(c echo.Context) (string, bool) {
	userID, ok := c.Get(userIDContextKey).(string)
	return userID, ok && userID != ""
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFrom returns the user id attached to ctx, or "".
func UserIDFrom(ctx context.Context) string {
	userID, _ := ctx.Value(ctxKey{}).(string)
	return userID
}
