package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notely/internal/auth"
	apperrors "notely/internal/errors"
	"notely/internal/model"
	"notely/internal/repository"
)

// AuthService handles sign-up and sign-in.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string) (accessToken string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (accessToken string, user *model.User, err error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
	}
}

// Register creates an account with a hashed password and returns a session
// token for it.
func (s *authService) Register(ctx context.Context, fullName, email, password string) (string, *model.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = model.NormalizeEmail(email)
	if fullName == "" || email == "" || password == "" {
		return "", nil, apperrors.Validation("All fields are required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return "", nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", nil, err
	}

	user := &model.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	// The unique index still decides a race between two sign-ups.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUserAlreadyExists) {
			return "", nil, apperrors.ErrUserAlreadyExists
		}
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	accessToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, user, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, apperrors.Validation("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, user, nil
}
