package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "notely/internal/errors"
	"notely/internal/model"
)

func TestUserService_GetUser(t *testing.T) {
	tests := []struct {
		name          string
		id            string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "existing user",
			id:   "u-1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, "u-1").Return(&model.User{ID: "u-1", FullName: "Test User"}, nil)
			},
		},
		{
			name: "unknown user",
			id:   "ghost",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, "ghost").Return(nil, apperrors.ErrUserNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			// Without a cache every call goes to the repository.
			service := NewUserService(mockRepo, nil)
			user, err := service.GetUser(context.Background(), tt.id)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.id, user.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
