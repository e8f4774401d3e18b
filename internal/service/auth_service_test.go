package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskboard/internal/auth"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteWithTodos(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newAuthService(repo *MockUserRepository) (AuthService, *auth.TokenService) {
	tokens := auth.NewTokenService("test-secret")
	return NewAuthService(repo, tokens, nil), tokens
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		userName      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			password: "password123",
			userName: "Test User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "email is normalized before lookup",
			email:    "  MiXeD@Example.COM ",
			password: "password123",
			userName: "Mixed Case",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "mixed@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:     "duplicate email",
			email:    "existing@example.com",
			password: "password123",
			userName: "Existing",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").
					Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
		{
			name:     "duplicate email differing only by case",
			email:    "EXISTING@example.com",
			password: "other-password",
			userName: "Other",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").
					Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc, tokens := newAuthService(mockRepo)
			user, token, err := svc.Register(context.Background(), tt.email, tt.password, tt.userName)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.NotEmpty(t, user.PasswordHash)
				assert.NotEqual(t, tt.password, user.PasswordHash)

				// The issued token must verify and decode to this user.
				claims, err := tokens.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, user.ID.String(), claims.UserID)
				assert.Equal(t, user.Email, claims.Email)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	require.NoError(t, err)
	stored := &model.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: string(hashed),
		Name:         "Test User",
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email fails with the same error",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc, tokens := newAuthService(mockRepo)
			user, token, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				claims, err := tokens.Verify(token)
				require.NoError(t, err)
				assert.Equal(t, stored.ID.String(), claims.UserID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	userID := uuid.New()
	strPtr := func(s string) *string { return &s }

	makeStored := func() *model.User {
		hashed, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcryptCost)
		require.NoError(t, err)
		return &model.User{ID: userID, Email: "a@x.com", Name: "Old Name", PasswordHash: string(hashed)}
	}

	t.Run("name only leaves password hash untouched", func(t *testing.T) {
		stored := makeStored()
		oldHash := stored.PasswordHash
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(stored, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc, _ := newAuthService(mockRepo)
		user, err := svc.UpdateProfile(context.Background(), userID, ProfilePatch{Name: strPtr("New Name")})
		require.NoError(t, err)
		assert.Equal(t, "New Name", user.Name)
		assert.Equal(t, oldHash, user.PasswordHash)
		mockRepo.AssertExpectations(t)
	})

	t.Run("password only re-hashes and keeps the name", func(t *testing.T) {
		stored := makeStored()
		oldHash := stored.PasswordHash
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(stored, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc, _ := newAuthService(mockRepo)
		user, err := svc.UpdateProfile(context.Background(), userID, ProfilePatch{Password: strPtr("new-password")})
		require.NoError(t, err)
		assert.Equal(t, "Old Name", user.Name)
		assert.NotEqual(t, oldHash, user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-password")))
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc, _ := newAuthService(mockRepo)
		_, err := svc.UpdateProfile(context.Background(), userID, ProfilePatch{})
		assert.ErrorIs(t, err, apperrors.ErrNothingToUpdate)
		mockRepo.AssertExpectations(t)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		svc, _ := newAuthService(mockRepo)
		_, err := svc.UpdateProfile(context.Background(), userID, ProfilePatch{Name: strPtr("X")})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_DeleteAccount(t *testing.T) {
	userID := uuid.New()

	t.Run("cascade delete succeeds", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("DeleteWithTodos", mock.Anything, userID).Return(nil)
		svc, _ := newAuthService(mockRepo)
		assert.NoError(t, svc.DeleteAccount(context.Background(), userID))
		mockRepo.AssertExpectations(t)
	})

	t.Run("already deleted", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("DeleteWithTodos", mock.Anything, userID).Return(gorm.ErrRecordNotFound)
		svc, _ := newAuthService(mockRepo)
		assert.ErrorIs(t, svc.DeleteAccount(context.Background(), userID), apperrors.ErrUserNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_GetProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "a@x.com"}, nil)
		svc, _ := newAuthService(mockRepo)
		user, err := svc.GetProfile(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		svc, _ := newAuthService(mockRepo)
		_, err := svc.GetProfile(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		mockRepo.AssertExpectations(t)
	})
}
