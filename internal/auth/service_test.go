package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func newTestService(repo Repository) *Service {
	return NewService(repo, TokenConfig{
		Secret:     "test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}, zap.NewNop())
}

func testUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &User{
		ID:           uuid.New(),
		Email:        "claire.martin@visio-hr.fr",
		PasswordHash: string(hash),
		FirstName:    "Claire",
		LastName:     "Martin",
		Role:         RoleManager,
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	user := testUser(t, "correct horse")

	mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	got, pair, err := service.Login(context.Background(), user.Email, "correct horse")

	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
}

func TestLoginWrongPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	user := testUser(t, "correct horse")

	mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	_, _, err := service.Login(context.Background(), user.Email, "wrong horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetUserByEmail", mock.Anything, "nobody@visio-hr.fr").Return(nil, nil)

	_, _, err := service.Login(context.Background(), "nobody@visio-hr.fr", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	user := testUser(t, "correct horse")
	user.IsActive = false

	mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	_, _, err := service.Login(context.Background(), user.Email, "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	user := testUser(t, "correct horse")

	mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	_, pair, err := service.Login(context.Background(), user.Email, "correct horse")
	assert.NoError(t, err)

	actor, err := service.Authenticate(pair.Access)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, user.Email, actor.Email)
	assert.Equal(t, RoleManager, actor.Role)
	assert.True(t, actor.CanModerate())
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	user := testUser(t, "correct horse")

	mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	_, pair, err := service.Login(context.Background(), user.Email, "correct horse")
	assert.NoError(t, err)

	_, err = service.Authenticate(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	other := NewService(mockRepo, TokenConfig{
		Secret:    "different-secret",
		AccessTTL: time.Minute,
	}, zap.NewNop())

	user := testUser(t, "correct horse")
	mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	_, pair, err := other.Login(context.Background(), user.Email, "correct horse")
	assert.NoError(t, err)

	_, err = service.Authenticate(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	user := testUser(t, "correct horse")

	mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	_, pair, err := service.Login(context.Background(), user.Email, "correct horse")
	assert.NoError(t, err)

	_, err = service.Refresh(context.Background(), pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	user := testUser(t, "correct horse")

	mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)
	mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)

	_, pair, err := service.Login(context.Background(), user.Email, "correct horse")
	assert.NoError(t, err)

	fresh, err := service.Refresh(context.Background(), pair.Refresh)
	assert.NoError(t, err)
	assert.NotEmpty(t, fresh.Access)
	assert.NotEmpty(t, fresh.Refresh)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	user := testUser(t, "irrelevant")

	mockRepo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := service.Register(context.Background(), RegisterRequest{
		Email:     user.Email,
		Password:  "s3cret-enough",
		FirstName: "Claire",
		LastName:  "Martin",
	})
	assert.ErrorIs(t, err, ErrUserExists)
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegisterDefaultsRoleToEmployee(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetUserByEmail", mock.Anything, "new@visio-hr.fr").Return(nil, nil)
	mockRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*auth.User")).Return(nil)

	user, err := service.Register(context.Background(), RegisterRequest{
		Email:     "new@visio-hr.fr",
		Password:  "s3cret-enough",
		FirstName: "Nadia",
		LastName:  "Benali",
	})

	assert.NoError(t, err)
	assert.Equal(t, RoleEmployee, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-enough", user.PasswordHash)
}

func TestRegisterUnknownRole(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetUserByEmail", mock.Anything, "new@visio-hr.fr").Return(nil, nil)

	_, err := service.Register(context.Background(), RegisterRequest{
		Email:     "new@visio-hr.fr",
		Password:  "s3cret-enough",
		FirstName: "Nadia",
		LastName:  "Benali",
		Role:      Role("superuser"),
	})
	assert.Error(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	user := testUser(t, "correct horse")

	mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)

	err := service.ChangePassword(context.Background(), user.ID, "wrong horse", "new password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePasswordStoresNewHash(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newTestService(mockRepo)
	user := testUser(t, "correct horse")

	mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	mockRepo.On("UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string")).Return(nil)

	err := service.ChangePassword(context.Background(), user.ID, "correct horse", "new password")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
