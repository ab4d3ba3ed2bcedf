package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/smartpos/backend/internal/domain/identity"
	"github.com/smartpos/backend/internal/domain/shared"
	"github.com/smartpos/backend/internal/infrastructure/auth"
	"github.com/smartpos/backend/internal/infrastructure/config"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "smartpos-test",
	})
}

func newAuthService(userRepo *MockUserRepository) *AuthService {
	return NewAuthService(userRepo, newTestJWTService(), config.AuthConfig{
		MaxLoginAttempts: 3,
		LockoutDuration:  15 * time.Minute,
	}, zap.NewNop())
}

func newStoredUser(t *testing.T, password string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(uuid.New(), "cashier", password)
	assert.NoError(t, err)
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo)
	ctx := context.Background()

	userRepo.On("ExistsByUsername", ctx, "cashier").Return(false, nil)
	userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)

	result, err := service.Register(ctx, RegisterInput{
		Username: "cashier",
		Password: "s3cret-pass",
		Email:    "cashier@example.com",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "cashier", result.User.Username)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.NotEqual(t, uuid.Nil, result.User.ID)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo)
	ctx := context.Background()

	userRepo.On("ExistsByUsername", ctx, "cashier").Return(true, nil)

	result, err := service.Register(ctx, RegisterInput{Username: "cashier", Password: "s3cret-pass"})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo)
	ctx := context.Background()
	user := newStoredUser(t, "s3cret-pass")

	userRepo.On("FindByUsername", ctx, "cashier").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	result, err := service.Login(ctx, LoginInput{Username: "cashier", Password: "s3cret-pass"})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, 0, user.FailedAttempts)
}

func TestAuthService_Login_WrongPassword_SharedMessage(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo)
	ctx := context.Background()
	user := newStoredUser(t, "s3cret-pass")

	userRepo.On("FindByUsername", ctx, "cashier").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	_, errWrongPassword := service.Login(ctx, LoginInput{Username: "cashier", Password: "wrong-pass1"})

	userRepo.On("FindByUsername", ctx, "ghost").Return(nil, shared.ErrNotFound)
	_, errUnknownUser := service.Login(ctx, LoginInput{Username: "ghost", Password: "whatever1"})

	// Identical errors so usernames cannot be probed
	assert.Error(t, errWrongPassword)
	assert.Error(t, errUnknownUser)
	assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
}

func TestAuthService_Login_LocksAfterRepeatedFailures(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo)
	ctx := context.Background()
	user := newStoredUser(t, "s3cret-pass")

	userRepo.On("FindByUsername", ctx, "cashier").Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	var lastErr error
	for i := 0; i < 3; i++ {
		_, lastErr = service.Login(ctx, LoginInput{Username: "cashier", Password: "wrong-pass1"})
	}

	var domainErr *shared.DomainError
	assert.ErrorAs(t, lastErr, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	assert.True(t, user.IsLocked())

	// Even the right password is rejected while the lock holds
	_, err := service.Login(ctx, LoginInput{Username: "cashier", Password: "s3cret-pass"})
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo)
	ctx := context.Background()
	user := newStoredUser(t, "s3cret-pass")

	tokens, err := newTestJWTService().GenerateTokenPair(auth.GenerateTokenInput{
		ShopID:   user.ShopID,
		UserID:   user.ID,
		Username: user.Username,
	})
	assert.NoError(t, err)

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	result, err := service.Refresh(ctx, tokens.RefreshToken)

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo)
	user := newStoredUser(t, "s3cret-pass")

	tokens, err := newTestJWTService().GenerateTokenPair(auth.GenerateTokenInput{
		ShopID:   user.ShopID,
		UserID:   user.ID,
		Username: user.Username,
	})
	assert.NoError(t, err)

	_, err = service.Refresh(context.Background(), tokens.AccessToken)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestAuthService_ChangePassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newAuthService(userRepo)
	ctx := context.Background()
	user := newStoredUser(t, "s3cret-pass")

	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	err := service.ChangePassword(ctx, user.ID, ChangePasswordInput{
		OldPassword: "s3cret-pass",
		NewPassword: "new-passw0rd",
	})

	assert.NoError(t, err)
	assert.True(t, user.VerifyPassword("new-passw0rd"))
}
