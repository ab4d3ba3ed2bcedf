package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	user, err := NewUser(uuid.New(), "cashier", "s3cret-pass")
	assert.NoError(t, err)
	return user
}

func TestNewUser_HashesPassword(t *testing.T) {
	user := newTestUser(t)

	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, user.VerifyPassword("s3cret-pass"))
	assert.False(t, user.VerifyPassword("wrong"))
	assert.Equal(t, UserStatusActive, user.Status)
}

func TestNewUser_NormalizesUsername(t *testing.T) {
	user, err := NewUser(uuid.New(), "  Cashier.01  ", "s3cret-pass")
	assert.NoError(t, err)
	assert.Equal(t, "cashier.01", user.Username)
}

func TestNewUser_Validation(t *testing.T) {
	shopID := uuid.New()

	_, err := NewUser(shopID, "", "s3cret-pass")
	assert.Error(t, err)

	_, err = NewUser(shopID, "ab", "s3cret-pass")
	assert.Error(t, err)

	_, err = NewUser(shopID, "bad name!", "s3cret-pass")
	assert.Error(t, err)

	_, err = NewUser(shopID, "cashier", "")
	assert.Error(t, err)
}

func TestUser_RecordLoginFailure_LocksAtBound(t *testing.T) {
	user := newTestUser(t)

	for i := 0; i < 4; i++ {
		locked := user.RecordLoginFailure(5, 15*time.Minute)
		assert.False(t, locked)
		assert.True(t, user.CanLogin())
	}

	locked := user.RecordLoginFailure(5, 15*time.Minute)
	assert.True(t, locked)
	assert.Equal(t, UserStatusLocked, user.Status)
	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())
	assert.NotNil(t, user.LockedUntil)
}

func TestUser_LockExpires(t *testing.T) {
	user := newTestUser(t)
	user.Status = UserStatusLocked
	expired := time.Now().Add(-time.Minute)
	user.LockedUntil = &expired

	assert.False(t, user.IsLocked())
	assert.True(t, user.CanLogin())
}

func TestUser_RecordLoginSuccess_ClearsLock(t *testing.T) {
	user := newTestUser(t)
	user.RecordLoginFailure(1, 15*time.Minute)
	assert.True(t, user.IsLocked())

	user.RecordLoginSuccess()

	assert.Equal(t, UserStatusActive, user.Status)
	assert.Equal(t, 0, user.FailedAttempts)
	assert.Nil(t, user.LockedUntil)
	assert.NotNil(t, user.LastLoginAt)
}

func TestUser_ChangePassword(t *testing.T) {
	user := newTestUser(t)

	err := user.ChangePassword("wrong", "new-passw0rd")
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)

	assert.NoError(t, user.ChangePassword("s3cret-pass", "new-passw0rd"))
	assert.True(t, user.VerifyPassword("new-passw0rd"))
	assert.False(t, user.VerifyPassword("s3cret-pass"))
}

func TestUser_Deactivate(t *testing.T) {
	user := newTestUser(t)

	assert.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Deactivate())
}
