package authprovider

import (
	"context"
	"errors"
	"testing"
	"time"

	"etalase/internal/models"
	"etalase/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test_jwt_secret"

func newLocal() *Local {
	return NewLocal(repositories.NewMockUserRepository(), testJWTSecret, zap.NewNop())
}

func TestLocal_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	p := newLocal()

	created, err := p.SignUp(ctx, "Siti@Example.com", "rahasia1", "Siti Aminah")
	require.NoError(t, err)
	assert.NotEmpty(t, created.UID)
	assert.Equal(t, "siti@example.com", created.Email)
	assert.False(t, created.Anonymous)

	acct, err := p.SignIn(ctx, "siti@example.com", "rahasia1")
	require.NoError(t, err)
	assert.Equal(t, created.UID, acct.UID)

	claims, err := p.ValidateToken(acct.IDToken)
	require.NoError(t, err)
	assert.Equal(t, created.UID, claims["user_id"])
	assert.Equal(t, "siti@example.com", claims["email"])
}

func TestLocal_SignUpErrors(t *testing.T) {
	ctx := context.Background()
	p := newLocal()

	_, err := p.SignUp(ctx, "not-an-email", "rahasia1", "")
	assert.Equal(t, CodeInvalidEmail, CodeOf(err))

	_, err = p.SignUp(ctx, "a@b.co", "abc", "")
	assert.Equal(t, CodeWeakPassword, CodeOf(err))

	_, err = p.SignUp(ctx, "a@b.co", "rahasia1", "")
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "A@B.co", "rahasia2", "")
	assert.Equal(t, CodeEmailExists, CodeOf(err))
}

func TestLocal_SignInErrors(t *testing.T) {
	ctx := context.Background()
	p := newLocal()
	_, err := p.SignUp(ctx, "budi@example.com", "rahasia1", "")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "nobody@example.com", "rahasia1")
	assert.Equal(t, CodeEmailNotFound, CodeOf(err))

	_, err = p.SignIn(ctx, "budi@", "rahasia1")
	assert.Equal(t, CodeInvalidEmail, CodeOf(err))

	_, err = p.SignIn(ctx, "budi@example.com", "salah")
	assert.Equal(t, CodeInvalidPassword, CodeOf(err))
}

func TestLocal_LocksOutAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	p := newLocal()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	_, err := p.SignUp(ctx, "budi@example.com", "rahasia1", "")
	require.NoError(t, err)

	for i := 0; i < maxFailedAttempts; i++ {
		_, err = p.SignIn(ctx, "budi@example.com", "salah")
		assert.Equal(t, CodeInvalidPassword, CodeOf(err))
	}
	_, err = p.SignIn(ctx, "budi@example.com", "rahasia1")
	assert.Equal(t, CodeTooManyAttempts, CodeOf(err), "correct password is refused while locked out")

	now = now.Add(lockoutWindow + time.Minute)
	_, err = p.SignIn(ctx, "budi@example.com", "rahasia1")
	assert.NoError(t, err)
}

func TestLocal_SignInAnonymously(t *testing.T) {
	p := newLocal()

	acct, err := p.SignInAnonymously(context.Background())
	require.NoError(t, err)
	assert.True(t, acct.Anonymous)
	assert.Empty(t, acct.Email)

	claims, err := p.ValidateToken(acct.IDToken)
	require.NoError(t, err)
	assert.Equal(t, true, claims["anonymous"])
}

func TestLocal_SendPasswordReset(t *testing.T) {
	ctx := context.Background()
	p := newLocal()
	_, err := p.SignUp(ctx, "budi@example.com", "rahasia1", "")
	require.NoError(t, err)

	assert.NoError(t, p.SendPasswordReset(ctx, "budi@example.com"))
	assert.Equal(t, CodeEmailNotFound, CodeOf(p.SendPasswordReset(ctx, "ani@example.com")))
	assert.Equal(t, CodeInvalidEmail, CodeOf(p.SendPasswordReset(ctx, "ani")))
}

func TestLocal_ValidateToken(t *testing.T) {
	p := newLocal()
	acct, err := p.SignInAnonymously(context.Background())
	require.NoError(t, err)

	other := NewLocal(repositories.NewMockUserRepository(), "another_secret", zap.NewNop())
	_, err = other.ValidateToken(acct.IDToken)
	assert.Error(t, err, "token signed with a different secret")

	_, err = p.ValidateToken("garbage")
	assert.Error(t, err)
}

type unreachableUsers struct{ *repositories.MockUserRepository }

func (unreachableUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func TestLocal_SignUpStopsWhenLookupFails(t *testing.T) {
	users := unreachableUsers{repositories.NewMockUserRepository()}
	p := NewLocal(users, testJWTSecret, zap.NewNop())

	_, err := p.SignUp(context.Background(), "siti@example.com", "rahasia1", "Siti")
	require.Error(t, err)
	assert.Empty(t, CodeOf(err))
	assert.Contains(t, err.Error(), "failed to look up user")
}
