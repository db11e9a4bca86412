package database

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/authform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore() *MemoryUserStore {
	return NewMemoryUserStore(WithBcryptCost(bcrypt.MinCost))
}

func TestMemoryUserStore_SignUp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	user := &domain.User{Email: "newuser@example.com"}
	token, err := store.SignUp(ctx, user, "newpassword")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, user.ID, "sign up should populate the user ID")

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := store.SignUp(ctx, &domain.User{Email: "NewUser@example.com "}, "other")
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("password is not stored in clear", func(t *testing.T) {
		found, err := store.FindUserByEmail(ctx, "newuser@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Empty(t, found.Password)
		assert.NotEqual(t, "newpassword", string(store.users["newuser@example.com"].passwordHash))
	})
}

func TestMemoryUserStore_SignIn(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	_, err := store.SignUp(ctx, &domain.User{Email: "valid@example.com"}, "password123")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, err := store.SignIn(ctx, &domain.User{Email: "valid@example.com"}, "password123")
		require.NoError(t, err)

		user, err := store.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "valid@example.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := store.SignIn(ctx, &domain.User{Email: "valid@example.com"}, "wrongpassword")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := store.SignIn(ctx, &domain.User{Email: "invalid@example.com"}, "password123")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.SignIn(cctx, &domain.User{Email: "valid@example.com"}, "password123")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMemoryUserStore_Authenticate(t *testing.T) {
	store := newTestStore()

	_, err := store.Authenticate(context.Background(), "this-is-an-invalid-token")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = store.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMemoryUserStore_GenerateResetToken(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store := NewMemoryUserStore(WithBcryptCost(bcrypt.MinCost), WithClock(func() time.Time { return fixed }))
	_, err := store.SignUp(ctx, &domain.User{Email: "existing@example.com"}, "password123")
	require.NoError(t, err)

	token, err := store.GenerateResetToken(ctx, "existing@example.com")
	require.NoError(t, err)
	assert.Len(t, token, resetTokenBytes*2)

	user, err := store.FindUserByEmail(ctx, "existing@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.ResetToken)
	assert.Equal(t, token, *user.ResetToken)
	assert.Equal(t, "2026-01-03T03:04:05Z", *user.ResetTokenExpires)

	_, err = store.GenerateResetToken(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHasLimitClause(t *testing.T) {
	assert.True(t, hasLimitClause("SELECT * FROM user LIMIT 5"))
	assert.True(t, hasLimitClause("select * from user limit 1"))
	assert.False(t, hasLimitClause("SELECT * FROM user WHERE email = $email"))
	assert.False(t, hasLimitClause("SELECT * FROM unlimited_users"))
}

func TestRedactDBURL(t *testing.T) {
	assert.Equal(t, "ws://root:xxxxx@localhost:8000/rpc", redactDBURL("ws://root:secret@localhost:8000/rpc"))
	assert.Equal(t, "invalid-url", redactDBURL("://bad"))
}
