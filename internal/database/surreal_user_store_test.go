package database_test

import (
	"context"
	"testing"

	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/database"
	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go"
)

// setupSurrealStore connects to the database configured in .env.test and
// skips the test when none is configured.
func setupSurrealStore(t *testing.T) (*database.SurrealUserStore, *surrealdb.DB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := testutils.ConfigForTests(t)
	if cfg.GetDBDriver() != config.DriverSurreal {
		t.Skip("DB_DRIVER is not surreal; skipping SurrealDB integration test")
	}

	ctx := context.Background()
	db, err := database.NewDB(ctx, cfg)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(func() { db.Close(context.Background()) })

	dial := func(ctx context.Context) (*surrealdb.DB, error) { return database.Dial(ctx, cfg) }
	return database.NewSurrealUserStore(db, cfg.GetDBNs(), cfg.GetDBDb(), dial), db
}

func TestSurrealUserStore(t *testing.T) {
	store, db := setupSurrealStore(t)
	ctx := context.Background()

	const testEmail = "surreal-store-test@example.com"
	t.Cleanup(func() {
		_, _ = database.Query[domain.User](context.Background(), db, "DELETE user WHERE email = $email", map[string]any{"email": testEmail})
	})

	_, err := store.SignUp(ctx, &domain.User{Email: testEmail}, "password123")
	require.NoError(t, err)

	t.Run("duplicate sign up is rejected", func(t *testing.T) {
		_, err := store.SignUp(ctx, &domain.User{Email: testEmail}, "password123")
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("sign in and authenticate", func(t *testing.T) {
		token, err := store.SignIn(ctx, &domain.User{Email: testEmail}, "password123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		user, err := store.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, testEmail, user.Email)
		assert.Empty(t, user.Password)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := store.SignIn(ctx, &domain.User{Email: testEmail}, "wrongpassword")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("root connection still sees every user", func(t *testing.T) {
		user, err := store.FindUserByEmail(ctx, testEmail)
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, testEmail, user.Email)
	})

	t.Run("reset token", func(t *testing.T) {
		token, err := store.GenerateResetToken(ctx, testEmail)
		require.NoError(t, err)
		assert.Len(t, token, 64)

		_, err = store.GenerateResetToken(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
