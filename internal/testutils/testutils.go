package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/database"
	"github.com/nfrund/authform/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// testDefaults fill in whatever .env.test and the environment leave unset.
var testDefaults = map[string]string{
	"SESSION_SECRET": "a-very-secret-key-for-testing-!",
	"DB_DRIVER":      config.DriverMemory,
	"EMAIL_PROVIDER": "log",
	"EMAIL_SENDER":   "noreply@example.com",
}

// ConfigForTests applies the project's .env.test, if there is one, and
// returns the resulting config.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	if root, ok := projectRoot(); ok {
		env, err := godotenv.Read(filepath.Join(root, ".env.test"))
		if err == nil {
			for key, value := range env {
				t.Setenv(key, value)
			}
		}
	}
	for key, value := range testDefaults {
		if os.Getenv(key) == "" {
			t.Setenv(key, value)
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}
	return cfg
}

// projectRoot walks up from the working directory to the go.mod.
func projectRoot() (string, bool) {
	path, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, true
		}
		if path == filepath.Dir(path) {
			return "", false
		}
		path = filepath.Dir(path)
	}
}

// TestUser is an account to seed before a test runs.
type TestUser struct {
	Email    string
	Password string
}

// NewUserStore returns an in-memory store holding users. Hashing uses the
// minimum bcrypt cost to keep tests fast.
func NewUserStore(t *testing.T, users ...TestUser) *database.MemoryUserStore {
	t.Helper()

	store := database.NewMemoryUserStore(database.WithBcryptCost(bcrypt.MinCost))
	for _, u := range users {
		if _, err := store.SignUp(context.Background(), &domain.User{Email: u.Email}, u.Password); err != nil {
			t.Fatalf("seed user %s: %v", u.Email, err)
		}
	}
	return store
}
