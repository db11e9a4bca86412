package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nfrund/authform/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// accessMethod is the DEFINE ACCESS ... TYPE RECORD name used for accounts.
const accessMethod = "account"

// SurrealUserStore implements domain.UserRepository on SurrealDB record
// access. The root connection handles queries. Record sign up, sign in and
// token checks run on short-lived connections so the root session is never
// re-authenticated as a user.
type SurrealUserStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
	dial   func(ctx context.Context) (*surrealdb.DB, error)
}

// NewSurrealUserStore creates a store. dial opens an unauthenticated
// connection to the same namespace and database.
func NewSurrealUserStore(db *surrealdb.DB, ns, dbName string, dial func(ctx context.Context) (*surrealdb.DB, error)) *SurrealUserStore {
	return &SurrealUserStore{db: db, ns: ns, dbName: dbName, dial: dial}
}

func (s *SurrealUserStore) accessData(email, password string) map[string]any {
	return map[string]any{
		"ns":       s.ns,
		"db":       s.dbName,
		"ac":       accessMethod,
		"email":    email,
		"password": password,
	}
}

// withRecordConn runs fn on a fresh unauthenticated connection.
func (s *SurrealUserStore) withRecordConn(ctx context.Context, op string, fn func(conn *surrealdb.DB) error) error {
	if s.dial == nil {
		return NewDBError(ErrNotConnected, op+": no dialer configured")
	}
	conn, err := s.dial(ctx)
	if err != nil {
		return NewDBError(err, op+": dial")
	}
	defer conn.Close(ctx)
	return fn(conn)
}

// SignUp runs the access method's SIGNUP clause.
func (s *SurrealUserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	var token string
	err := s.withRecordConn(ctx, "sign up", func(conn *surrealdb.DB) error {
		var err error
		token, err = conn.SignUp(ctx, s.accessData(user.Email, password))
		return err
	})
	if err != nil {
		var dbErr *DBError
		if errors.As(err, &dbErr) {
			return "", err
		}
		msg := err.Error()
		if strings.Contains(msg, "already exists") || strings.Contains(msg, "signup query failed") {
			return "", domain.ErrUserAlreadyExists
		}
		return "", NewDBError(err, "sign up")
	}

	created, err := s.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user after sign-up: %w", err)
	}
	if created != nil {
		user.ID = created.ID
	}
	return token, nil
}

// SignIn runs the access method's SIGNIN clause. Anything other than a
// connection failure is reported as invalid credentials.
func (s *SurrealUserStore) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	var token string
	err := s.withRecordConn(ctx, "sign in", func(conn *surrealdb.DB) error {
		var err error
		token, err = conn.SignIn(ctx, s.accessData(user.Email, password))
		return err
	})
	if err != nil {
		var dbErr *DBError
		if errors.As(err, &dbErr) {
			return "", err
		}
		if isConnectionError(err) {
			return "", NewDBError(err, "sign in")
		}
		return "", domain.ErrInvalidCredentials
	}
	return token, nil
}

// Authenticate validates a record access token and loads its user.
func (s *SurrealUserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	var user *domain.User
	err := s.withRecordConn(ctx, "authenticate", func(conn *surrealdb.DB) error {
		if err := conn.Authenticate(ctx, token); err != nil {
			return domain.ErrInvalidCredentials
		}
		var err error
		user, err = QueryOne[domain.User](ctx, conn, "SELECT * FROM $auth", nil)
		if err != nil {
			return fmt.Errorf("failed to get authenticated user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID == nil {
		return nil, domain.ErrInvalidCredentials
	}
	user.Password = ""
	return user, nil
}

// FindUserByEmail returns nil, nil when no account matches.
func (s *SurrealUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := QueryOne[domain.User](ctx, s.db, "SELECT * FROM user WHERE email = $email", map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if user != nil {
		user.Password = ""
	}
	return user, nil
}

// GenerateResetToken sets a reset token on the user in one UPDATE.
func (s *SurrealUserStore) GenerateResetToken(ctx context.Context, email string) (string, error) {
	token, err := generateSecureToken(resetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	query := `UPDATE user SET resetToken = $reset_token, resetTokenExpires = $expires WHERE email = $email RETURN AFTER`
	params := map[string]any{
		"email":       email,
		"reset_token": token,
		"expires":     time.Now().UTC().Add(resetTokenTTL).Format(time.RFC3339),
	}

	updated, err := QueryOne[domain.User](ctx, s.db, query, params)
	if err != nil {
		return "", fmt.Errorf("failed to update user with reset token: %w", err)
	}
	if updated == nil {
		return "", domain.ErrNotFound
	}
	return token, nil
}
