package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/authform/internal/domain"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

type memoryUser struct {
	user         domain.User
	passwordHash []byte
}

type resetEntry struct {
	email   string
	expires time.Time
}

// MemoryUserStore is an in-process domain.UserRepository. Passwords are
// stored as bcrypt hashes; emails are compared case-insensitively.
type MemoryUserStore struct {
	mu       sync.RWMutex
	users    map[string]*memoryUser
	sessions map[string]string
	resets   map[string]resetEntry
	cost     int
	now      func() time.Time
}

// MemoryOption configures a MemoryUserStore.
type MemoryOption func(*MemoryUserStore)

// WithBcryptCost overrides bcrypt.DefaultCost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) MemoryOption {
	return func(s *MemoryUserStore) { s.cost = cost }
}

// WithClock overrides time.Now for reset token expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryUserStore) { s.now = now }
}

// NewMemoryUserStore creates an empty store.
func NewMemoryUserStore(opts ...MemoryOption) *MemoryUserStore {
	s := &MemoryUserStore{
		users:    make(map[string]*memoryUser),
		sessions: make(map[string]string),
		resets:   make(map[string]resetEntry),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp registers the user and returns a fresh session token.
func (s *MemoryUserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := normalizeEmail(user.Email)

	// Hash outside the lock; bcrypt is deliberately slow.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	token, err := generateSecureToken(sessionTokenBytes)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[key]; exists {
		return "", domain.ErrUserAlreadyExists
	}

	id := surrealmodels.NewRecordID("user", uuid.NewString())
	stored := &memoryUser{
		user:         domain.User{ID: &id, Email: user.Email},
		passwordHash: hash,
	}
	s.users[key] = stored
	s.sessions[token] = key
	user.ID = &id

	return token, nil
}

// SignIn verifies the password and returns a fresh session token.
func (s *MemoryUserStore) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := normalizeEmail(user.Email)

	s.mu.RLock()
	stored, ok := s.users[key]
	var hash []byte
	if ok {
		hash = stored.passwordHash
	}
	s.mu.RUnlock()

	if !ok {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := generateSecureToken(sessionTokenBytes)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.sessions[token] = key
	s.mu.Unlock()
	return token, nil
}

// Authenticate resolves a session token to its user.
func (s *MemoryUserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.sessions[token]
	if !ok || token == "" {
		return nil, domain.ErrInvalidCredentials
	}
	stored, ok := s.users[key]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	u := stored.user
	return &u, nil
}

// FindUserByEmail returns nil, nil when no account matches.
func (s *MemoryUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.users[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	u := stored.user
	return &u, nil
}

// GenerateResetToken issues a reset token valid for 24 hours.
func (s *MemoryUserStore) GenerateResetToken(ctx context.Context, email string) (string, error) {
	key := normalizeEmail(email)
	token, err := generateSecureToken(resetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	expires := s.now().UTC().Add(resetTokenTTL)
	s.resets[token] = resetEntry{email: key, expires: expires}

	exp := expires.Format(time.RFC3339)
	stored.user.ResetToken = &token
	stored.user.ResetTokenExpires = &exp
	return token, nil
}
