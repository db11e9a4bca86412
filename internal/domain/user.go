package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// User is an account as stored by a UserRepository. Password holds the
// hash and is never sent back to a browser.
type User struct {
	ID                *surrealmodels.RecordID `json:"id,omitempty"`
	Email             string                  `json:"email"`
	Password          string                  `json:"password,omitempty"`
	ResetToken        *string                 `json:"resetToken,omitempty"`
	ResetTokenExpires *string                 `json:"resetTokenExpires,omitempty"`
}

// AccountStore registers accounts and checks credentials. Both calls
// return a session token.
type AccountStore interface {
	// SignUp returns ErrUserAlreadyExists when the email is taken.
	SignUp(ctx context.Context, user *User, password string) (string, error)
	// SignIn returns ErrInvalidCredentials when the pair does not match.
	SignIn(ctx context.Context, user *User, password string) (string, error)
}

// SessionResolver maps a session token back to its account.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*User, error)
}

// ResetTokenIssuer backs the forgot-password flow.
type ResetTokenIssuer interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	// GenerateResetToken returns ErrNotFound for unknown emails.
	GenerateResetToken(ctx context.Context, email string) (string, error)
}

// UserRepository is everything the application needs from account storage.
type UserRepository interface {
	AccountStore
	SessionResolver
	ResetTokenIssuer
}
