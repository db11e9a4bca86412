// Package authsvc adapts the user repository to the form's Authenticator
// contract and handles password reset requests.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/nfrund/authform/internal/authform"
	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/pubsub"
)

// Service implements authform.Authenticator.
type Service struct {
	users   domain.UserRepository
	emailer domain.EmailSender
	pub     pubsub.Publisher
	baseURL string
	now     func() time.Time
}

// New creates a Service. pub may be nil to disable attempt events.
func New(users domain.UserRepository, emailer domain.EmailSender, pub pubsub.Publisher, baseURL string) *Service {
	return &Service{
		users:   users,
		emailer: emailer,
		pub:     pub,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Authenticate signs the user in or up depending on the form mode.
// Credential and duplicate-email rejections are outcomes, not errors.
func (s *Service) Authenticate(ctx context.Context, creds authform.Credentials) (authform.Result, error) {
	var (
		res authform.Result
		err error
	)
	switch creds.Mode {
	case authform.ModeSignup:
		res, err = s.signUp(ctx, creds)
	default:
		res, err = s.signIn(ctx, creds)
	}
	if err != nil {
		return authform.Result{}, err
	}

	s.publishAttempt(ctx, creds, res.Outcome)
	return res, nil
}

func (s *Service) signIn(ctx context.Context, creds authform.Credentials) (authform.Result, error) {
	token, err := s.users.SignIn(ctx, &domain.User{Email: creds.Email}, creds.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		slog.WarnContext(ctx, "Failed login attempt", "email", creds.Email)
		return authform.Result{Outcome: authform.OutcomeLoginFail}, nil
	case err != nil:
		return authform.Result{}, fmt.Errorf("sign in: %w", err)
	}
	return authform.Result{Outcome: authform.OutcomeLoginOK, Token: token}, nil
}

func (s *Service) signUp(ctx context.Context, creds authform.Credentials) (authform.Result, error) {
	_, err := s.users.SignUp(ctx, &domain.User{Email: creds.Email}, creds.Password)
	switch {
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return authform.Result{Outcome: authform.OutcomeSignupFail}, nil
	case err != nil:
		return authform.Result{}, fmt.Errorf("sign up: %w", err)
	}
	// The signup token is not handed out; the user logs in explicitly.
	return authform.Result{Outcome: authform.OutcomeSignupOK}, nil
}

func (s *Service) publishAttempt(ctx context.Context, creds authform.Credentials, outcome authform.Outcome) {
	if s.pub == nil {
		return
	}
	ev := AttemptEvent{
		Email:   creds.Email,
		Mode:    creds.Mode.String(),
		Outcome: outcome.String(),
		At:      s.now().UTC(),
	}
	if err := Attempts.Publish(ctx, s.pub, creds.Email, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish auth attempt", "error", err)
	}
}

// RequestPasswordReset emails a reset link when the account exists. Unknown
// addresses are only logged so the caller cannot probe for accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	token, err := s.users.GenerateResetToken(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		slog.InfoContext(ctx, "Password reset requested for unknown email, hiding from user", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if s.emailer == nil {
		return nil
	}

	resetLink := s.baseURL + "/reset-password?token=" + url.QueryEscape(token)
	htmlBody := fmt.Sprintf(`<p>Click the link below to reset your password:</p><a href="%s">Reset Password</a>`, resetLink)
	if err := s.emailer.Send(ctx, email, "Reset Your Password", htmlBody); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
