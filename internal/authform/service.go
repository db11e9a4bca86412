package authform

import "context"

// Credentials is what the form hands to the authentication service.
type Credentials struct {
	Email    string
	Password string
	Mode     Mode
}

// Outcome is the service's verdict on a submission.
type Outcome int

const (
	OutcomeLoginOK Outcome = iota + 1
	OutcomeLoginFail
	OutcomeSignupOK
	OutcomeSignupFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoginOK:
		return "login_ok"
	case OutcomeLoginFail:
		return "login_fail"
	case OutcomeSignupOK:
		return "signup_ok"
	case OutcomeSignupFail:
		return "signup_fail"
	default:
		return "unknown"
	}
}

// Result carries the outcome and, for a successful login, the session token.
type Result struct {
	Outcome Outcome
	Token   string
}

// Authenticator is the external service the form submits to. Rejections
// (bad credentials, duplicate email) are reported through Result.Outcome;
// a non-nil error means the service could not be reached or failed.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (Result, error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, creds Credentials) (Result, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, creds Credentials) (Result, error) {
	return f(ctx, creds)
}

// Navigator requests a route change. The form never owns the target views.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Listener is called with a fresh Snapshot after every transition.
type Listener func(Snapshot)
