// Package authform implements the login/signup form: its local state,
// validation, and the asynchronous submission lifecycle against an
// injected Authenticator.
package authform

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultTimeout = 10 * time.Second

// Option configures a Form.
type Option func(*Form)

// WithTimeout bounds each call to the Authenticator. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Form) { f.timeout = d }
}

// WithListener registers a listener before the form is mounted.
func WithListener(l Listener) Option {
	return func(f *Form) { f.listeners = append(f.listeners, l) }
}

// WithLogger sets the logger used for submission diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *Form) { f.logger = l }
}

// Form is one mounted instance of the authentication form. All methods are
// safe for concurrent use; at most one submission is in flight at a time.
type Form struct {
	auth      Authenticator
	nav       Navigator
	timeout   time.Duration
	logger    *slog.Logger
	listeners []Listener

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   formState
	version uint64
	seq     uint64
	token   string
	mounted bool
}

// New mounts a fresh form in login mode.
func New(auth Authenticator, nav Navigator, opts ...Option) *Form {
	ctx, cancel := context.WithCancel(context.Background())
	f := &Form{
		auth:    auth,
		nav:     nav,
		timeout: defaultTimeout,
		logger:  slog.Default(),
		ctx:     ctx,
		cancel:  cancel,
		state:   formState{mode: ModeLogin, status: StatusIdle},
		mounted: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Subscribe adds a listener. Listeners run synchronously on the goroutine
// that caused the transition, after the form's lock is released.
func (f *Form) Subscribe(l Listener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, l)
}

// Snapshot returns the current state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.snapshot(f.version)
}

// Mounted reports whether Unmount has not been called yet.
func (f *Form) Mounted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounted
}

// SessionToken returns the token from the most recent successful login.
func (f *Form) SessionToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// SetEmail stores the email field verbatim.
func (f *Form) SetEmail(v string) Snapshot {
	return f.mutate(func(s *formState) { s.email = v })
}

// SetPassword stores the password field verbatim.
func (f *Form) SetPassword(v string) Snapshot {
	return f.mutate(func(s *formState) { s.password = v })
}

// ToggleMode switches between login and signup. Entered fields survive;
// validation errors and the result message do not.
func (f *Form) ToggleMode() Snapshot {
	return f.mutate(func(s *formState) {
		s.mode = s.mode.Toggled()
		s.errors = nil
		s.resultMessage = ""
		f.token = ""
	})
}

// mutate applies fn under the lock and notifies listeners. Calls on an
// unmounted form are ignored.
func (f *Form) mutate(fn func(s *formState)) Snapshot {
	f.mu.Lock()
	if !f.mounted {
		snap := f.state.snapshot(f.version)
		f.mu.Unlock()
		return snap
	}
	fn(&f.state)
	f.version++
	snap := f.state.snapshot(f.version)
	listeners := f.listeners
	f.mu.Unlock()

	notify(listeners, snap)
	return snap
}

// Submit validates the current input and, if it is valid, sends it to the
// Authenticator in the background. The returned Pending completes after the
// response has been applied. Invalid input yields a *ValidationError and no
// service call; a second submit while one is pending yields ErrSubmitInFlight.
func (f *Form) Submit() (*Pending, error) {
	f.mu.Lock()
	if !f.mounted {
		f.mu.Unlock()
		return nil, ErrUnmounted
	}
	if f.state.status == StatusSubmitting {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}

	f.token = ""
	f.state.resultMessage = ""
	if errs := validateInput(f.state.email, f.state.password); errs != nil {
		f.state.errors = errs
		f.state.status = StatusIdle
		f.version++
		snap := f.state.snapshot(f.version)
		listeners := f.listeners
		f.mu.Unlock()

		notify(listeners, snap)
		return nil, &ValidationError{Fields: snap.Errors}
	}

	f.state.errors = nil
	f.state.status = StatusSubmitting
	f.version++
	f.seq++
	seq := f.seq
	creds := Credentials{Email: f.state.email, Password: f.state.password, Mode: f.state.mode}
	snap := f.state.snapshot(f.version)
	listeners := f.listeners
	f.mu.Unlock()

	notify(listeners, snap)

	p := newPending()
	go f.resolve(seq, creds, p)
	return p, nil
}

func (f *Form) resolve(seq uint64, creds Credentials, p *Pending) {
	ctx := f.ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	res, err := f.auth.Authenticate(ctx, creds)

	f.mu.Lock()
	if !f.mounted || seq != f.seq {
		f.mu.Unlock()
		f.logger.Debug("Discarding auth response for unmounted form", "mode", creds.Mode.String())
		p.discard()
		return
	}

	status, msg, navigate := f.interpret(creds, res, err)
	f.state.status = status
	f.state.resultMessage = msg
	if navigate {
		f.token = res.Token
	}
	f.version++
	snap := f.state.snapshot(f.version)
	listeners := f.listeners
	f.mu.Unlock()

	notify(listeners, snap)
	if navigate && f.nav != nil {
		f.nav.Navigate(RouteMain)
	}
	p.complete(snap)
}

// interpret maps a service response to the terminal status and message.
// Transport failures and outcomes that do not belong to the submitted mode
// are both rendered as a generic error.
func (f *Form) interpret(creds Credentials, res Result, err error) (Status, string, bool) {
	if err != nil {
		f.logger.Warn("Authentication service call failed", "mode", creds.Mode.String(), "error", err)
		return StatusError, MsgServiceUnavailable, false
	}

	switch {
	case creds.Mode == ModeLogin && res.Outcome == OutcomeLoginOK:
		return StatusSuccess, MsgLoginSuccessful, true
	case creds.Mode == ModeLogin && res.Outcome == OutcomeLoginFail:
		return StatusError, MsgInvalidCredentials, false
	case creds.Mode == ModeSignup && res.Outcome == OutcomeSignupOK:
		return StatusSuccess, MsgSignupSuccessful, false
	case creds.Mode == ModeSignup && res.Outcome == OutcomeSignupFail:
		return StatusError, MsgEmailRegistered, false
	}

	f.logger.Warn("Authentication service returned an unexpected outcome",
		"mode", creds.Mode.String(), "outcome", res.Outcome.String())
	return StatusError, MsgServiceUnavailable, false
}

// ForgotPassword requests navigation to the password reset view. The form
// state is left untouched.
func (f *Form) ForgotPassword() error {
	f.mu.Lock()
	mounted := f.mounted
	f.mu.Unlock()
	if !mounted {
		return ErrUnmounted
	}
	if f.nav != nil {
		f.nav.Navigate(RouteForgotPassword)
	}
	return nil
}

// Unmount releases the form. An in-flight request is cancelled and its
// response, if it still arrives, is discarded.
func (f *Form) Unmount() {
	f.mu.Lock()
	f.mounted = false
	f.listeners = nil
	f.mu.Unlock()
	f.cancel()
}

func notify(listeners []Listener, snap Snapshot) {
	for _, l := range listeners {
		l(snap)
	}
}
