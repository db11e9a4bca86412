package authform

// Mode selects whether the form presents the login or the signup flow.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// String returns the lower-case mode name, which is also the submit label.
func (m Mode) String() string {
	if m == ModeSignup {
		return "signup"
	}
	return "login"
}

// Heading is the title shown above the form.
func (m Mode) Heading() string {
	if m == ModeSignup {
		return "SignUp"
	}
	return "Login"
}

// Toggled returns the other mode.
func (m Mode) Toggled() Mode {
	if m == ModeSignup {
		return ModeLogin
	}
	return ModeSignup
}

// ParseMode maps "login"/"signup" back to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "login":
		return ModeLogin, true
	case "signup":
		return ModeSignup, true
	}
	return ModeLogin, false
}

// Status tracks where the form is in the submission lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Field names used as keys in Snapshot.Errors.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// User-facing text.
const (
	MsgEmailRequired      = "Email is required"
	MsgPasswordRequired   = "Password is required"
	MsgLoginSuccessful    = "Login successful"
	MsgInvalidCredentials = "Invalid credentials"
	MsgSignupSuccessful   = "Signup successful"
	MsgEmailRegistered    = "Email already registered"
	MsgServiceUnavailable = "Something went wrong. Please try again."

	LabelSubmitting   = "sending Req"
	LabelToggleLogin  = "New User?"
	LabelToggleSignup = "Already have an account?"
)

// Navigation targets requested by the form.
const (
	RouteMain           = "/main"
	RouteForgotPassword = "/forgot-password"
)

type formState struct {
	mode          Mode
	email         string
	password      string
	status        Status
	errors        map[string]string
	resultMessage string
}

// Snapshot is an immutable copy of the form state, handed to views and
// listeners. Version increases by one on every transition.
type Snapshot struct {
	Version       uint64
	Mode          Mode
	Email         string
	Password      string
	Status        Status
	Errors        map[string]string
	ResultMessage string
}

func (s *formState) snapshot(version uint64) Snapshot {
	var errs map[string]string
	if len(s.errors) > 0 {
		errs = make(map[string]string, len(s.errors))
		for k, v := range s.errors {
			errs[k] = v
		}
	}
	return Snapshot{
		Version:       version,
		Mode:          s.mode,
		Email:         s.email,
		Password:      s.password,
		Status:        s.status,
		Errors:        errs,
		ResultMessage: s.resultMessage,
	}
}

// Submitting reports whether a request is in flight.
func (s Snapshot) Submitting() bool { return s.Status == StatusSubmitting }

// SubmitLabel is the text of the submit control.
func (s Snapshot) SubmitLabel() string {
	if s.Submitting() {
		return LabelSubmitting
	}
	return s.Mode.String()
}

// ToggleLabel is the text of the control that switches modes.
func (s Snapshot) ToggleLabel() string {
	if s.Mode == ModeSignup {
		return LabelToggleSignup
	}
	return LabelToggleLogin
}

// FieldError returns the validation message for a field, if any.
func (s Snapshot) FieldError(field string) string {
	return s.Errors[field]
}
