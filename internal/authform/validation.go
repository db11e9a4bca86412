package authform

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation matches any *ValidationError.
	ErrValidation = errors.New("form input is invalid")
	// ErrSubmitInFlight is returned when Submit is called while a request is pending.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrUnmounted is returned by operations on a form that has been unmounted.
	ErrUnmounted = errors.New("form is unmounted")
)

// ValidationError lists the per-field messages produced by local validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type submission struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var requiredMessages = map[string]struct {
	field string
	msg   string
}{
	"Email":    {FieldEmail, MsgEmailRequired},
	"Password": {FieldPassword, MsgPasswordRequired},
}

// validateInput returns nil when the input may be sent to the service.
func validateInput(email, password string) map[string]string {
	err := validate.Struct(submission{Email: email, Password: password})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable if the struct above stops being a struct.
		panic(err)
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if m, ok := requiredMessages[fe.Field()]; ok {
			out[m.field] = m.msg
		}
	}
	return out
}
