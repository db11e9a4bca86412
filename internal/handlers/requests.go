package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ForgotPasswordRequest is the body of POST /forgot-password.
type ForgotPasswordRequest struct {
	Email string `form:"email" validate:"required,email"`
}

// authFields are the inputs the auth form posts with every event. A nil
// field was not part of the request and leaves the form value untouched.
type authFields struct {
	Email    *string
	Password *string
}
