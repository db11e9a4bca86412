package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/middleware"
	"github.com/nfrund/authform/internal/view"
	"github.com/nfrund/authform/web/src/templates/layouts"
	"github.com/nfrund/authform/web/src/templates/pages"
)

const (
	forgotPasswordPath = "/forgot-password"
	resetLinkSent      = "If an account with that email exists, a password reset link has been sent."
)

// ResetRequester sends password reset links.
type ResetRequester interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

// PasswordHandler serves the forgot password page the auth form links to.
type PasswordHandler struct {
	resets ResetRequester
}

// NewPasswordHandler creates a new PasswordHandler.
func NewPasswordHandler(resets ResetRequester) *PasswordHandler {
	return &PasswordHandler{resets: resets}
}

// ForgotPasswordGet renders the reset request form.
func (h *PasswordHandler) ForgotPasswordGet(c echo.Context) error {
	page := layouts.Base("Forgot Password", view.GetFlashData(c), pages.ForgotPassword(pages.ForgotPasswordData{}))
	return view.Render(c, http.StatusOK, page)
}

// ForgotPasswordPost requests a reset link for the posted email.
func (h *PasswordHandler) ForgotPasswordPost(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		view.SetFlashError(c, "Please enter a valid email address.")
		return c.Redirect(http.StatusSeeOther, forgotPasswordPath)
	}
	if err := c.Validate(&req); err != nil {
		view.SetFlashError(c, "Please enter a valid email address.")
		return c.Redirect(http.StatusSeeOther, forgotPasswordPath)
	}

	if err := h.resets.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		// Report success regardless so the page cannot be used to probe accounts.
		middleware.FromContext(c.Request().Context()).Error("Failed to send password reset", "error", err)
	}

	view.SetFlashSuccess(c, resetLinkSent)
	return c.Redirect(http.StatusSeeOther, forgotPasswordPath)
}
