package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/formstore"
	"github.com/nfrund/authform/internal/middleware"
	"github.com/nfrund/authform/internal/view"
	"github.com/nfrund/authform/web/src/templates/layouts"
	"github.com/nfrund/authform/web/src/templates/pages"
)

// MainHandler serves the view a successful login lands on.
type MainHandler struct {
	forms *formstore.Registry
}

// NewMainHandler creates a new MainHandler.
func NewMainHandler(forms *formstore.Registry) *MainHandler {
	return &MainHandler{forms: forms}
}

// Show renders the main page. It must run behind middleware.Auth.
func (h *MainHandler) Show(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/auth")
	}
	page := layouts.Base("Main", view.GetFlashData(c), pages.Main(user.Email))
	return view.Render(c, http.StatusOK, page)
}

// Logout clears the auth cookie and unmounts the session's form so the
// next visit starts from a fresh login form.
func (h *MainHandler) Logout(c echo.Context) error {
	middleware.ClearAuthCookie(c)
	if id := formID(c); id != "" {
		h.forms.Unmount(id)
	}
	view.SetFlashSuccess(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/auth")
}
