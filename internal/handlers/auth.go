package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/authform"
	"github.com/nfrund/authform/internal/formstore"
	"github.com/nfrund/authform/internal/middleware"
	"github.com/nfrund/authform/internal/view"
	"github.com/nfrund/authform/web/src/templates/layouts"
	"github.com/nfrund/authform/web/src/templates/pages"
)

// AuthHandler feeds browser events to the auth form mounted for the
// session and renders the result.
type AuthHandler struct {
	forms *formstore.Registry
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(forms *formstore.Registry) *AuthHandler {
	return &AuthHandler{forms: forms}
}

// Show renders the auth page (GET /auth). A navigation the form requested
// but the browser never followed is honoured first.
func (h *AuthHandler) Show(c echo.Context) error {
	entry, err := sessionForm(c, h.forms)
	if err != nil {
		return err
	}
	snap := entry.Settle(c.Request().Context())
	if done, err := h.followNavigation(c, entry); done {
		return err
	}
	return h.renderPage(c, snap)
}

// EditField stores the posted email and password (POST /auth/field).
func (h *AuthHandler) EditField(c echo.Context) error {
	entry, err := sessionForm(c, h.forms)
	if err != nil {
		return err
	}
	if err := applyFields(c, entry.Form, keepStoredPassword); err != nil {
		return err
	}
	return view.Render(c, http.StatusOK, pages.AuthForm(entry.Form.Snapshot()))
}

// Toggle switches between login and signup (POST /auth/toggle).
func (h *AuthHandler) Toggle(c echo.Context) error {
	entry, err := sessionForm(c, h.forms)
	if err != nil {
		return err
	}
	if err := applyFields(c, entry.Form, keepStoredPassword); err != nil {
		return err
	}
	snap := entry.Form.ToggleMode()

	if !view.IsHTMX(c) {
		return c.Redirect(http.StatusSeeOther, "/auth")
	}
	return view.Render(c, http.StatusOK, pages.AuthForm(snap))
}

// Submit submits the form (POST /auth/submit). htmx requests get the
// submitting fragment back and poll Status; plain form posts wait for the
// outcome.
func (h *AuthHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	entry, err := sessionForm(c, h.forms)
	if err != nil {
		return err
	}
	if err := applyFields(c, entry.Form, postedPassword); err != nil {
		return err
	}

	pending, err := entry.Submit()
	switch {
	case errors.Is(err, authform.ErrValidation):
		logger.Debug("Auth form failed validation", "error", err)
	case errors.Is(err, authform.ErrSubmitInFlight):
		logger.Debug("Ignoring submit while a request is in flight")
	case err != nil:
		return err
	case !view.IsHTMX(c):
		if _, err := pending.Wait(ctx); err != nil {
			logger.Warn("Auth form submission did not finish", "error", err)
		}
	}

	snap := entry.Settle(ctx)
	if done, err := h.followNavigation(c, entry); done {
		return err
	}
	if view.IsHTMX(c) {
		return view.Render(c, http.StatusOK, pages.AuthForm(snap))
	}
	return h.renderPage(c, snap)
}

// Status renders the current fragment for the htmx poller
// (GET /auth/status).
func (h *AuthHandler) Status(c echo.Context) error {
	entry, err := sessionForm(c, h.forms)
	if err != nil {
		return err
	}
	snap := entry.Settle(c.Request().Context())
	if done, err := h.followNavigation(c, entry); done {
		return err
	}
	return view.Render(c, http.StatusOK, pages.AuthForm(snap))
}

// ForgotPassword asks the form to navigate to the reset request page
// (GET /auth/forgot).
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	entry, err := sessionForm(c, h.forms)
	if err != nil {
		return err
	}
	if err := entry.Form.ForgotPassword(); err != nil {
		return err
	}
	if done, err := h.followNavigation(c, entry); done {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/auth")
}

// followNavigation turns a route requested by the form into a redirect.
// A successful login leaves a session token behind, which becomes the auth
// cookie before the browser is sent to the main view.
func (h *AuthHandler) followNavigation(c echo.Context, entry *formstore.Entry) (bool, error) {
	route, ok := entry.Nav.Take()
	if !ok {
		return false, nil
	}
	if route == authform.RouteMain {
		if token := entry.Form.SessionToken(); token != "" {
			middleware.SetAuthCookie(c, token)
		}
		// The password has served its purpose once the login went through.
		entry.Form.SetPassword("")
	}
	return true, view.Redirect(c, route)
}

func (h *AuthHandler) renderPage(c echo.Context, snap authform.Snapshot) error {
	page := layouts.Base(snap.Mode.Heading(), view.GetFlashData(c), pages.AuthForm(snap))
	return view.Render(c, http.StatusOK, page)
}

// passwordPolicy decides what an empty posted password means. The page
// never echoes the password back, so after a re-render the input is blank
// even though the form still holds a value.
type passwordPolicy int

const (
	// postedPassword stores the posted value as is, empty included.
	postedPassword passwordPolicy = iota
	// keepStoredPassword ignores an empty posted password.
	keepStoredPassword
)

// applyFields copies the posted inputs onto the form.
func applyFields(c echo.Context, form *authform.Form, policy passwordPolicy) error {
	fields, err := bindAuthFields(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data").SetInternal(err)
	}
	if fields.Email != nil {
		form.SetEmail(*fields.Email)
	}
	if fields.Password != nil && (*fields.Password != "" || policy == postedPassword) {
		form.SetPassword(*fields.Password)
	}
	return nil
}

func bindAuthFields(c echo.Context) (authFields, error) {
	params, err := c.FormParams()
	if err != nil {
		return authFields{}, err
	}
	var fields authFields
	if v, ok := params[authform.FieldEmail]; ok && len(v) > 0 {
		fields.Email = &v[0]
	}
	if v, ok := params[authform.FieldPassword]; ok && len(v) > 0 {
		fields.Password = &v[0]
	}
	return fields, nil
}
