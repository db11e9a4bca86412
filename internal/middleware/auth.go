package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/domain"
)

const (
	// UserContextKey is where Auth stores the authenticated *domain.User.
	UserContextKey = "user"
	// AuthCookieName holds the session token issued on a successful login.
	AuthCookieName = "auth_token"

	loginPath = "/auth"
)

// Auth protects routes that require a logged in user. Requests without a
// valid auth cookie are sent back to the login form.
func Auth(sessions domain.SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}

			user, err := sessions.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil || user == nil {
				FromContext(c.Request().Context()).Debug("rejecting auth cookie", "error", err)
				ClearAuthCookie(c)
				return c.Redirect(http.StatusSeeOther, loginPath)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// SetAuthCookie stores the session token for later requests.
func SetAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the auth cookie.
func ClearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:   AuthCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// CurrentUser returns the user stored by Auth, if any.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserContextKey).(*domain.User)
	return user, ok
}
