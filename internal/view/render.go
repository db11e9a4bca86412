package view

import (
	"net/http"

	"github.com/labstack/echo/v4"
	g "maragu.dev/gomponents"
)

// Render writes a gomponents node as an HTML response. Pages carry form
// state and flashes, so they are never stored by the browser or proxies.
func Render(c echo.Context, status int, node g.Node) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	c.Response().WriteHeader(status)
	return node.Render(c.Response().Writer)
}

// IsHTMX reports whether the request was issued by htmx.
func IsHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// Redirect sends the browser to path. htmx requests get an HX-Redirect
// header so the whole page navigates instead of swapping a fragment.
func Redirect(c echo.Context, path string) error {
	if IsHTMX(c) {
		c.Response().Header().Set("HX-Redirect", path)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, path)
}
