package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	appmiddleware "github.com/nfrund/authform/internal/middleware"
)

// setupErrorHandling logs errors that no handler turned into an HTTP error,
// with a stack trace, before echo writes the response.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		logger := appmiddleware.FromContext(c.Request().Context())

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code >= http.StatusInternalServerError {
				logger.Error("HTTP error", "status", he.Code, "error", err)
			}
		} else {
			logger.Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"stack_trace", string(debug.Stack()),
			)
		}

		e.DefaultHTTPErrorHandler(err, c)
	}
}
