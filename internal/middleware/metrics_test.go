package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	e := echo.New()
	e.Use(Metrics)
	e.GET("/users/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/broken", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})

	ok := httpRequests.WithLabelValues("/users/:id", http.MethodGet, "204")
	failed := httpRequests.WithLabelValues("/broken", http.MethodGet, "418")
	okBefore := testutil.ToFloat64(ok)
	failedBefore := testutil.ToFloat64(failed)

	for _, path := range []string{"/users/1", "/users/2", "/broken"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(ok), "requests are grouped by route pattern")
	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}
