package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	e := echo.New()
	e.POST("/auth/submit", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RateLimiter(DefaultRateLimit))

	post := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/submit", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 1; i <= DefaultRateLimit; i++ {
		require.Equal(t, http.StatusNoContent, post("192.0.2.10:5000").Code, "submission %d", i)
	}

	denied := post("192.0.2.10:5001")
	assert.Equal(t, http.StatusTooManyRequests, denied.Code)
	assert.Contains(t, denied.Body.String(), "Too many requests")
	assert.Contains(t, buf.String(), "client=192.0.2.10")

	// Each client address has its own bucket.
	assert.Equal(t, http.StatusNoContent, post("198.51.100.7:5000").Code)
}
