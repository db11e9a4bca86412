package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/view"
	"github.com/stretchr/testify/assert"
	g "maragu.dev/gomponents"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

func setupTestContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	if req == nil {
		req = httptest.NewRequest(http.MethodGet, "/", nil)
	}
	rec := httptest.NewRecorder()

	store := sessions.NewCookieStore([]byte(testSessionSecret))
	sessionMiddleware := session.Middleware(store)

	// Run a no-op handler through the middleware so the session store is
	// attached to the context.
	var c echo.Context
	handler := func(ctx echo.Context) error { c = ctx; return nil }
	_ = sessionMiddleware(handler)(e.NewContext(req, rec))

	return c, rec
}

func TestFlashMessages(t *testing.T) {
	t.Run("Set and Get Success Flash", func(t *testing.T) {
		c, _ := setupTestContext(nil)

		view.SetFlashSuccess(c, "It worked!")

		flashes := view.GetFlashData(c)
		assert.Equal(t, []string{"It worked!"}, flashes.Success)
		assert.Empty(t, flashes.Error)

		flashesAfterRead := view.GetFlashData(c)
		assert.Empty(t, flashesAfterRead.Success, "Flashes should be cleared after being read")
	})

	t.Run("Set and Get Error Flash", func(t *testing.T) {
		c, _ := setupTestContext(nil)

		view.SetFlashError(c, "It failed!")

		flashes := view.GetFlashData(c)
		assert.Equal(t, []string{"It failed!"}, flashes.Error)
		assert.Empty(t, flashes.Success)
	})

	t.Run("GetFlashData with no flashes set", func(t *testing.T) {
		c, _ := setupTestContext(nil)

		flashes := view.GetFlashData(c)
		assert.Empty(t, flashes.Success)
		assert.Empty(t, flashes.Error)
	})
}

func TestRedirect(t *testing.T) {
	t.Run("plain request gets 303", func(t *testing.T) {
		c, rec := setupTestContext(nil)

		assert.NoError(t, view.Redirect(c, "/main"))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/main", rec.Header().Get("Location"))
	})

	t.Run("htmx request gets HX-Redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("HX-Request", "true")
		c, rec := setupTestContext(req)

		assert.NoError(t, view.Redirect(c, "/main"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/main", rec.Header().Get("HX-Redirect"))
	})
}

func TestRender(t *testing.T) {
	c, rec := setupTestContext(nil)

	assert.NoError(t, view.Render(c, http.StatusCreated, g.Text("hello")))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))
}
