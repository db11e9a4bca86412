package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/authform/internal/authsvc"
	"github.com/nfrund/authform/internal/handlers"
	"github.com/nfrund/authform/internal/middleware"
	"github.com/nfrund/authform/web/src/templates/pages"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do/v2"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	authHandler := handlers.NewAuthHandler(s.forms)
	passwordHandler := handlers.NewPasswordHandler(do.MustInvoke[*authsvc.Service](s.injector))
	mainHandler := handlers.NewMainHandler(s.forms)
	rateLimiter := middleware.RateLimiter(middleware.DefaultRateLimit)

	s.E.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/auth")
	})

	s.E.GET("/auth", authHandler.Show)
	s.E.POST(pages.AuthFieldPath, authHandler.EditField)
	s.E.POST(pages.AuthTogglePath, authHandler.Toggle)
	s.E.POST(pages.AuthSubmitPath, authHandler.Submit, rateLimiter)
	s.E.GET(pages.AuthStatusPath, authHandler.Status)
	s.E.GET(pages.AuthForgotPath, authHandler.ForgotPassword)

	s.E.GET("/forgot-password", passwordHandler.ForgotPasswordGet)
	s.E.POST("/forgot-password", passwordHandler.ForgotPasswordPost, rateLimiter)

	s.E.GET("/main", mainHandler.Show, middleware.Auth(s.users))
	s.E.GET("/logout", mainHandler.Logout)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	s.E.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
