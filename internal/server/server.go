package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/authform/internal/authform"
	"github.com/nfrund/authform/internal/authsvc"
	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/database"
	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/email"
	"github.com/nfrund/authform/internal/formstore"
	"github.com/nfrund/authform/internal/handlers"
	appmiddleware "github.com/nfrund/authform/internal/middleware"
	"github.com/nfrund/authform/internal/pubsub"
	"github.com/nfrund/authform/web"
	"github.com/samber/do/v2"
	"github.com/surrealdb/surrealdb.go"
	"go.opentelemetry.io/otel/trace"
)

// sweepInterval is how often idle forms are looked for.
const sweepInterval = time.Minute

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	Cfg config.Provider

	injector *do.RootScope
	users    domain.UserRepository
	forms    *formstore.Registry
	bus      *pubsub.WatermillBridge
	db       *surrealdb.DB

	ctx    context.Context
	cancel context.CancelFunc
}

// New wires every service from cfg and returns a server with its routes
// registered. Background workers run until Shutdown.
func New(ctx context.Context, cfg config.Provider) (*Server, error) {
	injector := NewInjector(cfg)

	users, err := do.Invoke[domain.UserRepository](injector)
	if err != nil {
		return nil, fmt.Errorf("user store: %w", err)
	}
	forms, err := do.Invoke[*formstore.Registry](injector)
	if err != nil {
		return nil, fmt.Errorf("form registry: %w", err)
	}
	bus, err := do.Invoke[*pubsub.WatermillBridge](injector)
	if err != nil {
		return nil, fmt.Errorf("message bus: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &Server{
		E:        echo.New(),
		Cfg:      cfg,
		injector: injector,
		users:    users,
		forms:    forms,
		bus:      bus,
		ctx:      runCtx,
		cancel:   cancel,
	}
	if cfg.GetDBDriver() == config.DriverSurreal {
		s.db = do.MustInvoke[*surrealdb.DB](injector)
	}

	if err := authsvc.StartAudit(runCtx, bus, slog.Default()); err != nil {
		cancel()
		return nil, fmt.Errorf("start auth audit: %w", err)
	}
	go forms.Run(runCtx, sweepInterval, cfg.GetFormIdleTimeout())

	s.setupMiddleware()
	setupErrorHandling(s.E)
	s.RegisterRoutes()
	return s, nil
}

// NewInjector registers the application's services. Each one is built on
// first use.
func NewInjector(cfg config.Provider) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.Provide(injector, provideDB)
	do.Provide(injector, provideUserStore)
	do.Provide(injector, provideEmailer)
	do.Provide(injector, provideTracing)
	do.Provide(injector, provideBus)
	do.Provide(injector, provideAuthService)
	do.Provide(injector, provideFormRegistry)

	return injector
}

func provideDB(i do.Injector) (*surrealdb.DB, error) {
	cfg := do.MustInvoke[config.Provider](i)
	return database.NewDB(context.Background(), cfg)
}

func provideUserStore(i do.Injector) (domain.UserRepository, error) {
	cfg := do.MustInvoke[config.Provider](i)
	if cfg.GetDBDriver() != config.DriverSurreal {
		slog.Warn("Using in-memory user store; accounts are lost on restart")
		return database.NewMemoryUserStore(), nil
	}

	db, err := do.Invoke[*surrealdb.DB](i)
	if err != nil {
		return nil, err
	}
	dial := func(ctx context.Context) (*surrealdb.DB, error) {
		return database.Dial(ctx, cfg)
	}
	return database.NewSurrealUserStore(db, cfg.GetDBNs(), cfg.GetDBDb(), dial), nil
}

func provideEmailer(i do.Injector) (domain.EmailSender, error) {
	return email.NewEmailService(do.MustInvoke[config.Provider](i))
}

// busTracing owns the tracer used on the message bus. The injector calls
// Shutdown to flush buffered spans.
type busTracing struct {
	tracer   trace.Tracer
	shutdown func(context.Context) error
}

func (t *busTracing) Shutdown(ctx context.Context) error {
	return t.shutdown(ctx)
}

func provideTracing(i do.Injector) (*busTracing, error) {
	cfg := do.MustInvoke[config.Provider](i)
	tracer, shutdown, err := pubsub.SetupTracing(context.Background(), pubsub.TracingConfig{
		Enabled:     cfg.GetTracingEnabled(),
		ServiceName: cfg.GetTracingServiceName(),
		ZipkinURL:   cfg.GetTracingZipkinURL(),
	})
	if err != nil {
		return nil, err
	}
	if cfg.GetTracingEnabled() {
		slog.Info("Tracing auth events", "zipkin_url", cfg.GetTracingZipkinURL())
	}
	return &busTracing{tracer: tracer, shutdown: shutdown}, nil
}

func provideBus(i do.Injector) (*pubsub.WatermillBridge, error) {
	tracing, err := do.Invoke[*busTracing](i)
	if err != nil {
		return nil, err
	}
	return pubsub.NewWatermillBridge(pubsub.WithTracer(tracing.tracer)), nil
}

func provideAuthService(i do.Injector) (*authsvc.Service, error) {
	cfg := do.MustInvoke[config.Provider](i)
	users, err := do.Invoke[domain.UserRepository](i)
	if err != nil {
		return nil, err
	}
	emailer, err := do.Invoke[domain.EmailSender](i)
	if err != nil {
		return nil, err
	}
	bus := do.MustInvoke[*pubsub.WatermillBridge](i)
	return authsvc.New(users, emailer, bus, cfg.GetAppBaseURL()), nil
}

func provideFormRegistry(i do.Injector) (*formstore.Registry, error) {
	cfg := do.MustInvoke[config.Provider](i)
	svc, err := do.Invoke[*authsvc.Service](i)
	if err != nil {
		return nil, err
	}
	return formstore.NewRegistry(func(nav authform.Navigator) *authform.Form {
		return authform.New(svc, nav,
			authform.WithTimeout(cfg.GetAuthTimeout()),
			authform.WithLogger(slog.Default().With("component", "authform")),
		)
	}), nil
}

func (s *Server) setupMiddleware() {
	s.E.HideBanner = true
	s.E.Validator = handlers.NewValidator()

	s.E.Use(middleware.RequestID())
	s.E.Use(appmiddleware.Logger)
	s.E.Use(appmiddleware.Metrics)
	s.E.Use(middleware.Recover())

	store := sessions.NewCookieStore([]byte(s.Cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	s.E.Use(session.Middleware(store))

	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
}

// UserStore is a getter for the server's user store, useful for testing.
func (s *Server) UserStore() domain.UserRepository {
	return s.users
}

// Forms exposes the mounted form registry, useful for testing.
func (s *Server) Forms() *formstore.Registry {
	return s.forms
}
