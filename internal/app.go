package internal

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/openframe/pkg/config"
	"github.com/dmitrymomot/openframe/pkg/health"
	"github.com/dmitrymomot/openframe/pkg/httpmsg"
	"github.com/dmitrymomot/openframe/pkg/logger"
	"github.com/dmitrymomot/openframe/pkg/session"
)

// Transport defaults.
const (
	defaultReadTimeout     = 15 * time.Second
	defaultMaxRequestBytes = 1<<20 + 64<<10 // body limit plus headers
	defaultShutdownTimeout = 30 * time.Second
)

// App is the dispatch core: it owns the collaborators every frame shares
// and runs requests on frames. It is immutable after New.
type App struct {
	config      *config.Config
	logger      *slog.Logger
	parser      httpmsg.Parser
	newRequest  func() (*httpmsg.Request, error)
	coordinator Coordinator
	resolver    Resolver
	sessions    *SessionManager
	sender      *Sender
	dbInit      func(context.Context) error
	dbErr       error

	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	middlewares             []Middleware
	handlers                []Handler
	sessionOpts             []SessionOption
	sessionStore            session.Store

	sendTimeout     time.Duration
	readTimeout     time.Duration
	maxRequestBytes int

	dbOnce sync.Once
}

// New creates an App.
//
//	app := openframe.New(
//		openframe.WithConfig(cfg),
//		openframe.WithLogger(log),
//		openframe.WithHandlers(pages.New()),
//	)
func New(opts ...Option) *App {
	a := &App{
		config:          config.New(nil),
		logger:          logger.NewNope(),
		parser:          httpmsg.NewParser(),
		newRequest:      func() (*httpmsg.Request, error) { return httpmsg.NewRequest(), nil },
		coordinator:     NewMutexCoordinator(),
		router:          chi.NewRouter(),
		readTimeout:     defaultReadTimeout,
		maxRequestBytes: defaultMaxRequestBytes,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.sessions = NewSessionManager(a.sessionStore, a.sessionOpts...)
	a.sessions.SetLogger(a.logger)
	a.sender = NewSender(a.logger, a.sendTimeout)

	if a.resolver == nil {
		a.setupRoutes()
		a.resolver = &chiResolver{mux: a.router, logger: a.logger}
	}
	return a
}

// Start creates a frame for the calling worker. The first call runs the
// database initializer; its failure is returned by that and every later call.
func (a *App) Start(ctx context.Context) (*Frame, error) {
	a.dbOnce.Do(func() {
		if a.dbInit != nil {
			if err := a.dbInit(ctx); err != nil {
				a.dbErr = errors.Join(ErrDatabaseInit, err)
			}
		}
	})
	if a.dbErr != nil {
		return nil, a.dbErr
	}
	return newFrame(a.config), nil
}

// MustStart is Start that logs and exits the process on failure.
func (a *App) MustStart(ctx context.Context) *Frame {
	f, err := a.Start(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "frame start failed", slog.Any("error", err))
		os.Exit(1)
	}
	return f
}

// Config returns the shared configuration.
func (a *App) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Sessions returns the session manager.
func (a *App) Sessions() *SessionManager { return a.sessions }

// Router returns the chi mux behind the default resolver.
func (a *App) Router() chi.Router { return a.router }

func (a *App) setupRoutes() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.adaptHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.adaptHandler(a.methodNotAllowedHandler))
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks,
			health.WithLogger(a.logger),
		))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets the liveness path. Default: "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets the readiness path. Default: "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
//
//	openframe.WithReadinessCheck("postgres", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}

