package internal

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/openframe/pkg/config"
	"github.com/dmitrymomot/openframe/pkg/httpmsg"
	"github.com/dmitrymomot/openframe/pkg/logger"
	"github.com/dmitrymomot/openframe/pkg/session"
)

// Option configures the App.
type Option func(*App)

// WithConfig shares cfg read-only with every frame.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		if cfg != nil {
			a.config = cfg
		}
	}
}

// WithLogger sets the logger used by every component. The request and frame
// id extractors are added to it.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = slog.New(logger.NewContextHandler(l.Handler(), RequestIDExtractor(), FrameIDExtractor()))
		}
	}
}

// WithCustomLogger sets the logger as is.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithHandlers registers route declarations.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithMiddleware adds global middleware, first listed runs first.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithErrorHandler sets the handler for errors returned by routes.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets the handler for unmatched paths.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets the handler for matched paths with an
// unregistered method.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks mounts liveness and readiness endpoints.
//
//	openframe.WithHealthChecks(
//		openframe.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithResolver replaces the chi-based router. Handlers, middleware and
// health options are ignored when set.
func WithResolver(r Resolver) Option {
	return func(a *App) {
		a.resolver = r
	}
}

// WithParser replaces the HTTP/1.x parser.
func WithParser(p httpmsg.Parser) Option {
	return func(a *App) {
		if p != nil {
			a.parser = p
		}
	}
}

// WithRequestFactory replaces the request allocator. A failing factory
// answers 500 without parsing.
func WithRequestFactory(fn func() (*httpmsg.Request, error)) Option {
	return func(a *App) {
		if fn != nil {
			a.newRequest = fn
		}
	}
}

// WithCoordinator replaces the process-wide mutex around route resolution.
func WithCoordinator(c Coordinator) Option {
	return func(a *App) {
		if c != nil {
			a.coordinator = c
		}
	}
}

// WithSessionStore persists session values in store.
func WithSessionStore(store session.Store) Option {
	return func(a *App) {
		a.sessionStore = store
	}
}

// WithSession configures the session manager.
func WithSession(opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionOpts = append(a.sessionOpts, opts...)
	}
}

// WithDatabase sets the initializer run once per process by the first Start,
// typically db.Migrator.
func WithDatabase(init func(context.Context) error) Option {
	return func(a *App) {
		a.dbInit = init
	}
}

// WithSendTimeout sets a write deadline for responses.
func WithSendTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.sendTimeout = d
		}
	}
}

// WithReadTimeout bounds reading one request from a connection.
// Default: 15 seconds.
func WithReadTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.readTimeout = d
		}
	}
}

// WithMaxRequestBytes caps the bytes read from a connection for one request.
// Default: 1MB plus 64KB.
func WithMaxRequestBytes(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.maxRequestBytes = n
		}
	}
}
