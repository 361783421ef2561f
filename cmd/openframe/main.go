package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/openframe"
	"github.com/dmitrymomot/openframe/middlewares"
	"github.com/dmitrymomot/openframe/pkg/config"
	"github.com/dmitrymomot/openframe/pkg/db"
	"github.com/dmitrymomot/openframe/pkg/logger"
	"github.com/dmitrymomot/openframe/pkg/redis"
	"github.com/dmitrymomot/openframe/pkg/session"
)

var defaults = map[string]string{
	"server.address":           ":8080",
	"server.coordinator":       "mutex",
	"server.concurrency":       "1",
	"server.read_timeout":      "15s",
	"server.send_timeout":      "10s",
	"server.shutdown_timeout":  "30s",
	"server.request_timeout":   "30s",
	"log.level":                "info",
	"log.format":               "json",
	"session.store":            "memory",
	"session.cookie":           openframe.DefaultSessionCookieName,
	"session.max_age":          "3600",
	"session.mint_ids":         "false",
	"session.janitor_schedule": "@every 10m",
}

func main() {
	configPath := flag.String("config", "openframe.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "openframe:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(
		config.WithDefaults(defaults),
		config.WithOptionalFile(configPath),
	)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Format: cfg.Get("log.format", logger.FormatJSON),
		Level:  cfg.Get("log.level", "info"),
		Sentry: logger.SentryConfig{
			DSN:         cfg.Get("sentry.dsn", ""),
			Environment: cfg.Get("sentry.environment", ""),
			Release:     cfg.Get("sentry.release", ""),
			MinLevel:    logger.ParseLevel(cfg.Get("sentry.min_level", "warn")),
		},
	})

	ctx := context.Background()

	b, err := buildBackend(ctx, cfg, log)
	if err != nil {
		return err
	}

	opts := []openframe.Option{
		openframe.WithConfig(cfg),
		openframe.WithLogger(log),
		openframe.WithCoordinator(coordinator(cfg)),
		openframe.WithReadTimeout(cfg.Duration("server.read_timeout", 15*time.Second)),
		openframe.WithSendTimeout(cfg.Duration("server.send_timeout", 10*time.Second)),
		openframe.WithMiddleware(
			middlewares.CORS(),
			middlewares.RequestID(),
			middlewares.Recover(middlewares.WithRecoverLogger(log)),
			middlewares.Timeout(cfg.Duration("server.request_timeout", 30*time.Second), middlewares.WithTimeoutLogger(log)),
		),
		openframe.WithErrorHandler(middlewares.ErrorHandler),
		openframe.WithHandlers(demo{}),
		openframe.WithHealthChecks(b.checks...),
		openframe.WithSession(sessionOptions(cfg)...),
	}
	if n := cfg.Int("server.max_request_bytes", 0); n > 0 {
		opts = append(opts, openframe.WithMaxRequestBytes(n))
	}
	if b.store != nil {
		opts = append(opts, openframe.WithSessionStore(b.store))
	}
	if b.dbInit != nil {
		opts = append(opts, openframe.WithDatabase(b.dbInit))
	}

	app := openframe.New(opts...)

	runOpts := []openframe.RunOption{
		openframe.ShutdownTimeout(cfg.Duration("server.shutdown_timeout", 30*time.Second)),
		// Migrations run before the listener opens.
		openframe.StartupHook(func(ctx context.Context) error {
			f, err := app.Start(ctx)
			if err != nil {
				return err
			}
			f.Terminate()
			return nil
		}),
	}
	if b.janitor != nil {
		runOpts = append(runOpts,
			openframe.StartupHook(b.janitor.Start),
			openframe.ShutdownHook(b.janitor.Stop),
		)
	}
	for _, hook := range b.shutdown {
		runOpts = append(runOpts, openframe.ShutdownHook(hook))
	}
	runOpts = append(runOpts, openframe.ShutdownHook(logger.FlushSentry(2*time.Second)))

	return app.Run(cfg.Get("server.address", ":8080"), runOpts...)
}

// backend is what the selected session store brings along.
type backend struct {
	store    session.Store
	janitor  *session.Janitor
	dbInit   func(context.Context) error
	checks   []openframe.HealthOption
	shutdown []func(context.Context) error
}

func buildBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backend, error) {
	b := &backend{}
	janitorOpts := []session.JanitorOption{
		session.WithJanitorSchedule(cfg.Get("session.janitor_schedule", "")),
		session.WithJanitorLogger(log),
	}

	switch kind := cfg.Get("session.store", "memory"); kind {
	case "none":
	case "memory":
		store := session.NewMemoryStore()
		b.store = store
		b.janitor = session.NewJanitor(store, janitorOpts...)

	case "redis":
		client, err := redis.Open(ctx, cfg.Get("redis.url", ""), redis.FromConfig(cfg)...)
		if err != nil {
			return nil, err
		}
		b.store = session.NewRedisStore(client, session.WithRedisPrefix(cfg.Get("redis.prefix", "")))
		b.checks = append(b.checks, openframe.WithReadinessCheck("redis", redis.Healthcheck(client)))
		b.shutdown = append(b.shutdown, redis.Shutdown(client))

	case "postgres":
		dbCfg := db.FromConfig(cfg)
		pool, err := db.Connect(ctx, dbCfg)
		if err != nil {
			return nil, err
		}
		store := session.NewPostgresStore(pool, session.WithPostgresTable(cfg.Get("session.table", "")))
		b.store = store
		b.janitor = session.NewJanitor(store, janitorOpts...)
		b.dbInit = db.Migrator(pool, dbCfg.MigrationsTable, log)
		b.checks = append(b.checks, openframe.WithReadinessCheck("postgres", db.Healthcheck(pool)))
		b.shutdown = append(b.shutdown, db.Shutdown(pool))

	default:
		return nil, fmt.Errorf("unknown session store %q", kind)
	}

	return b, nil
}

func coordinator(cfg *config.Config) openframe.Coordinator {
	switch cfg.Get("server.coordinator", "mutex") {
	case "queue":
		return openframe.NewQueueCoordinator()
	case "semaphore":
		return openframe.NewSemaphoreCoordinator(int64(cfg.Int("server.concurrency", 1)))
	case "noop":
		return openframe.NoopCoordinator()
	default:
		return openframe.NewMutexCoordinator()
	}
}

func sessionOptions(cfg *config.Config) []openframe.SessionOption {
	opts := []openframe.SessionOption{
		openframe.WithSessionCookieName(cfg.Get("session.cookie", openframe.DefaultSessionCookieName)),
		openframe.WithSessionMaxAge(cfg.Int("session.max_age", 3600)),
	}
	if cfg.Bool("session.mint_ids", false) {
		opts = append(opts, openframe.WithSessionIDGenerator(session.NewID))
	}
	return opts
}
