package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/openframe/internal"
	"github.com/dmitrymomot/openframe/pkg/logger"
)

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// WithTimeoutLogger sets the logger timeouts are reported to.
func WithTimeoutLogger(l *slog.Logger) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// Timeout returns middleware that gives the handler a context deadline.
//
// The handler runs on the caller's goroutine, because the frame it writes
// into belongs to this request alone. It must watch ctx.Done() in long
// operations. When the deadline passed by the time it returns, the result
// is a TimeoutError for the ErrorHandler, whatever the handler returned.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := &TimeoutConfig{
		Timeout: timeout,
		Logger:  logger.NewNope(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(ctx context.Context) error {
			tctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()

			err := next(tctx)
			if errors.Is(tctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				cfg.Logger.WarnContext(ctx, "request timeout", slog.Duration("timeout", cfg.Timeout))
				return &TimeoutError{Duration: cfg.Timeout}
			}
			return err
		}
	}
}
