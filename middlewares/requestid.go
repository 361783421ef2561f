package middlewares

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/openframe/internal"
)

// DefaultRequestIDHeaders are the headers checked (in order) for an existing request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Generator      func() string // Used when no inbound header and no dispatcher ID exist
	ResponseHeader string        // Response header name
	Headers        []string      // Headers to check for existing ID (in order)
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders sets the headers to check for existing request IDs.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		if gen != nil {
			cfg.Generator = gen
		}
	}
}

// WithRequestIDResponseHeader sets the response header name. An empty name
// disables the response header.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID returns middleware that propagates a request ID.
// An inbound header wins over the ID the dispatcher assigned, so upstream
// tracing IDs reach the logs. The resolved ID is echoed as a response header.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      uuid.NewString,
		ResponseHeader: "X-Request-ID",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(ctx context.Context) error {
			req, err := internal.Request(ctx)
			if err != nil {
				return err
			}

			var reqID string
			for _, header := range cfg.Headers {
				if v := req.Header.Get(header); v != "" {
					reqID = v
					break
				}
			}
			if reqID == "" {
				reqID = internal.RequestIDFromContext(ctx)
			}
			if reqID == "" {
				reqID = cfg.Generator()
			}

			ctx = internal.WithRequestID(ctx, reqID)
			if cfg.ResponseHeader != "" {
				if err := internal.SetResponseHeader(ctx, cfg.ResponseHeader, reqID); err != nil {
					return err
				}
			}

			return next(ctx)
		}
	}
}

// GetRequestID returns the request ID bound to ctx, or an empty string.
func GetRequestID(ctx context.Context) string {
	return internal.RequestIDFromContext(ctx)
}
