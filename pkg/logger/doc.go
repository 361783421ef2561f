// Package logger builds slog loggers for the dispatch core.
//
// Every logger decorates its handler with context extractors, so request
// scoped values (request id, frame id) land on each record written with a
// *Context logging call:
//
//	log := logger.New(logger.Config{Format: "json", Level: "info"},
//		func(ctx context.Context) (slog.Attr, bool) {
//			id, ok := ctx.Value(requestIDKey{}).(string)
//			return slog.String("request_id", id), ok
//		},
//	)
//	log.InfoContext(ctx, "request", slog.Int("status", 200))
//
// When Config.Sentry.DSN is set, records are also forwarded to Sentry.
// Errors become issues, warnings and errors are stored as logs. Without a
// DSN, or when the SDK fails to initialize, only the local handler is used.
//
// NewNope returns a logger that discards everything and is the default for
// components constructed without one.
package logger
