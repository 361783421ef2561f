// Package middlewares provides middleware for openframe applications.
//
// # Request ID
//
// RequestID propagates an inbound X-Request-ID (or X-Correlation-ID) into the
// request context, replacing the ID the dispatcher assigned, and echoes it
// as a response header. Pair it with the request ID log extractor that
// openframe.WithLogger installs:
//
//	app := openframe.New(
//	    openframe.WithLogger(log),
//	    openframe.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover turns panics into a PanicError for the ErrorHandler. The resolver
// recovers panics on its own, so Recover only matters when the error
// handler wants to see them.
//
// # Timeout
//
// Timeout gives the handler a context deadline. Handlers run synchronously on
// the frame, so they must watch ctx.Done(); once the deadline has passed the
// result is a TimeoutError.
//
// # CORS
//
// CORS adds Cross-Origin Resource Sharing headers and answers preflight
// requests with 204.
//
//	middlewares.CORS(
//	    middlewares.WithAllowOrigins("https://app.example.com"),
//	    middlewares.WithAllowCredentials(),
//	)
//
// # Order
//
//	openframe.WithMiddleware(
//	    middlewares.CORS(),
//	    middlewares.RequestID(),
//	    middlewares.Recover(middlewares.WithRecoverLogger(log)),
//	    middlewares.Timeout(5*time.Second),
//	)
//	openframe.WithErrorHandler(middlewares.ErrorHandler)
package middlewares
