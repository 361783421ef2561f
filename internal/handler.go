package internal

import (
	"context"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
)

// Handler declares routes on a router.
//
//	type Pages struct{}
//
//	func (Pages) Routes(r openframe.Router) {
//		r.GET("/", home)
//		r.POST("/login", login)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc handles one request. The request, response and session are
// reached through the facade functions using ctx. A returned error becomes
// the response through the ErrorHandler.
type HandlerFunc func(ctx context.Context) error

// Middleware wraps a HandlerFunc.
//
//	func RequireUser(next openframe.HandlerFunc) openframe.HandlerFunc {
//		return func(ctx context.Context) error {
//			if v, _ := openframe.SessionValue(ctx, "user", ""); v == "" {
//				return openframe.ErrUnauthorized("")
//			}
//			return next(ctx)
//		}
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler turns a handler error into the response to send. Returning
// nil falls back to the default plain-text error response.
type ErrorHandler func(ctx context.Context, err error) *httpmsg.Response
