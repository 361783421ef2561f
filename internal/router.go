package internal

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
)

// Router is the interface handlers use to declare routes.
type Router interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)
	PUT(path string, h HandlerFunc, mw ...Middleware)
	PATCH(path string, h HandlerFunc, mw ...Middleware)
	DELETE(path string, h HandlerFunc, mw ...Middleware)
	HEAD(path string, h HandlerFunc, mw ...Middleware)
	OPTIONS(path string, h HandlerFunc, mw ...Middleware)

	// Group creates an inline group sharing middleware but no prefix.
	Group(fn func(r Router))

	// Route creates a group under a pattern prefix.
	Route(pattern string, fn func(r Router))

	// Use appends middleware to the current stack.
	Use(mw ...Middleware)

	// Mount attaches a net/http handler. It writes into the in-flight
	// response like any route.
	Mount(pattern string, h http.Handler)
}

// Resolver maps a parsed request to a response. It runs inside the
// coordinator, on the frame bound to ctx.
type Resolver interface {
	Resolve(ctx context.Context, req *httpmsg.Request) *httpmsg.Response
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, req *httpmsg.Request) *httpmsg.Response

func (f ResolverFunc) Resolve(ctx context.Context, req *httpmsg.Request) *httpmsg.Response {
	return f(ctx, req)
}

type routerAdapter struct {
	router chi.Router
	app    *App
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Get(path, r.wrap(h, mw...))
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Post(path, r.wrap(h, mw...))
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Put(path, r.wrap(h, mw...))
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Patch(path, r.wrap(h, mw...))
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Delete(path, r.wrap(h, mw...))
}

func (r *routerAdapter) HEAD(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Head(path, r.wrap(h, mw...))
}

func (r *routerAdapter) OPTIONS(path string, h HandlerFunc, mw ...Middleware) {
	r.router.Options(path, r.wrap(h, mw...))
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app})
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.router.Use(r.app.adaptMiddleware(m))
	}
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

// wrap applies route middleware so the first one listed runs first.
func (r *routerAdapter) wrap(h HandlerFunc, mw ...Middleware) http.HandlerFunc {
	for _, m := range slices.Backward(mw) {
		h = m(h)
	}
	return r.app.adaptHandler(h)
}

func (a *App) adaptHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		if err := h(ctx); err != nil {
			a.handleError(ctx, w, err)
		}
	}
}

// adaptMiddleware runs a Middleware in chi's middleware chain. The context
// the middleware passes on becomes the request context downstream.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			h := mw(func(ctx context.Context) error {
				next.ServeHTTP(w, req.WithContext(ctx))
				return nil
			})
			if err := h(req.Context()); err != nil {
				a.handleError(req.Context(), w, err)
			}
		})
	}
}

// handleError replaces the in-flight response with the error response.
func (a *App) handleError(ctx context.Context, w http.ResponseWriter, err error) {
	var resp *httpmsg.Response
	if a.errorHandler != nil {
		resp = a.errorHandler(ctx, err)
	}
	if resp == nil {
		resp = defaultErrorResponse(err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		a.logger.ErrorContext(ctx, "handler failed", slog.Int("status", resp.StatusCode), slog.Any("error", err))
	} else {
		a.logger.DebugContext(ctx, "handler returned error", slog.Int("status", resp.StatusCode), slog.Any("error", err))
	}

	if rw, ok := w.(*responseWriter); ok {
		rw.replace(resp)
		return
	}
	for _, h := range resp.Headers {
		w.Header().Add(h.Key, h.Value)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

func defaultErrorResponse(err error) *httpmsg.Response {
	if he := AsHTTPError(err); he != nil && he.Code >= 400 {
		return httpmsg.NewErrorResponse(he.Code, he.Message)
	}
	return errorResponse(http.StatusInternalServerError)
}

// chiResolver serves a parsed request through a chi mux, writing into the
// frame's in-progress response.
type chiResolver struct {
	mux    chi.Router
	logger *slog.Logger
}

func (r *chiResolver) Resolve(ctx context.Context, req *httpmsg.Request) *httpmsg.Response {
	resp := httpmsg.NewResponse(http.StatusOK)
	if f, err := FrameFromContext(ctx); err == nil && f.response != nil {
		resp = f.response
	}

	hr, err := req.HTTPRequest(ctx)
	if err != nil {
		r.logger.DebugContext(ctx, "request not routable", slog.Any("error", err))
		return errorResponse(http.StatusBadRequest)
	}

	w := newResponseWriter(resp)
	r.serve(ctx, w, hr)
	w.finish()
	return resp
}

func (r *chiResolver) serve(ctx context.Context, w *responseWriter, hr *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			stack := make([]byte, 4096)
			stack = stack[:runtime.Stack(stack, false)]
			r.logger.ErrorContext(ctx, "panic recovered",
				slog.Any("panic", rec),
				slog.String("stack", string(stack)),
			)
			w.replace(errorResponse(http.StatusInternalServerError))
		}
	}()
	r.mux.ServeHTTP(w, hr)
}
