package internal

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
	"github.com/dmitrymomot/openframe/pkg/logger"
)

type requestIDKey struct{}

// RequestIDFromContext returns the id Handle assigned to the call in ctx.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithRequestID overrides the request id in ctx, for middleware that
// propagates an upstream id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDExtractor adds "request_id" to log records.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := RequestIDFromContext(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}

// FrameIDExtractor adds "frame_id" to log records.
func FrameIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if f, _ := ctx.Value(frameKey{}).(*Frame); f != nil {
			return slog.String("frame_id", f.id), true
		}
		return slog.Attr{}, false
	}
}

// Handle runs one request from raw bytes to a transmitted response on f.
// It owns conn and closes it on every path. The only errors returned are
// ErrNilConn and ErrNoActiveFrame; request-level failures become error
// responses.
func (a *App) Handle(ctx context.Context, f *Frame, conn Conn, raw []byte) error {
	if conn == nil {
		return ErrNilConn
	}
	if f.Terminated() {
		_ = conn.Close()
		return ErrNoActiveFrame
	}

	ctx = WithFrame(WithRequestID(ctx, uuid.NewString()), f)

	req, err := a.newRequest()
	if err != nil {
		a.logger.ErrorContext(ctx, "request allocation failed", slog.Any("error", err))
		f.response = errorResponse(http.StatusInternalServerError)
		a.sender.Send(ctx, conn, f)
		return nil
	}
	f.request = req

	a.parser.Parse(raw, req)
	if req.Err != nil {
		a.logger.DebugContext(ctx, "malformed request", slog.Any("error", req.Err))
		f.response = errorResponse(http.StatusBadRequest)
		a.sender.Send(ctx, conn, f)
		return nil
	}

	s := a.sessions.Derive(req)
	f.session = s
	a.sessions.Start(ctx, s)

	f.response = httpmsg.NewResponse(http.StatusOK)
	var resp *httpmsg.Response
	err = a.coordinator.Do(ctx, func() {
		defer func() {
			if rec := recover(); rec != nil {
				a.logger.ErrorContext(ctx, "resolver panicked", slog.Any("panic", rec))
				resp = errorResponse(http.StatusInternalServerError)
			}
		}()
		resp = a.resolver.Resolve(ctx, req)
	})
	if err != nil {
		a.logger.WarnContext(ctx, "request rejected by coordinator", slog.Any("error", err))
		resp = errorResponse(http.StatusServiceUnavailable)
	}
	if resp != nil {
		f.response = resp
	}

	a.sessions.Attach(f.response, s)
	a.sessions.End(ctx, s)
	a.sender.Send(ctx, conn, f)
	return nil
}

func errorResponse(code int) *httpmsg.Response {
	return httpmsg.NewErrorResponse(code, http.StatusText(code))
}
