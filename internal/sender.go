package internal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
	"github.com/dmitrymomot/openframe/pkg/logger"
)

// Conn is the transport half a dispatch call writes to. Handle owns it and
// closes it exactly once.
type Conn interface {
	io.Writer
	io.Closer
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Sender serializes a frame's response, logs the exchange and writes it.
type Sender struct {
	logger  *slog.Logger
	timeout time.Duration
}

// NewSender creates a sender. A positive timeout sets a write deadline on
// connections that support one.
func NewSender(l *slog.Logger, timeout time.Duration) *Sender {
	if l == nil {
		l = logger.NewNope()
	}
	return &Sender{logger: l, timeout: timeout}
}

// Send writes f's response to conn, then releases the frame's per-call state
// and closes conn. Write failures are logged, never returned.
func (s *Sender) Send(ctx context.Context, conn Conn, f *Frame) {
	if conn == nil {
		f.release()
		s.logger.WarnContext(ctx, "response dropped", slog.Any("error", ErrNilConn))
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.DebugContext(ctx, "connection close failed", slog.Any("error", err))
		}
	}()
	defer f.release()

	resp := f.response
	if resp == nil {
		resp = httpmsg.NewErrorResponse(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}

	summary := "-"
	var data []byte
	switch {
	case f.request == nil:
		data = resp.Bytes()
	case f.request.Method == http.MethodHead:
		summary = f.request.String()
		data = resp.HeadBytes()
	default:
		summary = f.request.String()
		data = resp.Bytes()
	}

	s.logger.InfoContext(ctx, "request",
		slog.String("summary", summary),
		slog.Int("status", resp.StatusCode),
		slog.Int("size", len(data)),
	)

	if s.timeout > 0 {
		if d, ok := conn.(writeDeadliner); ok {
			_ = d.SetWriteDeadline(time.Now().Add(s.timeout))
		}
	}

	if _, err := conn.Write(data); err != nil {
		s.logger.WarnContext(ctx, "response write failed",
			slog.String("summary", summary),
			slog.Any("error", err),
		)
	}
}
