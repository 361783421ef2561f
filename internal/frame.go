package internal

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/openframe/pkg/config"
	"github.com/dmitrymomot/openframe/pkg/httpmsg"
	"github.com/dmitrymomot/openframe/pkg/session"
)

// Frame is the execution context owned by one worker goroutine. It holds the
// request, response and session of the dispatch call in flight, plus the
// shared configuration for the frame's lifetime.
//
// A Frame is not safe for concurrent use. Coordinators may run the router on
// another goroutine, but never while the owner touches the frame.
type Frame struct {
	config   *config.Config
	request  *httpmsg.Request
	response *httpmsg.Response
	session  *session.Session
	id       string
	done     bool
}

func newFrame(cfg *config.Config) *Frame {
	return &Frame{id: uuid.NewString(), config: cfg}
}

// ID identifies the frame in logs.
func (f *Frame) ID() string { return f.id }

// Request returns the request in flight, or nil between dispatch calls.
func (f *Frame) Request() *httpmsg.Request { return f.request }

// Response returns the response being built, or nil between dispatch calls.
func (f *Frame) Response() *httpmsg.Response { return f.response }

// Session returns the session of the call in flight, or nil.
func (f *Frame) Session() *session.Session { return f.session }

// Config returns the configuration handle, nil after Terminate.
func (f *Frame) Config() *config.Config { return f.config }

// Terminated reports whether Terminate was called.
func (f *Frame) Terminated() bool {
	return f == nil || f.done
}

// Terminate releases everything the frame holds. Safe to call more than once.
func (f *Frame) Terminate() {
	if f == nil || f.done {
		return
	}
	f.release()
	f.config = nil
	f.done = true
}

// release drops the per-call state after a response was sent.
func (f *Frame) release() {
	f.request = nil
	f.response = nil
	f.session = nil
}

type frameKey struct{}

// WithFrame binds f to ctx.
func WithFrame(ctx context.Context, f *Frame) context.Context {
	return context.WithValue(ctx, frameKey{}, f)
}

// FrameFromContext returns the frame bound to ctx. It fails with
// ErrNoActiveFrame when none is bound or the frame was terminated.
func FrameFromContext(ctx context.Context) (*Frame, error) {
	f, _ := ctx.Value(frameKey{}).(*Frame)
	if f.Terminated() {
		return nil, ErrNoActiveFrame
	}
	return f, nil
}
