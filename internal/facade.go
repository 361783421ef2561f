package internal

import (
	"context"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
)

// activeFrame returns the frame bound to ctx if it has a request in flight.
func activeFrame(ctx context.Context) (*Frame, error) {
	f, err := FrameFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if f.request == nil || f.response == nil || f.session == nil {
		return nil, ErrNoActiveFrame
	}
	return f, nil
}

// SetResponseHeader appends a header to the in-flight response.
func SetResponseHeader(ctx context.Context, key, value string) error {
	f, err := activeFrame(ctx)
	if err != nil {
		return err
	}
	f.response.AddHeader(key, value)
	return nil
}

// SetResponseStatus overwrites the status of the in-flight response.
func SetResponseStatus(ctx context.Context, code int) error {
	f, err := activeFrame(ctx)
	if err != nil {
		return err
	}
	f.response.StatusCode = code
	return nil
}

// Write appends p to the in-flight response body.
func Write(ctx context.Context, p []byte) error {
	f, err := activeFrame(ctx)
	if err != nil {
		return err
	}
	_, _ = f.response.Write(p)
	return nil
}

// WriteString appends s to the in-flight response body.
func WriteString(ctx context.Context, s string) error {
	return Write(ctx, []byte(s))
}

// Request returns the request in flight.
func Request(ctx context.Context) (*httpmsg.Request, error) {
	f, err := activeFrame(ctx)
	if err != nil {
		return nil, err
	}
	return f.request, nil
}

// Param returns key from the POST parameters, then the query parameters,
// then def.
func Param(ctx context.Context, key, def string) (string, error) {
	f, err := activeFrame(ctx)
	if err != nil {
		return def, err
	}
	return f.request.Param(key, def), nil
}

// PathParam returns the decoded value of a route pattern parameter such as {id}.
func PathParam(ctx context.Context, name string) (string, error) {
	f, err := activeFrame(ctx)
	if err != nil {
		return "", err
	}
	v := chi.URLParamFromCtx(ctx, name)
	if f.request.RawPath == "" {
		return v, nil
	}
	// chi matches on the escaped path when one is kept.
	if dec, err := url.PathUnescape(v); err == nil {
		return dec, nil
	}
	return v, nil
}

// SessionID returns the id of the in-flight session, empty when none.
func SessionID(ctx context.Context) (string, error) {
	f, err := activeFrame(ctx)
	if err != nil {
		return "", err
	}
	return f.session.ID, nil
}

// SessionValue returns a session value, or def when absent.
func SessionValue(ctx context.Context, key, def string) (string, error) {
	f, err := activeFrame(ctx)
	if err != nil {
		return def, err
	}
	return f.session.Get(key, def), nil
}

// SetSessionValue stores a session value. It is persisted after routing
// when the session has an id and a store is configured.
func SetSessionValue(ctx context.Context, key, value string) error {
	f, err := activeFrame(ctx)
	if err != nil {
		return err
	}
	f.session.Set(key, value)
	return nil
}

// DeleteSessionValue removes a session value.
func DeleteSessionValue(ctx context.Context, key string) error {
	f, err := activeFrame(ctx)
	if err != nil {
		return err
	}
	f.session.Delete(key)
	return nil
}

// Config returns a configuration value, or def when absent.
func Config(ctx context.Context, key, def string) (string, error) {
	f, err := activeFrame(ctx)
	if err != nil {
		return def, err
	}
	return f.config.Get(key, def), nil
}
