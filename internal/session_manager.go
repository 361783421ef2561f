package internal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
	"github.com/dmitrymomot/openframe/pkg/logger"
	"github.com/dmitrymomot/openframe/pkg/session"
)

// Default session cookie attributes.
const (
	DefaultSessionCookieName = "SESSIONID"
	DefaultSessionPath       = "/"
	DefaultSessionMaxAge     = 3600
)

// SessionManager derives a session per request and brackets route
// resolution with load and save against an optional store.
type SessionManager struct {
	store      session.Store
	logger     *slog.Logger
	generate   func() string
	extractor  Extractor
	cookieName string
	path       string
	maxAge     int
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a manager. With a nil store, values live only
// for the duration of one dispatch call.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		logger:     logger.NewNope(),
		cookieName: DefaultSessionCookieName,
		path:       DefaultSessionPath,
		maxAge:     DefaultSessionMaxAge,
	}
	for _, opt := range opts {
		opt(sm)
	}
	if len(sm.extractor.sources) == 0 {
		sm.extractor = NewExtractor(FromCookie(sm.cookieName))
	}
	return sm
}

// WithSessionCookieName sets the cookie carrying the session id.
// Default: "SESSIONID".
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionPath sets the cookie path. Default: "/".
func WithSessionPath(path string) SessionOption {
	return func(sm *SessionManager) {
		if path != "" {
			sm.path = path
		}
	}
}

// WithSessionMaxAge sets the cookie Max-Age and the store TTL in seconds.
// Default: 3600.
func WithSessionMaxAge(seconds int) SessionOption {
	return func(sm *SessionManager) {
		if seconds > 0 {
			sm.maxAge = seconds
		}
	}
}

// WithSessionIDGenerator mints an id for requests that carry none.
// By default ids are only echoed from the request.
func WithSessionIDGenerator(fn func() string) SessionOption {
	return func(sm *SessionManager) {
		sm.generate = fn
	}
}

// WithSessionIDSources replaces the default cookie lookup, e.g. to also
// accept a header from non-browser clients.
func WithSessionIDSources(sources ...ExtractorSource) SessionOption {
	return func(sm *SessionManager) {
		sm.extractor = NewExtractor(sources...)
	}
}

// SetLogger sets the logger used for store failures.
func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// CookieName returns the session cookie name.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// Derive creates the session for req. It never touches the store.
func (sm *SessionManager) Derive(req *httpmsg.Request) *session.Session {
	id, _ := sm.extractor.Extract(req)
	if id == "" && sm.generate != nil {
		id = sm.generate()
	}
	return session.New(id)
}

// Start loads stored values into s. A missing record is not an error; other
// store failures are logged and leave s empty.
func (sm *SessionManager) Start(ctx context.Context, s *session.Session) {
	if sm.store == nil || !s.HasID() {
		return
	}
	values, err := sm.store.Load(ctx, s.ID)
	switch {
	case err == nil:
		s.Restore(values)
	case errors.Is(err, session.ErrNotFound):
	default:
		sm.logger.WarnContext(ctx, "session load failed", slog.Any("error", err))
	}
}

// End saves s when its values changed. Failures are logged.
func (sm *SessionManager) End(ctx context.Context, s *session.Session) {
	if sm.store == nil || !s.HasID() || !s.IsDirty() {
		return
	}
	ttl := time.Duration(sm.maxAge) * time.Second
	if err := sm.store.Save(ctx, s.ID, s.Values, ttl); err != nil {
		sm.logger.WarnContext(ctx, "session save failed", slog.Any("error", err))
		return
	}
	s.ClearDirty()
}

// Attach sets the session cookie on resp when s has an id.
func (sm *SessionManager) Attach(resp *httpmsg.Response, s *session.Session) {
	if resp == nil || !s.HasID() {
		return
	}
	resp.SetCookie(sm.cookieName, s.ID, sm.path, sm.maxAge)
}
