package openframe

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/openframe/internal"
	"github.com/dmitrymomot/openframe/pkg/config"
	"github.com/dmitrymomot/openframe/pkg/health"
	"github.com/dmitrymomot/openframe/pkg/httpmsg"
	"github.com/dmitrymomot/openframe/pkg/logger"
	"github.com/dmitrymomot/openframe/pkg/session"
)

// Type aliases - public API
type (
	// App owns the process-wide collaborators and produces frames.
	App = internal.App

	// Frame is the per-execution context a request is served on.
	Frame = internal.Frame

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc.
	Middleware = internal.Middleware

	// ErrorHandler turns handler errors into responses.
	ErrorHandler = internal.ErrorHandler

	// Resolver maps a request to a response.
	Resolver = internal.Resolver

	// ResolverFunc adapts a function to Resolver.
	ResolverFunc = internal.ResolverFunc

	// Coordinator serializes route resolution across frames.
	Coordinator = internal.Coordinator

	// QueueCoordinator serves resolutions in arrival order.
	QueueCoordinator = internal.QueueCoordinator

	// Conn is the connection a response is written to.
	Conn = internal.Conn

	// Option configures the application.
	Option = internal.Option

	// RunOption configures App.Run.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// ExtractorSource reads a value from a request.
	ExtractorSource = internal.ExtractorSource

	// Extractor tries sources in order.
	Extractor = internal.Extractor

	// HTTPError is a handler error carrying its own status code.
	HTTPError = internal.HTTPError

	// Scalar lists the types ParamAs converts to.
	Scalar = internal.Scalar

	// Request is a parsed inbound request.
	Request = httpmsg.Request

	// Response is an outbound response.
	Response = httpmsg.Response

	// Session is the per-request session.
	Session = session.Session

	// SessionStore persists session values.
	SessionStore = session.Store

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor
)

// Session cookie defaults.
const (
	DefaultSessionCookieName = internal.DefaultSessionCookieName
	DefaultSessionPath       = internal.DefaultSessionPath
	DefaultSessionMaxAge     = internal.DefaultSessionMaxAge
)

// Errors
var (
	ErrNoActiveFrame     = internal.ErrNoActiveFrame
	ErrNilConn           = internal.ErrNilConn
	ErrCoordinatorClosed = internal.ErrCoordinatorClosed
	ErrDatabaseInit      = internal.ErrDatabaseInit
	ErrShutdownTimeout   = internal.ErrShutdownTimeout
)

// Constructors

// New creates an application. Each call yields an independent instance.
//
//	app := openframe.New(
//	    openframe.WithLogger(log),
//	    openframe.WithHandlers(pages),
//	)
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithConfig sets the configuration every frame reads from.
func WithConfig(cfg *config.Config) Option {
	return internal.WithConfig(cfg)
}

// WithLogger sets the logger and adds request_id and frame_id to every entry
// logged with a request context.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithCustomLogger sets the logger without adding extractors.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithMiddleware adds global middleware, applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithErrorHandler sets a custom error handler for handler errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables liveness (/health/live) and readiness
// (/health/ready) endpoints.
//
//	openframe.WithHealthChecks(
//	    openframe.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithResolver replaces the router-backed resolver. Handlers and middleware
// are ignored when set.
func WithResolver(r Resolver) Option {
	return internal.WithResolver(r)
}

// WithParser replaces the HTTP/1.x parser.
func WithParser(p httpmsg.Parser) Option {
	return internal.WithParser(p)
}

// WithRequestFactory replaces request allocation. A failing factory yields a
// 500 response.
func WithRequestFactory(fn func() (*Request, error)) Option {
	return internal.WithRequestFactory(fn)
}

// WithCoordinator sets the coordinator route resolution runs under.
// Default: a mutex coordinator.
func WithCoordinator(c Coordinator) Option {
	return internal.WithCoordinator(c)
}

// WithSessionStore persists session values between requests.
func WithSessionStore(store SessionStore) Option {
	return internal.WithSessionStore(store)
}

// WithSession configures the session cookie.
func WithSession(opts ...SessionOption) Option {
	return internal.WithSession(opts...)
}

// WithDatabase registers an initializer that App.Start runs once.
//
//	openframe.WithDatabase(db.Migrator(pool, "", log))
func WithDatabase(init func(context.Context) error) Option {
	return internal.WithDatabase(init)
}

// WithSendTimeout bounds writing a response to the connection.
func WithSendTimeout(d time.Duration) Option {
	return internal.WithSendTimeout(d)
}

// WithReadTimeout bounds reading a request from the connection.
func WithReadTimeout(d time.Duration) Option {
	return internal.WithReadTimeout(d)
}

// WithMaxRequestBytes bounds the raw request read from a connection.
func WithMaxRequestBytes(n int) Option {
	return internal.WithMaxRequestBytes(n)
}

// Health options

// WithLivenessPath overrides the liveness path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath overrides the readiness path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Session options

func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

func WithSessionPath(path string) SessionOption {
	return internal.WithSessionPath(path)
}

func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

// WithSessionIDGenerator mints ids for requests that arrive without one.
// By default no id is minted.
func WithSessionIDGenerator(fn func() string) SessionOption {
	return internal.WithSessionIDGenerator(fn)
}

// WithSessionIDSources replaces the cookie as the session id source.
//
//	openframe.WithSessionIDSources(
//	    openframe.FromHeader("X-Session-ID"),
//	    openframe.FromCookie("SESSIONID"),
//	)
func WithSessionIDSources(sources ...ExtractorSource) SessionOption {
	return internal.WithSessionIDSources(sources...)
}

// Run options

// ShutdownTimeout bounds draining plus shutdown hooks. Default: 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs before the listener opens.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs after connections drained.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context for Run.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Coordinators

// NewMutexCoordinator admits one resolution at a time.
func NewMutexCoordinator() Coordinator {
	return internal.NewMutexCoordinator()
}

// NewSemaphoreCoordinator admits up to n resolutions at once.
// Resolution touches shared state only when n is 1.
func NewSemaphoreCoordinator(n int64) Coordinator {
	return internal.NewSemaphoreCoordinator(n)
}

// NewQueueCoordinator runs resolutions in arrival order on one worker.
// Run closes it on shutdown.
func NewQueueCoordinator() *QueueCoordinator {
	return internal.NewQueueCoordinator()
}

// NoopCoordinator runs resolutions without exclusion.
func NoopCoordinator() Coordinator {
	return internal.NoopCoordinator{}
}

// Frame access

// FrameFromContext returns the frame bound to ctx.
func FrameFromContext(ctx context.Context) (*Frame, error) {
	return internal.FrameFromContext(ctx)
}

// Facade

// SetResponseHeader appends a header to the in-flight response.
func SetResponseHeader(ctx context.Context, key, value string) error {
	return internal.SetResponseHeader(ctx, key, value)
}

// SetResponseStatus sets the status of the in-flight response.
func SetResponseStatus(ctx context.Context, code int) error {
	return internal.SetResponseStatus(ctx, code)
}

// Write appends p to the in-flight response body.
func Write(ctx context.Context, p []byte) error {
	return internal.Write(ctx, p)
}

// WriteString appends s to the in-flight response body.
func WriteString(ctx context.Context, s string) error {
	return internal.WriteString(ctx, s)
}

// CurrentRequest returns the request in flight.
func CurrentRequest(ctx context.Context) (*Request, error) {
	return internal.Request(ctx)
}

// Param returns a POST param, then a query param, then def.
func Param(ctx context.Context, key, def string) (string, error) {
	return internal.Param(ctx, key, def)
}

// ParamAs returns Param converted to T, or def.
//
//	page, err := openframe.ParamAs(ctx, "page", 1)
func ParamAs[T Scalar](ctx context.Context, key string, def T) (T, error) {
	return internal.ParamAs(ctx, key, def)
}

// PathParam returns a URL path parameter by name.
func PathParam(ctx context.Context, name string) (string, error) {
	return internal.PathParam(ctx, name)
}

// PathParamAs returns PathParam converted to T, or def.
func PathParamAs[T Scalar](ctx context.Context, name string, def T) (T, error) {
	return internal.PathParamAs(ctx, name, def)
}

func SessionID(ctx context.Context) (string, error) {
	return internal.SessionID(ctx)
}

func SessionValue(ctx context.Context, key, def string) (string, error) {
	return internal.SessionValue(ctx, key, def)
}

func SetSessionValue(ctx context.Context, key, value string) error {
	return internal.SetSessionValue(ctx, key, value)
}

func DeleteSessionValue(ctx context.Context, key string) error {
	return internal.DeleteSessionValue(ctx, key)
}

// Config reads a configuration value through the active frame.
func Config(ctx context.Context, key, def string) (string, error) {
	return internal.Config(ctx, key, def)
}

// RequestID returns the request id bound to ctx.
func RequestID(ctx context.Context) string {
	return internal.RequestIDFromContext(ctx)
}

// Errors

func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

func ErrBadRequest(message string) *HTTPError {
	return internal.ErrBadRequest(message)
}

func ErrUnauthorized(message string) *HTTPError {
	return internal.ErrUnauthorized(message)
}

func ErrForbidden(message string) *HTTPError {
	return internal.ErrForbidden(message)
}

func ErrNotFound(message string) *HTTPError {
	return internal.ErrNotFound(message)
}

func ErrUnprocessable(message string) *HTTPError {
	return internal.ErrUnprocessable(message)
}

func ErrServiceUnavailable(message string) *HTTPError {
	return internal.ErrServiceUnavailable(message)
}

// AsHTTPError returns the first HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// Extractors

func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

func FromCookie(name string) ExtractorSource {
	return internal.FromCookie(name)
}

func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

func FromForm(name string) ExtractorSource {
	return internal.FromForm(name)
}

func FromBearerToken() ExtractorSource {
	return internal.FromBearerToken()
}

// Logging

// LogExtractors returns the request_id and frame_id extractors, for loggers
// built outside WithLogger.
//
//	log := logger.New(cfg, openframe.LogExtractors()...)
func LogExtractors() []ContextExtractor {
	return []ContextExtractor{internal.RequestIDExtractor(), internal.FrameIDExtractor()}
}
