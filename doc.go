// Package openframe is a request-serving framework built around frames.
//
// A frame is the per-execution context one request is served on: it holds
// the parsed request, the response being built and the session. Frames are
// explicit values bound into a context.Context, so any number of them can
// run at once in one process while route resolution is serialized through a
// [Coordinator].
//
// # Quick Start
//
//	app := openframe.New(
//	    openframe.WithLogger(log),
//	    openframe.WithSessionStore(session.NewMemoryStore()),
//	    openframe.WithHandlers(pages),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement [Handler] to declare routes. Route handlers read the
// request and write the response through the facade functions, which all
// take the request context:
//
//	type Pages struct{}
//
//	func (Pages) Routes(r openframe.Router) {
//	    r.GET("/hello/{name}", hello)
//	}
//
//	func hello(ctx context.Context) error {
//	    name, err := openframe.PathParam(ctx, "name")
//	    if err != nil {
//	        return err
//	    }
//	    return openframe.WriteString(ctx, "hello "+name)
//	}
//
// Facade functions return [ErrNoActiveFrame] when ctx carries no frame, or the
// frame was terminated, or no request is in flight.
//
// # Serving
//
// [App.Run] listens on a TCP address and serves each connection on its own
// frame. Embedders that own the transport drive frames directly:
//
//	f, err := app.Start(ctx)
//	if err != nil {
//	    return err
//	}
//	defer f.Terminate()
//	return app.Handle(ctx, f, conn, raw)
//
// # Sessions
//
// The session id is read from the SESSIONID cookie by default and echoed on
// every response that has one. With a [SessionStore], values set through
// [SetSessionValue] persist between requests.
//
// # Coordinators
//
// Parsing, session work and sending run in parallel across frames; only
// route resolution runs under the coordinator. [NewMutexCoordinator] is the
// default. [NewQueueCoordinator] serves resolutions in arrival order,
// [NewSemaphoreCoordinator] bounds parallelism, and [NoopCoordinator] lifts
// exclusion for resolvers that share nothing.
package openframe
