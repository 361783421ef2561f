// Package internal implements the openframe dispatch core.
//
// A worker goroutine owns one Frame, created by App.Start. For each request
// the worker calls App.Handle with the frame, the connection and the raw
// bytes. Handle parses the request, derives the session, resolves the route
// inside the Coordinator, attaches the session cookie, saves the session and
// hands the response to the Sender, which writes it and closes the
// connection. Route handlers reach the frame through the context they
// receive, using the facade functions (Param, SetResponseHeader,
// SessionValue, Config, ...).
//
// The root package re-exports the public surface.
package internal
