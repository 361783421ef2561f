package internal

import (
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
)

// responseWriter lets net/http style handlers write into a frame's
// in-progress response. Headers set through Header() are appended in sorted
// key order on the first WriteHeader or Write, or when the route returns.
// The status changes only on an explicit WriteHeader, so a status set
// through the facade survives a plain Write.
type responseWriter struct {
	resp    *httpmsg.Response
	header  http.Header
	written bool
	size    int
}

func newResponseWriter(resp *httpmsg.Response) *responseWriter {
	return &responseWriter{resp: resp, header: make(http.Header)}
}

func (w *responseWriter) Header() http.Header {
	return w.header
}

func (w *responseWriter) WriteHeader(code int) {
	if w.written {
		return
	}
	w.resp.StatusCode = code
	w.flush()
}

func (w *responseWriter) Write(p []byte) (int, error) {
	w.flush()
	w.size += len(p)
	return w.resp.Write(p)
}

// Written reports whether the status line or body was committed.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the current status of the underlying response.
func (w *responseWriter) Status() int {
	return w.resp.StatusCode
}

// Size returns the number of body bytes written through w.
func (w *responseWriter) Size() int {
	return w.size
}

// flush moves pending headers into the response and commits it. Headers
// changed after the commit are ignored, as in net/http.
func (w *responseWriter) flush() {
	if w.written {
		return
	}
	w.appendHeaders()
	w.written = true
}

// finish runs after the route returns, for handlers that only set headers.
func (w *responseWriter) finish() {
	if !w.written {
		w.appendHeaders()
	}
}

func (w *responseWriter) appendHeaders() {
	for _, key := range slices.Sorted(maps.Keys(w.header)) {
		for _, v := range w.header[key] {
			w.resp.AddHeader(key, v)
		}
	}
	clear(w.header)
}

// replace swaps the whole response for r, dropping pending headers.
func (w *responseWriter) replace(r *httpmsg.Response) {
	clear(w.header)
	*w.resp = *r
	w.written = true
}

var _ http.ResponseWriter = (*responseWriter)(nil)
