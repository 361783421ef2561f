package httpmsg

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Request is an inbound HTTP request decoded from raw connection bytes.
// A Request is owned by a single frame for the duration of one dispatch call.
type Request struct {
	Header  http.Header
	Cookies map[string]string // first occurrence wins
	Params  map[string]string // POST-style form values
	Query   map[string]string // URL query values

	// Err is set by the parser when the raw bytes are not a well-formed request.
	Err error

	Method string
	// Path is the decoded request path. RawPath holds the original
	// encoding when it differs from the default one, as with url.URL.
	Path     string
	RawPath  string
	RawQuery string
	Proto    string
	Body     []byte
}

// NewRequest returns an empty Request with initialized maps.
func NewRequest() *Request {
	return &Request{
		Header:  make(http.Header),
		Cookies: make(map[string]string),
		Params:  make(map[string]string),
		Query:   make(map[string]string),
	}
}

// Malformed reports whether the parser flagged the request.
func (r *Request) Malformed() bool {
	return r.Err != nil
}

// Cookie returns the value of the named cookie.
func (r *Request) Cookie(name string) (string, bool) {
	v, ok := r.Cookies[name]
	return v, ok
}

// PostParam returns a POST-style parameter.
func (r *Request) PostParam(key string) (string, bool) {
	v, ok := r.Params[key]
	return v, ok
}

// QueryParam returns a query string parameter.
func (r *Request) QueryParam(key string) (string, bool) {
	v, ok := r.Query[key]
	return v, ok
}

// Param returns key from the POST-style parameters, falling back to the
// query parameters, falling back to def.
func (r *Request) Param(key, def string) string {
	if v, ok := r.Params[key]; ok {
		return v
	}
	if v, ok := r.Query[key]; ok {
		return v
	}
	return def
}

// URL returns the request target as a url.URL without re-parsing it.
func (r *Request) URL() *url.URL {
	u := &url.URL{Path: r.Path, RawPath: r.RawPath, RawQuery: r.RawQuery}
	if u.Path == "" {
		u.Path, u.RawPath = "/", ""
	}
	return u
}

// EscapedPath returns the request path in its escaped wire form.
func (r *Request) EscapedPath() string {
	if r.Path == "" {
		return ""
	}
	u := url.URL{Path: r.Path, RawPath: r.RawPath}
	return u.EscapedPath()
}

// URI returns the escaped request path with its raw query, if any.
func (r *Request) URI() string {
	if r.RawQuery == "" {
		return r.EscapedPath()
	}
	return r.EscapedPath() + "?" + r.RawQuery
}

// String renders a one-line summary suitable for access logs.
func (r *Request) String() string {
	if r.Method == "" {
		return "-"
	}
	var b strings.Builder
	b.WriteString(r.Method)
	b.WriteByte(' ')
	b.WriteString(r.URI())
	if r.Proto != "" {
		b.WriteByte(' ')
		b.WriteString(r.Proto)
	}
	return b.String()
}

// HTTPRequest converts the request into a *http.Request bound to ctx.
// Route matchers built on net/http consume this form.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	hr, err := http.NewRequestWithContext(ctx, r.Method, "/", bytes.NewReader(r.Body))
	if err != nil {
		return nil, err
	}
	// The path is already decoded; parsing it again would decode it twice.
	hr.URL = r.URL()
	hr.RequestURI = hr.URL.RequestURI()
	hr.Header = r.Header.Clone()
	if hr.Header == nil {
		hr.Header = make(http.Header)
	}
	hr.Host = r.Header.Get("Host")
	if r.Proto != "" {
		hr.Proto = r.Proto
		if major, minor, ok := http.ParseHTTPVersion(r.Proto); ok {
			hr.ProtoMajor, hr.ProtoMinor = major, minor
		}
	}
	return hr, nil
}
