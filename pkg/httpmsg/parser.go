package httpmsg

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// DefaultMaxBodyBytes bounds the body the parser accepts.
const DefaultMaxBodyBytes = 1 << 20 // 1MB

// Parser decodes raw bytes into a Request in place.
// Implementations must never panic; malformed input is reported via Request.Err.
type Parser interface {
	Parse(raw []byte, req *Request)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(raw []byte, req *Request)

// Parse calls f(raw, req).
func (f ParserFunc) Parse(raw []byte, req *Request) {
	f(raw, req)
}

// HTTP1Parser parses HTTP/1.x requests.
type HTTP1Parser struct {
	maxBodyBytes int64
}

// ParserOption configures the HTTP1Parser.
type ParserOption func(*HTTP1Parser)

// WithMaxBodyBytes limits the accepted body size.
// Default: 1MB.
func WithMaxBodyBytes(n int64) ParserOption {
	return func(p *HTTP1Parser) {
		if n > 0 {
			p.maxBodyBytes = n
		}
	}
}

// NewParser creates an HTTP/1.x parser.
func NewParser(opts ...ParserOption) *HTTP1Parser {
	p := &HTTP1Parser{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse fills req from raw. On malformed input it sets req.Err and leaves the
// remaining fields in an unspecified but safe state.
func (p *HTTP1Parser) Parse(raw []byte, req *Request) {
	if len(bytes.TrimSpace(raw)) == 0 {
		req.Err = ErrEmptyRequest
		return
	}

	hr, err := http.ReadRequest(bufio.NewReader(bytes.NewReader(raw)))
	if err != nil {
		req.Err = errors.Join(ErrMalformed, err)
		return
	}
	defer hr.Body.Close()

	body, err := io.ReadAll(io.LimitReader(hr.Body, p.maxBodyBytes+1))
	if err != nil {
		// Content-Length larger than the bytes actually received.
		req.Err = errors.Join(ErrMalformed, err)
		return
	}
	if int64(len(body)) > p.maxBodyBytes {
		req.Err = ErrBodyTooLarge
		return
	}

	query, err := url.ParseQuery(hr.URL.RawQuery)
	if err != nil {
		req.Err = errors.Join(ErrMalformed, err)
		return
	}

	req.Method = hr.Method
	req.Path = hr.URL.Path
	req.RawPath = hr.URL.RawPath
	req.RawQuery = hr.URL.RawQuery
	req.Proto = hr.Proto
	req.Body = body
	req.Header = hr.Header
	if hr.Host != "" {
		// net/http moves Host out of the header map.
		req.Header.Set("Host", hr.Host)
	}

	if req.Cookies == nil {
		req.Cookies = make(map[string]string)
	}
	for _, c := range hr.Cookies() {
		if _, exists := req.Cookies[c.Name]; !exists {
			req.Cookies[c.Name] = c.Value
		}
	}

	req.Query = firstValues(query)

	if hasFormBody(hr) {
		form, err := url.ParseQuery(string(body))
		if err != nil {
			req.Err = errors.Join(ErrMalformedForm, err)
			return
		}
		req.Params = firstValues(form)
	} else if req.Params == nil {
		req.Params = make(map[string]string)
	}
}

// hasFormBody reports whether the body carries urlencoded form values.
func hasFormBody(hr *http.Request) bool {
	switch hr.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	ct := hr.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && mt == "application/x-www-form-urlencoded"
}

func firstValues(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			out[k] = vals[0]
		}
	}
	return out
}

var _ Parser = (*HTTP1Parser)(nil)
