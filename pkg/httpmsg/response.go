package httpmsg

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Header is a single response header line.
type Header struct {
	Key   string
	Value string
}

// Response is an outbound HTTP response assembled during route resolution.
// Headers keep insertion order and may repeat.
type Response struct {
	Headers    []Header
	Body       []byte
	StatusCode int
}

var headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

// NewResponse creates an empty response with the given status code.
func NewResponse(code int) *Response {
	return &Response{StatusCode: code}
}

// NewErrorResponse creates a plain-text response carrying message as its body.
func NewErrorResponse(code int, message string) *Response {
	r := NewResponse(code)
	r.AddHeader("Content-Type", "text/plain; charset=utf-8")
	r.Body = []byte(message)
	return r
}

// AddHeader appends a header. Existing headers with the same key are kept.
func (r *Response) AddHeader(key, value string) {
	r.Headers = append(r.Headers, Header{
		Key:   headerSanitizer.Replace(key),
		Value: headerSanitizer.Replace(value),
	})
}

// Header returns the first value stored for key (case-insensitive).
func (r *Response) Header(key string) (string, bool) {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value, true
		}
	}
	return "", false
}

// Values returns every value stored for key (case-insensitive), in order.
func (r *Response) Values(key string) []string {
	var out []string
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			out = append(out, h.Value)
		}
	}
	return out
}

// SetCookie appends a Set-Cookie header.
func (r *Response) SetCookie(name, value, path string, maxAge int) {
	c := &http.Cookie{
		Name:   name,
		Value:  value,
		Path:   path,
		MaxAge: maxAge,
	}
	r.AddHeader("Set-Cookie", c.String())
}

// Write appends p to the body.
func (r *Response) Write(p []byte) (int, error) {
	r.Body = append(r.Body, p...)
	return len(p), nil
}

// Bytes serializes the response in HTTP/1.1 wire format.
// Content-Length is appended when not set explicitly. The output depends only
// on the response fields, so repeated calls yield identical bytes.
func (r *Response) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = r.WriteTo(&buf)
	return buf.Bytes()
}

// HeadBytes serializes the status line and headers only, as sent in reply to
// HEAD. Content-Length still reflects the body.
func (r *Response) HeadBytes() []byte {
	return []byte(r.head())
}

// WriteTo writes the serialized response to w.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.head())
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(r.Body)
	return int64(n + m), err
}

func (r *Response) head() string {
	var b strings.Builder
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(r.StatusCode))
	if text := http.StatusText(r.StatusCode); text != "" {
		b.WriteByte(' ')
		b.WriteString(text)
	}
	b.WriteString("\r\n")

	for _, h := range r.Headers {
		b.WriteString(h.Key)
		b.WriteString(": ")
		b.WriteString(h.Value)
		b.WriteString("\r\n")
	}
	if _, ok := r.Header("Content-Length"); !ok {
		b.WriteString("Content-Length: ")
		b.WriteString(strconv.Itoa(len(r.Body)))
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return b.String()
}
