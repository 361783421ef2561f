package internal

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeConn records writes and closes.
type fakeConn struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	writeErr error
	closed   int
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	return c.buf.Write(p)
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *fakeConn) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func (c *fakeConn) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// rawRequest builds a request with the given extra header lines.
func rawRequest(method, target string, headers ...string) []byte {
	var b strings.Builder
	b.WriteString(method + " " + target + " HTTP/1.1\r\nHost: example.com\r\n")
	for _, h := range headers {
		b.WriteString(h + "\r\n")
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}

// parsedResponse reads the bytes written to c back with net/http.
func parsedResponse(t *testing.T, c *fakeConn) (*http.Response, string) {
	t.Helper()

	resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader(c.String())), nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := new(strings.Builder)
	_, err = io.Copy(body, resp.Body)
	require.NoError(t, err)
	return resp, body.String()
}

type handlerFuncs map[string]HandlerFunc

// Routes registers every entry as "METHOD /path".
func (h handlerFuncs) Routes(r Router) {
	for key, fn := range h {
		method, path, _ := strings.Cut(key, " ")
		switch method {
		case http.MethodGet:
			r.GET(path, fn)
		case http.MethodPost:
			r.POST(path, fn)
		case http.MethodPut:
			r.PUT(path, fn)
		case http.MethodDelete:
			r.DELETE(path, fn)
		}
	}
}

// handle runs one request on a fresh frame and returns the connection.
func handle(t *testing.T, a *App, raw []byte) *fakeConn {
	t.Helper()

	f, err := a.Start(context.Background())
	require.NoError(t, err)
	defer f.Terminate()

	conn := &fakeConn{}
	require.NoError(t, a.Handle(context.Background(), f, conn, raw))
	return conn
}
