package middlewares_test

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/internal"
)

type bufConn struct{ bytes.Buffer }

func (*bufConn) Close() error { return nil }

type routes func(r internal.Router)

func (fn routes) Routes(r internal.Router) { fn(r) }

// serve runs one raw request through a fresh app built from opts.
func serve(t *testing.T, raw string, opts ...internal.Option) *http.Response {
	t.Helper()

	a := internal.New(opts...)
	f, err := a.Start(context.Background())
	require.NoError(t, err)
	defer f.Terminate()

	conn := &bufConn{}
	require.NoError(t, a.Handle(context.Background(), f, conn, []byte(raw)))

	resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader(conn.String())), nil)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(path string, headers ...string) string {
	var b strings.Builder
	b.WriteString("GET " + path + " HTTP/1.1\r\nHost: example.com\r\n")
	for _, h := range headers {
		b.WriteString(h + "\r\n")
	}
	b.WriteString("\r\n")
	return b.String()
}
