package httpmsg_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
)

func TestResponse_Bytes(t *testing.T) {
	t.Parallel()

	t.Run("serializes status line, headers in order and body", func(t *testing.T) {
		t.Parallel()

		r := httpmsg.NewResponse(200)
		r.AddHeader("Content-Type", "text/plain")
		r.AddHeader("X-Multi", "one")
		r.AddHeader("X-Multi", "two")
		_, _ = r.Write([]byte("hello"))

		want := "HTTP/1.1 200 OK\r\n" +
			"Content-Type: text/plain\r\n" +
			"X-Multi: one\r\n" +
			"X-Multi: two\r\n" +
			"Content-Length: 5\r\n" +
			"\r\n" +
			"hello"
		require.Equal(t, want, string(r.Bytes()))
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		r := httpmsg.NewResponse(404)
		r.AddHeader("A", "1")
		r.AddHeader("B", "2")
		r.AddHeader("A", "3")
		r.Body = []byte("missing")

		first := r.Bytes()
		second := r.Bytes()
		require.Equal(t, first, second)
		require.Len(t, r.Headers, 3)
	})

	t.Run("keeps explicit content length", func(t *testing.T) {
		t.Parallel()

		r := httpmsg.NewResponse(204)
		r.AddHeader("Content-Length", "0")
		require.Equal(t, "HTTP/1.1 204 No Content\r\nContent-Length: 0\r\n\r\n", string(r.Bytes()))
	})

	t.Run("omits reason for unknown codes", func(t *testing.T) {
		t.Parallel()

		r := httpmsg.NewResponse(799)
		require.Equal(t, "HTTP/1.1 799\r\nContent-Length: 0\r\n\r\n", string(r.Bytes()))
	})

	t.Run("strips line breaks from header values", func(t *testing.T) {
		t.Parallel()

		r := httpmsg.NewResponse(200)
		r.AddHeader("X-Evil", "a\r\nSet-Cookie: pwned=1")
		v, ok := r.Header("x-evil")
		require.True(t, ok)
		require.Equal(t, "a  Set-Cookie: pwned=1", v)
		require.Empty(t, r.Values("Set-Cookie"))
	})
}

func TestResponse_SetCookie(t *testing.T) {
	t.Parallel()

	r := httpmsg.NewResponse(200)
	r.SetCookie("SESSIONID", "xyz", "/", 3600)
	require.Equal(t, []string{"SESSIONID=xyz; Path=/; Max-Age=3600"}, r.Values("Set-Cookie"))
}

func TestNewErrorResponse(t *testing.T) {
	t.Parallel()

	r := httpmsg.NewErrorResponse(400, "Bad Request")
	require.Equal(t, 400, r.StatusCode)
	require.Equal(t, "Bad Request", string(r.Body))
	ct, ok := r.Header("Content-Type")
	require.True(t, ok)
	require.Equal(t, "text/plain; charset=utf-8", ct)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestResponse_WriteTo(t *testing.T) {
	t.Parallel()

	_, err := httpmsg.NewResponse(200).WriteTo(failingWriter{})
	require.Error(t, err)
}

func TestResponse_HeadBytes(t *testing.T) {
	t.Parallel()

	r := httpmsg.NewResponse(200)
	r.AddHeader("Content-Type", "text/plain")
	_, _ = r.Write([]byte("hello"))

	head := string(r.HeadBytes())
	require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\n", head)
	require.Equal(t, head+"hello", string(r.Bytes()))
}
