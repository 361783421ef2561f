package internal

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
)

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("headers flush in sorted order on write", func(t *testing.T) {
		t.Parallel()

		resp := httpmsg.NewResponse(http.StatusOK)
		w := newResponseWriter(resp)
		w.Header().Set("X-B", "2")
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Add("X-A", "1")
		w.Header().Add("X-A", "11")

		n, err := w.Write([]byte("hello"))
		require.NoError(t, err)
		require.Equal(t, 5, n)
		require.True(t, w.Written())

		require.Equal(t, []httpmsg.Header{
			{Key: "Content-Type", Value: "text/plain"},
			{Key: "X-A", Value: "1"},
			{Key: "X-A", Value: "11"},
			{Key: "X-B", Value: "2"},
		}, resp.Headers)
		require.Equal(t, "hello", string(resp.Body))
		require.Equal(t, 5, w.Size())
	})

	t.Run("write keeps status set elsewhere", func(t *testing.T) {
		t.Parallel()

		resp := httpmsg.NewResponse(http.StatusAccepted)
		w := newResponseWriter(resp)
		_, _ = w.Write([]byte("x"))
		require.Equal(t, http.StatusAccepted, w.Status())
	})

	t.Run("write header once", func(t *testing.T) {
		t.Parallel()

		resp := httpmsg.NewResponse(http.StatusOK)
		w := newResponseWriter(resp)
		w.WriteHeader(http.StatusNotFound)
		w.WriteHeader(http.StatusTeapot)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("headers after commit are ignored", func(t *testing.T) {
		t.Parallel()

		resp := httpmsg.NewResponse(http.StatusOK)
		w := newResponseWriter(resp)
		w.WriteHeader(http.StatusNoContent)
		w.Header().Set("X-Late", "1")
		w.finish()
		_, ok := resp.Header("X-Late")
		require.False(t, ok)
	})

	t.Run("finish appends headers without a write", func(t *testing.T) {
		t.Parallel()

		resp := httpmsg.NewResponse(http.StatusOK)
		w := newResponseWriter(resp)
		w.Header().Set("Location", "/next")
		w.finish()
		v, ok := resp.Header("Location")
		require.True(t, ok)
		require.Equal(t, "/next", v)
		require.False(t, w.Written())
	})

	t.Run("replace swaps the response", func(t *testing.T) {
		t.Parallel()

		resp := httpmsg.NewResponse(http.StatusOK)
		resp.AddHeader("X-Old", "1")
		w := newResponseWriter(resp)
		w.Header().Set("X-Pending", "1")
		_, _ = resp.Write([]byte("partial"))

		w.replace(errorResponse(http.StatusInternalServerError))
		w.finish()

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Equal(t, "Internal Server Error", string(resp.Body))
		_, ok := resp.Header("X-Old")
		require.False(t, ok)
		_, ok = resp.Header("X-Pending")
		require.False(t, ok)
	})
}
