package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
)

func logRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		out = append(out, rec)
	}
	return out
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	s := NewSender(slog.New(slog.NewJSONHandler(&logs, nil)), 0)

	req := httpmsg.NewRequest()
	req.Method, req.Path, req.RawQuery, req.Proto = http.MethodGet, "/a", "b=1", "HTTP/1.1"
	f := newFrame(nil)
	f.request = req
	f.response = httpmsg.NewResponse(http.StatusOK)
	_, _ = f.response.Write([]byte("hi"))
	want := f.response.Bytes()

	conn := &fakeConn{}
	s.Send(context.Background(), conn, f)

	require.Equal(t, string(want), conn.String())
	require.Equal(t, 1, conn.Closed())
	require.Nil(t, f.Request())
	require.Nil(t, f.Response())

	recs := logRecords(t, &logs)
	require.Len(t, recs, 1)
	require.Equal(t, "request", recs[0]["msg"])
	require.Equal(t, "GET /a?b=1 HTTP/1.1", recs[0]["summary"])
	require.EqualValues(t, 200, recs[0]["status"])
	require.EqualValues(t, len(want), recs[0]["size"])
}

func TestSender_NoRequestSummary(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	s := NewSender(slog.New(slog.NewJSONHandler(&logs, nil)), 0)

	f := newFrame(nil)
	f.response = errorResponse(http.StatusInternalServerError)
	s.Send(context.Background(), &fakeConn{}, f)

	recs := logRecords(t, &logs)
	require.Len(t, recs, 1)
	require.Equal(t, "-", recs[0]["summary"])
	require.EqualValues(t, 500, recs[0]["status"])
}

func TestSender_WriteFailure(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	s := NewSender(slog.New(slog.NewJSONHandler(&logs, nil)), 0)

	f := newFrame(nil)
	f.response = httpmsg.NewResponse(http.StatusOK)
	conn := &fakeConn{writeErr: errors.New("broken pipe")}

	require.NotPanics(t, func() { s.Send(context.Background(), conn, f) })
	require.Equal(t, 1, conn.Closed())
	require.Nil(t, f.Response())

	recs := logRecords(t, &logs)
	require.Len(t, recs, 2)
	require.Equal(t, "response write failed", recs[1]["msg"])
	require.Contains(t, recs[1]["error"], "broken pipe")
}

func TestSender_MissingResponse(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	NewSender(nil, 0).Send(context.Background(), conn, newFrame(nil))

	require.Contains(t, conn.String(), "HTTP/1.1 500 Internal Server Error\r\n")
	require.Equal(t, 1, conn.Closed())
}

func TestSender_NilConn(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	s := NewSender(slog.New(slog.NewJSONHandler(&logs, nil)), 0)

	f := newFrame(nil)
	f.response = httpmsg.NewResponse(http.StatusOK)

	require.NotPanics(t, func() { s.Send(context.Background(), nil, f) })
	require.Nil(t, f.Response())

	recs := logRecords(t, &logs)
	require.Len(t, recs, 1)
	require.Equal(t, "response dropped", recs[0]["msg"])
}

func TestSender_HeadOmitsBody(t *testing.T) {
	t.Parallel()

	req := httpmsg.NewRequest()
	req.Method, req.Path, req.Proto = http.MethodHead, "/a", "HTTP/1.1"
	f := newFrame(nil)
	f.request = req
	f.response = httpmsg.NewResponse(http.StatusOK)
	_, _ = f.response.Write([]byte("hello"))

	conn := &fakeConn{}
	NewSender(nil, 0).Send(context.Background(), conn, f)

	require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\n", conn.String())
	require.Equal(t, 1, conn.Closed())
}
