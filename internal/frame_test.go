package internal

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/pkg/config"
	"github.com/dmitrymomot/openframe/pkg/httpmsg"
	"github.com/dmitrymomot/openframe/pkg/session"
)

// activeContext returns a context bound to a frame with a request in flight.
func activeContext(t *testing.T, req *httpmsg.Request) (context.Context, *Frame) {
	t.Helper()

	f := newFrame(config.New(map[string]string{"app.name": "openframe"}))
	f.request = req
	f.response = httpmsg.NewResponse(http.StatusOK)
	f.session = session.New("sid")
	return WithFrame(context.Background(), f), f
}

func TestFrameFromContext(t *testing.T) {
	t.Parallel()

	_, err := FrameFromContext(context.Background())
	require.ErrorIs(t, err, ErrNoActiveFrame)

	f := newFrame(nil)
	ctx := WithFrame(context.Background(), f)
	got, err := FrameFromContext(ctx)
	require.NoError(t, err)
	require.Same(t, f, got)
	require.NotEmpty(t, f.ID())

	f.Terminate()
	f.Terminate()
	_, err = FrameFromContext(ctx)
	require.ErrorIs(t, err, ErrNoActiveFrame)
	require.True(t, f.Terminated())
}

func TestFacade_NoActiveFrame(t *testing.T) {
	t.Parallel()

	idle := WithFrame(context.Background(), newFrame(config.New(nil)))
	terminated := newFrame(nil)
	terminated.Terminate()

	contexts := map[string]context.Context{
		"unbound":    context.Background(),
		"idle frame": idle,
		"terminated": WithFrame(context.Background(), terminated),
	}
	for name, ctx := range contexts {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			require.ErrorIs(t, SetResponseHeader(ctx, "X", "y"), ErrNoActiveFrame)
			require.ErrorIs(t, SetResponseStatus(ctx, 201), ErrNoActiveFrame)
			require.ErrorIs(t, WriteString(ctx, "x"), ErrNoActiveFrame)
			require.ErrorIs(t, SetSessionValue(ctx, "k", "v"), ErrNoActiveFrame)
			require.ErrorIs(t, DeleteSessionValue(ctx, "k"), ErrNoActiveFrame)

			_, err := Request(ctx)
			require.ErrorIs(t, err, ErrNoActiveFrame)

			v, err := Param(ctx, "k", "def")
			require.ErrorIs(t, err, ErrNoActiveFrame)
			require.Equal(t, "def", v)

			v, err = SessionValue(ctx, "k", "def")
			require.ErrorIs(t, err, ErrNoActiveFrame)
			require.Equal(t, "def", v)

			_, err = SessionID(ctx)
			require.ErrorIs(t, err, ErrNoActiveFrame)

			_, err = PathParam(ctx, "id")
			require.ErrorIs(t, err, ErrNoActiveFrame)

			v, err = Config(ctx, "k", "def")
			require.ErrorIs(t, err, ErrNoActiveFrame)
			require.Equal(t, "def", v)
		})
	}
}

func TestFacade_ActiveFrame(t *testing.T) {
	t.Parallel()

	req := httpmsg.NewRequest()
	req.Method = http.MethodPost
	req.Params["a"] = "post"
	req.Query["a"] = "query"
	req.Query["b"] = "query"
	ctx, f := activeContext(t, req)

	require.NoError(t, SetResponseHeader(ctx, "X-One", "1"))
	require.NoError(t, SetResponseHeader(ctx, "X-One", "2"))
	require.NoError(t, SetResponseStatus(ctx, http.StatusCreated))
	require.NoError(t, WriteString(ctx, "body"))
	require.Equal(t, []string{"1", "2"}, f.response.Values("X-One"))
	require.Equal(t, http.StatusCreated, f.response.StatusCode)
	require.Equal(t, "body", string(f.response.Body))

	got, err := Request(ctx)
	require.NoError(t, err)
	require.Same(t, req, got)

	for key, want := range map[string]string{"a": "post", "b": "query", "c": "def"} {
		v, err := Param(ctx, key, "def")
		require.NoError(t, err)
		require.Equal(t, want, v, key)
	}

	require.NoError(t, SetSessionValue(ctx, "user", "ada"))
	v, err := SessionValue(ctx, "user", "")
	require.NoError(t, err)
	require.Equal(t, "ada", v)
	require.True(t, f.session.IsDirty())
	require.NoError(t, DeleteSessionValue(ctx, "user"))
	v, _ = SessionValue(ctx, "user", "none")
	require.Equal(t, "none", v)

	id, err := SessionID(ctx)
	require.NoError(t, err)
	require.Equal(t, "sid", id)

	v, err = Config(ctx, "app.name", "")
	require.NoError(t, err)
	require.Equal(t, "openframe", v)
	v, _ = Config(ctx, "missing", "fallback")
	require.Equal(t, "fallback", v)
}
