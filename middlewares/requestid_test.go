package middlewares_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/internal"
	"github.com/dmitrymomot/openframe/middlewares"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := routes(func(r internal.Router) {
		r.GET("/", func(ctx context.Context) error {
			seen = middlewares.GetRequestID(ctx)
			return nil
		})
	})

	t.Run("honors inbound header", func(t *testing.T) {
		resp := serve(t, get("/", "X-Request-ID: upstream-1"),
			internal.WithMiddleware(middlewares.RequestID()),
			internal.WithHandlers(handler),
		)
		require.Equal(t, "upstream-1", resp.Header.Get("X-Request-ID"))
		require.Equal(t, "upstream-1", seen)
	})

	t.Run("falls back to correlation header", func(t *testing.T) {
		resp := serve(t, get("/", "X-Correlation-ID: corr-9"),
			internal.WithMiddleware(middlewares.RequestID()),
			internal.WithHandlers(handler),
		)
		require.Equal(t, "corr-9", resp.Header.Get("X-Request-ID"))
	})

	t.Run("keeps dispatcher id without header", func(t *testing.T) {
		resp := serve(t, get("/"),
			internal.WithMiddleware(middlewares.RequestID()),
			internal.WithHandlers(handler),
		)
		id := resp.Header.Get("X-Request-ID")
		require.Len(t, id, 36)
		require.Equal(t, id, seen)
	})

	t.Run("custom headers and response header", func(t *testing.T) {
		resp := serve(t, get("/", "X-Trace: tr-1"),
			internal.WithMiddleware(middlewares.RequestID(
				middlewares.WithRequestIDHeaders("X-Trace"),
				middlewares.WithRequestIDResponseHeader("X-Trace-Echo"),
			)),
			internal.WithHandlers(handler),
		)
		require.Equal(t, "tr-1", resp.Header.Get("X-Trace-Echo"))
		require.Empty(t, resp.Header.Get("X-Request-ID"))
	})
}

func TestRequestID_NoActiveFrame(t *testing.T) {
	t.Parallel()

	h := middlewares.RequestID()(func(context.Context) error { return nil })
	require.ErrorIs(t, h(context.Background()), internal.ErrNoActiveFrame)
}
