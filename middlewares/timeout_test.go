package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/internal"
	"github.com/dmitrymomot/openframe/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("returns TimeoutError after deadline", func(t *testing.T) {
		t.Parallel()

		h := middlewares.Timeout(20 * time.Millisecond)(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})

		err := h(context.Background())
		te, ok := middlewares.AsTimeoutError(err)
		require.True(t, ok)
		require.Equal(t, 20*time.Millisecond, te.Duration)
	})

	t.Run("passes handler result within deadline", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("done")
		h := middlewares.Timeout(time.Second)(func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			require.True(t, ok)
			return sentinel
		})
		require.ErrorIs(t, h(context.Background()), sentinel)
	})

	t.Run("parent cancellation is not a timeout", func(t *testing.T) {
		t.Parallel()

		parent, cancel := context.WithCancel(context.Background())
		cancel()

		h := middlewares.Timeout(time.Second)(func(ctx context.Context) error { return ctx.Err() })
		err := h(parent)
		require.ErrorIs(t, err, context.Canceled)
		require.False(t, middlewares.IsTimeoutError(err))
	})

	t.Run("non-positive duration uses default", func(t *testing.T) {
		t.Parallel()

		h := middlewares.Timeout(0)(func(ctx context.Context) error {
			d, _ := ctx.Deadline()
			require.WithinDuration(t, time.Now().Add(middlewares.DefaultTimeout), d, time.Second)
			return nil
		})
		require.NoError(t, h(context.Background()))
	})
}

func TestTimeout_ThroughApp(t *testing.T) {
	t.Parallel()

	resp := serve(t, get("/slow"),
		internal.WithMiddleware(middlewares.Timeout(10*time.Millisecond)),
		internal.WithErrorHandler(middlewares.ErrorHandler),
		internal.WithHandlers(routes(func(r internal.Router) {
			r.GET("/slow", func(ctx context.Context) error {
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
				return internal.WriteString(ctx, "late")
			})
		})),
	)

	require.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}
