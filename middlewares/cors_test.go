package middlewares_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/internal"
	"github.com/dmitrymomot/openframe/middlewares"
)

func corsRoutes() internal.Handler {
	return routes(func(r internal.Router) {
		r.GET("/data", func(ctx context.Context) error {
			return internal.WriteString(ctx, "ok")
		})
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("no origin leaves response alone", func(t *testing.T) {
		t.Parallel()

		resp := serve(t, get("/data"), internal.WithMiddleware(middlewares.CORS()), internal.WithHandlers(corsRoutes()))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard origin", func(t *testing.T) {
		t.Parallel()

		resp := serve(t, get("/data", "Origin: https://a.example"), internal.WithMiddleware(middlewares.CORS()), internal.WithHandlers(corsRoutes()))
		require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		require.Equal(t, "Origin", resp.Header.Get("Vary"))
	})

	t.Run("credentials echo origin", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(middlewares.WithAllowCredentials(), middlewares.WithExposeHeaders("X-Request-ID"))
		resp := serve(t, get("/data", "Origin: https://a.example"), internal.WithMiddleware(mw), internal.WithHandlers(corsRoutes()))
		require.Equal(t, "https://a.example", resp.Header.Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
		require.Equal(t, "X-Request-ID", resp.Header.Get("Access-Control-Expose-Headers"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(middlewares.WithAllowOrigins("https://good.example"))
		resp := serve(t, get("/data", "Origin: https://evil.example"), internal.WithMiddleware(mw), internal.WithHandlers(corsRoutes()))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("origin func", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.CORS(middlewares.WithAllowOriginFunc(func(o string) bool {
			return strings.HasSuffix(o, ".example")
		}))
		resp := serve(t, get("/data", "Origin: https://sub.example"), internal.WithMiddleware(mw), internal.WithHandlers(corsRoutes()))
		require.Equal(t, "https://sub.example", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()

		raw := "OPTIONS /data HTTP/1.1\r\nHost: example.com\r\nOrigin: https://a.example\r\nAccess-Control-Request-Method: POST\r\n\r\n"
		resp := serve(t, raw, internal.WithMiddleware(middlewares.CORS()), internal.WithHandlers(corsRoutes()))
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
		require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
		require.Equal(t, "43200", resp.Header.Get("Access-Control-Max-Age"))
		require.Equal(t, []string{"Origin", "Access-Control-Request-Method", "Access-Control-Request-Headers"}, resp.Header.Values("Vary"))
	})
}
