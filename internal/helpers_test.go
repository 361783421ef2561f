package internal

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/pkg/httpmsg"
)

func TestParamAs(t *testing.T) {
	t.Parallel()

	req := httpmsg.NewRequest()
	req.Method = http.MethodGet
	req.Query["page"] = "3"
	req.Query["ratio"] = "0.5"
	req.Query["on"] = "true"
	req.Query["big"] = "9000000000"
	req.Query["bad"] = "x"
	ctx, _ := activeContext(t, req)

	page, err := ParamAs(ctx, "page", 1)
	require.NoError(t, err)
	require.Equal(t, 3, page)

	ratio, _ := ParamAs(ctx, "ratio", 1.0)
	require.InDelta(t, 0.5, ratio, 1e-9)

	on, _ := ParamAs(ctx, "on", false)
	require.True(t, on)

	big, _ := ParamAs(ctx, "big", int64(0))
	require.Equal(t, int64(9000000000), big)

	bad, _ := ParamAs(ctx, "bad", 7)
	require.Equal(t, 7, bad)

	missing, _ := ParamAs(ctx, "missing", "fallback")
	require.Equal(t, "fallback", missing)

	_, err = ParamAs(t.Context(), "page", 0)
	require.ErrorIs(t, err, ErrNoActiveFrame)
}
