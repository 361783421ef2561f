package session_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/openframe/pkg/session"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls.Add(1)
	return 1, nil
}

type failingPurger struct {
	calls atomic.Int32
}

func (p *failingPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls.Add(1)
	return 0, errors.New("db unavailable")
}

// lockedBuffer is written by the cron goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestJanitor_Sweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(ctx, "old", map[string]string{"a": "1"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	n, err := session.NewJanitor(store).Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestJanitor_Schedule(t *testing.T) {
	t.Parallel()

	p := &countingPurger{}
	j := session.NewJanitor(p, session.WithJanitorSchedule("@every 1s"))
	require.NoError(t, j.Start(context.Background()))
	require.NoError(t, j.Start(context.Background()), "start is idempotent")

	require.Eventually(t, func() bool { return p.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, j.Stop(ctx))
	require.NoError(t, j.Stop(ctx), "stop is idempotent")
}

func TestJanitor_InvalidSchedule(t *testing.T) {
	t.Parallel()

	j := session.NewJanitor(&countingPurger{}, session.WithJanitorSchedule("not a schedule"))
	require.Error(t, j.Start(context.Background()))
}

func TestJanitor_Logging(t *testing.T) {
	t.Parallel()

	t.Run("logs removed sessions", func(t *testing.T) {
		t.Parallel()

		var logs lockedBuffer
		j := session.NewJanitor(&countingPurger{},
			session.WithJanitorSchedule("@every 1s"),
			session.WithJanitorLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
		)
		require.NoError(t, j.Start(context.Background()))
		defer func() { _ = j.Stop(context.Background()) }()

		require.Eventually(t, func() bool {
			return strings.Contains(logs.String(), `"msg":"expired sessions removed"`)
		}, 3*time.Second, 50*time.Millisecond)
	})

	t.Run("default logger discards failures", func(t *testing.T) {
		t.Parallel()

		p := &failingPurger{}
		j := session.NewJanitor(p, session.WithJanitorSchedule("@every 1s"))
		require.NoError(t, j.Start(context.Background()))
		defer func() { _ = j.Stop(context.Background()) }()

		require.Eventually(t, func() bool { return p.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	})
}
