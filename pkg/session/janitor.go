package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/openframe/pkg/logger"
)

const (
	defaultJanitorSchedule = "@every 10m"
	defaultJanitorTimeout  = 30 * time.Second
)

// Janitor periodically removes expired sessions from a Purger.
type Janitor struct {
	purger   Purger
	cron     *cron.Cron
	logger   *slog.Logger
	schedule string
	timeout  time.Duration
	entry    cron.EntryID
	mu       sync.Mutex
	running  bool
}

// JanitorOption configures the Janitor.
type JanitorOption func(*Janitor)

// WithJanitorSchedule sets the cron expression (standard or descriptor form).
// Default: "@every 10m".
func WithJanitorSchedule(spec string) JanitorOption {
	return func(j *Janitor) {
		if spec != "" {
			j.schedule = spec
		}
	}
}

// WithJanitorTimeout bounds a single sweep.
// Default: 30 seconds.
func WithJanitorTimeout(d time.Duration) JanitorOption {
	return func(j *Janitor) {
		if d > 0 {
			j.timeout = d
		}
	}
}

// WithJanitorLogger sets the logger for sweep results.
func WithJanitorLogger(l *slog.Logger) JanitorOption {
	return func(j *Janitor) {
		if l != nil {
			j.logger = l
		}
	}
}

// NewJanitor creates a janitor for p. Call Start to schedule sweeps.
func NewJanitor(p Purger, opts ...JanitorOption) *Janitor {
	j := &Janitor{
		purger:   p,
		schedule: defaultJanitorSchedule,
		timeout:  defaultJanitorTimeout,
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(j)
	}
	j.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	return j
}

// Start schedules periodic sweeps. The signature matches startup hooks.
func (j *Janitor) Start(_ context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return nil
	}
	entry, err := j.cron.AddFunc(j.schedule, j.run)
	if err != nil {
		return fmt.Errorf("session janitor: invalid schedule %q: %w", j.schedule, err)
	}
	j.entry = entry
	j.cron.Start()
	j.running = true
	return nil
}

// Stop halts scheduling and waits for a sweep in progress, bounded by ctx.
func (j *Janitor) Stop(ctx context.Context) error {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = false
	stopped := j.cron.Stop()
	j.cron.Remove(j.entry)
	j.mu.Unlock()

	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep runs one purge immediately.
func (j *Janitor) Sweep(ctx context.Context) (int64, error) {
	return j.purger.PurgeExpired(ctx)
}

func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.Sweep(ctx)
	if err != nil {
		j.logger.WarnContext(ctx, "session sweep failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "expired sessions removed", slog.Int64("count", n))
	}
}
