package session

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/singleflight"
)

// DefaultPostgresTable is the table created by the pkg/db migrations.
const DefaultPostgresTable = "openframe_sessions"

const defaultPostgresLoadTimeout = 5 * time.Second

// farFuture stands in for "never expires" in the expires_at column.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// DBTX is the subset of *pgxpool.Pool used by PostgresStore.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps session values as JSONB rows.
// Concurrent loads of the same id share one query. The shared query is not
// tied to any single caller's cancellation; it is bounded by the load timeout.
type PostgresStore struct {
	db          DBTX
	group       singleflight.Group
	table       string
	loadTimeout time.Duration
}

// PostgresStoreOption configures the PostgresStore.
type PostgresStoreOption func(*PostgresStore)

// WithPostgresTable overrides the table name.
// Default: "openframe_sessions".
func WithPostgresTable(table string) PostgresStoreOption {
	return func(s *PostgresStore) {
		if table != "" {
			s.table = table
		}
	}
}

// WithPostgresLoadTimeout bounds a shared load query.
// Default: 5 seconds.
func WithPostgresLoadTimeout(d time.Duration) PostgresStoreOption {
	return func(s *PostgresStore) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

// NewPostgresStore creates a store backed by db (typically a *pgxpool.Pool).
func NewPostgresStore(db DBTX, opts ...PostgresStoreOption) *PostgresStore {
	s := &PostgresStore{db: db, table: DefaultPostgresTable, loadTimeout: defaultPostgresLoadTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the values stored for id, ignoring expired rows.
func (s *PostgresStore) Load(ctx context.Context, id string) (map[string]string, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	ch := s.group.DoChan(id, func() (any, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		var raw []byte
		q := "SELECT data FROM " + pgx.Identifier{s.table}.Sanitize() + " WHERE id = $1 AND expires_at > now()"
		if err := s.db.QueryRow(qctx, q, id).Scan(&raw); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		values := make(map[string]string)
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, errors.Join(ErrDecode, err)
		}
		return values, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// Callers sharing a flight must not share the map.
		return maps.Clone(res.Val.(map[string]string)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Save upserts the values for id.
func (s *PostgresStore) Save(ctx context.Context, id string, values map[string]string, ttl time.Duration) error {
	if id == "" {
		return ErrEmptyID
	}
	if values == nil {
		values = map[string]string{}
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}

	expiresAt := farFuture
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	q := "INSERT INTO " + pgx.Identifier{s.table}.Sanitize() + " (id, data, expires_at, updated_at) " +
		"VALUES ($1, $2::jsonb, $3, now()) " +
		"ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at, updated_at = now()"
	_, err = s.db.Exec(ctx, q, id, string(raw), expiresAt)
	return err
}

// Delete removes the row for id.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, "DELETE FROM "+pgx.Identifier{s.table}.Sanitize()+" WHERE id = $1", id)
	return err
}

// PurgeExpired deletes rows whose expiration passed.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM "+pgx.Identifier{s.table}.Sanitize()+" WHERE expires_at <= now()")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var (
	_ Store  = (*PostgresStore)(nil)
	_ Purger = (*PostgresStore)(nil)
)
