// Package pgstore backs kv.Store with one PostgreSQL table shared by every
// namespace.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oukeidos/wordlens/internal/kv"
)

const Table = "wordlens_kv"

const schemaSQL = `CREATE TABLE IF NOT EXISTS wordlens_kv (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      BYTEA       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
)`

// DB is the subset of pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the table when it does not exist.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("pgstore: ensure schema: %w", err)
	}
	return nil
}

type Store struct {
	db        DB
	namespace string
	now       func() time.Time
}

func New(db DB, namespace string) *Store {
	return &Store{db: db, namespace: namespace, now: time.Now}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := psql.Select("value").
		From(Table).
		Where(sq.Eq{"namespace": s.namespace, "key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("pgstore: build get: %w", err)
	}
	var value []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("pgstore: get %s/%s: %w", s.namespace, key, err)
	}
	return value, nil
}

func (s *Store) upsert(key string, value []byte) (string, []any, error) {
	query, args, err := psql.Insert(Table).
		Columns("namespace", "key", "value", "updated_at").
		Values(s.namespace, key, value, s.now().UTC()).
		Suffix("ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("pgstore: build set: %w", err)
	}
	return query, args, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := s.upsert(key, value)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("pgstore: set %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

// SetMany upserts every value inside one transaction, in key order.
func (s *Store) SetMany(ctx context.Context, values map[string][]byte) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgstore: begin: %w", err)
	}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		query, args, err := s.upsert(key, values[key])
		if err == nil {
			_, err = tx.Exec(ctx, query, args...)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("pgstore: set %s/%s: %w", s.namespace, key, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pgstore: commit: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	query, args, err := psql.Delete(Table).
		Where(sq.Eq{"namespace": s.namespace, "key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("pgstore: build delete: %w", err)
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("pgstore: delete %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	query, args, err := psql.Select("key").
		From(Table).
		Where(sq.Eq{"namespace": s.namespace}).
		OrderBy("key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("pgstore: build keys: %w", err)
	}
	var keys []string
	if err := pgxscan.Select(ctx, s.db, &keys, query, args...); err != nil {
		return nil, fmt.Errorf("pgstore: keys %s: %w", s.namespace, err)
	}
	return keys, nil
}

var _ kv.Store = (*Store)(nil)
