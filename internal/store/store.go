package store

import (
	"context"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx used by the query builders. Both the pool and
// an open transaction satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Transactor runs fn atomically. Store implements it; services depend on the
// interface so they can be tested without a database.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store owns the connection pool shared by all tables and runs
// multi-step operations in a transaction.
type Store struct {
	pool    *pgxpool.Pool
	getter  *trmpgx.CtxGetter
	manager *manager.Manager
}

// New creates a Store backed by pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:    pool,
		getter:  trmpgx.DefaultCtxGetter,
		manager: manager.Must(trmpgx.NewDefaultFactory(pool)),
	}
}

// Do runs fn inside a transaction. Every table call made with the context
// passed to fn joins that transaction; a returned error rolls it back.
// Nested calls reuse the outer transaction.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.manager.Do(ctx, fn)
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// conn returns the transaction bound to ctx, or the pool when there is none.
func (s *Store) conn(ctx context.Context) Querier {
	return s.getter.DefaultTrOrDB(ctx, s.pool)
}
