// Package postgres contains PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/and161185/agenda/internal/errs"
	"github.com/and161185/agenda/internal/repository"
)

// PgxPool is a minimal abstraction over a Postgres connection pool,
// used by repositories. It is implemented by *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	Querier
	// BeginTx starts a transaction with the provided options.
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	// Close shuts down the pool and frees resources.
	Close()
}

// Querier runs statements; both pools and transactions satisfy it.
type Querier interface {
	// Exec executes a SQL command and returns the command tag.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	// Query executes a SELECT and returns a rows iterator.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	// QueryRow executes a query expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// source hands repositories the querier to run against.
type source interface {
	querier() (Querier, error)
}

// DB holds the shared connection pool. It is established once at startup;
// repositories fail with errs.ErrNotConnected until then.
type DB struct {
	mu   sync.RWMutex
	Pool PgxPool
	Log  *zap.Logger
}

// New creates a DB connected to dsn.
func New(ctx context.Context, dsn string, log *zap.Logger) (*DB, error) {
	db := &DB{Log: log}
	if err := db.Connect(ctx, dsn); err != nil {
		return nil, err
	}
	return db, nil
}

// Connect establishes the pool. Calling it on a connected DB is a no-op.
func (db *DB) Connect(ctx context.Context, dsn string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Pool != nil {
		db.logger().Debug("storage already connected")
		return nil
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		db.logger().Error("storage connect", zap.Error(err))
		return err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		db.logger().Error("storage ping", zap.Error(err))
		return err
	}
	db.Pool = pool
	db.logger().Info("storage connected")
	return nil
}

// Connected reports whether the pool is established.
func (db *DB) Connected() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.Pool != nil
}

// Close closes the underlying pool. Closing twice is a no-op.
func (db *DB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.Pool == nil {
		return
	}
	db.Pool.Close()
	db.Pool = nil
	db.logger().Info("storage disconnected")
}

// Stores returns repositories running directly against the pool.
func (db *DB) Stores() repository.Stores {
	return repository.Stores{
		Users:      NewUserRepo(db),
		Categories: NewCategoryRepo(db),
		Events:     NewEventRepo(db),
	}
}

// Begin opens a caller-driven transaction.
func (db *DB) Begin(ctx context.Context) (repository.Tx, error) {
	pool, err := db.pool()
	if err != nil {
		return nil, err
	}
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	db.logger().Debug("transaction started")
	return &Tx{tx: tx, log: db.logger()}, nil
}

func (db *DB) pool() (PgxPool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.Pool == nil {
		return nil, errs.ErrNotConnected
	}
	return db.Pool, nil
}

func (db *DB) querier() (Querier, error) { return db.pool() }

func (db *DB) logger() *zap.Logger {
	if db.Log == nil {
		return zap.NewNop()
	}
	return db.Log
}

// Tx is a pgx transaction exposing transaction-bound repositories.
type Tx struct {
	tx  pgx.Tx
	log *zap.Logger
}

func (t *Tx) querier() (Querier, error) { return t.tx, nil }

// Stores returns repositories bound to the transaction.
func (t *Tx) Stores() repository.Stores {
	return repository.Stores{
		Users:      &UserRepo{src: t},
		Categories: &CategoryRepo{src: t},
		Events:     &EventRepo{src: t},
	}
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return err
	}
	t.log.Debug("transaction committed")
	return nil
}

// Rollback aborts the transaction. After a commit it does nothing.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	if err != nil {
		return err
	}
	t.log.Debug("transaction rolled back")
	return nil
}

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23505"
}

// notFoundOr maps pgx.ErrNoRows to errs.ErrNotFound and passes other errors through.
func notFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	return err
}
