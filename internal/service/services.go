// Package service implements the validated entity operations. Every public
// method returns a result envelope; no Go error or panic leaves this package.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/agenda/internal/errs"
	"github.com/and161185/agenda/internal/repository"
	"github.com/and161185/agenda/internal/result"
)

// deps are shared by all entity services.
type deps struct {
	rep *result.Reporter
	log *zap.Logger
	now func() time.Time
}

// Option customises Services.
type Option func(*deps)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

// WithLogger sets the logger used for mutation logs.
func WithLogger(log *zap.Logger) Option {
	return func(d *deps) { d.log = log }
}

// Services groups the entity services over one set of stores.
type Services struct {
	Users      *UserService
	Categories *CategoryService
	Events     *EventService

	tx repository.TxBeginner
	d  deps
}

// New wires services over stores. tx may be nil when transactions are not needed.
func New(stores repository.Stores, tx repository.TxBeginner, rep *result.Reporter, opts ...Option) *Services {
	d := deps{rep: rep, now: func() time.Time { return time.Now().UTC() }}
	if rep != nil {
		d.log = rep.Log
	}
	for _, o := range opts {
		o(&d)
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	s := &Services{tx: tx, d: d}
	s.Users, s.Categories, s.Events = bind(stores, d)
	return s
}

func bind(st repository.Stores, d deps) (*UserService, *CategoryService, *EventService) {
	return &UserService{users: st.Users, deps: d},
		&CategoryService{categories: st.Categories, deps: d},
		&EventService{events: st.Events, users: st.Users, categories: st.Categories, deps: d}
}

// Scope runs entity operations inside one caller-driven transaction.
// Abort after Commit is a no-op, so deferring Abort is always safe.
type Scope struct {
	Users      *UserService
	Categories *CategoryService
	Events     *EventService

	tx   repository.Tx
	d    deps
	done bool
}

// Begin opens a transaction scope.
func (s *Services) Begin(ctx context.Context) result.Result[*Scope] {
	return result.Run(ctx, s.d.rep, "tx.begin", func(ctx context.Context) (*Scope, error) {
		if s.tx == nil {
			return nil, errs.ErrNotConnected
		}
		tx, err := s.tx.Begin(ctx)
		if err != nil {
			return nil, err
		}
		sc := &Scope{tx: tx, d: s.d}
		sc.Users, sc.Categories, sc.Events = bind(tx.Stores(), s.d)
		s.d.log.Debug("transaction started")
		return sc, nil
	})
}

// Commit makes the scope's writes durable.
func (sc *Scope) Commit(ctx context.Context) result.Result[string] {
	return result.Run(ctx, sc.d.rep, "tx.commit", func(ctx context.Context) (string, error) {
		if sc.done {
			return "", errs.Validation("transaction already finished")
		}
		if err := sc.tx.Commit(ctx); err != nil {
			return "", err
		}
		sc.done = true
		sc.d.log.Debug("transaction committed")
		return "committed", nil
	})
}

// Abort rolls the scope back.
func (sc *Scope) Abort(ctx context.Context) result.Result[string] {
	return result.Run(ctx, sc.d.rep, "tx.abort", func(ctx context.Context) (string, error) {
		if sc.done {
			return "aborted", nil
		}
		if err := sc.tx.Rollback(ctx); err != nil {
			return "", err
		}
		sc.done = true
		sc.d.log.Debug("transaction aborted")
		return "aborted", nil
	})
}
