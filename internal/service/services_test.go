package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/and161185/agenda/internal/errs"
	"github.com/and161185/agenda/internal/metrics"
	"github.com/and161185/agenda/internal/result"
	"github.com/and161185/agenda/internal/validate"
)

func TestServices_DemoFlow(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	u := s.Users.Create(ctx, ana())
	require.True(t, u.OK)
	c := s.Categories.Create(ctx, validate.Input{"name": "Work", "ownerUserId": u.Value.ID.String()})
	require.True(t, c.OK)
	require.Equal(t, "#3498db", c.Value.Color)

	e := s.Events.Create(ctx, validate.Input{
		"title":       "Meeting",
		"startAt":     "2025-03-10T09:00:00Z",
		"endAt":       "2025-03-10T10:00:00Z",
		"ownerUserId": u.Value.ID.String(),
		"categoryId":  c.Value.ID.String(),
	})
	require.True(t, e.OK, "%+v", e.Error)

	list := s.Events.ListByOwner(ctx, u.Value.ID.String())
	require.True(t, list.OK)
	require.Len(t, list.Value, 1)
	require.Equal(t, "Ana", list.Value[0].User.Name)
	require.Equal(t, "#3498db", list.Value[0].Category.Color)
}

func TestScope_CommitThenAbortIsNoop(t *testing.T) {
	m := newMemStore()
	tx := &fakeTx{m: m}
	s := New(m.stores(), &fakeBeginner{tx: tx}, nil)
	ctx := context.Background()

	sc := s.Begin(ctx)
	require.True(t, sc.OK)
	require.True(t, sc.Value.Users.Create(ctx, ana()).OK)

	require.True(t, sc.Value.Commit(ctx).OK)
	ab := sc.Value.Abort(ctx)
	require.True(t, ab.OK)
	require.True(t, tx.committed)
	require.False(t, tx.rolled)

	again := sc.Value.Commit(ctx)
	require.Equal(t, errs.KindValidation, again.Code())
}

func TestScope_AbortAfterFailedCommit(t *testing.T) {
	m := newMemStore()
	tx := &fakeTx{m: m, commitErr: errors.New("serialization failure")}
	s := New(m.stores(), &fakeBeginner{tx: tx}, nil)
	ctx := context.Background()

	sc := s.Begin(ctx).Value
	require.Equal(t, errs.KindStorage, sc.Commit(ctx).Code())
	require.True(t, sc.Abort(ctx).OK)
	require.True(t, tx.rolled)
}

func TestServices_Begin_Errors(t *testing.T) {
	ctx := context.Background()
	m := newMemStore()

	res := New(m.stores(), nil, nil).Begin(ctx)
	require.Equal(t, errs.KindStorage, res.Code())

	res = New(m.stores(), &fakeBeginner{err: errDisk}, nil).Begin(ctx)
	require.Equal(t, errs.KindStorage, res.Code())
	require.Nil(t, res.Value)
}

func TestServices_ReportsOutcomes(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reg := prometheus.NewRegistry()
	col, err := metrics.New(reg)
	require.NoError(t, err)
	rep := &result.Reporter{Log: zap.New(core), Metrics: col}
	m := newMemStore()
	s := New(m.stores(), nil, rep)
	ctx := context.Background()

	require.True(t, s.Users.Create(ctx, ana()).OK)
	require.False(t, s.Users.Create(ctx, ana()).OK)

	require.Equal(t, 1, logs.FilterMessage("user created").Len())
	rejected := logs.FilterMessage("operation rejected").All()
	require.Len(t, rejected, 1)
	require.Equal(t, "user.create", rejected[0].ContextMap()["op"])
	require.Equal(t, "DUPLICATE", rejected[0].ContextMap()["code"])

	// one series per (op, code) pair
	n, err := testutil.GatherAndCount(reg, "agenda_operation_results_total")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
