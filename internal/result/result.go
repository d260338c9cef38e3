// Package result defines the success/failure envelope returned across the data-access boundary.
package result

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/agenda/internal/errs"
	"github.com/and161185/agenda/internal/metrics"
)

// Failure describes why an operation did not succeed.
type Failure struct {
	Code    errs.Kind `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"` // diagnostics, empty in production
}

// Result is either {ok:true, value} or {ok:false, error}.
type Result[T any] struct {
	OK    bool     `json:"ok"`
	Value T        `json:"value,omitempty"`
	Error *Failure `json:"error,omitempty"`
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] { return Result[T]{OK: true, Value: v} }

// Err wraps a failure.
func Err[T any](f *Failure) Result[T] { return Result[T]{Error: f} }

// Code returns the failure code, or "" for a success.
func (r Result[T]) Code() errs.Kind {
	if r.Error == nil {
		return ""
	}
	return r.Error.Code
}

// Reporter classifies, logs and counts outcomes at the operation boundary.
type Reporter struct {
	Production bool
	Log        *zap.Logger
	Metrics    *metrics.Collectors
}

func (r *Reporter) logger() *zap.Logger {
	if r == nil || r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// Fail converts err into a Failure and records it.
func (r *Reporter) Fail(op string, err error, started time.Time) *Failure {
	kind := errs.Classify(err)
	f := &Failure{Code: kind, Message: errs.Message(err)}
	if r == nil || !r.Production {
		f.Detail = err.Error()
	}

	fields := []zap.Field{zap.String("op", op), zap.String("code", string(kind)), zap.Error(err)}
	if kind == errs.KindStorage {
		r.logger().Error("operation failed", fields...)
	} else {
		r.logger().Warn("operation rejected", fields...)
	}
	if r != nil {
		r.Metrics.Observe(op, string(kind), time.Since(started))
	}
	return f
}

// Succeed records a successful operation.
func (r *Reporter) Succeed(op string, started time.Time) {
	if r != nil {
		r.Metrics.Observe(op, metrics.CodeOK, time.Since(started))
	}
}

// Run executes fn and wraps its outcome. Panics are recovered and reported as storage errors.
func Run[T any](ctx context.Context, rep *Reporter, op string, fn func(context.Context) (T, error)) (res Result[T]) {
	started := time.Now()
	defer func() {
		if p := recover(); p != nil {
			rep.logger().Error("panic",
				zap.Any("reason", p),
				zap.ByteString("stack", debug.Stack()),
				zap.String("op", op),
			)
			res = Err[T](rep.Fail(op, fmt.Errorf("panic: %v", p), started))
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		return Err[T](rep.Fail(op, err, started))
	}
	rep.Succeed(op, started)
	return OK(v)
}
