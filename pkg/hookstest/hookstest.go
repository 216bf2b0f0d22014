package hookstest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/vango-dev/memokit/internal/errors"
	"github.com/vango-dev/memokit/pkg/hooks"
)

// Harness renders one component against a dedicated instance.
type Harness[P, R any] struct {
	inst    *hooks.Instance
	render  func(*hooks.Instance, P) R
	renders int
}

// New creates a harness whose instance is disposed when the test ends.
func New[P, R any](tb testing.TB, render func(*hooks.Instance, P) R, opts ...hooks.Option) *Harness[P, R] {
	tb.Helper()
	inst := hooks.NewInstance(nil, opts...)
	tb.Cleanup(inst.Dispose)
	return &Harness[P, R]{inst: inst, render: render}
}

// Render runs one render pass with props and returns the output.
func (h *Harness[P, R]) Render(props P) R {
	h.renders++
	return hooks.Render(h.inst, func() R {
		return h.render(h.inst, props)
	})
}

// Renders returns how many times Render was called.
func (h *Harness[P, R]) Renders() int {
	return h.renders
}

// Instance returns the harness instance.
func (h *Harness[P, R]) Instance() *hooks.Instance {
	return h.inst
}

// Counter counts calls. The zero value is ready to use and safe for
// concurrent use.
type Counter struct {
	n atomic.Int64
}

// Inc records one call.
func (c *Counter) Inc() {
	c.n.Add(1)
}

// Count returns the number of recorded calls.
func (c *Counter) Count() int {
	return int(c.n.Load())
}

// Counted wraps fn so that every call is recorded on c.
func Counted[T any](c *Counter, fn func() T) func() T {
	return func() T {
		c.Inc()
		return fn()
	}
}

// ExpectCount fails the test when c has not recorded exactly want calls.
func ExpectCount(tb testing.TB, name string, c *Counter, want int) {
	tb.Helper()
	if got := c.Count(); got != want {
		tb.Errorf("%s called %d times, want %d", name, got, want)
	}
}

// ExpectPanicCode runs fn and fails the test unless it panics with a
// memokit error carrying code. The recovered error is returned, or nil when
// fn did not panic that way.
func ExpectPanicCode(tb testing.TB, code string, fn func()) (err error) {
	tb.Helper()

	defer func() {
		tb.Helper()
		r := recover()
		if r == nil {
			tb.Errorf("expected panic with %s, got none", code)
			return
		}
		me, ok := r.(*errors.Error)
		if !ok {
			tb.Errorf("expected panic with %s, got %s", code, describe(r))
			return
		}
		if me.Code != code {
			tb.Errorf("expected panic with %s, got %s", code, me.Error())
		}
		err = me
	}()

	fn()
	return nil
}

func describe(v any) string {
	if e, ok := v.(error); ok {
		return e.Error()
	}
	return fmt.Sprintf("%v", v)
}
