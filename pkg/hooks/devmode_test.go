package hooks_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/memokit/internal/errors"
	"github.com/vango-dev/memokit/pkg/hooks"
	"github.com/vango-dev/memokit/pkg/hookstest"
)

func withOrderCheck(t *testing.T, mode hooks.HookOrderMode, dev bool) {
	t.Helper()
	oldMode, oldDev := hooks.HookOrderCheck, hooks.DevMode
	hooks.HookOrderCheck, hooks.DevMode = mode, dev
	t.Cleanup(func() {
		hooks.HookOrderCheck, hooks.DevMode = oldMode, oldDev
	})
}

// conditional calls a Ref hook only when extra is set.
func conditional(inst *hooks.Instance, extra bool) int {
	if extra {
		hooks.UseRef(inst, 0)
	}
	return hooks.UseMemo(inst, func() int { return 1 }, nil)
}

// counted calls n Memo hooks.
func counted(inst *hooks.Instance, n int) int {
	for i := 0; i < n; i++ {
		hooks.UseMemo(inst, func() int { return i }, nil)
	}
	return n
}

// orderError runs fn and returns the E002 it panics with.
func orderError(t *testing.T, fn func()) *errors.Error {
	t.Helper()
	err, _ := hookstest.ExpectPanicCode(t, "E002", fn).(*errors.Error)
	return err
}

func TestHookOrderPanicReportsCallSite(t *testing.T) {
	withOrderCheck(t, hooks.HookOrderPanic, false)

	h := hookstest.New(t, conditional)
	h.Render(false)

	err := orderError(t, func() { h.Render(true) })
	if err == nil {
		t.FailNow()
	}
	if err.Location == nil {
		t.Fatal("E002 should carry the call site")
	}
	if filepath.Base(err.Location.File) != "devmode_test.go" || err.Location.Line == 0 {
		t.Errorf("location = %s, want a line in devmode_test.go", err.Location.String())
	}
	if !strings.Contains(err.Detail, "expected Memo") {
		t.Errorf("detail = %q", err.Detail)
	}

	if h.Instance().Rendering() {
		t.Fatal("pass should be closed after the order panic")
	}
	if got := h.Render(false); got != 1 {
		t.Errorf("instance should keep rendering with the original order, got %d", got)
	}
}

func TestDevModeImpliesPanic(t *testing.T) {
	withOrderCheck(t, hooks.HookOrderOff, true)

	h := hookstest.New(t, counted)
	h.Render(1)
	hookstest.ExpectPanicCode(t, "E002", func() { h.Render(2) })
}

func TestHookOrderCountMismatchAtEndRender(t *testing.T) {
	withOrderCheck(t, hooks.HookOrderPanic, false)

	h := hookstest.New(t, counted)
	h.Render(2)

	err := orderError(t, func() { h.Render(1) })
	if err != nil && !strings.Contains(err.Detail, "expected 2 hooks") {
		t.Errorf("detail = %q", err.Detail)
	}
}

func TestHookOrderAfterFailedFirstRender(t *testing.T) {
	withOrderCheck(t, hooks.HookOrderPanic, false)

	fail := true
	h := hookstest.New(t, func(inst *hooks.Instance, _ struct{}) int {
		v := hooks.UseMemo(inst, func() int { return 1 }, nil)
		if fail {
			panic("load failed")
		}
		hooks.UseRef(inst, 0)
		return v
	})

	func() {
		defer func() {
			if r := recover(); r != "load failed" {
				t.Fatalf("recovered %v", r)
			}
		}()
		h.Render(struct{}{})
	}()

	fail = false
	for i := 0; i < 3; i++ {
		if got := h.Render(struct{}{}); got != 1 {
			t.Fatalf("render %d = %d", i, got)
		}
	}
	if got := h.Instance().Passes(); got != 3 {
		t.Errorf("Passes() = %d, want 3", got)
	}
}

func TestHookOrderWarnLogs(t *testing.T) {
	withOrderCheck(t, hooks.HookOrderWarn, false)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := hookstest.New(t, counted, hooks.WithLogger(logger))

	h.Render(1)
	if got := h.Render(3); got != 3 {
		t.Fatalf("render = %d", got)
	}

	out := buf.String()
	if !strings.Contains(out, "hook order changed") || !strings.Contains(out, "E002") {
		t.Fatalf("log output = %q", out)
	}
	if n := strings.Count(out, "hook order changed"); n != 1 {
		t.Errorf("warned %d times in one pass, want 1", n)
	}
	if !strings.Contains(out, "devmode_test.go") {
		t.Errorf("warning should name the call site: %q", out)
	}
}

func TestHookOrderOffAllowsCountChanges(t *testing.T) {
	withOrderCheck(t, hooks.HookOrderOff, false)

	h := hookstest.New(t, counted)
	h.Render(1)
	h.Render(3)
	if got := h.Instance().SlotCount(); got != 3 {
		t.Errorf("slots = %d, want 3", got)
	}
}

func TestKindMismatchWithoutOrderCheck(t *testing.T) {
	withOrderCheck(t, hooks.HookOrderOff, false)

	h := hookstest.New(t, conditional)
	h.Render(false)
	hookstest.ExpectPanicCode(t, "E003", func() { h.Render(true) })
}
