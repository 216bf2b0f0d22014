package hookstest

import (
	"strings"
	"testing"

	"github.com/vango-dev/memokit/pkg/hooks"
)

func TestHarnessReusesInstance(t *testing.T) {
	calls := &Counter{}
	h := New(t, func(inst *hooks.Instance, n int) int {
		return hooks.UseMemo(inst, Counted(calls, func() int { return n * 2 }), hooks.Deps{n})
	})

	if got := h.Render(2); got != 4 {
		t.Fatalf("Render(2) = %d, want 4", got)
	}
	if got := h.Render(2); got != 4 {
		t.Fatalf("second Render(2) = %d, want 4", got)
	}

	ExpectCount(t, "compute", calls, 1)
	if h.Renders() != 2 || h.Instance().Passes() != 2 {
		t.Errorf("renders = %d, passes = %d, want 2 and 2", h.Renders(), h.Instance().Passes())
	}
}

func TestExpectPanicCode(t *testing.T) {
	inst := hooks.NewInstance(nil)
	defer inst.Dispose()

	err := ExpectPanicCode(t, "E001", func() {
		hooks.UseRef(inst, 0)
	})
	if err == nil || !strings.HasPrefix(err.Error(), "E001: ") {
		t.Fatalf("ExpectPanicCode returned %v", err)
	}
}
