package hooks

import (
	"sync"
	"testing"

	"github.com/vango-dev/memokit/internal/errors"
)

func expectPanic(t *testing.T, code string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		me, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("expected %s panic, got %v", code, r)
		}
		if me.Code != code {
			t.Fatalf("expected %s panic, got %s", code, me.Error())
		}
	}()
	fn()
}

func TestInstanceBasic(t *testing.T) {
	inst := NewInstance(nil)
	defer inst.Dispose()

	if inst.ID() == 0 {
		t.Error("instance should have non-zero ID")
	}
	if inst.Parent() != nil {
		t.Error("root instance should have nil parent")
	}
	if inst.IsDisposed() || inst.Rendering() || inst.Dirty() {
		t.Error("new instance should be idle")
	}
	if inst.Logger() == nil || inst.Context() == nil {
		t.Error("defaults should be filled in")
	}
	if NewInstance(nil).ID() == inst.ID() {
		t.Error("IDs must be unique")
	}
}

func TestInstanceChildrenInheritOptions(t *testing.T) {
	scheduled := 0
	root := NewInstance(nil, WithScheduler(func(*Instance) { scheduled++ }))
	defer root.Dispose()
	child := NewInstance(root)

	if child.Parent() != root {
		t.Fatal("child parent should be root")
	}
	if child.Logger() != root.Logger() {
		t.Error("child should inherit the logger")
	}

	child.markDirty()
	if scheduled != 1 {
		t.Errorf("child scheduler calls = %d, want 1", scheduled)
	}
}

func TestInstanceDisposeOrder(t *testing.T) {
	root := NewInstance(nil)
	child1 := NewInstance(root)
	child2 := NewInstance(root)
	grandchild := NewInstance(child1)

	var mu sync.Mutex
	var order []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}

	root.OnCleanup(record("root"))
	child1.OnCleanup(record("child1"))
	child2.OnCleanup(record("child2"))
	grandchild.OnCleanup(record("grandchild"))

	root.Dispose()
	root.Dispose()

	want := []string{"child2", "grandchild", "child1", "root"}
	if len(order) != len(want) {
		t.Fatalf("cleanup order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("cleanup order = %v, want %v", order, want)
		}
	}
	if !grandchild.IsDisposed() {
		t.Error("grandchild should be disposed with its ancestors")
	}

	ran := false
	root.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after disposal should run immediately")
	}
}

func TestNextSlotIsPositional(t *testing.T) {
	inst := NewInstance(nil)
	defer inst.Dispose()

	inst.StartRender()
	first := inst.NextSlot(HookMemo)
	second := inst.NextSlot(HookRef)
	inst.EndRender()

	if !first.Empty() || first.Value() != nil {
		t.Fatal("a new slot should start empty")
	}
	first.Store("cached", Deps{1})

	inst.StartRender()
	again1 := inst.NextSlot(HookMemo)
	again2 := inst.NextSlot(HookRef)
	inst.EndRender()

	if again1 != first || again2 != second {
		t.Fatal("slots must be returned by call position")
	}
	if again1.Value() != "cached" || again1.Empty() {
		t.Errorf("slot value = %v, want cached", again1.Value())
	}
	if again1.Kind() != HookMemo {
		t.Errorf("slot kind = %s, want Memo", again1.Kind())
	}
	if inst.SlotCount() != 2 || inst.Passes() != 2 {
		t.Errorf("slots = %d, passes = %d", inst.SlotCount(), inst.Passes())
	}
}

func TestSlotStoreCopiesDeps(t *testing.T) {
	s := &Slot{kind: HookMemo}
	deps := Deps{1, 2}
	s.Store("v", deps)
	deps[0] = 99

	if s.Deps()[0] != 1 {
		t.Errorf("snapshot changed with caller's slice: %v", s.Deps())
	}
}

func TestNextSlotOutsideRender(t *testing.T) {
	inst := NewInstance(nil)
	defer inst.Dispose()

	expectPanic(t, "E001", func() {
		inst.NextSlot(HookMemo)
	})
}

func TestNextSlotKindMismatch(t *testing.T) {
	inst := NewInstance(nil)
	defer inst.Dispose()

	inst.StartRender()
	inst.NextSlot(HookMemo)
	inst.EndRender()

	inst.StartRender()
	defer inst.EndRender()
	expectPanic(t, "E003", func() {
		inst.NextSlot(HookRef)
	})
}

func TestStartRenderTwice(t *testing.T) {
	inst := NewInstance(nil)
	defer inst.Dispose()

	inst.StartRender()
	defer inst.EndRender()
	expectPanic(t, "E005", inst.StartRender)
}

func TestDisposedInstance(t *testing.T) {
	inst := NewInstance(nil)
	inst.Dispose()

	expectPanic(t, "E004", inst.StartRender)
	if inst.SlotCount() != 0 {
		t.Error("disposed instance should drop its slots")
	}
}

func TestDisposeDuringRenderDropsSlotsAfterPass(t *testing.T) {
	inst := NewInstance(nil)

	inst.StartRender()
	inst.NextSlot(HookMemo)
	inst.Dispose()
	if inst.SlotCount() != 1 {
		t.Fatal("slots should survive until the pass ends")
	}
	inst.EndRender()

	if inst.SlotCount() != 0 {
		t.Error("slots should be discarded once the pass ends")
	}
}

func TestFingerprint(t *testing.T) {
	a := NewInstance(nil)
	defer a.Dispose()
	b := NewInstance(nil)
	defer b.Dispose()

	pass := func(inst *Instance, kinds ...HookType) {
		inst.StartRender()
		for _, k := range kinds {
			inst.NextSlot(k)
		}
		inst.EndRender()
	}

	pass(a, HookMemo, HookRef)
	fp := a.Fingerprint()
	if fp == 0 {
		t.Fatal("fingerprint should be set after the first pass")
	}
	pass(a, HookMemo, HookRef)
	if a.Fingerprint() != fp || a.LastStats().Fingerprint != fp {
		t.Error("same hook sequence should keep the same fingerprint")
	}

	pass(b, HookRef, HookMemo)
	if b.Fingerprint() == fp {
		t.Error("different hook sequences should have different fingerprints")
	}
}

func TestRenderRerunsDirtyPass(t *testing.T) {
	inst := NewInstance(nil)
	defer inst.Dispose()

	passes := 0
	got := Render(inst, func() int {
		passes++
		v, set := UseState(inst, 0)
		if v < 3 {
			set(v + 1)
		}
		return v
	})

	if got != 3 || passes != 4 {
		t.Errorf("Render = %d after %d passes, want 3 after 4", got, passes)
	}
	if inst.Dirty() {
		t.Error("instance should be clean after Render returns")
	}
}

func TestRenderTooManyPasses(t *testing.T) {
	inst := NewInstance(nil)
	defer inst.Dispose()

	expectPanic(t, "E007", func() {
		Render(inst, func() int {
			v, set := UseState(inst, 0)
			set(v + 1)
			return v
		})
	})
	if inst.Rendering() {
		t.Error("pass should be closed after the panic")
	}
}

func TestRenderClosesPassOnPanic(t *testing.T) {
	inst := NewInstance(nil)
	defer inst.Dispose()

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Fatalf("recover() = %v, want boom", r)
			}
		}()
		Render(inst, func() int {
			UseRef(inst, 0)
			panic("boom")
		})
	}()

	if inst.Rendering() {
		t.Fatal("pass should be closed after a panic")
	}
	if !inst.LastStats().Aborted || inst.Passes() != 0 {
		t.Errorf("stats = %+v, passes = %d", inst.LastStats(), inst.Passes())
	}

	got := Render(inst, func() int {
		return UseRef(inst, 7).Current()
	})
	if got != 0 {
		t.Errorf("ref created by the aborted pass should persist, got %d", got)
	}
}

func TestHookTypeString(t *testing.T) {
	for kind, want := range map[HookType]string{
		HookMemo:         "Memo",
		HookCallback:     "Callback",
		HookAutoCallback: "AutoCallback",
		HookRef:          "Ref",
		HookState:        "State",
		HookReducer:      "Reducer",
		HookSelector:     "Selector",
		HookPure:         "Pure",
		HookType(0):      "Unknown",
	} {
		if got := kind.String(); got != want {
			t.Errorf("HookType(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestParseHookOrderMode(t *testing.T) {
	for _, mode := range []HookOrderMode{HookOrderOff, HookOrderWarn, HookOrderPanic} {
		got, ok := ParseHookOrderMode(mode.String())
		if !ok || got != mode {
			t.Errorf("ParseHookOrderMode(%q) = %v, %v", mode.String(), got, ok)
		}
	}
	if _, ok := ParseHookOrderMode("loud"); ok {
		t.Error("unknown mode should not parse")
	}
}
