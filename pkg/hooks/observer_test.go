package hooks_test

import (
	"sync"
	"testing"

	"github.com/vango-dev/memokit/pkg/hooks"
	"github.com/vango-dev/memokit/pkg/hookstest"
)

type evaluation struct {
	kind   hooks.HookType
	reused bool
}

type recordingObserver struct {
	mu     sync.Mutex
	name   string
	log    *[]string
	begins int
	stats  []hooks.RenderStats
	evals  []evaluation
}

func (o *recordingObserver) BeginRender(*hooks.Instance) func(hooks.RenderStats) {
	o.mu.Lock()
	o.begins++
	o.mu.Unlock()
	if o.log != nil {
		*o.log = append(*o.log, "begin "+o.name)
	}
	return func(stats hooks.RenderStats) {
		o.mu.Lock()
		o.stats = append(o.stats, stats)
		o.mu.Unlock()
		if o.log != nil {
			*o.log = append(*o.log, "end "+o.name)
		}
	}
}

func (o *recordingObserver) HookEvaluated(_ *hooks.Instance, kind hooks.HookType, reused bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evals = append(o.evals, evaluation{kind, reused})
}

func TestObserverSeesPassesAndHooks(t *testing.T) {
	obs := &recordingObserver{}
	h := hookstest.New(t, func(inst *hooks.Instance, n int) int {
		hooks.UseCallback(inst, func() {}, hooks.Deps{n})
		return hooks.UseMemo(inst, func() int { return n * 2 }, hooks.Deps{n})
	}, hooks.WithObserver(obs))

	h.Render(1)
	h.Render(1)
	h.Render(2)

	if obs.begins != 3 || len(obs.stats) != 3 {
		t.Fatalf("begins = %d, finished = %d", obs.begins, len(obs.stats))
	}

	want := []evaluation{
		{hooks.HookCallback, false}, {hooks.HookMemo, false},
		{hooks.HookCallback, true}, {hooks.HookMemo, true},
		{hooks.HookCallback, false}, {hooks.HookMemo, false},
	}
	if len(obs.evals) != len(want) {
		t.Fatalf("evaluations = %v", obs.evals)
	}
	for i := range want {
		if obs.evals[i] != want[i] {
			t.Errorf("evaluation %d = %+v, want %+v", i, obs.evals[i], want[i])
		}
	}

	second := obs.stats[1]
	if second.Pass != 1 || second.Hooks != 2 || second.Reused != 2 || second.Aborted {
		t.Errorf("second pass stats = %+v", second)
	}
	if second.Fingerprint != h.Instance().Fingerprint() {
		t.Error("stats fingerprint should match the recorded sequence")
	}
}

func TestObserverSeesAbortedPass(t *testing.T) {
	obs := &recordingObserver{}
	h := hookstest.New(t, func(inst *hooks.Instance, fail bool) int {
		hooks.UseRef(inst, 0)
		if fail {
			panic("render failed")
		}
		return 0
	}, hooks.WithObserver(obs))

	func() {
		defer func() { _ = recover() }()
		h.Render(true)
	}()

	if len(obs.stats) != 1 || !obs.stats[0].Aborted {
		t.Fatalf("stats = %+v", obs.stats)
	}
}

func TestObserversFanOut(t *testing.T) {
	var log []string
	a := &recordingObserver{name: "a", log: &log}
	b := &recordingObserver{name: "b", log: &log}

	h := hookstest.New(t, func(inst *hooks.Instance, _ int) int {
		return hooks.UseMemo(inst, func() int { return 1 }, nil)
	}, hooks.WithObserver(hooks.Observers(a, nil, b)))
	h.Render(0)

	want := []string{"begin a", "begin b", "end b", "end a"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
	if len(a.evals) != 1 || len(b.evals) != 1 {
		t.Errorf("evaluations: a=%d b=%d", len(a.evals), len(b.evals))
	}
}

func TestChildInheritsObserver(t *testing.T) {
	obs := &recordingObserver{}
	inner := hooks.Pure(func(inst *hooks.Instance, n int) int {
		return hooks.UseMemo(inst, func() int { return n }, hooks.Deps{n})
	})
	h := hookstest.New(t, inner, hooks.WithObserver(obs))

	h.Render(1)

	// Parent pass plus the pure child's pass.
	if obs.begins != 2 {
		t.Errorf("begins = %d, want 2", obs.begins)
	}
}
