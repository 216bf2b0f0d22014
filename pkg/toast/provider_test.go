package toast_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/memokit/pkg/equals"
	"github.com/vango-dev/memokit/pkg/hooks"
	"github.com/vango-dev/memokit/pkg/hookstest"
	"github.com/vango-dev/memokit/pkg/toast"
)

type memoCounter struct {
	mu     sync.Mutex
	misses int
}

func (c *memoCounter) BeginRender(*hooks.Instance) func(hooks.RenderStats) { return nil }

func (c *memoCounter) HookEvaluated(_ *hooks.Instance, kind hooks.HookType, reused bool) {
	if kind != hooks.HookMemo || reused {
		return
	}
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

func newProvider(t *testing.T, opts ...toast.Option) *toast.Provider {
	t.Helper()
	p := toast.NewProvider(opts...)
	t.Cleanup(p.Close)
	return p
}

func TestProviderShowAndHide(t *testing.T) {
	p := newProvider(t, toast.WithDelay(time.Hour))

	if p.State().Visible() {
		t.Fatal("new provider should show nothing")
	}
	if p.Delay() != time.Hour {
		t.Errorf("Delay() = %v", p.Delay())
	}

	p.Success("Item saved!")
	want := toast.State{Message: "Item saved!", Type: toast.TypeSuccess}
	if diff := cmp.Diff(want, p.State()); diff != "" {
		t.Fatalf("state after Success (-want +got):\n%s", diff)
	}

	p.Hide()
	if p.State().Visible() {
		t.Error("state should be hidden after Hide")
	}
}

func TestProviderHelpers(t *testing.T) {
	p := newProvider(t, toast.WithDelay(time.Hour))

	for _, tt := range []struct {
		show func(string)
		want toast.Type
	}{
		{p.Success, toast.TypeSuccess},
		{p.Error, toast.TypeError},
		{p.Warning, toast.TypeWarning},
		{p.Info, toast.TypeInfo},
	} {
		tt.show("msg " + string(tt.want))
		if got := p.State().Type; got != tt.want {
			t.Errorf("type = %q, want %q", got, tt.want)
		}
	}
}

func TestProviderAutoHide(t *testing.T) {
	p := newProvider(t, toast.WithDelay(20*time.Millisecond))

	p.Warning("Be careful!")
	if !p.State().Visible() {
		t.Fatal("toast should be visible right after Show")
	}

	waitFor(t, func() bool { return !p.State().Visible() })
	if got := p.State().Type; got != toast.TypeWarning {
		t.Errorf("hidden state type = %q, want warning", got)
	}
}

func TestProviderShowRestartsDelay(t *testing.T) {
	p := newProvider(t, toast.WithDelay(80*time.Millisecond))

	p.Info("first")
	time.Sleep(50 * time.Millisecond)
	p.Info("second")
	time.Sleep(50 * time.Millisecond)

	if got := p.State().Message; got != "second" {
		t.Errorf("message = %q, want second still visible", got)
	}
	waitFor(t, func() bool { return !p.State().Visible() })
}

func TestProviderMemoizesAcrossRenders(t *testing.T) {
	counter := &memoCounter{}
	p := newProvider(t,
		toast.WithDelay(time.Hour),
		toast.WithInstanceOptions(hooks.WithObserver(counter)),
	)
	cmds := p.Commands()

	p.Info("one")
	p.Error("two")
	p.Hide()

	if p.Instance().Passes() != 4 {
		t.Errorf("passes = %d, want 4", p.Instance().Passes())
	}
	counter.mu.Lock()
	misses := counter.misses
	counter.mu.Unlock()
	if misses != 2 {
		t.Errorf("memo computed %d times, want 2 (debouncer and commands once each)", misses)
	}

	again := p.Commands()
	if !equals.Identical(cmds.Show, again.Show) || !equals.Identical(cmds.Hide, again.Hide) {
		t.Error("commands should keep their identity across renders")
	}
}

func TestProviderSubscribe(t *testing.T) {
	p := newProvider(t, toast.WithDelay(time.Hour))

	var mu sync.Mutex
	var got []toast.State
	unsubscribe := p.Subscribe(func(s toast.State) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})

	p.Success("a")
	p.Success("a")
	p.Hide()
	unsubscribe()
	unsubscribe()
	p.Error("b")

	want := []toast.State{
		{Message: "a", Type: toast.TypeSuccess},
		{Type: toast.TypeSuccess},
	}
	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshots (-want +got):\n%s", diff)
	}
}

func TestProviderConcurrentShows(t *testing.T) {
	p := newProvider(t, toast.WithDelay(time.Hour))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				p.Info("ping")
			} else {
				p.Error("pong")
			}
		}()
	}
	wg.Wait()

	s := p.State()
	if s != (toast.State{Message: "ping", Type: toast.TypeInfo}) && s != (toast.State{Message: "pong", Type: toast.TypeError}) {
		t.Errorf("unexpected final state %+v", s)
	}
}

func TestProviderClose(t *testing.T) {
	p := toast.NewProvider(toast.WithDelay(20 * time.Millisecond))

	calls := 0
	p.Subscribe(func(toast.State) { calls++ })

	p.Success("bye")
	p.Close()
	p.Close()

	time.Sleep(60 * time.Millisecond)
	if !p.State().Visible() {
		t.Error("closed provider should keep its last state")
	}
	p.Info("ignored")
	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}
	if !p.Instance().IsDisposed() {
		t.Error("Close should dispose the instance")
	}
}

func TestUseCommandsStable(t *testing.T) {
	p := newProvider(t, toast.WithDelay(time.Hour))

	h := hookstest.New(t, func(inst *hooks.Instance, p *toast.Provider) toast.Commands {
		return toast.UseCommands(inst, p)
	})
	first := h.Render(p)
	second := h.Render(p)

	if !equals.Identical(first.Show, second.Show) || !equals.Identical(first.Hide, second.Hide) {
		t.Fatal("UseCommands should return stable references")
	}

	first.Show("from consumer", toast.TypeInfo)
	if got := p.State().Message; got != "from consumer" {
		t.Errorf("message = %q", got)
	}
	second.Hide()
	if p.State().Visible() {
		t.Error("Hide through consumer commands should clear the toast")
	}

	other := newProvider(t, toast.WithDelay(time.Hour))
	third := h.Render(other)
	if !equals.Identical(first.Show, third.Show) {
		t.Fatal("references should survive a provider change")
	}
	third.Show("routed", toast.TypeSuccess)
	if other.State().Message != "routed" || p.State().Visible() {
		t.Error("commands should forward to the latest provider")
	}
}
