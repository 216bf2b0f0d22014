package hooks

import "time"

// RenderStats summarises one render pass.
type RenderStats struct {
	// Pass is the zero-based index of the pass.
	Pass int

	// Hooks is the number of hooks called during the pass.
	Hooks int

	// Reused is how many of those hooks returned a cached value.
	Reused int

	// Fingerprint is the xxhash of the hook sequence of this pass.
	Fingerprint uint64

	// Duration is the wall time of the pass.
	Duration time.Duration

	// Aborted is true when the pass ended with a panic.
	Aborted bool
}

// Observer receives render pass and hook evaluation events.
// Implementations must be safe for concurrent use by different instances.
type Observer interface {
	// BeginRender is called by StartRender. The returned function, if
	// non-nil, is called once when the pass ends.
	BeginRender(inst *Instance) func(RenderStats)

	// HookEvaluated is called after a memoizing hook decided whether to
	// reuse its cached value.
	HookEvaluated(inst *Instance, kind HookType, reused bool)
}

type nopObserver struct{}

func (nopObserver) BeginRender(*Instance) func(RenderStats) { return nil }
func (nopObserver) HookEvaluated(*Instance, HookType, bool) {}

// Observers fans events out to several observers in order.
func Observers(observers ...Observer) Observer {
	list := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) BeginRender(inst *Instance) func(RenderStats) {
	var finishers []func(RenderStats)
	for _, o := range m {
		if fn := o.BeginRender(inst); fn != nil {
			finishers = append(finishers, fn)
		}
	}
	if len(finishers) == 0 {
		return nil
	}
	return func(stats RenderStats) {
		for idx := len(finishers) - 1; idx >= 0; idx-- {
			finishers[idx](stats)
		}
	}
}

func (m multiObserver) HookEvaluated(inst *Instance, kind HookType, reused bool) {
	for _, o := range m {
		o.HookEvaluated(inst, kind, reused)
	}
}
