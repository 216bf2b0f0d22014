package hooks

import "github.com/vango-dev/memokit/internal/errors"

// Render runs fn as a render pass of inst and returns its result.
//
// The pass is closed even if fn panics. When state set during the pass marks
// the instance dirty, the pass is run again, at most MaxRenderPasses times.
func Render[R any](inst *Instance, fn func() R) R {
	for pass := 0; ; pass++ {
		if pass == MaxRenderPasses {
			panic(errors.New("E007").WithDetailf(
				"Instance %d was still dirty after %d consecutive passes.", inst.id, MaxRenderPasses))
		}
		out := renderOnce(inst, fn)
		if !inst.dirty.Load() || inst.disposed.Load() {
			return out
		}
	}
}

func renderOnce[R any](inst *Instance, fn func() R) (out R) {
	inst.StartRender()
	completed := false
	defer func() {
		inst.endRender(!completed)
	}()
	out = fn()
	completed = true
	return out
}
