// Package hooks gives stateless render functions per-instance memory.
//
// A component is a plain function that receives the *Instance it is
// rendering for. Every hook call acquires the next Slot of that instance, so
// slots are addressed purely by call order: a render function must call the
// same hooks in the same order on every pass.
//
// # Render passes
//
//	inst := hooks.NewInstance(nil)
//	defer inst.Dispose()
//
//	view := hooks.Render(inst, func() View {
//	    total := hooks.UseMemo(inst, func() int { return sum(items) }, hooks.Deps{items})
//	    onSave := hooks.UseCallback(inst, func() { save(total) }, hooks.Deps{total})
//	    return View{Total: total, OnSave: onSave}
//	})
//
// Render brackets a pass with StartRender and EndRender. Hosts that manage
// passes themselves may call those directly.
//
// # Primitives
//
//   - UseMemo recomputes only when its dependency list changes (shallow).
//   - UseCallback returns the same function while its deps are unchanged.
//   - UseAutoCallback returns one function for the lifetime of the instance
//     that always forwards to the latest closure.
//   - Pure wraps a component so it re-renders only when its props change.
//   - UseRef, UseState, UseReducer, UseShallowState and UseShallowSelector
//     cover mutable and state-carrying slots.
//
// # Hook order
//
// Misaligned slots cannot be detected in general. A slot created by one kind
// of hook and later requested by another always panics with E003. With
// DevMode or HookOrderCheck enabled the first pass records the hook sequence
// and every later pass is checked against it.
//
// # Thread Safety
//
// Render passes of one instance must not overlap. State setters, dispatchers
// and auto callbacks may be called from any goroutine.
package hooks
