package hooks

import "github.com/vango-dev/memokit/pkg/equals"

// UseMemo returns the cached result of compute while deps stay shallow-equal
// to the snapshot taken when it was last computed.
//
// compute runs on the first pass and whenever deps change. Only the
// immediately previous snapshot is remembered:
//
//	total := hooks.UseMemo(inst, func() int { return sum(items) }, hooks.Deps{items})
func UseMemo[T any](inst *Instance, compute func() T, deps Deps) T {
	return UseMemoWith(inst, compute, deps, equals.Shallow)
}

// UseMemoWith is UseMemo with a custom dependency comparator.
func UseMemoWith[T any](inst *Instance, compute func() T, deps Deps, cmp equals.Comparator) T {
	slot := inst.NextSlot(HookMemo)
	return memoize(inst, slot, compute, deps, cmp)
}

// UseCallback returns the same fn reference across passes while deps stay
// shallow-equal, so consumers comparing props by identity see no change.
//
//	onSave := hooks.UseCallback(inst, func() { save(id) }, hooks.Deps{id})
func UseCallback[F any](inst *Instance, fn F, deps Deps) F {
	return UseCallbackWith(inst, fn, deps, equals.Shallow)
}

// UseCallbackWith is UseCallback with a custom dependency comparator.
func UseCallbackWith[F any](inst *Instance, fn F, deps Deps, cmp equals.Comparator) F {
	slot := inst.NextSlot(HookCallback)
	return memoize(inst, slot, func() F { return fn }, deps, cmp)
}

func memoize[T any](inst *Instance, slot *Slot, compute func() T, deps Deps, cmp equals.Comparator) T {
	if cmp == nil {
		cmp = equals.Shallow
	}

	if !slot.Empty() && cmp(slot.Deps(), deps) {
		inst.hookEvaluated(slot.kind, true)
		cached, _ := slot.Value().(T)
		return cached
	}

	value := compute()
	slot.Store(value, deps)
	inst.hookEvaluated(slot.kind, false)
	return value
}
