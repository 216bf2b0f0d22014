package hooks

import (
	"sync"

	"github.com/vango-dev/memokit/pkg/equals"
)

// stateCell is the slot value behind UseState, UseShallowState and
// UseReducer. Setters may run on any goroutine.
type stateCell[T any] struct {
	mu    sync.Mutex
	value T
	set   func(T)
}

func (c *stateCell[T]) get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// update applies next under the lock and reports whether the value changed
// according to same.
func (c *stateCell[T]) update(next func(T) T, same equals.Comparator) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	value := next(c.value)
	if same(c.value, value) {
		return false
	}
	c.value = value
	return true
}

func useStateCell[T any](inst *Instance, kind HookType, initial T, same equals.Comparator) *stateCell[T] {
	slot := inst.NextSlot(kind)
	if !slot.Empty() {
		return slot.Value().(*stateCell[T])
	}

	cell := &stateCell[T]{value: initial}
	cell.set = func(value T) {
		if cell.update(func(T) T { return value }, same) {
			inst.markDirty()
		}
	}
	slot.Store(cell, nil)
	return cell
}

// UseState returns the current state and a setter that is stable for the
// life of the instance. Setting a value identical to the current one is a
// no-op; anything else marks the instance dirty and requests a render.
func UseState[T any](inst *Instance, initial T) (T, func(T)) {
	cell := useStateCell(inst, HookState, initial, equals.Identical)
	return cell.get(), cell.set
}

// UseShallowState is UseState whose setter ignores values shallow-equal to
// the current state, so a freshly built but unchanged struct or slice does
// not cause a render.
func UseShallowState[T any](inst *Instance, initial T) (T, func(T)) {
	cell := useStateCell(inst, HookState, initial, equals.Shallow)
	return cell.get(), cell.set
}

// reducerCell keeps the latest reducer so dispatch always uses the one from
// the most recent pass.
type reducerCell[S, A any] struct {
	state    *stateCell[S]
	mu       sync.RWMutex
	reduce   func(S, A) S
	dispatch func(A)
}

// UseReducer returns the current state and a stable dispatch function.
// dispatch applies the latest reducer; a result identical to the current
// state does not request a render.
func UseReducer[S, A any](inst *Instance, reduce func(S, A) S, initial S) (S, func(A)) {
	slot := inst.NextSlot(HookReducer)
	if !slot.Empty() {
		cell := slot.Value().(*reducerCell[S, A])
		cell.mu.Lock()
		cell.reduce = reduce
		cell.mu.Unlock()
		return cell.state.get(), cell.dispatch
	}

	cell := &reducerCell[S, A]{
		state:  &stateCell[S]{value: initial},
		reduce: reduce,
	}
	cell.dispatch = func(action A) {
		cell.mu.RLock()
		reducer := cell.reduce
		cell.mu.RUnlock()
		if cell.state.update(func(s S) S { return reducer(s, action) }, equals.Identical) {
			inst.markDirty()
		}
	}
	slot.Store(cell, nil)
	return initial, cell.dispatch
}

// selectorCell remembers the last selection of a shallow selector.
type selectorCell[T, S any] struct {
	mu       sync.Mutex
	selector func(T) S
	prev     S
	has      bool
	selectFn func(T) S
}

// UseShallowSelector returns a stable function that applies the latest
// selector and keeps returning the previous selection while the new one is
// shallow-equal to it. Consumers comparing results by identity therefore see
// no change when a selector rebuilds an equal slice or struct.
func UseShallowSelector[T, S any](inst *Instance, selector func(T) S) func(T) S {
	slot := inst.NextSlot(HookSelector)
	if !slot.Empty() {
		cell := slot.Value().(*selectorCell[T, S])
		cell.mu.Lock()
		cell.selector = selector
		cell.mu.Unlock()
		return cell.selectFn
	}

	cell := &selectorCell[T, S]{selector: selector}
	cell.selectFn = func(state T) S {
		cell.mu.Lock()
		defer cell.mu.Unlock()
		next := cell.selector(state)
		if cell.has && equals.Shallow(cell.prev, next) {
			return cell.prev
		}
		cell.prev = next
		cell.has = true
		return next
	}
	slot.Store(cell, nil)
	return cell.selectFn
}
