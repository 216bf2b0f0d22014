package hooks

import "sync"

// Ref holds a mutable value that persists across render passes without
// triggering renders when it changes.
//
// Ref[T] is safe for concurrent access.
type Ref[T any] struct {
	value T
	mu    sync.RWMutex
}

// UseRef returns the instance's Ref at this position, created with initial
// on the first pass. Later passes ignore initial.
func UseRef[T any](inst *Instance, initial T) *Ref[T] {
	slot := inst.NextSlot(HookRef)
	if !slot.Empty() {
		return slot.Value().(*Ref[T])
	}
	ref := &Ref[T]{value: initial}
	slot.Store(ref, nil)
	return ref
}

// Current returns the current value of the ref.
func (r *Ref[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set replaces the ref's value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = value
}
