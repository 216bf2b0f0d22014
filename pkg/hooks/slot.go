package hooks

import "slices"

// Deps is a dependency snapshot: the ordered inputs a memoized value was
// computed from.
type Deps []any

// HookType identifies the kind of hook that owns a slot.
type HookType uint8

const (
	HookMemo HookType = iota + 1
	HookCallback
	HookAutoCallback
	HookRef
	HookState
	HookReducer
	HookSelector
	HookPure
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case HookMemo:
		return "Memo"
	case HookCallback:
		return "Callback"
	case HookAutoCallback:
		return "AutoCallback"
	case HookRef:
		return "Ref"
	case HookState:
		return "State"
	case HookReducer:
		return "Reducer"
	case HookSelector:
		return "Selector"
	case HookPure:
		return "Pure"
	default:
		return "Unknown"
	}
}

// Slot is one persistent cell of an Instance at a fixed call-order position.
// A new slot is empty; it holds a value once its hook stores one. The store
// never changes a slot's contents on its own.
type Slot struct {
	kind  HookType
	set   bool
	value any
	deps  Deps
}

// Kind returns the hook type that created the slot.
func (s *Slot) Kind() HookType {
	return s.kind
}

// Empty reports whether nothing has been stored in the slot yet.
func (s *Slot) Empty() bool {
	return !s.set
}

// Value returns the stored value, or nil for an empty slot.
func (s *Slot) Value() any {
	return s.value
}

// Deps returns the dependency snapshot stored with the value.
func (s *Slot) Deps() Deps {
	return s.deps
}

// Store replaces the slot contents. The deps slice is copied so later
// mutation by the caller does not alter the snapshot.
func (s *Slot) Store(value any, deps Deps) {
	s.value = value
	s.deps = slices.Clone(deps)
	s.set = true
}
