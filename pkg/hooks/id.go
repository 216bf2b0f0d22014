package hooks

import "sync/atomic"

var globalIDCounter uint64

// nextID returns the next unique instance ID. IDs are never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
