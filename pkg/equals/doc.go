// Package equals provides the structural comparators used by memokit hooks.
//
// Two comparators are provided:
//
//   - Shallow compares one level deep. Sequences are compared element by
//     element, maps key by key and structs field by field, each element by
//     identity. Nested containers are compared by reference.
//   - Deep compares recursively and tolerates self-referential graphs.
//
// # Identity
//
// Both comparators build on Identical, which is the Go rendering of
// "same reference or same primitive":
//
//	Identical(1, 1)                 // true
//	Identical(s, s)                 // true for the same slice header
//	Identical([]int{1}, []int{1})   // false, different backing arrays
//	Identical(f, f)                 // true for the same closure
//	Identical(f, g)                 // false even if f and g have identical bodies
//
// # Special cases in Deep
//
// time.Time values are compared by value identity, never by instant: a
// timestamp converted to another location or stripped of its monotonic
// reading is a different value even though Equal reports the same instant.
// *regexp.Regexp values are compared by their source pattern.
//
// All functions are pure and safe for concurrent use.
package equals
