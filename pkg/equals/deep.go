package equals

import (
	"reflect"
	"regexp"
	"time"
	"unsafe"
)

var (
	timeType      = reflect.TypeOf(time.Time{})
	timePtrType   = reflect.TypeOf((*time.Time)(nil))
	regexpPtrType = reflect.TypeOf((*regexp.Regexp)(nil))
)

// Deep reports whether a and b are structurally equal.
//
// Slices, arrays, maps, structs (including unexported fields), pointers and
// interfaces are compared recursively. Functions compare by identity,
// time.Time by value identity and *regexp.Regexp by source pattern.
//
// Containers already being compared on the current path short-circuit to
// true, so cyclic graphs terminate. The visited set lives only for the
// duration of one call.
func Deep(a, b any) bool {
	d := deepComparison{}
	return d.equal(reflect.ValueOf(a), reflect.ValueOf(b))
}

// visit identifies a container on the comparison path.
type visit struct {
	ptr unsafe.Pointer
	typ reflect.Type
	len int
}

type deepComparison struct {
	path map[visit]struct{}
}

// enter records v on the current path. It returns false when v is already
// on the path; otherwise the caller must call leave when done.
func (d *deepComparison) enter(v reflect.Value) (visit, bool) {
	key := visit{ptr: v.UnsafePointer(), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		key.len = v.Len()
	}
	if d.path == nil {
		d.path = make(map[visit]struct{})
	}
	if _, ok := d.path[key]; ok {
		return key, false
	}
	d.path[key] = struct{}{}
	return key, true
}

func (d *deepComparison) leave(key visit) {
	delete(d.path, key)
}

func (d *deepComparison) equal(a, b reflect.Value) bool {
	if identical(a, b) {
		return true
	}
	if !a.IsValid() || !b.IsValid() || a.Type() != b.Type() {
		return false
	}

	switch a.Type() {
	case timeType, timePtrType:
		// Identity only; identical already said no.
		return false
	case regexpPtrType:
		if a.IsNil() || b.IsNil() {
			return false
		}
		ra := (*regexp.Regexp)(a.UnsafePointer())
		rb := (*regexp.Regexp)(b.UnsafePointer())
		return ra.String() == rb.String()
	}

	switch a.Kind() {
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return false
		}
		return d.equal(a.Elem(), b.Elem())

	case reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return false
		}
		key, ok := d.enter(a)
		if !ok {
			return true
		}
		defer d.leave(key)
		return d.equal(a.Elem(), b.Elem())

	case reflect.Slice:
		if a.Len() != b.Len() {
			return false
		}
		key, ok := d.enter(a)
		if !ok {
			return true
		}
		defer d.leave(key)
		return d.elements(a, b)

	case reflect.Array:
		return d.elements(addressable(a), addressable(b))

	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		key, ok := d.enter(a)
		if !ok {
			return true
		}
		defer d.leave(key)
		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !d.equal(iter.Value(), other) {
				return false
			}
		}
		return true

	case reflect.Struct:
		a, b = addressable(a), addressable(b)
		for i := 0; i < a.NumField(); i++ {
			if !d.equal(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	}

	return false
}

func (d *deepComparison) elements(a, b reflect.Value) bool {
	for i := 0; i < a.Len(); i++ {
		if !d.equal(a.Index(i), b.Index(i)) {
			return false
		}
	}
	return true
}
