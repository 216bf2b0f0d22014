package equals

import (
	"math"
	"reflect"
	"unsafe"
)

// Comparator reports whether two values should be treated as equal.
// Shallow and Deep both satisfy it.
type Comparator func(a, b any) bool

// Identical reports whether a and b are the same value at depth one:
// the same primitive, or the same reference for maps, slices, pointers,
// channels and functions. Structs and arrays are values, so they are
// identical when their fields or elements are.
func Identical(a, b any) bool {
	return identical(reflect.ValueOf(a), reflect.ValueOf(b))
}

func identical(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Func:
		return funcPointer(a) == funcPointer(b)
	case reflect.Map:
		return a.UnsafePointer() == b.UnsafePointer()
	case reflect.Slice:
		return a.UnsafePointer() == b.UnsafePointer() && a.Len() == b.Len()
	case reflect.Float32, reflect.Float64:
		x, y := a.Float(), b.Float()
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return identical(a.Elem(), b.Elem())
	case reflect.Struct:
		// A struct value has no reference of its own; it is identical when
		// every field is.
		a, b = addressable(a), addressable(b)
		for i := 0; i < a.NumField(); i++ {
			if !identical(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		a, b = addressable(a), addressable(b)
		for i := 0; i < a.Len(); i++ {
			if !identical(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	}

	if a.Comparable() && b.Comparable() {
		return a.Equal(b)
	}
	return false
}

// funcPointer returns the closure pointer behind a func value.
// Value.Pointer only exposes the code pointer, which every closure created
// from the same literal shares.
func funcPointer(v reflect.Value) unsafe.Pointer {
	if v.IsNil() {
		return nil
	}
	if v.CanInterface() {
		f := v.Interface()
		return (*[2]unsafe.Pointer)(unsafe.Pointer(&f))[1]
	}
	if v.CanAddr() {
		return *(*unsafe.Pointer)(unsafe.Pointer(v.UnsafeAddr()))
	}
	// Unexported, unaddressable func: code pointer is all reflect gives us.
	return v.UnsafePointer()
}

// addressable returns an addressable copy of a struct or array value so that
// unexported func fields can be resolved to their closure pointers.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() || !v.CanInterface() {
		return v
	}
	p := reflect.New(v.Type()).Elem()
	p.Set(v)
	return p
}
