package equals

import "reflect"

// Shallow reports whether a and b are equal one level deep.
//
// Values are shallow-equal when they are Identical, or when both are
// sequences of the same type and length with pairwise identical elements,
// maps of the same type with the same keys mapped to identical values, or
// structs of the same type with pairwise identical fields. Non-nil pointers to
// structs are followed once, so *Props compares like Props. Nested containers
// are compared by reference.
//
// Type mismatches and a nil on only one side are never equal.
func Shallow(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if identical(va, vb) {
		return true
	}
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return false
	}

	if va.Kind() == reflect.Pointer && va.Type().Elem().Kind() == reflect.Struct {
		if va.IsNil() || vb.IsNil() {
			return false
		}
		return shallowFields(va.Elem(), vb.Elem())
	}

	switch va.Kind() {
	case reflect.Slice:
		if va.Len() != vb.Len() {
			return false
		}
		for i := 0; i < va.Len(); i++ {
			if !identical(va.Index(i), vb.Index(i)) {
				return false
			}
		}
		return true

	case reflect.Map:
		if va.Len() != vb.Len() {
			return false
		}
		iter := va.MapRange()
		for iter.Next() {
			other := vb.MapIndex(iter.Key())
			if !other.IsValid() || !identical(iter.Value(), other) {
				return false
			}
		}
		return true
	}

	// Structs and arrays were compared field by field by identical.
	return false
}

func shallowFields(a, b reflect.Value) bool {
	a, b = addressable(a), addressable(b)
	for i := 0; i < a.NumField(); i++ {
		if !identical(a.Field(i), b.Field(i)) {
			return false
		}
	}
	return true
}
