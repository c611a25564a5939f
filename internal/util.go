package internal

import "reflect"

// IsTypedNil returns true if x is nil or a typed nil interface value.
func IsTypedNil(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// IsZero reports whether x is nil or the zero value of its type.
// Unlike IsTypedNil it also treats empty strings, 0 and false as zero.
func IsZero(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		if v.IsNil() {
			return true
		}
		if v.Kind() == reflect.Slice || v.Kind() == reflect.Map {
			return v.Len() == 0
		}
		return false
	default:
		return v.IsZero()
	}
}
