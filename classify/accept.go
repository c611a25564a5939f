package classify

import "github.com/aponysus/cascade/internal"

// Accept decides whether a value returned without error counts as usable.
// Predicates are pure; they carry no state between attempts.
type Accept func(v any) bool

// OKer is implemented by results that carry an explicit ok flag.
type OKer interface {
	OK() bool
}

// StatusCoder is implemented by results that carry a status code.
type StatusCoder interface {
	StatusCode() int
}

// AcceptOK accepts values whose OK method reports true.
// Values that do not implement OKer are refused.
func AcceptOK() Accept {
	return func(v any) bool {
		o, ok := v.(OKer)
		return ok && o.OK()
	}
}

// AcceptStatus accepts values whose status code is one of codes.
// Values that do not implement StatusCoder are refused.
func AcceptStatus(codes ...int) Accept {
	set := make(map[int]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return func(v any) bool {
		sc, ok := v.(StatusCoder)
		if !ok {
			return false
		}
		_, ok = set[sc.StatusCode()]
		return ok
	}
}

// AcceptTruthy accepts values that are not the zero value of their type.
func AcceptTruthy() Accept {
	return func(v any) bool {
		return !internal.IsZero(v)
	}
}

// AcceptNonNil accepts values that are neither nil nor a typed nil.
func AcceptNonNil() Accept {
	return func(v any) bool {
		return !internal.IsTypedNil(v)
	}
}
