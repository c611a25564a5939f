package fallback

import "context"

// Func is a bare candidate: a function invoked with the attempt's context.
type Func[T any] func(ctx context.Context) (T, error)

// Named is a candidate with a name, carried through attempt records so
// observers can tell providers apart.
type Named[T any] struct {
	Name string
	Run  Func[T]
}

// Candidate is one fallback provider. Func and Named are the only two shapes;
// the runner resolves either into a uniform internal form once, before the
// attempt starts.
type Candidate[T any] interface {
	normalize() candidate[T]
}

func (f Func[T]) normalize() candidate[T] { return candidate[T]{run: f} }

func (n Named[T]) normalize() candidate[T] { return candidate[T]{name: n.Name, run: n.Run} }

type candidate[T any] struct {
	name string
	run  Func[T]
}

// Candidates builds a chain from bare functions, in order.
func Candidates[T any](fns ...Func[T]) []Candidate[T] {
	out := make([]Candidate[T], len(fns))
	for i, fn := range fns {
		out[i] = fn
	}
	return out
}
