package observe

import "context"

type attemptInfoKey struct{}

// AttemptInfo is per-attempt metadata attached to the context a candidate
// runs under. It is created fresh for every attempt and is read-only to the
// candidate.
type AttemptInfo struct {
	// Attempt is the zero-based index of this candidate in the chain.
	Attempt int
	// Name is the candidate's name, if one was provided.
	Name string
	// PriorErrors holds the errors collected from earlier attempts, in
	// attempt order.
	PriorErrors []error
}

// WithAttemptInfo returns a context derived from ctx that carries info.
func WithAttemptInfo(ctx context.Context, info AttemptInfo) context.Context {
	return context.WithValue(ctx, attemptInfoKey{}, info)
}

// AttemptFromContext returns the AttemptInfo from ctx, if present.
func AttemptFromContext(ctx context.Context) (AttemptInfo, bool) {
	info, ok := ctx.Value(attemptInfoKey{}).(AttemptInfo)
	return info, ok
}
