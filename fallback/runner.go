package fallback

import (
	"time"

	"github.com/aponysus/cascade/classify"
	"github.com/aponysus/cascade/observe"
)

// Runner holds the injectable dependencies shared by fallback invocations:
// the observer, the clock, the classifier registry, and panic handling.
// A zero RunnerOptions yields a fully usable runner.
type Runner struct {
	observer      observe.Observer
	clock         func() time.Time
	classifiers   *classify.Registry
	recoverPanics bool
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	Observer    observe.Observer
	Clock       func() time.Time
	Classifiers *classify.Registry

	// RecoverPanics captures candidate panics into a PanicError instead of
	// letting them propagate to the caller.
	RecoverPanics bool
}

// NewRunner creates a Runner, filling unset options with defaults.
func NewRunner(opts RunnerOptions) *Runner {
	r := &Runner{
		observer:      opts.Observer,
		clock:         opts.Clock,
		classifiers:   opts.Classifiers,
		recoverPanics: opts.RecoverPanics,
	}

	if r.observer == nil {
		r.observer = observe.NoopObserver{}
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	if r.classifiers == nil {
		r.classifiers = classify.NewRegistry()
		classify.RegisterBuiltins(r.classifiers)
	}

	return r
}

// Classifiers returns the runner's classifier registry, for registering
// additional named classifiers.
func (r *Runner) Classifiers() *classify.Registry {
	return r.classifiers
}
