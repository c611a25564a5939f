package fallback

import (
	"context"
	"time"

	"github.com/aponysus/cascade/classify"
	"github.com/aponysus/cascade/observe"
)

// AcceptFunc decides whether a value returned without error counts as usable.
// The default accepts everything.
type AcceptFunc[T any] func(v T, attempt int) bool

// RetryableFunc decides whether a candidate error should advance the chain to
// the next candidate (true) or terminate it (false). The default treats every
// error as retryable except cancellation signals.
type RetryableFunc func(err error, attempt int) bool

// TimeoutFunc resolves the effective per-attempt timeout. Zero or negative
// disables the timeout for that attempt.
type TimeoutFunc func(attempt int) time.Duration

// Option configures a single fallback invocation.
type Option[T any] func(*config[T])

type config[T any] struct {
	timeout       TimeoutFunc
	accept        AcceptFunc[T]
	retryable     RetryableFunc
	retryableName string
	observer      observe.Observer
	onAttempt     func(observe.AttemptRecord)
}

// WithTimeout sets a fixed per-attempt timeout. Zero or negative disables it.
func WithTimeout[T any](d time.Duration) Option[T] {
	return func(c *config[T]) {
		c.timeout = func(int) time.Duration { return d }
	}
}

// WithTimeoutFunc sets a per-attempt timeout function.
func WithTimeoutFunc[T any](fn TimeoutFunc) Option[T] {
	return func(c *config[T]) {
		c.timeout = fn
	}
}

// WithAccept sets the accept predicate.
func WithAccept[T any](fn AcceptFunc[T]) Option[T] {
	return func(c *config[T]) {
		c.accept = fn
	}
}

// WithRetryable sets the retryable predicate.
func WithRetryable[T any](fn RetryableFunc) Option[T] {
	return func(c *config[T]) {
		c.retryable = fn
	}
}

// WithRetryableNamed selects a retryable classifier from the runner's
// registry by name. Unknown names fall back to the default classifier.
func WithRetryableNamed[T any](name string) Option[T] {
	return func(c *config[T]) {
		c.retryableName = name
	}
}

// WithObserver sets the observer for this invocation, replacing the runner's.
func WithObserver[T any](o observe.Observer) Option[T] {
	return func(c *config[T]) {
		c.observer = o
	}
}

// WithOnAttempt registers a per-attempt callback in addition to the observer.
func WithOnAttempt[T any](fn func(observe.AttemptRecord)) Option[T] {
	return func(c *config[T]) {
		c.onAttempt = fn
	}
}

// AcceptWith adapts a classify accept predicate to an AcceptFunc.
func AcceptWith[T any](p classify.Accept) AcceptFunc[T] {
	return func(v T, _ int) bool {
		return p(v)
	}
}

func newConfig[T any](r *Runner, opts ...Option[T]) config[T] {
	var cfg config[T]
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.retryable == nil {
		cls := classify.Classifier(classify.AlwaysRetry{})
		if cfg.retryableName != "" {
			if named, ok := r.classifiers.Get(cfg.retryableName); ok {
				cls = named
			}
		}
		cfg.retryable = func(err error, _ int) bool {
			return cls.Classify(err) == classify.DecisionRetry
		}
	}
	if cfg.accept == nil {
		cfg.accept = func(T, int) bool { return true }
	}
	if cfg.observer == nil {
		cfg.observer = r.observer
	}
	if cfg.onAttempt != nil {
		cfg.observer = observe.MultiObserver{
			Observers: []observe.Observer{cfg.observer, attemptFuncObserver{fn: cfg.onAttempt}},
		}
	}
	return cfg
}

func (c *config[T]) timeoutFor(attempt int) time.Duration {
	if c.timeout == nil {
		return 0
	}
	d := c.timeout(attempt)
	if d < 0 {
		return 0
	}
	return d
}

// attemptFuncObserver adapts a bare per-attempt callback to the Observer
// interface.
type attemptFuncObserver struct {
	observe.BaseObserver
	fn func(observe.AttemptRecord)
}

func (o attemptFuncObserver) OnAttempt(_ context.Context, rec observe.AttemptRecord) {
	o.fn(rec)
}
