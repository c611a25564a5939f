package fallback

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/aponysus/cascade/observe"
)

type attemptResult[T any] struct {
	val   T
	err   error
	start time.Time
	end   time.Time

	timedOut bool
	aborted  bool
}

type settled[T any] struct {
	val      T
	err      error
	panicked any
	stack    []byte
}

// runAttempt executes one candidate with a bounded lifetime: a per-attempt
// context derived from the caller's, an optional timer, and a race between
// the candidate settling and the context expiring. The derived context is
// released on every exit path.
func runAttempt[T any](ctx context.Context, r *Runner, cand candidate[T], idx int, prior []error, timeout time.Duration) attemptResult[T] {
	res := attemptResult[T]{start: r.clock()}

	var attemptCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		attemptCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	attemptCtx = observe.WithAttemptInfo(attemptCtx, observe.AttemptInfo{
		Attempt:     idx,
		Name:        cand.name,
		PriorErrors: prior[:len(prior):len(prior)],
	})
	attemptCtx = observe.WithoutTimelineCapture(attemptCtx)

	done := make(chan settled[T], 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- settled[T]{panicked: rec, stack: debug.Stack()}
			}
		}()
		val, err := cand.run(attemptCtx)
		done <- settled[T]{val: val, err: err}
	}()

	select {
	case s := <-done:
		res.end = r.clock()
		if s.panicked != nil {
			if !r.recoverPanics {
				panic(s.panicked)
			}
			res.err = &PanicError{Attempt: idx, Name: cand.name, Value: s.panicked, Stack: s.stack}
			return res
		}
		res.val, res.err = s.val, s.err
		return normalizeSettled(ctx, attemptCtx, cand, idx, timeout, res)

	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			// External cancellation is cooperative: signal the candidate
			// and wait for it to settle before surfacing the abort.
			<-done
			res.end = r.clock()
			res.err = ctx.Err()
			res.aborted = true
			return res
		}
		// The per-attempt timer expired. This is a race, not preemption:
		// a candidate that ignores its context keeps running in the
		// background and its eventual result is discarded.
		res.end = r.clock()
		res.err = &TimeoutError{Attempt: idx, Name: cand.name, Timeout: timeout}
		res.timedOut = true
		return res
	}
}

// normalizeSettled folds context-shaped candidate errors into the attempt's
// own timeout/abort outcomes, so classification never depends on which side
// of the race was observed first.
func normalizeSettled[T any](ctx, attemptCtx context.Context, cand candidate[T], idx int, timeout time.Duration, res attemptResult[T]) attemptResult[T] {
	if res.err == nil {
		return res
	}

	if ctx.Err() != nil && (errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded)) {
		var zero T
		res.val = zero
		res.err = ctx.Err()
		res.aborted = true
		return res
	}

	if timeout > 0 && attemptCtx.Err() == context.DeadlineExceeded && errors.Is(res.err, context.DeadlineExceeded) {
		var zero T
		res.val = zero
		res.err = &TimeoutError{Attempt: idx, Name: cand.name, Timeout: timeout}
		res.timedOut = true
		return res
	}

	return res
}
