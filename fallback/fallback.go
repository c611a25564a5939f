package fallback

import (
	"context"
	"errors"

	"github.com/aponysus/cascade/classify"
	"github.com/aponysus/cascade/observe"
)

// Do runs candidates in order with the default runner until one produces an
// accepted value or the chain is exhausted.
func Do[T any](ctx context.Context, candidates []Candidate[T], opts ...Option[T]) (T, error) {
	return Run(ctx, DefaultRunner(), candidates, opts...)
}

// Run runs candidates in order with the given runner. Candidates are invoked
// lazily, one at a time; candidate i+1 never starts before candidate i's
// outcome is classified and observed.
//
// The result is either the first accepted value, the original error from a
// non-retryable or aborted attempt, or an ExhaustedError wrapping the ordered
// error history when every candidate failed.
func Run[T any](ctx context.Context, r *Runner, candidates []Candidate[T], opts ...Option[T]) (T, error) {
	var zero T

	if len(candidates) == 0 {
		return zero, ErrNoCandidates
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if r == nil {
		r = DefaultRunner()
	}

	cfg := newConfig(r, opts...)
	capture, _ := observe.TimelineCaptureFromContext(ctx)

	tl := observe.Timeline{
		Start:      r.clock(),
		Candidates: len(candidates),
		Attempts:   make([]observe.AttemptRecord, 0, len(candidates)),
	}
	cfg.observer.OnStart(ctx, len(candidates))

	finish := func(err error) {
		tl.End = r.clock()
		tl.FinalErr = err
		if err == nil {
			cfg.observer.OnSuccess(ctx, tl)
		} else {
			cfg.observer.OnFailure(ctx, tl)
		}
		observe.StoreTimelineCapture(capture, &tl)
	}

	record := func(rec observe.AttemptRecord) {
		tl.Attempts = append(tl.Attempts, rec)
		cfg.observer.OnAttempt(ctx, rec)
	}

	var errs []error

	for i, c := range candidates {
		// External cancellation between attempts aborts the whole
		// invocation; the candidate is never invoked. The same check
		// covers a context already canceled before the first attempt.
		if err := ctx.Err(); err != nil {
			finish(err)
			return zero, err
		}

		cand := c.normalize()
		res := runAttempt(ctx, r, cand, i, errs, cfg.timeoutFor(i))

		rec := observe.AttemptRecord{
			Attempt:   i,
			Name:      cand.name,
			StartTime: res.start,
			EndTime:   res.end,
			Err:       res.err,
		}

		switch {
		case res.aborted:
			rec.Outcome = classify.Outcome{Kind: classify.OutcomeAborted, Reason: "context_canceled"}
			record(rec)
			finish(res.err)
			return zero, res.err

		case res.timedOut:
			rec.Outcome = classify.Outcome{Kind: classify.OutcomeTimeout, Reason: "attempt_timeout"}
			record(rec)
			errs = append(errs, res.err)

		case res.err != nil:
			var pe *PanicError
			if errors.As(res.err, &pe) {
				// A recovered panic is a candidate bug, not a provider
				// failure; it terminates regardless of the predicate.
				rec.Outcome = classify.Outcome{Kind: classify.OutcomeRejected, Reason: "panic_in_candidate"}
				record(rec)
				finish(res.err)
				return zero, res.err
			}
			if !cfg.retryable(res.err, i) {
				rec.Outcome = classify.Outcome{Kind: classify.OutcomeRejected, Reason: "non_retryable_error"}
				record(rec)
				finish(res.err)
				return zero, res.err
			}
			rec.Outcome = classify.Outcome{Kind: classify.OutcomeRejected, Reason: "retryable_error"}
			record(rec)
			errs = append(errs, res.err)

		default:
			if cfg.accept(res.val, i) {
				rec.Outcome = classify.Outcome{Kind: classify.OutcomeSuccess, Reason: "success"}
				rec.Value = res.val
				record(rec)
				finish(nil)
				return res.val, nil
			}
			uerr := &UnacceptableError{Attempt: i, Name: cand.name, Value: res.val}
			rec.Outcome = classify.Outcome{Kind: classify.OutcomeUnacceptable, Reason: "unacceptable_result"}
			rec.Value = res.val
			rec.Err = uerr
			record(rec)
			errs = append(errs, uerr)
		}
	}

	exh := &ExhaustedError{Candidates: len(candidates), Errs: errs}
	finish(exh)
	return zero, exh
}
