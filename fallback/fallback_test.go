package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aponysus/cascade/observe"
)

func TestRun_FirstCandidateWins(t *testing.T) {
	secondCalled := false
	candidates := Candidates[string](
		func(context.Context) (string, error) { return "ok", nil },
		func(context.Context) (string, error) {
			secondCalled = true
			return "nope", nil
		},
	)

	val, err := Do(context.Background(), candidates)
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
	if val != "ok" {
		t.Fatalf("val=%q, want %q", val, "ok")
	}
	if secondCalled {
		t.Fatalf("second candidate must not run after first succeeds")
	}
}

func TestRun_FallsToNextOnError(t *testing.T) {
	candidates := Candidates[int](
		func(context.Context) (int, error) { return 0, errors.New("fail") },
		func(context.Context) (int, error) { return 123, nil },
	)

	val, err := Do(context.Background(), candidates)
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
	if val != 123 {
		t.Fatalf("val=%d, want 123", val)
	}
}

type flagged struct{ ok bool }

func TestRun_AcceptPredicate(t *testing.T) {
	candidates := Candidates[flagged](
		func(context.Context) (flagged, error) { return flagged{ok: false}, nil },
		func(context.Context) (flagged, error) { return flagged{ok: true}, nil },
	)

	val, err := Do(context.Background(), candidates,
		WithAccept(func(v flagged, _ int) bool { return v.ok }),
	)
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
	if !val.ok {
		t.Fatalf("val=%+v, want ok=true", val)
	}
}

func TestRun_AllUnacceptable_Exhausts(t *testing.T) {
	candidates := Candidates[int](
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (int, error) { return 2, nil },
		func(context.Context) (int, error) { return 3, nil },
	)

	_, err := Do(context.Background(), candidates,
		WithAccept(func(int, int) bool { return false }),
	)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err=%v, want ErrExhausted", err)
	}

	var exh *ExhaustedError
	if !errors.As(err, &exh) {
		t.Fatalf("err=%T, want *ExhaustedError", err)
	}
	if exh.Candidates != 3 {
		t.Fatalf("candidates=%d, want 3", exh.Candidates)
	}
	if len(exh.Errs) != 3 {
		t.Fatalf("errs=%d, want 3", len(exh.Errs))
	}
	var uerr *UnacceptableError
	if !errors.As(exh.Errs[0], &uerr) {
		t.Fatalf("first error is %T, want *UnacceptableError", exh.Errs[0])
	}
	if uerr.Value != 1 {
		t.Fatalf("rejected value=%v, want 1", uerr.Value)
	}
}

func TestRun_TimeoutFallsToNext(t *testing.T) {
	candidates := []Candidate[string]{
		Named[string]{Name: "slow", Run: func(ctx context.Context) (string, error) {
			select {
			case <-time.After(50 * time.Millisecond):
				return "slow", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}},
		Named[string]{Name: "fast", Run: func(context.Context) (string, error) {
			return "fast", nil
		}},
	}

	var recs []observe.AttemptRecord
	val, err := Do(context.Background(), candidates,
		WithTimeout[string](10*time.Millisecond),
		WithOnAttempt[string](func(rec observe.AttemptRecord) { recs = append(recs, rec) }),
	)
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
	if val != "fast" {
		t.Fatalf("val=%q, want %q", val, "fast")
	}
	if len(recs) != 2 {
		t.Fatalf("attempts=%d, want 2", len(recs))
	}
	if recs[0].Outcome.Kind.String() != "timeout" {
		t.Fatalf("first outcome=%v, want timeout", recs[0].Outcome.Kind)
	}
	var te *TimeoutError
	if !errors.As(recs[0].Err, &te) {
		t.Fatalf("first attempt err=%T, want *TimeoutError", recs[0].Err)
	}
	if te.Timeout != 10*time.Millisecond {
		t.Fatalf("timeout=%v, want 10ms", te.Timeout)
	}
}

func TestRun_NonRetryableStopsChain(t *testing.T) {
	marker := errors.New("no-fallback")
	secondCalled := false
	candidates := Candidates[string](
		func(context.Context) (string, error) { return "", marker },
		func(context.Context) (string, error) {
			secondCalled = true
			return "never", nil
		},
	)

	_, err := Do(context.Background(), candidates,
		WithRetryable[string](func(err error, _ int) bool { return !errors.Is(err, marker) }),
	)
	if err != marker {
		t.Fatalf("err=%v, want the marker error verbatim", err)
	}
	if secondCalled {
		t.Fatalf("second candidate must not run after a non-retryable error")
	}
}

func TestRun_AggregatePreservesAttemptOrder(t *testing.T) {
	errA := errors.New("first failure")
	errB := errors.New("second failure")
	candidates := Candidates[int](
		func(context.Context) (int, error) { return 0, errA },
		func(context.Context) (int, error) { return 0, errB },
	)

	_, err := Do(context.Background(), candidates)
	var exh *ExhaustedError
	if !errors.As(err, &exh) {
		t.Fatalf("err=%T, want *ExhaustedError", err)
	}
	if len(exh.Errs) != 2 || exh.Errs[0] != errA || exh.Errs[1] != errB {
		t.Fatalf("errs=%v, want [first failure, second failure]", exh.Errs)
	}
}

func TestRun_AttemptInfoVisibleToCandidates(t *testing.T) {
	var gotAttempt int
	var gotPrior int
	var gotName string

	candidates := []Candidate[string]{
		Func[string](func(context.Context) (string, error) {
			return "", errors.New("first fails")
		}),
		Named[string]{Name: "backup", Run: func(ctx context.Context) (string, error) {
			info, ok := observe.AttemptFromContext(ctx)
			if !ok {
				return "", errors.New("missing attempt info")
			}
			gotAttempt = info.Attempt
			gotPrior = len(info.PriorErrors)
			gotName = info.Name
			return "ok", nil
		}},
	}

	if _, err := Do(context.Background(), candidates); err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
	if gotAttempt != 1 {
		t.Fatalf("attempt=%d, want 1", gotAttempt)
	}
	if gotPrior != 1 {
		t.Fatalf("prior errors=%d, want 1", gotPrior)
	}
	if gotName != "backup" {
		t.Fatalf("name=%q, want %q", gotName, "backup")
	}
}

func TestRun_CanceledContextFailsBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	candidates := Candidates[string](func(context.Context) (string, error) {
		called = true
		return "never", nil
	})

	_, err := Do(ctx, candidates)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
	if called {
		t.Fatalf("no candidate may run under an already-canceled context")
	}
}

func TestRun_ExternalCancelAbortsActiveAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	secondCalled := false
	candidates := Candidates[string](
		func(ctx context.Context) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
		func(context.Context) (string, error) {
			secondCalled = true
			return "never", nil
		},
	)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	var recs []observe.AttemptRecord
	_, err := Do(ctx, candidates,
		WithOnAttempt[string](func(rec observe.AttemptRecord) { recs = append(recs, rec) }),
	)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
	if secondCalled {
		t.Fatalf("no candidate may run after an external cancellation")
	}
	if len(recs) != 1 || recs[0].Outcome.Kind.String() != "aborted" {
		t.Fatalf("recs=%v, want one aborted attempt", recs)
	}
}

func TestRun_EmptyCandidates(t *testing.T) {
	if _, err := Do(context.Background(), []Candidate[int]{}); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("err=%v, want ErrNoCandidates", err)
	}
	if _, err := Do(context.Background(), ([]Candidate[int])(nil)); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("err=%v, want ErrNoCandidates for nil slice", err)
	}
}

func TestRun_CandidateCancellationErrorStopsByDefault(t *testing.T) {
	// A candidate surfacing context.Canceled of its own accord, with the
	// caller's context still live, is non-retryable under the default
	// classifier.
	secondCalled := false
	candidates := Candidates[int](
		func(context.Context) (int, error) { return 0, context.Canceled },
		func(context.Context) (int, error) {
			secondCalled = true
			return 1, nil
		},
	)

	_, err := Do(context.Background(), candidates)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled verbatim", err)
	}
	if secondCalled {
		t.Fatalf("chain must stop on a cancellation-shaped error")
	}
}

func TestRun_AllTimeout_ExhaustsWithTimeoutErrors(t *testing.T) {
	slow := func(ctx context.Context) (string, error) {
		select {
		case <-time.After(50 * time.Millisecond):
			return "slow", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	candidates := Candidates[string](slow, slow)

	_, err := Do(context.Background(), candidates, WithTimeout[string](5*time.Millisecond))
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("err=%v, want ErrExhausted", err)
	}
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err=%v, want ErrTimeout reachable through the aggregate", err)
	}

	var exh *ExhaustedError
	if !errors.As(err, &exh) {
		t.Fatalf("err=%T, want *ExhaustedError", err)
	}
	if len(exh.Errs) != 2 {
		t.Fatalf("errs=%d, want 2", len(exh.Errs))
	}
}

func TestRun_TimeoutValueNeverSurfaces(t *testing.T) {
	// A candidate that ignores its context still loses the race; its value
	// must never reach the caller.
	candidates := Candidates[string](
		func(context.Context) (string, error) {
			time.Sleep(40 * time.Millisecond)
			return "late", nil
		},
		func(context.Context) (string, error) { return "fast", nil },
	)

	val, err := Do(context.Background(), candidates, WithTimeout[string](5*time.Millisecond))
	if err != nil {
		t.Fatalf("err=%v, want nil", err)
	}
	if val != "fast" {
		t.Fatalf("val=%q, want %q", val, "fast")
	}
}

func TestRun_NilContextAndRunner(t *testing.T) {
	candidates := Candidates[int](func(context.Context) (int, error) { return 7, nil })

	val, err := Run(nil, nil, candidates)
	if err != nil || val != 7 {
		t.Fatalf("val=%d err=%v, want 7 <nil>", val, err)
	}
}
