package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoCandidates is returned when the candidate list is empty.
	ErrNoCandidates = errors.New("cascade: no candidates")

	// ErrTimeout matches any per-attempt timeout error via errors.Is.
	ErrTimeout = errors.New("cascade: attempt timed out")

	// ErrExhausted matches an ExhaustedError via errors.Is.
	ErrExhausted = errors.New("cascade: all candidates failed")
)

// TimeoutError reports that a candidate did not settle within its effective
// per-attempt timeout.
type TimeoutError struct {
	Attempt int
	Name    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("cascade: candidate %d (%s) timed out after %v", e.Attempt, e.Name, e.Timeout)
	}
	return fmt.Sprintf("cascade: candidate %d timed out after %v", e.Attempt, e.Timeout)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == context.DeadlineExceeded
}

// UnacceptableError wraps a value the accept predicate refused.
type UnacceptableError struct {
	Attempt int
	Name    string
	Value   any
}

func (e *UnacceptableError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("cascade: candidate %d (%s) returned an unacceptable result", e.Attempt, e.Name)
	}
	return fmt.Sprintf("cascade: candidate %d returned an unacceptable result", e.Attempt)
}

// ExhaustedError is returned when every candidate was tried and none produced
// an accepted value. Errs preserves attempt order.
type ExhaustedError struct {
	Candidates int
	Errs       []error
}

func (e *ExhaustedError) Error() string {
	if len(e.Errs) == 0 {
		return fmt.Sprintf("cascade: all %d candidates failed", e.Candidates)
	}
	return fmt.Sprintf("cascade: all %d candidates failed, last: %v", e.Candidates, e.Errs[len(e.Errs)-1])
}

func (e *ExhaustedError) Unwrap() []error { return e.Errs }

func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// PanicError is returned when panic recovery is enabled and a candidate
// panics. It always terminates the invocation.
type PanicError struct {
	Attempt int
	Name    string
	Value   any
	Stack   []byte
}

func (e *PanicError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("cascade: panic in candidate %d (%s): %v", e.Attempt, e.Name, e.Value)
	}
	return fmt.Sprintf("cascade: panic in candidate %d: %v", e.Attempt, e.Value)
}
