package observe

import (
	"context"
	"time"

	"github.com/aponysus/cascade/classify"
)

// AttemptRecord describes a single candidate execution.
type AttemptRecord struct {
	// Attempt is the zero-based position of the candidate in the chain.
	Attempt int
	// Name is the candidate's name, if one was provided.
	Name string

	StartTime time.Time
	EndTime   time.Time

	Outcome classify.Outcome

	// Value is set for success and unacceptable outcomes.
	Value any
	// Err is set for rejected, timeout and aborted outcomes.
	Err error
}

// Duration is the attempt's elapsed wall time.
func (r AttemptRecord) Duration() time.Duration {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// Timeline is the structured record of a single fallback invocation and all
// of its attempts.
type Timeline struct {
	Start time.Time
	End   time.Time

	// Candidates is the length of the chain, including candidates never reached.
	Candidates int

	Attempts []AttemptRecord
	FinalErr error
}

// Observer receives lifecycle callbacks for a single fallback invocation.
//
// Callbacks run inline on the orchestrator's goroutine, after classification
// and before the continue/stop decision. The orchestrator does not shield
// itself against panicking observers.
type Observer interface {
	OnStart(ctx context.Context, candidates int)
	OnAttempt(ctx context.Context, rec AttemptRecord)
	OnSuccess(ctx context.Context, tl Timeline)
	OnFailure(ctx context.Context, tl Timeline)
}
