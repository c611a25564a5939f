// Package fallback runs an ordered chain of candidate operations until one
// produces a result that is both successful and acceptable, or the chain is
// exhausted.
//
// This is neither retry nor racing. Retry repeats one operation; hedging runs
// several concurrently. A fallback chain invokes distinct providers lazily,
// in order, with at most one active at any instant: candidate i+1 is never
// started before candidate i's outcome is fully classified and observed.
//
//	primary := fallback.Named[string]{Name: "primary", Run: fetchPrimary}
//	backup := fallback.Named[string]{Name: "backup", Run: fetchBackup}
//	v, err := fallback.Do(ctx, []fallback.Candidate[string]{primary, backup},
//		fallback.WithTimeout[string](200*time.Millisecond))
//
// Each attempt runs under a context derived from the caller's, optionally
// bounded by a per-attempt timeout. Cancellation is cooperative throughout.
// The timeout in particular is a race, not preemption: when the timer expires
// the attempt's context is canceled and a timeout outcome is reported, but a
// candidate that does not watch its context keeps running in the background
// and its eventual result is discarded. Candidates with side effects must
// tolerate this. External cancellation behaves differently: the runner waits
// for the active candidate to settle before surfacing the abort, so a single
// invocation never has two candidates in flight.
//
// Candidates can observe their position and the errors of earlier attempts
// via observe.AttemptFromContext.
package fallback
