package classify

// OutcomeKind describes how a single fallback attempt settled.
type OutcomeKind int

const (
	OutcomeUnknown OutcomeKind = iota
	// OutcomeSuccess: the candidate returned a value and the accept predicate took it.
	OutcomeSuccess
	// OutcomeUnacceptable: the candidate returned a value the accept predicate refused.
	OutcomeUnacceptable
	// OutcomeRejected: the candidate returned an error.
	OutcomeRejected
	// OutcomeTimeout: the per-attempt timeout expired before the candidate settled.
	OutcomeTimeout
	// OutcomeAborted: external cancellation ended the whole invocation.
	OutcomeAborted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnacceptable:
		return "unacceptable"
	case OutcomeRejected:
		return "rejected"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Outcome describes the classification of an attempt.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}
