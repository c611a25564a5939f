package classify

import (
	"context"
	"errors"
)

// Decision is a classifier's verdict on a settled attempt error.
type Decision int

const (
	DecisionUnknown Decision = iota
	// DecisionRetry: advance to the next candidate.
	DecisionRetry
	// DecisionStop: terminate the chain and propagate the error verbatim.
	DecisionStop
)

// Classifier decides whether a candidate error should advance the chain to the
// next candidate or terminate it. Classifiers only see non-nil errors; success
// and acceptance are handled before classification.
type Classifier interface {
	Classify(err error) Decision
}

// Built-in classifier registry names.
const (
	ClassifierAlwaysRetry = "always"
	ClassifierHTTP        = "http"
	ClassifierAuto        = "auto"
)

// RegisterBuiltins registers core classifiers into reg.
func RegisterBuiltins(reg *Registry) {
	if reg == nil {
		return
	}
	reg.Register(ClassifierAlwaysRetry, AlwaysRetry{})
	reg.Register(ClassifierHTTP, HTTPClassifier{})
	reg.Register(ClassifierAuto, AutoClassifier{})
}

// AlwaysRetry treats every error as retryable except cancellation signals.
//
// Deadline expiry is retryable: a candidate that ran out of time says nothing
// about the next candidate's chances. Cancellation means the caller no longer
// wants the result at all.
type AlwaysRetry struct{}

func (AlwaysRetry) Classify(err error) Decision {
	if errors.Is(err, context.Canceled) {
		return DecisionStop
	}
	return DecisionRetry
}
