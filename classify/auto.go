package classify

import "errors"

// AutoClassifier delegates to a specific classifier based on the error type,
// or falls back to a generic default.
//
// Behavior:
// - If the error chain contains an HTTPError: uses HTTPClassifier.
// - Otherwise: uses AlwaysRetry.
type AutoClassifier struct{}

func (AutoClassifier) Classify(err error) Decision {
	var he HTTPError
	if errors.As(err, &he) {
		return HTTPClassifier{}.Classify(err)
	}
	return AlwaysRetry{}.Classify(err)
}
