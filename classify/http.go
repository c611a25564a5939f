package classify

import (
	"context"
	"errors"
	"strings"
	"time"
)

// HTTPError is a classify-owned interface that allows the HTTP classifier to
// recognize fallback semantics without importing integration packages.
//
// Implementations should use status code 0 for transport errors.
type HTTPError interface {
	HTTPStatusCode() int
	HTTPMethod() string
	RetryAfter() (time.Duration, bool)
}

// HTTPClassifier decides fallback-vs-stop for HTTP-like operations based on an
// HTTPError.
//
// Server-side failures (5xx), timeouts (408), throttling (429) and transport
// errors advance to the next candidate endpoint when the method is idempotent;
// other client errors terminate the chain. Errors that do not implement
// HTTPError terminate the chain.
type HTTPClassifier struct {
	// Retryable4xx is an optional set of additional retryable 4xx status codes.
	Retryable4xx map[int]struct{}
}

func (c HTTPClassifier) Classify(err error) Decision {
	if errors.Is(err, context.Canceled) {
		return DecisionStop
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return DecisionRetry
	}

	var he HTTPError
	if !errors.As(err, &he) {
		return DecisionStop
	}

	status := he.HTTPStatusCode()
	method := strings.ToUpper(strings.TrimSpace(he.HTTPMethod()))
	if !isIdempotentMethod(method) {
		return DecisionStop
	}

	switch {
	case status == 0:
		return DecisionRetry
	case status >= 500 && status <= 599:
		return DecisionRetry
	case status == 408 || status == 429:
		return DecisionRetry
	case c.retryable4xx(status):
		return DecisionRetry
	default:
		return DecisionStop
	}
}

func (c HTTPClassifier) retryable4xx(status int) bool {
	if c.Retryable4xx == nil {
		return false
	}
	_, ok := c.Retryable4xx[status]
	return ok
}

func isIdempotentMethod(method string) bool {
	switch method {
	case "GET", "HEAD", "PUT", "DELETE", "OPTIONS", "TRACE":
		return true
	default:
		return false
	}
}
