package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aponysus/cascade/classify"
	"github.com/aponysus/cascade/fallback"
	"github.com/aponysus/cascade/observe"
)

// Endpoint is one base URL a request can fall back to.
type Endpoint struct {
	Name    string
	BaseURL string
}

// DoHTTP executes req against endpoints in order until one answers with a
// 2xx. It handles request cloning per endpoint, body draining/closing on
// failed responses, and status-code classification: 5xx, 408, 429 and
// transport errors on idempotent requests advance to the next endpoint,
// other client errors stop the chain.
func DoHTTP(ctx context.Context, r *fallback.Runner, client *http.Client, endpoints []Endpoint, req *http.Request, opts ...fallback.Option[*http.Response]) (*http.Response, observe.Timeline, error) {
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return nil, observe.Timeline{}, errors.New("cascade: request body is not replayable (GetBody is nil)")
	}

	candidates := make([]fallback.Candidate[*http.Response], 0, len(endpoints))
	for _, ep := range endpoints {
		base, err := url.Parse(ep.BaseURL)
		if err != nil {
			return nil, observe.Timeline{}, fmt.Errorf("cascade: invalid endpoint URL %q: %w", ep.BaseURL, err)
		}

		name := ep.Name
		if name == "" {
			name = base.Host
		}

		candidates = append(candidates, fallback.Named[*http.Response]{
			Name: name,
			Run: func(ctx context.Context) (*http.Response, error) {
				outReq := req.Clone(ctx)
				outReq.URL.Scheme = base.Scheme
				outReq.URL.Host = base.Host
				outReq.Host = ""
				if req.GetBody != nil {
					body, err := req.GetBody()
					if err != nil {
						return nil, err
					}
					outReq.Body = body
				}

				resp, err := client.Do(outReq)
				if err != nil {
					// Wrap transport errors so HTTP classification (idempotency) applies.
					return nil, &StatusError{
						Err:    err,
						Method: req.Method,
					}
				}

				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					return resp, nil
				}

				// Failure: drain and close to prevent leaks before the next endpoint.
				// Drain is capped to avoid hanging on large error bodies.
				_, _ = io.CopyN(io.Discard, resp.Body, 4096)
				resp.Body.Close()

				return nil, &StatusError{
					Code:   resp.StatusCode,
					Method: req.Method,
					Header: resp.Header,
				}
			},
		})
	}

	httpCls := classify.HTTPClassifier{}
	callOpts := append([]fallback.Option[*http.Response]{
		fallback.WithRetryable[*http.Response](func(err error, _ int) bool {
			return httpCls.Classify(err) == classify.DecisionRetry
		}),
	}, opts...)

	// Wrap context to capture the attempt timeline.
	ctx, capture := observe.RecordTimeline(ctx)

	val, err := fallback.Run(ctx, r, candidates, callOpts...)

	var tl observe.Timeline
	if t := capture.Timeline(); t != nil {
		tl = *t
	}

	return val, tl, err
}

// StatusError implements classify.HTTPError.
type StatusError struct {
	Code   int
	Method string
	Header http.Header
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "http status " + strconv.Itoa(e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }

func (e *StatusError) HTTPStatusCode() int { return e.Code }
func (e *StatusError) HTTPMethod() string  { return e.Method }

func (e *StatusError) RetryAfter() (time.Duration, bool) {
	if e.Header == nil {
		return 0, false
	}
	s := e.Header.Get("Retry-After")
	if s == "" {
		return 0, false
	}

	// Try seconds
	if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}

	// Try HTTP date
	if t, err := http.ParseTime(s); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}

	return 0, false
}
