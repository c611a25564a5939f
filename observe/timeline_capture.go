package observe

import (
	"context"
	"sync/atomic"
)

// TimelineCapture holds a captured timeline after an invocation completes.
//
// Timeline() returns nil until the invocation completes (or if capture is not
// used).
type TimelineCapture struct {
	tl atomic.Pointer[Timeline]
}

// Timeline returns the captured timeline, or nil if not yet populated.
// It is thread-safe.
func (c *TimelineCapture) Timeline() *Timeline {
	if c == nil {
		return nil
	}
	return c.tl.Load()
}

// store is used by the fallback runner to publish the finished timeline.
// Unexported to discourage direct mutation; other packages go through
// StoreTimelineCapture.
func (c *TimelineCapture) store(tl *Timeline) {
	if c == nil || tl == nil {
		return
	}
	c.tl.Store(tl)
}

type timelineCaptureKey struct{}

// RecordTimeline returns a derived context that requests timeline capture for
// the next fallback invocation, plus a holder for retrieving the completed
// timeline.
func RecordTimeline(ctx context.Context) (context.Context, *TimelineCapture) {
	if ctx == nil {
		ctx = context.Background()
	}
	capture := &TimelineCapture{}
	return context.WithValue(ctx, timelineCaptureKey{}, capture), capture
}

// TimelineCaptureFromContext returns the capture (if requested).
//
// This is primarily used by the fallback runner.
func TimelineCaptureFromContext(ctx context.Context) (*TimelineCapture, bool) {
	if ctx == nil {
		return nil, false
	}
	switch v := ctx.Value(timelineCaptureKey{}).(type) {
	case *TimelineCapture:
		return v, v != nil
	default:
		return nil, false
	}
}

type disabledTimelineCapture struct{}

// WithoutTimelineCapture disables timeline capture in derived contexts.
//
// The fallback runner uses this when constructing the per-attempt context
// passed to a candidate, to prevent nested invocations from accidentally
// reusing the same capture.
func WithoutTimelineCapture(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, timelineCaptureKey{}, disabledTimelineCapture{})
}

// StoreTimelineCapture publishes the finished timeline into the capture.
//
// This is primarily used by the fallback runner.
func StoreTimelineCapture(capture *TimelineCapture, tl *Timeline) {
	if capture == nil {
		return
	}
	capture.store(tl)
}
