package observe

import "context"

// NoopObserver implements Observer with no-op methods.
type NoopObserver struct{}

func (NoopObserver) OnStart(context.Context, int)             {}
func (NoopObserver) OnAttempt(context.Context, AttemptRecord) {}
func (NoopObserver) OnSuccess(context.Context, Timeline)      {}
func (NoopObserver) OnFailure(context.Context, Timeline)      {}
