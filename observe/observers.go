package observe

import "context"

// BaseObserver implements Observer with no-op methods.
//
// Users can embed BaseObserver to implement only the callbacks they need.
type BaseObserver struct{}

func (BaseObserver) OnStart(context.Context, int)             {}
func (BaseObserver) OnAttempt(context.Context, AttemptRecord) {}
func (BaseObserver) OnSuccess(context.Context, Timeline)      {}
func (BaseObserver) OnFailure(context.Context, Timeline)      {}

// MultiObserver fans out events to multiple observers.
type MultiObserver struct {
	Observers []Observer
}

func (m MultiObserver) OnStart(ctx context.Context, candidates int) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnStart(ctx, candidates)
		}
	}
}

func (m MultiObserver) OnAttempt(ctx context.Context, rec AttemptRecord) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnAttempt(ctx, rec)
		}
	}
}

func (m MultiObserver) OnSuccess(ctx context.Context, tl Timeline) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnSuccess(ctx, tl)
		}
	}
}

func (m MultiObserver) OnFailure(ctx context.Context, tl Timeline) {
	for _, o := range m.Observers {
		if o != nil {
			o.OnFailure(ctx, tl)
		}
	}
}
