package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/aponysus/cascade/classify"
	"github.com/aponysus/cascade/fallback"
	"github.com/aponysus/cascade/observe"
)

// ClassifierName is the registry name for the gRPC classifier.
const ClassifierName = "grpc"

// Classifier implements classify.Classifier for gRPC status codes.
//
// Unavailable, ResourceExhausted, DeadlineExceeded and Aborted advance to the
// next target; Canceled and everything else stop the chain. Non-gRPC errors
// are delegated to classify.AutoClassifier.
type Classifier struct{}

func (Classifier) Classify(err error) classify.Decision {
	st, ok := status.FromError(err)
	if !ok {
		return classify.AutoClassifier{}.Classify(err)
	}

	switch st.Code() {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded, codes.Aborted:
		return classify.DecisionRetry
	case codes.Canceled:
		return classify.DecisionStop
	default:
		return classify.DecisionStop
	}
}

// Register adds the gRPC classifier to reg under ClassifierName.
func Register(reg *classify.Registry) {
	reg.Register(ClassifierName, Classifier{})
}

// Target is one gRPC backend a call can fall back to.
type Target struct {
	Name string
	Conn grpc.ClientConnInterface
}

// Invoke runs call against targets in order until one answers with an
// acceptable result, classifying status codes with Classifier. The returned
// timeline records one attempt per target tried.
func Invoke[T any](ctx context.Context, r *fallback.Runner, targets []Target, call func(ctx context.Context, conn grpc.ClientConnInterface) (T, error), opts ...fallback.Option[T]) (T, observe.Timeline, error) {
	candidates := make([]fallback.Candidate[T], 0, len(targets))
	for _, tgt := range targets {
		conn := tgt.Conn
		candidates = append(candidates, fallback.Named[T]{
			Name: tgt.Name,
			Run: func(ctx context.Context) (T, error) {
				return call(ctx, conn)
			},
		})
	}

	cls := Classifier{}
	callOpts := append([]fallback.Option[T]{
		fallback.WithRetryable[T](func(err error, _ int) bool {
			return cls.Classify(err) == classify.DecisionRetry
		}),
	}, opts...)

	ctx, capture := observe.RecordTimeline(ctx)

	val, err := fallback.Run(ctx, r, candidates, callOpts...)

	var tl observe.Timeline
	if t := capture.Timeline(); t != nil {
		tl = *t
	}

	return val, tl, err
}
