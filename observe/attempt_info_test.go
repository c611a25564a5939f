package observe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aponysus/cascade/observe"
)

func TestAttemptFromContext_Present(t *testing.T) {
	prior := []error{errors.New("first"), errors.New("second")}
	info := observe.AttemptInfo{
		Attempt:     2,
		Name:        "secondary",
		PriorErrors: prior,
	}
	ctx := observe.WithAttemptInfo(context.Background(), info)
	got, ok := observe.AttemptFromContext(ctx)
	if !ok {
		t.Fatal("expected attempt info in context")
	}
	if got.Attempt != 2 || got.Name != "secondary" {
		t.Fatalf("expected attempt=2 name=secondary, got %+v", got)
	}
	if len(got.PriorErrors) != 2 || got.PriorErrors[0].Error() != "first" {
		t.Fatalf("expected prior errors in order, got %v", got.PriorErrors)
	}
}

func TestAttemptFromContext_NotPresent(t *testing.T) {
	if _, ok := observe.AttemptFromContext(context.Background()); ok {
		t.Fatal("expected no attempt info in context")
	}
}

func TestWithAttemptInfo_DerivedContext(t *testing.T) {
	base := context.Background()
	ctx := observe.WithAttemptInfo(base, observe.AttemptInfo{Attempt: 3})
	if ctx == base {
		t.Fatal("expected derived context")
	}
	if _, ok := observe.AttemptFromContext(base); ok {
		t.Fatal("expected base context to be unchanged")
	}
}
