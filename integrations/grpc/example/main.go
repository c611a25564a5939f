package main

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/aponysus/cascade/fallback"
	integration "github.com/aponysus/cascade/integrations/grpc"
)

func main() {
	// Two backends: a primary and a backup region.
	primary, err := grpc.NewClient("localhost:50051",
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("primary: %v", err)
	}
	defer primary.Close()

	backup, err := grpc.NewClient("localhost:50052",
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("backup: %v", err)
	}
	defer backup.Close()

	fmt.Println("gRPC clients initialized. (Real calls require running servers;")
	fmt.Println("this example simulates the primary being unavailable.)")

	targets := []integration.Target{
		{Name: "primary", Conn: simulated{err: status.Error(codes.Unavailable, "primary down")}},
		{Name: "backup", Conn: simulated{reply: "pong"}},
	}

	call := func(ctx context.Context, conn grpc.ClientConnInterface) (string, error) {
		var reply string
		if err := conn.Invoke(ctx, "/echo.Echo/Ping", "ping", &reply); err != nil {
			return "", err
		}
		return reply, nil
	}

	val, tl, err := integration.Invoke(context.Background(), fallback.DefaultRunner(), targets, call)
	if err != nil {
		fmt.Printf("All targets failed: %v\n", err)
		return
	}

	fmt.Printf("Result: %q after %d attempts\n", val, len(tl.Attempts))
	for _, a := range tl.Attempts {
		fmt.Printf(" - %s: %s (%v)\n", a.Name, a.Outcome.Reason, a.Duration())
	}
}

// simulated stands in for a connection so the example runs without servers.
type simulated struct {
	err   error
	reply string
}

func (s simulated) Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error {
	if s.err != nil {
		return s.err
	}
	if out, ok := reply.(*string); ok {
		*out = s.reply
	}
	return nil
}

func (s simulated) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, status.Error(codes.Unimplemented, "streams not supported")
}
