package telemetry_test

import (
	"context"
	"testing"

	"go.trai.ch/baler/internal/adapters/telemetry"
	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
)

func TestNoop(t *testing.T) {
	n := telemetry.NewNoop()

	ctx, vertex := n.Record(context.Background(), "scan")
	if vertex == nil {
		t.Fatal("expected a vertex, got nil")
	}
	if got := ports.VertexFromContext(ctx); got != vertex {
		t.Error("expected the vertex to be carried by the returned context")
	}

	// None of these must panic or block.
	if _, err := vertex.Stdout().Write([]byte("x")); err != nil {
		t.Errorf("Stdout write failed: %v", err)
	}
	if _, err := vertex.Stderr().Write([]byte("x")); err != nil {
		t.Errorf("Stderr write failed: %v", err)
	}
	vertex.Log(domain.LogLevelInfo, "msg")
	vertex.Cached()
	vertex.Complete(nil)

	if err := n.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
