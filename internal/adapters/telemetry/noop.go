package telemetry

import (
	"context"
	"io"

	"go.trai.ch/lucifer/internal/core/ports"
)

var (
	_ ports.Tracer = NoOpTracer{}
	_ ports.Span   = NoOpSpan{}
)

// NoOpTracer discards every span. Tests use it to drive the engine without
// installing a tracer provider.
type NoOpTracer struct{}

// NewNoOpTracer returns a NoOpTracer.
func NewNoOpTracer() NoOpTracer {
	return NoOpTracer{}
}

// Start returns ctx unchanged and a span that records nothing.
func (NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, NoOpSpan{}
}

// EmitPlan implements ports.Tracer.
func (NoOpTracer) EmitPlan(context.Context, []string) {}

// NoOpSpan is the span handed out by NoOpTracer. Output written to it is
// dropped.
type NoOpSpan struct{}

func (NoOpSpan) End()                     {}
func (NoOpSpan) RecordError(error)        {}
func (NoOpSpan) SetAttribute(string, any) {}

func (NoOpSpan) Write(p []byte) (int, error) {
	return io.Discard.Write(p)
}
