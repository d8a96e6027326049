package ai

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zhouzirui/zenstellar/backend/internal/service/ai"

const (
	opTurn    = "send_turn"
	opFortune = "fortune"
	opImage   = "image"
)

// instruments wraps backend calls in spans and counts them by outcome. The
// global providers are no-ops until telemetry is installed.
type instruments struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
}

func newInstruments() *instruments {
	requests, err := otel.Meter(instrumentationName).Int64Counter(
		"zenstellar.ai.requests",
		metric.WithDescription("Generation backend calls by operation and outcome"),
	)
	if err != nil {
		log.Printf("[ai] failed to create request counter: %v", err)
	}
	return &instruments{
		tracer:   otel.Tracer(instrumentationName),
		requests: requests,
	}
}

func (in *instruments) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return in.tracer.Start(ctx, "ai."+op)
}

func (in *instruments) finish(ctx context.Context, span trace.Span, op string, failure Failure, err error) {
	outcome := "ok"
	if failure != FailureNone {
		outcome = string(failure)
	}

	if in.requests != nil {
		in.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("outcome", outcome),
		))
	}

	span.SetAttributes(attribute.String("ai.outcome", outcome))
	if err != nil {
		span.RecordError(err)
	}
	if failure != FailureNone {
		span.SetStatus(codes.Error, outcome)
	}
	span.End()
}

func (in *instruments) finishText(ctx context.Context, span trace.Span, op string, r Result) Result {
	in.finish(ctx, span, op, r.Failure, r.Err)
	return r
}

func (in *instruments) finishImage(ctx context.Context, span trace.Span, r ImageResult) ImageResult {
	in.finish(ctx, span, opImage, r.Failure, r.Err)
	return r
}
