package telemetry

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/zhouzirui/zenstellar/backend/internal/config"
)

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TelemetryConfig{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Init err: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown err: %v", err)
	}
}

func TestInitExportsSpansOnShutdown(t *testing.T) {
	prevTracer, prevMeter := otel.GetTracerProvider(), otel.GetMeterProvider()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTracer)
		otel.SetMeterProvider(prevMeter)
	})

	var out bytes.Buffer
	shutdown, err := Init(context.Background(), config.TelemetryConfig{Enabled: true, ServiceName: "zenstellar-test"}, &out)
	if err != nil {
		t.Fatalf("Init err: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "fortune")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown err: %v", err)
	}
	if !strings.Contains(out.String(), "fortune") {
		t.Fatalf("expected exported span, got %q", out.String())
	}
}

type recordingExporter struct {
	shutdown bool
}

func (e *recordingExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }

func (e *recordingExporter) Shutdown(context.Context) error {
	e.shutdown = true
	return nil
}

func TestInitReleasesTracerWhenMetricExporterFails(t *testing.T) {
	prevTrace, prevMetric := newTraceExporter, newMetricExporter
	prevTracer := otel.GetTracerProvider()
	t.Cleanup(func() {
		newTraceExporter, newMetricExporter = prevTrace, prevMetric
		otel.SetTracerProvider(prevTracer)
	})

	spans := &recordingExporter{}
	newTraceExporter = func(io.Writer) (sdktrace.SpanExporter, error) { return spans, nil }
	newMetricExporter = func(io.Writer) (sdkmetric.Exporter, error) { return nil, errors.New("no metrics today") }

	if _, err := Init(context.Background(), config.TelemetryConfig{Enabled: true, ServiceName: "zenstellar-test"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
	if !spans.shutdown {
		t.Fatal("expected the tracer provider to be shut down")
	}
	if otel.GetTracerProvider() != prevTracer {
		t.Fatal("global tracer provider must not change on failure")
	}
}
