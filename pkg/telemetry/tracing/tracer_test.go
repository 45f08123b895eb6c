package tracing

import (
	"context"
	"errors"
	"testing"

	"anybuf-dev/anybuf/pkg/config"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testConfig() *config.TracingConfig {
	cfg := config.Default().Telemetry.Tracing
	cfg.Enabled = true
	return &cfg
}

func newRecorded(t *testing.T, cfg *config.TracingConfig) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tracer, err := NewWithProcessor(cfg, "1.2.3", sr)
	if err != nil {
		t.Fatalf("NewWithProcessor() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, sr
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *config.TracingConfig
		wantErr     bool
		wantEnabled bool
	}{
		{name: "nil config", wantErr: true},
		{name: "disabled", config: &config.TracingConfig{}, wantEnabled: false},
		{name: "enabled", config: testConfig(), wantEnabled: true},
		{
			name: "invalid sampler",
			config: func() *config.TracingConfig {
				cfg := testConfig()
				cfg.Sampler = "sometimes"
				return cfg
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config, "test")
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())
			if tracer.Enabled() != tt.wantEnabled {
				t.Errorf("Enabled() = %v, want %v", tracer.Enabled(), tt.wantEnabled)
			}
		})
	}
}

func TestTracer_Start(t *testing.T) {
	tracer, sr := newRecorded(t, testConfig())

	ctx, parent := tracer.Start(context.Background(), "anybuf.compile", attribute.String(AttrCompileID, "abc"))
	_, child := tracer.Start(ctx, "anybuf.output", OutputAttributes("go", "gen/x.go")...)
	End(child, errors.New("disk full"))
	End(parent, nil)

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	out, compile := spans[0], spans[1]

	if out.Parent().SpanID() != compile.SpanContext().SpanID() {
		t.Error("output span is not a child of the compile span")
	}
	if out.Status().Code != codes.Error || out.Status().Description != "disk full" {
		t.Errorf("output status = %+v", out.Status())
	}
	if len(out.Events()) != 1 {
		t.Errorf("output span has %d events, want the recorded error", len(out.Events()))
	}
	if compile.Status().Code != codes.Ok {
		t.Errorf("compile status = %+v", compile.Status())
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range out.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[AttrLanguage].AsString() != "go" || attrs[AttrOutput].AsString() != "gen/x.go" {
		t.Errorf("output attributes = %v", out.Attributes())
	}

	service, ok := compile.Resource().Set().Value("service.name")
	if !ok || service.AsString() != "anybuf" {
		t.Errorf("service.name = %v", service)
	}
}

func TestTracer_Nil(t *testing.T) {
	var tracer *Tracer

	ctx, span := tracer.Start(context.Background(), "anybuf.compile")
	End(span, nil)
	if TraceID(ctx) != "" {
		t.Error("nil tracer produced a trace ID")
	}
	if tracer.Enabled() {
		t.Error("nil tracer reports enabled")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestSampler(t *testing.T) {
	cfg := testConfig()
	cfg.Sampler = SamplerNever
	tracer, sr := newRecorded(t, cfg)

	ctx, span := tracer.Start(context.Background(), "anybuf.compile")
	span.End()
	if len(sr.Ended()) != 0 {
		t.Error("never sampler recorded a span")
	}
	if TraceID(ctx) == "" {
		t.Error("unsampled span should still carry a trace ID")
	}

	if _, err := createSampler(SamplerRatio, 2); err == nil {
		t.Error("ratio above 1 should be rejected")
	}
	if _, err := createSampler(SamplerRatio, 0.5); err != nil {
		t.Errorf("createSampler(ratio, 0.5) error = %v", err)
	}
}

func TestPropagation(t *testing.T) {
	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	t.Setenv(EnvTraceParent, traceparent)
	t.Setenv(EnvTraceState, "")
	t.Setenv(EnvBaggage, "")

	tracer, sr := newRecorded(t, testConfig())
	ctx, span := tracer.Start(FromEnv(context.Background()), "anybuf.compile")
	span.End()

	if got := TraceID(ctx); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("TraceID() = %q", got)
	}
	ended := sr.Ended()
	if len(ended) != 1 || !ended[0].Parent().IsRemote() {
		t.Fatal("span should have the remote parent from TRACEPARENT")
	}

	carrier := Inject(ctx)
	if carrier["traceparent"] == "" || carrier["traceparent"] == traceparent {
		t.Errorf("Inject() traceparent = %q, want the child span", carrier["traceparent"])
	}
}

func TestFromEnv_Empty(t *testing.T) {
	t.Setenv(EnvTraceParent, "")
	ctx := FromEnv(context.Background())
	if TraceID(ctx) != "" {
		t.Error("empty environment produced a trace context")
	}
}
