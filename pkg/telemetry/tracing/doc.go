// Package tracing provides OpenTelemetry tracing for schema compiles.
//
// # Overview
//
// Every compile produces one span tree exported over OTLP gRPC:
//
//	anybuf.compile
//	├── anybuf.read
//	├── anybuf.output (go, gen/schema.go)
//	└── anybuf.output (yaml, gen/schema.yaml)
//
// The compile span carries the compile ID, the number of files read and
// the number of diagnostics. Output spans carry the language, the path
// and the number of bytes written.
//
// # Trace Context
//
// A compile started from a traced job joins the caller's trace when the
// W3C context is passed through the environment:
//
//	TRACEPARENT=00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01 anybuf compile
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: localhost:4317
//	    insecure: true
//	    sampler: ratio
//	    sample_ratio: 0.25
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(tracing.FromEnv(ctx), "anybuf.compile")
//	defer span.End()
//
// A nil *Tracer is valid and records nothing.
package tracing
