// Package health provides the health endpoints served next to the
// metrics endpoint while `anybuf watch` runs.
//
// # Endpoints
//
//   - /healthz: liveness, 200 while the process runs
//   - /readyz: readiness, 503 until a build succeeds and whenever the
//     latest build failed
//   - /version: build information
//
// # Usage
//
//	checker := health.New(0)
//	var state health.BuildState
//	checker.RegisterCheck("build", state.Check)
//	checker.RegisterCheck("sources", health.PathsCheck(cfg.SourcePaths()))
//
//	addr, done, err := collector.Serve(ctx, health.Mount(checker, info))
//
// Every rebuild reports its outcome with state.Record.
package health
