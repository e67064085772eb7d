// Package trace records what a verification run does: which suite and case
// spans ran, which segments were compared and where a comparison failed.
//
// # Usage
//
//	watchcheck verify --trace=- --trace-level=detail ./testdata
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a writer or a rotated file
//   - RingTracer: circular buffer, dumped when a run fails
//   - MultiTracer: fan-out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: failure points only
//   - LevelPhase: suite boundaries
//   - LevelDetail: per-case spans
//   - LevelDebug: every segment comparison
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeCase, "case:initial", parentID)
//	defer span.End("")
package trace
