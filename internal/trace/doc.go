// Package trace provides a tracing subsystem for grindscan.
//
// It records scan phases, per-report processing and single error records
// to help diagnose slow or stuck scans over large report directories.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	grindscan scan --trace=- --trace-level=detail
//
// # Architecture
//
//   - Nop: no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped when a scan fails (RingOf finds it)
//   - Tee: stream and ring together (--trace-mode=both)
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only the ring dump on failure
//   - LevelPhase: Driver boundaries (discovery, scan, collect)
//   - LevelDetail: Per-report events
//   - LevelDebug: Everything including single errors
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//
//	ctx, span := trace.Start(ctx, trace.ScopeReport, "report:"+name)
//	defer span.End("")
//	trace.Mark(ctx, trace.ScopeError, "unattributed:"+kind, text)
package trace
