// Package trace records what the checked arithmetic engine decides.
//
// The engine is silent unless a tracer is installed. Each operation can emit
// a point event describing its plan, the runtime check it performed and any
// violation it raised.
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: violations only
//   - LevelPhase: engine-wide events (matrix runs, policy setup)
//   - LevelDetail: runtime checks
//   - LevelDebug: everything, including statically certified operations
//
// # Scopes
//
//   - ScopeEngine: engine setup and batch runs
//   - ScopeCheck: runtime checks and violations
//   - ScopeOp: individual operation plans
//
// # Usage
//
//	tr, err := trace.New(trace.Config{Level: trace.LevelDetail, Mode: trace.ModeStream, OutputPath: "-"})
//	checked.SetTracer(tr)
//	defer tr.Close()
package trace
