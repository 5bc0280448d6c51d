package checked

import (
	"sync/atomic"

	"github.com/buckaroo-pm/boost-safe-numerics/internal/trace"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

type tracerBox struct{ t trace.Tracer }

var tracer atomic.Pointer[tracerBox]

// SetTracer installs the process-wide tracer for engine events. A nil
// tracer disables tracing.
func SetTracer(t trace.Tracer) {
	if t == nil {
		t = trace.Nop
	}
	tracer.Store(&tracerBox{t: t})
}

func currentTracer() trace.Tracer {
	if box := tracer.Load(); box != nil {
		return box.t
	}
	return trace.Nop
}

func planExtra(p Plan) map[string]string {
	extra := map[string]string{
		"left":  p.Left.String(),
		"exact": p.Exact.String(),
	}
	if !p.Op.Unary() {
		extra["right"] = p.Right.String()
	}
	if p.Result.Valid() {
		extra["result"] = p.Result.String()
	}
	return extra
}

func traceCertified(p Plan) {
	if t := currentTracer(); t.Enabled() {
		trace.Point(t, trace.ScopeOp, p.Op.Name(), "static", planExtra(p))
	}
}

func traceDecided(p Plan) {
	if t := currentTracer(); t.Enabled() {
		trace.Point(t, trace.ScopeOp, p.Op.Name(), "decided "+p.Truth.String(), planExtra(p))
	}
}

func traceChecked(p Plan, raw storage.Word) {
	if t := currentTracer(); t.Enabled() {
		extra := planExtra(p)
		extra["value"] = raw.String()
		trace.Point(t, trace.ScopeCheck, p.Op.Name(), "checked: "+p.Reason, extra)
	}
}

func traceWrapped(p Plan, raw storage.Word) {
	if t := currentTracer(); t.Enabled() {
		extra := planExtra(p)
		extra["value"] = raw.String()
		trace.Point(t, trace.ScopeCheck, p.Op.Name(), "wrapped: "+p.Reason, extra)
	}
}

// fail reports err to the tracer and returns it.
func fail(err *Error) error {
	if t := currentTracer(); t.Enabled() {
		extra := map[string]string{"code": err.Code.String()}
		if err.Value != "" {
			extra["value"] = err.Value
		}
		trace.Violation(t, err.Op.Name(), err.Message, extra)
	}
	return err
}
