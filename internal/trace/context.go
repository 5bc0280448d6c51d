package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer returns ctx carrying t. A nil t stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// StartSpan begins a span on the tracer in ctx, parented to the span ctx
// already carries. The returned context carries the new span.
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	var parent uint64
	if s, ok := ctx.Value(spanKey{}).(*Span); ok {
		parent = s.ID()
	}
	span := Begin(FromContext(ctx), scope, name, parent)
	return context.WithValue(ctx, spanKey{}, span), span
}
