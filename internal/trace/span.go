package trace

import (
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return seq.Add(1) }

// NextSpanID returns a fresh span id. Ids start at 1; 0 means no parent.
func NextSpanID() uint64 { return spanIDs.Add(1) }

// Span is a timed batch of work, such as a matrix run or one operator of it.
// Its events go through the tracer's level filter like any other; a span on
// a disabled tracer only measures its duration.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
	ended   atomic.Bool
}

// Begin emits the start of a span. parent is 0 for a root span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	s := &Span{tracer: Nop, scope: scope, name: name, parent: parent, started: time.Now()}
	if t == nil || !t.Enabled() {
		return s
	}
	s.tracer = t
	s.id = NextSpanID()
	t.Emit(s.event(KindSpanBegin, ""))
	return s
}

func (s *Span) event(kind Kind, detail string) *Event {
	return &Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
	}
}

// WithExtra records key=value on the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// End closes the span and returns its duration. Only the first End or Fail
// emits.
func (s *Span) End(detail string) time.Duration {
	return s.finish(detail, false)
}

// Fail closes the span as a violation of its batch, so that it passes the
// error level and is counted by a ring.
func (s *Span) Fail(err error) time.Duration {
	return s.finish(err.Error(), true)
}

func (s *Span) finish(detail string, failed bool) time.Duration {
	if s == nil {
		return 0
	}
	dur := time.Since(s.started)
	if s.id == 0 || s.ended.Swap(true) {
		return dur
	}
	ev := s.event(KindSpanEnd, detail)
	ev.Error = failed
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return dur
}

// ID is the span id, 0 when the tracer is disabled.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event when t accepts it.
func Point(t Tracer, scope Scope, name, detail string, extra map[string]string) {
	emit(t, &Event{Scope: scope, Name: name, Detail: detail, Extra: extra})
}

// Violation emits an error event in the check scope.
func Violation(t Tracer, name, detail string, extra map[string]string) {
	emit(t, &Event{Scope: ScopeCheck, Error: true, Name: name, Detail: detail, Extra: extra})
}

func emit(t Tracer, ev *Event) {
	if t == nil || !t.Level().Accepts(ev) {
		return
	}
	ev.Time = time.Now()
	ev.Kind = KindPoint
	t.Emit(ev)
}
