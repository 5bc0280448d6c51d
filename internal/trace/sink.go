package trace

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// gate is the level every tracer in this package filters with.
type gate struct{ level Level }

func (g gate) Level() Level  { return g.level }
func (g gate) Enabled() bool { return g.level > LevelOff }

type nopTracer struct{ gate }

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }

// Nop discards every event. FromContext returns it when ctx has no tracer.
var Nop Tracer = nopTracer{}

// StreamTracer formats events to a writer as they arrive. A failed write
// never reaches the engine; the first one is reported by Flush.
type StreamTracer struct {
	gate
	format Format

	mu       sync.Mutex
	w        io.Writer
	writeErr error
	lost     int
}

// NewStreamTracer writes events accepted by level to w. FormatAuto means text.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{gate: gate{level}, format: format, w: w}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.Accepts(ev) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.w.Write(data); err != nil {
		if t.writeErr == nil {
			t.writeErr = err
		}
		t.lost++
	}
}

// Flush flushes a buffered writer and reports the first failed write.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var errs []error
	if t.writeErr != nil {
		errs = append(errs, fmt.Errorf("%d trace events lost: %w", t.lost, t.writeErr))
		t.writeErr, t.lost = nil, 0
	}
	if f, ok := t.w.(interface{ Flush() error }); ok {
		errs = append(errs, f.Flush())
	}
	return errors.Join(errs...)
}

// Close flushes and closes the writer when it is an io.Closer.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if c, ok := t.w.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

// Tee sends every event to several tracers, each filtering with its own
// level. Its level is the most verbose of theirs.
type Tee struct {
	gate
	tracers []Tracer
}

// NewTee combines tracers. Nil entries are skipped.
func NewTee(tracers ...Tracer) *Tee {
	t := &Tee{}
	for _, tr := range tracers {
		if tr == nil {
			continue
		}
		t.tracers = append(t.tracers, tr)
		t.level = max(t.level, tr.Level())
	}
	return t
}

func (t *Tee) Emit(ev *Event) {
	for _, tr := range t.tracers {
		if !tr.Level().Accepts(ev) {
			continue
		}
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *Tee) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *Tee) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

// RingOf returns the ring buffer behind t: t itself or a member of a Tee.
func RingOf(t Tracer) (*RingTracer, bool) {
	switch tr := t.(type) {
	case *RingTracer:
		return tr, true
	case *Tee:
		for _, member := range tr.tracers {
			if ring, ok := RingOf(member); ok {
				return ring, true
			}
		}
	}
	return nil, false
}
