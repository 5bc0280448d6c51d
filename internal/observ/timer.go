// Package observ times the phases of a matrix run.
package observ

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of one phase.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks phases. Begin and End may be called from several
// goroutines; the matrix generator times each operator in parallel.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index. A nil Timer ignores the
// call and returns -1.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Summary returns a human-readable string summarizing all tracked phases.
// Nested phases (names containing '/') are indented under their parent and
// left out of the total.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		name := p.Name
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = "  " + name[i+1:]
		}
		fmt.Fprintf(&b, "  %-20s %7.2f ms", name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	return b.String()
}

// PhaseReport is the serialisable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates the timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report lists the phases, each nested phase right after its parent, with
// the total of the top-level durations in milliseconds.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	phases := append([]Phase(nil), t.phases...)
	t.mu.Unlock()
	if len(phases) == 0 {
		return Report{}
	}

	children := make(map[string][]Phase)
	var top []Phase
	for _, p := range phases {
		if parent, _, nested := strings.Cut(p.Name, "/"); nested {
			children[parent] = append(children[parent], p)
			continue
		}
		top = append(top, p)
	}
	ordered := make([]Phase, 0, len(phases))
	for _, p := range top {
		ordered = append(ordered, p)
		kids := children[p.Name]
		sort.SliceStable(kids, func(i, j int) bool { return kids[i].Name < kids[j].Name })
		ordered = append(ordered, kids...)
		delete(children, p.Name)
	}
	for _, p := range phases {
		if parent, _, nested := strings.Cut(p.Name, "/"); nested {
			if _, orphan := children[parent]; orphan {
				ordered = append(ordered, p)
			}
		}
	}

	report := Report{Phases: make([]PhaseReport, len(ordered))}
	var total time.Duration
	for i, phase := range ordered {
		if !strings.Contains(phase.Name, "/") {
			total += phase.Dur
		}
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
