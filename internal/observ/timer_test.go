package observ

import (
	"math"
	"strings"
	"sync"
	"testing"
)

func TestTimerGroupsNestedPhases(t *testing.T) {
	tm := NewTimer()
	gen := tm.Begin("generate")
	var wg sync.WaitGroup
	for _, name := range []string{"generate/mul", "generate/add"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			tm.End(tm.Begin(name), "")
		}(name)
	}
	wg.Wait()
	tm.End(gen, "2 ops")
	tm.End(tm.Begin("verify"), "")

	report := tm.Report()
	var names []string
	for _, p := range report.Phases {
		names = append(names, p.Name)
	}
	want := []string{"generate", "generate/add", "generate/mul", "verify"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("phases = %v, want %v", names, want)
	}
	if top := report.Phases[0].DurationMS + report.Phases[3].DurationMS; math.Abs(report.TotalMS-top) > 1e-6 {
		t.Fatalf("total %.3f counts nested phases (top-level sum %.3f)", report.TotalMS, top)
	}

	summary := tm.Summary()
	if !strings.Contains(summary, "// 2 ops") || !strings.Contains(summary, "    mul") {
		t.Fatalf("summary:\n%s", summary)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatalf("nil timer reported %v", r)
	}
	tm2 := NewTimer()
	tm2.End(5, "out of range")
	if len(tm2.Report().Phases) != 0 {
		t.Fatalf("End with a bad index added a phase")
	}
}
