package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // violations only
	LevelPhase               // engine scope
	LevelDetail              // runtime checks
	LevelDebug               // certified operations too
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

// widest is the finest scope each level admits; zero admits none.
var widest = [...]Scope{
	LevelPhase:  ScopeEngine,
	LevelDetail: ScopeCheck,
	LevelDebug:  ScopeOp,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel resolves a level name, case-insensitively. Empty means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether non-error events of scope pass at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(widest) && scope != 0 && scope <= widest[l]
}

// Accepts reports whether ev passes the level filter.
func (l Level) Accepts(ev *Event) bool {
	if ev.Error {
		return l > LevelOff
	}
	return l.ShouldEmit(ev.Scope)
}
