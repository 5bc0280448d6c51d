package trace

import "time"

// Kind tells span boundaries from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is how fine grained an event is. Coarser scopes have lower values,
// so a level admits every scope up to a bound.
type Scope uint8

const (
	ScopeEngine Scope = iota + 1 // matrix runs, policy setup
	ScopeCheck                   // runtime checks and violations
	ScopeOp                      // per-operation plans, certified paths
)

var scopeNames = [...]string{ScopeEngine: "engine", ScopeCheck: "check", ScopeOp: "op"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Extra holds plan details such as operand
// kinds, the destination range and error codes.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores or writes it
	Kind     Kind
	Scope    Scope
	Error    bool // violations pass every level except off
	SpanID   uint64
	ParentID uint64
	Name     string // operator or span name: "mul", "matrix add"
	Detail   string
	Extra    map[string]string
}
