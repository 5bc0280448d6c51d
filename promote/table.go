package promote

import (
	"fmt"

	"github.com/buckaroo-pm/boost-safe-numerics/interval"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Rule maps an operand kind pair to a result kind. A zero Op matches every
// operator.
type Rule struct {
	Op     ops.Op
	Left   storage.Kind
	Right  storage.Kind
	Result storage.Kind
}

type ruleKey struct {
	op   ops.Op
	l, r storage.Kind
}

// Table is a custom promotion table. Lookups try the exact operator, then
// any operator, then the swapped pair for commutative operators, and finally
// the fallback policy. A nil *Table behaves like its fallback, Default.
type Table struct {
	rules    map[ruleKey]storage.Kind
	fallback Policy
}

// NewTable builds a table from rules. A nil fallback means Default.
func NewTable(fallback Policy, rules ...Rule) (*Table, error) {
	if fallback == nil {
		fallback = Default{}
	}
	t := &Table{rules: make(map[ruleKey]storage.Kind, len(rules)), fallback: fallback}
	for _, rule := range rules {
		if !rule.Left.Valid() || !rule.Right.Valid() || !rule.Result.Valid() {
			return nil, fmt.Errorf("promotion rule %s %s %s -> %s: invalid kind", rule.Left, opLabel(rule.Op), rule.Right, rule.Result)
		}
		if rule.Op != ops.OpInvalid && (!rule.Op.Valid() || rule.Op.Comparison()) {
			return nil, fmt.Errorf("promotion rule: operator %s has no numeric result", rule.Op)
		}
		key := ruleKey{op: rule.Op, l: rule.Left, r: rule.Right}
		if prev, dup := t.rules[key]; dup && prev != rule.Result {
			return nil, fmt.Errorf("promotion rule %s %s %s: conflicting results %s and %s", rule.Left, opLabel(rule.Op), rule.Right, prev, rule.Result)
		}
		t.rules[key] = rule.Result
	}
	return t, nil
}

// MustTable is NewTable that panics on error. It suits package-level tables.
func MustTable(fallback Policy, rules ...Rule) *Table {
	t, err := NewTable(fallback, rules...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Name() string { return "table" }

// Len returns the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

func (t *Table) Promote(op ops.Op, l, r storage.Kind, exact interval.Interval) storage.Kind {
	if t == nil {
		return Default{}.Promote(op, l, r, exact)
	}
	if k, ok := t.lookup(op, l, r); ok {
		return k
	}
	return t.fallback.Promote(op, l, r, exact)
}

func (t *Table) lookup(op ops.Op, l, r storage.Kind) (storage.Kind, bool) {
	keys := []ruleKey{{op, l, r}, {ops.OpInvalid, l, r}}
	if op.Commutative() {
		keys = append(keys, ruleKey{op, r, l}, ruleKey{ops.OpInvalid, r, l})
	}
	for _, key := range keys {
		if k, ok := t.rules[key]; ok {
			return k, true
		}
	}
	return storage.Kind{}, false
}

func opLabel(op ops.Op) string {
	if op == ops.OpInvalid {
		return "(any)"
	}
	return op.String()
}
