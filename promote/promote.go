// Package promote chooses the storage kind of an operation's result.
//
// A Policy sees the operator, both operand kinds and the exact result
// interval. Policies are stateless values; the typed checked.Value carries
// one as a type parameter, so they are usually zero-size structs.
package promote

import (
	"fmt"
	"strings"

	"github.com/buckaroo-pm/boost-safe-numerics/interval"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Policy selects a result kind.
type Policy interface {
	Name() string
	// Promote returns the result kind of l op r. exact is the interval the
	// result is known to lie in; it may be invalid when op is undefined for
	// every operand pair. For unary operators l == r.
	Promote(op ops.Op, l, r storage.Kind, exact interval.Interval) storage.Kind
}

// Default follows the usual arithmetic conversions without the promotion to
// int, then widens further when the exact result would not fit.
//
//   - Equal signedness: the wider operand.
//   - Mixed signedness: the signed kind if it is strictly wider; otherwise the
//     signed kind one step wider than the unsigned operand, or uint64 when no
//     such kind exists.
//   - Shifts and unary operators: the left operand's kind.
//
// The starting kind is then widened in ascending width keeping its
// signedness, then across signedness, until the exact interval fits. If no
// kind holds it the starting kind is returned and the exception policy
// decides.
type Default struct{}

func (Default) Name() string { return "default" }

func (Default) Promote(op ops.Op, l, r storage.Kind, exact interval.Interval) storage.Kind {
	return Widen(usual(op, l, r), exact)
}

// Native mirrors native promotion without widening: the wider operand wins,
// and at equal width the unsigned kind wins. Shifts and unary operators keep
// the left kind.
type Native struct{}

func (Native) Name() string { return "native" }

func (Native) Promote(op ops.Op, l, r storage.Kind, _ interval.Interval) storage.Kind {
	if op.Spec().Result == ops.ResultLeft {
		return l
	}
	switch {
	case l.Width > r.Width:
		return l
	case r.Width > l.Width:
		return r
	case !l.Signed:
		return l
	default:
		return r
	}
}

// Narrowest picks the smallest kind holding the exact interval, preferring
// unsigned kinds for non-negative results. When nothing holds it, it falls
// back to Default.
type Narrowest struct{}

func (Narrowest) Name() string { return "narrowest" }

func (Narrowest) Promote(op ops.Op, l, r storage.Kind, exact interval.Interval) storage.Kind {
	if exact.Valid() {
		for _, w := range storage.Widths {
			order := []bool{true, false}
			if !exact.Negative() {
				order = []bool{false, true}
			}
			for _, signed := range order {
				k := storage.Kind{Signed: signed, Width: w}
				if exact.Within(k.Range()) {
					return k
				}
			}
		}
	}
	return Default{}.Promote(op, l, r, exact)
}

// usual is the Default starting kind.
func usual(op ops.Op, l, r storage.Kind) storage.Kind {
	if op.Spec().Result == ops.ResultLeft {
		return l
	}
	if l.Signed == r.Signed {
		if r.Width > l.Width {
			return r
		}
		return l
	}
	s, u := l, r
	if r.Signed {
		s, u = r, l
	}
	if s.Width > u.Width {
		return s
	}
	if w, ok := u.Width.Next(); ok {
		return storage.MakeInt(w)
	}
	return storage.Uint64
}

// Widen returns the first kind, starting at k, whose range holds exact:
// k itself, wider kinds of the same signedness, then kinds of the other
// signedness from k's width up. k is returned when none does.
func Widen(k storage.Kind, exact interval.Interval) storage.Kind {
	if !exact.Valid() || exact.Within(k.Range()) {
		return k
	}
	for _, signed := range []bool{k.Signed, !k.Signed} {
		for w, ok := k.Width, true; ok; w, ok = w.Next() {
			c := storage.Kind{Signed: signed, Width: w}
			if exact.Within(c.Range()) {
				return c
			}
		}
	}
	return k
}

// Lookup resolves a built-in policy by name. "legacy" is an alias of
// "native".
func Lookup(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return Default{}, nil
	case "native", "legacy":
		return Native{}, nil
	case "narrowest":
		return Narrowest{}, nil
	default:
		return nil, fmt.Errorf("unknown promotion policy %q", name)
	}
}

// Names lists the built-in policy names.
func Names() []string {
	return []string{"default", "native", "legacy", "narrowest", "table"}
}
