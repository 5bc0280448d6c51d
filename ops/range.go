package ops

import (
	"github.com/buckaroo-pm/boost-safe-numerics/interval"
)

var boolRange = interval.Make(0, 1)

// Range returns the exact interval of op over the operand ranges. Unary
// operators ignore b. The bool is false when op is undefined for some pair
// of operand values: a divisor range holding zero or a shift count range
// holding negative counts.
func Range(op Op, a, b interval.Interval) (interval.Interval, bool) {
	switch op {
	case Add:
		return a.Add(b), true
	case Sub:
		return a.Sub(b), true
	case Mul:
		return a.Mul(b), true
	case Div:
		return a.Div(b)
	case Mod:
		return a.Mod(b)
	case Shl:
		return a.Shl(b)
	case Shr:
		return a.Shr(b)
	case And:
		return a.And(b), true
	case Or:
		return a.Or(b), true
	case Xor:
		return a.Xor(b), true
	case Neg:
		return a.Neg(), true
	case Convert:
		return a, a.Valid()
	case Lt, Le, Gt, Ge, Eq, Ne:
		switch Decide(op, a, b) {
		case interval.True:
			return interval.PointInt64(1), true
		case interval.False:
			return interval.PointInt64(0), true
		default:
			return boolRange, true
		}
	default:
		return interval.Interval{}, false
	}
}

// Decide settles a comparison from the operand ranges alone.
func Decide(op Op, a, b interval.Interval) interval.Truth {
	switch op {
	case Lt:
		return a.Less(b)
	case Le:
		return a.LessEq(b)
	case Gt:
		return a.Greater(b)
	case Ge:
		return a.GreaterEq(b)
	case Eq:
		return a.Same(b)
	case Ne:
		return a.Differ(b)
	default:
		return interval.Unknown
	}
}
