package checked

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"fortio.org/safecast"
	"golang.org/x/exp/constraints"

	"github.com/buckaroo-pm/boost-safe-numerics/interval"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/promote"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Value is a checked integer. P selects the promotion policy and E the
// exception policy; the storage kind travels with the value. Values are
// immutable: every operation returns a new Value.
//
// The zero Value is invalid and every operation on it fails with CK1001.
type Value[P promote.Policy, E ExceptionPolicy] struct {
	op Operand
}

// EngineFor returns the engine a Value[P, E] runs on.
func EngineFor[P promote.Policy, E ExceptionPolicy]() Engine {
	var p P
	var e E
	eng := Engine{Promotion: p, Mode: e.Mode()}
	if s, ok := any(e).(shiftPolicy); ok {
		eng.Shift = s.NegativeShift()
	}
	return eng
}

// New wraps x with the canonical range of its Go type.
func New[P promote.Policy, E ExceptionPolicy, T constraints.Integer](x T) Value[P, E] {
	return Value[P, E]{op: NewOperand(storage.WordOf(x))}
}

// Const wraps x with the point range [x, x].
func Const[P promote.Policy, E ExceptionPolicy, T constraints.Integer](x T) Value[P, E] {
	return Value[P, E]{op: ConstOperand(storage.WordOf(x))}
}

// Ranged wraps x with the declared range [lo, hi]. It fails with CK1001
// when the range is inconsistent or does not contain x.
func Ranged[P promote.Policy, E ExceptionPolicy, T constraints.Integer](x, lo, hi T) (Value[P, E], error) {
	w, l, h := storage.WordOf(x), storage.WordOf(lo), storage.WordOf(hi)
	if l.Int().GT(h.Int()) {
		return Value[P, E]{}, typeMismatch(ops.Convert, TypeOf(w.Kind), Type{}, fmt.Sprintf("inconsistent range [%s, %s]", l, h))
	}
	o, err := RangedOperand(w, interval.New(l.Int(), h.Int()))
	if err != nil {
		return Value[P, E]{}, err
	}
	return Value[P, E]{op: o}, nil
}

// FromOperand validates o and wraps it.
func FromOperand[P promote.Policy, E ExceptionPolicy](o Operand) (Value[P, E], error) {
	if err := o.validate(); err != nil {
		return Value[P, E]{}, err
	}
	return Value[P, E]{op: o}, nil
}

// Native extracts v as a Go integer. It fails with CK3001 when T cannot
// hold the value; extracting into v's own kind never fails.
func Native[T constraints.Integer, P promote.Policy, E ExceptionPolicy](v Value[P, E]) (T, error) {
	w := v.op.Word
	var (
		out T
		err error
	)
	if w.Negative() {
		out, err = safecast.Conv[T](w.Int64())
	} else {
		out, err = safecast.Conv[T](w.Uint64())
	}
	if err != nil {
		target := storage.Of[T]()
		return 0, &Error{
			Code:      CodeRangeViolation,
			Op:        ops.Convert,
			Left:      v.op.Type(),
			Exact:     v.op.Range,
			Dest:      target,
			DestRange: target.Range(),
			Value:     w.String(),
			Message:   fmt.Sprintf("%s does not fit %s: %v", w, target, err),
		}
	}
	return out, nil
}

// MustNative is Native that panics on error.
func MustNative[T constraints.Integer, P promote.Policy, E ExceptionPolicy](v Value[P, E]) T {
	out, err := Native[T](v)
	if err != nil {
		panic(err)
	}
	return out
}

// MustProve panics unless op over l and r is statically safe under P and E.
// Call it from package initialisation to reject unsafe type combinations
// when the program starts.
func MustProve[P promote.Policy, E ExceptionPolicy](op ops.Op, l, r Type) {
	if err := EngineFor[P, E]().Prove(op, l, r); err != nil {
		panic(err)
	}
}

func (v Value[P, E]) apply(op ops.Op, o Value[P, E]) (Value[P, E], error) {
	res, err := EngineFor[P, E]().Apply(op, v.op, o.op)
	if err != nil {
		return Value[P, E]{}, err
	}
	return Value[P, E]{op: res}, nil
}

func (v Value[P, E]) compare(op ops.Op, o Value[P, E]) (bool, error) {
	return EngineFor[P, E]().Compare(op, v.op, o.op)
}

// Add returns v + o.
func (v Value[P, E]) Add(o Value[P, E]) (Value[P, E], error) { return v.apply(ops.Add, o) }

// Sub returns v - o.
func (v Value[P, E]) Sub(o Value[P, E]) (Value[P, E], error) { return v.apply(ops.Sub, o) }

// Mul returns v * o.
func (v Value[P, E]) Mul(o Value[P, E]) (Value[P, E], error) { return v.apply(ops.Mul, o) }

// Div returns v / o, truncated toward zero.
func (v Value[P, E]) Div(o Value[P, E]) (Value[P, E], error) { return v.apply(ops.Div, o) }

// Mod returns v % o, with the sign of v.
func (v Value[P, E]) Mod(o Value[P, E]) (Value[P, E], error) { return v.apply(ops.Mod, o) }

// Shl returns v << o.
func (v Value[P, E]) Shl(o Value[P, E]) (Value[P, E], error) { return v.apply(ops.Shl, o) }

// Shr returns v >> o, rounding toward negative infinity.
func (v Value[P, E]) Shr(o Value[P, E]) (Value[P, E], error) { return v.apply(ops.Shr, o) }

// And returns v & o.
func (v Value[P, E]) And(o Value[P, E]) (Value[P, E], error) { return v.apply(ops.And, o) }

// Or returns v | o.
func (v Value[P, E]) Or(o Value[P, E]) (Value[P, E], error) { return v.apply(ops.Or, o) }

// Xor returns v ^ o.
func (v Value[P, E]) Xor(o Value[P, E]) (Value[P, E], error) { return v.apply(ops.Xor, o) }

// Neg returns -v.
func (v Value[P, E]) Neg() (Value[P, E], error) { return v.apply(ops.Neg, v) }

func (v Value[P, E]) Less(o Value[P, E]) (bool, error)      { return v.compare(ops.Lt, o) }
func (v Value[P, E]) LessEq(o Value[P, E]) (bool, error)    { return v.compare(ops.Le, o) }
func (v Value[P, E]) Greater(o Value[P, E]) (bool, error)   { return v.compare(ops.Gt, o) }
func (v Value[P, E]) GreaterEq(o Value[P, E]) (bool, error) { return v.compare(ops.Ge, o) }
func (v Value[P, E]) Equal(o Value[P, E]) (bool, error)     { return v.compare(ops.Eq, o) }
func (v Value[P, E]) NotEqual(o Value[P, E]) (bool, error)  { return v.compare(ops.Ne, o) }

// Convert stores v in kind k, checked by E.
func (v Value[P, E]) Convert(k storage.Kind) (Value[P, E], error) {
	res, err := EngineFor[P, E]().Convert(v.op, k)
	if err != nil {
		return Value[P, E]{}, err
	}
	return Value[P, E]{op: res}, nil
}

// Within narrows the proven range of v to r.
func (v Value[P, E]) Within(r interval.Interval) (Value[P, E], error) {
	res, err := EngineFor[P, E]().Within(v.op, r)
	if err != nil {
		return Value[P, E]{}, err
	}
	return Value[P, E]{op: res}, nil
}

// Kind returns the storage kind.
func (v Value[P, E]) Kind() storage.Kind { return v.op.Word.Kind }

// Range returns the proven range.
func (v Value[P, E]) Range() interval.Interval { return v.op.Range }

// Type returns the static description of v.
func (v Value[P, E]) Type() Type { return v.op.Type() }

// Word returns the raw stored word.
func (v Value[P, E]) Word() storage.Word { return v.op.Word }

// Operand returns v as an untyped operand.
func (v Value[P, E]) Operand() Operand { return v.op }

// Int returns the value as an arbitrary-precision integer.
func (v Value[P, E]) Int() sdkmath.Int { return v.op.Word.Int() }

// Valid reports whether v was built by a constructor.
func (v Value[P, E]) Valid() bool { return v.op.Valid() }

func (v Value[P, E]) String() string { return v.op.Word.String() }
