package checked

import (
	"fmt"

	"github.com/buckaroo-pm/boost-safe-numerics/interval"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Type is the static description of a checked value: the storage kind and
// the range its value is proven to lie in.
type Type struct {
	Kind  storage.Kind
	Range interval.Interval
}

// TypeOf returns k with its canonical range.
func TypeOf(k storage.Kind) Type {
	return Type{Kind: k, Range: k.Range()}
}

// RangedType returns k restricted to [lo, hi].
func RangedType(k storage.Kind, lo, hi int64) Type {
	return Type{Kind: k, Range: interval.Make(lo, hi)}
}

// Valid reports whether the kind is valid and the range lies within it.
func (t Type) Valid() bool {
	return t.Kind.Valid() && t.Range.Within(t.Kind.Range())
}

// Narrowed reports whether the range is smaller than the kind's.
func (t Type) Narrowed() bool {
	return !t.Range.Equal(t.Kind.Range())
}

func (t Type) String() string {
	if !t.Narrowed() {
		return t.Kind.String()
	}
	return t.Kind.String() + t.Range.String()
}

func checkTypes(op ops.Op, l, r Type) error {
	for _, t := range []Type{l, r} {
		switch {
		case !t.Kind.Valid():
			return typeMismatch(op, l, r, fmt.Sprintf("operand kind %s is not a storage kind", t.Kind))
		case !t.Range.Valid():
			return typeMismatch(op, l, r, fmt.Sprintf("operand of kind %s has no range", t.Kind))
		case !t.Range.Within(t.Kind.Range()):
			return typeMismatch(op, l, r, fmt.Sprintf("range %s exceeds %s", t.Range, t.Kind))
		}
	}
	return nil
}

// Operand is a raw word together with its proven range. Every Operand built
// by this package satisfies Range.Contains(Word).
type Operand struct {
	Word  storage.Word
	Range interval.Interval
}

// NewOperand gives w the canonical range of its kind.
func NewOperand(w storage.Word) Operand {
	return Operand{Word: w, Range: w.Kind.Range()}
}

// ConstOperand gives w the point range [w, w], the narrowest range a known
// constant satisfies.
func ConstOperand(w storage.Word) Operand {
	return Operand{Word: w, Range: interval.Point(w.Int())}
}

// RangedOperand gives w a declared range. The range must lie within the kind
// and contain w.
func RangedOperand(w storage.Word, r interval.Interval) (Operand, error) {
	o := Operand{Word: w, Range: r}
	if err := o.validate(); err != nil {
		return Operand{}, err
	}
	return o, nil
}

// Type returns the static description of o.
func (o Operand) Type() Type {
	return Type{Kind: o.Word.Kind, Range: o.Range}
}

// Kind returns the storage kind.
func (o Operand) Kind() storage.Kind { return o.Word.Kind }

// Valid reports whether o holds a value inside its range.
func (o Operand) Valid() bool { return o.validate() == nil }

func (o Operand) validate() error {
	t := o.Type()
	if err := checkTypes(ops.Convert, t, t); err != nil {
		return err
	}
	if !o.Range.Contains(o.Word.Int()) {
		return typeMismatch(ops.Convert, t, Type{}, fmt.Sprintf("value %s outside declared range %s", o.Word, o.Range))
	}
	return nil
}

func (o Operand) String() string {
	return fmt.Sprintf("%s:%s", o.Type(), o.Word)
}
