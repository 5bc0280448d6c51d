// Package testkit holds invariant checks shared by the tests of the engine
// and its tooling.
package testkit

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/exp/constraints"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// CheckOperand runs the structural invariants of an operand:
// 1) the kind is a storage kind and the bits are its canonical extension
// 2) the range is valid and lies within the kind
// 3) the value lies within the range
func CheckOperand(o checked.Operand) error {
	k := o.Kind()
	if !k.Valid() {
		return fmt.Errorf("invalid kind %v", k)
	}
	if canon := storage.Wrap(k, o.Word.Bits).Bits; canon != o.Word.Bits {
		return fmt.Errorf("bits %#x are not canonical for %s (want %#x)", o.Word.Bits, k, canon)
	}
	if !o.Range.Valid() {
		return fmt.Errorf("invalid range on %s", o)
	}
	if !o.Range.Within(k.Range()) {
		return fmt.Errorf("range %s exceeds %s", o.Range, k)
	}
	if !o.Range.Contains(o.Word.Int()) {
		return fmt.Errorf("value %s outside range %s", o.Word, o.Range)
	}
	return nil
}

// CheckResult checks a successful result against the plan that produced it:
// it is stored in the planned kind and its range lies within the
// destination.
func CheckResult(p checked.Plan, res checked.Operand) error {
	if err := CheckOperand(res); err != nil {
		return err
	}
	if res.Kind() != p.Result {
		return fmt.Errorf("%s: result kind %s, plan says %s", p, res.Kind(), p.Result)
	}
	if !res.Range.Within(p.Dest) {
		return fmt.Errorf("%s: result range %s exceeds destination %s", p, res.Range, p.Dest)
	}
	return nil
}

// CheckNative checks that v is the value of o, converting through
// safecast so that a lossy conversion is reported instead of compared.
func CheckNative[T constraints.Integer](o checked.Operand, v T) error {
	var want T
	var err error
	if o.Word.Negative() {
		want, err = safecast.Conv[T](o.Word.Int64())
	} else {
		want, err = safecast.Conv[T](o.Word.Uint64())
	}
	if err != nil {
		return fmt.Errorf("%s does not fit %T: %w", o, v, err)
	}
	if want != v {
		return fmt.Errorf("%s extracted as %v, want %v", o, v, want)
	}
	return nil
}
