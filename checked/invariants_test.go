package checked_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/testkit"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/promote"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

func drawWord(t *rapid.T, label string) storage.Word {
	k := rapid.SampledFrom(storage.All()).Draw(t, label+".kind")
	return storage.Wrap(k, rapid.Uint64().Draw(t, label+".bits"))
}

// Every successful result, in every mode, is a well formed operand of the
// planned kind inside the planned destination.
func TestResultsSatisfyPlanInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		eng := checked.Engine{
			Promotion: rapid.SampledFrom([]promote.Policy{promote.Default{}, promote.Native{}, promote.Narrowest{}}).Draw(t, "policy"),
			Mode:      rapid.SampledFrom([]checked.Mode{checked.ModeStatic, checked.ModeRuntime, checked.ModeWrap}).Draw(t, "mode"),
			Shift:     rapid.SampledFrom([]checked.ShiftMode{checked.ShiftArithmetic, checked.ShiftReject}).Draw(t, "shift"),
		}
		op := rapid.SampledFrom(append(ops.Arithmetic(), ops.Neg)).Draw(t, "op")
		a := checked.NewOperand(drawWord(t, "a"))
		b := checked.NewOperand(drawWord(t, "b"))
		if err := testkit.CheckOperand(a); err != nil {
			t.Fatalf("drawn operand: %v", err)
		}

		res, err := eng.Apply(op, a, b)
		if err != nil {
			if checked.CodeOf(err) == 0 {
				t.Fatalf("%s %s %s: uncoded error %v", a, op, b, err)
			}
			return
		}
		plan, perr := eng.Plan(op, a.Type(), b.Type())
		if perr != nil {
			t.Fatalf("plan: %v", perr)
		}
		if err := testkit.CheckResult(plan, res); err != nil {
			t.Fatal(err)
		}
	})
}

func TestNativeExtractionInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		o := checked.NewOperand(drawWord(t, "w"))
		v, err := checked.FromOperand[promote.Default, checked.TrapAtRuntime](o)
		if err != nil {
			t.Fatalf("FromOperand(%s): %v", o, err)
		}
		check := func(err error) {
			if err != nil {
				t.Fatal(err)
			}
		}
		if n, err := checked.Native[int64](v); err == nil {
			check(testkit.CheckNative(o, n))
		}
		if n, err := checked.Native[uint16](v); err == nil {
			check(testkit.CheckNative(o, n))
		}
	})
}
