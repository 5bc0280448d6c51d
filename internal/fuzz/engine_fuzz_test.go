package fuzztests

import (
	"errors"
	"math/big"
	"testing"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/matrix"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/testkit"
)

func fitsKind(p checked.Plan, v *big.Int) bool {
	return v.Cmp(p.Result.Min().BigInt()) >= 0 && v.Cmp(p.Result.Max().BigInt()) <= 0
}

func FuzzApplyRuntime(f *testing.F) {
	addEdgeSeeds(f)
	f.Fuzz(func(t *testing.T, op, lk, rk uint8, a, b uint64, policy uint8) {
		in := decode(op, lk, rk, a, b, policy)
		eng := checked.Engine{Promotion: in.policy}
		x, y := checked.NewOperand(in.left), checked.NewOperand(in.right)

		p, err := eng.Plan(in.op, x.Type(), y.Type())
		if err != nil {
			t.Fatalf("%s %s %s: plan: %v", x, in.op, y, err)
		}
		want, defined := matrix.Exact(in.op, in.left.Int().BigInt(), in.right.Int().BigInt())
		res, err := eng.Apply(in.op, x, y)
		if err != nil {
			var ce *checked.Error
			if !errors.As(err, &ce) {
				t.Fatalf("%s %s %s: uncoded error %v", x, in.op, y, err)
			}
			if p.Static {
				t.Fatalf("%s %s %s: certified plan raised %v", x, in.op, y, err)
			}
			if defined && fitsKind(p, want) {
				t.Fatalf("%s %s %s: exact %s fits %s but raised %v", x, in.op, y, want, p.Result, err)
			}
			return
		}
		if err := testkit.CheckResult(p, res); err != nil {
			t.Fatal(err)
		}
		if !defined {
			t.Fatalf("%s %s %s: undefined operation returned %s", x, in.op, y, res)
		}
		if got := res.Word.Int().BigInt(); got.Cmp(want) != 0 {
			t.Fatalf("%s %s %s = %s, exact %s", x, in.op, y, got, want)
		}
	})
}

func FuzzApplyWrap(f *testing.F) {
	addEdgeSeeds(f)
	f.Fuzz(func(t *testing.T, op, lk, rk uint8, a, b uint64, policy uint8) {
		in := decode(op, lk, rk, a, b, policy)
		eng := checked.Engine{Promotion: in.policy, Mode: checked.ModeWrap}
		x, y := checked.NewOperand(in.left), checked.NewOperand(in.right)

		_, defined := matrix.Exact(in.op, in.left.Int().BigInt(), in.right.Int().BigInt())
		res, err := eng.Apply(in.op, x, y)
		if !defined {
			return
		}
		if err != nil {
			t.Fatalf("%s %s %s under legacy-wrap: %v", x, in.op, y, err)
		}
		if err := testkit.CheckOperand(res); err != nil {
			t.Fatal(err)
		}
	})
}
