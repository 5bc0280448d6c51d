package matrix

import (
	"fmt"
	"math"
	"math/big"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Finding is one disagreement found by Verify or Symmetry.
type Finding struct {
	Op      ops.Op
	Left    storage.Kind
	Right   storage.Kind
	A, B    string
	Message string
}

func (f Finding) String() string {
	if f.A == "" {
		return fmt.Sprintf("%s %s %s: %s", f.Left, f.Op, f.Right, f.Message)
	}
	return fmt.Sprintf("%s:%s %s %s:%s: %s", f.Left, f.A, f.Op, f.Right, f.B, f.Message)
}

// maxShift bounds oracle shifts: a nonzero 64-bit value shifted left further
// lies outside every kind, and stands in as ±2^overflowBits.
const (
	maxShift     = 128
	overflowBits = 192
)

// Exact evaluates op on a and b with math/big, independently of the engine.
// ok is false when op has no mathematical result.
func Exact(op ops.Op, a, b *big.Int) (*big.Int, bool) {
	z := new(big.Int)
	switch op {
	case ops.Add:
		return z.Add(a, b), true
	case ops.Sub:
		return z.Sub(a, b), true
	case ops.Mul:
		return z.Mul(a, b), true
	case ops.Div:
		if b.Sign() == 0 {
			return nil, false
		}
		return z.Quo(a, b), true
	case ops.Mod:
		if b.Sign() == 0 {
			return nil, false
		}
		return z.Rem(a, b), true
	case ops.Shl, ops.Shr:
		if b.Sign() < 0 {
			return nil, false
		}
		n := uint(maxShift + 1)
		if b.IsUint64() && b.Uint64() <= maxShift {
			n = uint(b.Uint64())
		}
		if op == ops.Shr {
			return z.Rsh(a, n), true
		}
		if n > maxShift {
			return z.Lsh(big.NewInt(int64(a.Sign())), overflowBits), true
		}
		return z.Lsh(a, n), true
	case ops.And:
		return z.And(a, b), true
	case ops.Or:
		return z.Or(a, b), true
	case ops.Xor:
		return z.Xor(a, b), true
	}
	return nil, false
}

func wordInt(k storage.Kind, bits uint64) *big.Int {
	return storage.Word{Kind: k, Bits: bits}.Int().BigInt()
}

func inKind(k storage.Kind, v *big.Int) bool {
	return v.Cmp(k.Min().BigInt()) >= 0 && v.Cmp(k.Max().BigInt()) <= 0
}

// low64 is the two's complement low word of v.
func low64(v *big.Int) uint64 {
	return new(big.Int).And(v, new(big.Int).SetUint64(math.MaxUint64)).Uint64()
}

// Verify rederives every cell of m from eng's plans and the oracle. eng must
// be the engine m was generated with.
func Verify(m *Matrix, eng checked.Engine) []Finding {
	var out []Finding
	for i := range m.Cells {
		out = append(out, verifyCell(&m.Cells[i], eng)...)
	}
	return out
}

func verifyCell(c *Cell, eng checked.Engine) []Finding {
	var out []Finding
	report := func(a, b string, format string, args ...any) {
		out = append(out, Finding{Op: c.Op, Left: c.Left, Right: c.Right, A: a, B: b, Message: fmt.Sprintf(format, args...)})
	}

	plan, err := eng.Plan(c.Op, checked.TypeOf(c.Left), checked.TypeOf(c.Right))
	if err != nil {
		report("", "", "plan failed: %v", err)
		return out
	}
	if plan.Result != c.Result || plan.Static != c.Static {
		report("", "", "recorded %s static=%v, plan gives %s static=%v", c.Result, c.Static, plan.Result, plan.Static)
	}

	for _, o := range c.Outcomes {
		x, y := wordInt(c.Left, o.A), wordInt(c.Right, o.B)
		as, bs := x.String(), y.String()
		want, defined := Exact(c.Op, x, y)
		got := wordInt(c.Result, o.Bits)

		if c.Static {
			if o.Code != 0 || !defined || got.Cmp(want) != 0 {
				report(as, bs, "certified cell gave %s (%v), exact %v", got, o.Code, want)
			}
			continue
		}

		switch eng.Mode {
		case checked.ModeStatic:
			if o.Code != checked.CodeStaticSafety {
				report(as, bs, "uncertified cell under trap-at-construction gave code %v", o.Code)
			}
		case checked.ModeWrap:
			switch {
			case eng.Shift == checked.ShiftReject && c.Op == ops.Shl && x.Sign() < 0:
				if o.Code != checked.CodeNegativeShiftOperand {
					report(as, bs, "negative operand gave code %v", o.Code)
				}
			case !defined:
				if o.Code <= checked.CodeRangeViolation {
					report(as, bs, "undefined operation gave code %v", o.Code)
				}
			case o.Code != 0:
				report(as, bs, "defined operation raised %v under legacy-wrap", o.Code)
			case o.Bits != storage.Wrap(c.Result, low64(want)).Bits:
				report(as, bs, "wrapped %s is not exact %s reduced into %s", got, want, c.Result)
			}
		default:
			out = append(out, verifyRuntime(c, eng, o, x, y, want, defined, got)...)
		}
	}
	return out
}

func verifyRuntime(c *Cell, eng checked.Engine, o Outcome, x, y, want *big.Int, defined bool, got *big.Int) []Finding {
	msg := ""
	switch {
	case eng.Shift == checked.ShiftReject && c.Op == ops.Shl && x.Sign() < 0:
		if o.Code != checked.CodeNegativeShiftOperand {
			msg = fmt.Sprintf("negative operand gave code %v", o.Code)
		}
	case !defined:
		wantCode := checked.CodeDivByZero
		if c.Op.Shift() {
			wantCode = checked.CodeNegativeShift
		}
		if o.Code != wantCode {
			msg = fmt.Sprintf("undefined operation gave code %v, want %v", o.Code, wantCode)
		}
	case inKind(c.Result, want):
		if o.Code != 0 || got.Cmp(want) != 0 {
			msg = fmt.Sprintf("exact %s fits %s but got %s (code %v)", want, c.Result, got, o.Code)
		}
	case c.Op == ops.Div && y.Cmp(big.NewInt(-1)) == 0:
		if o.Code != checked.CodeSignedDivOverflow {
			msg = fmt.Sprintf("min / -1 gave code %v", o.Code)
		}
	default:
		if o.Code != checked.CodeRangeViolation {
			msg = fmt.Sprintf("exact %s outside %s gave code %v", want, c.Result, o.Code)
		}
	}
	if msg == "" {
		return nil
	}
	return []Finding{{Op: c.Op, Left: c.Left, Right: c.Right, A: x.String(), B: y.String(), Message: msg}}
}

// Symmetry checks that every commutative cell agrees with its mirror: the
// same result kind and certification, and the same outcome for swapped
// operands.
func Symmetry(m *Matrix) []Finding {
	var out []Finding
	for i := range m.Cells {
		c := &m.Cells[i]
		if !c.Op.Commutative() {
			continue
		}
		mirror, ok := m.Cell(c.Op, c.Right, c.Left)
		if !ok {
			continue
		}
		if c.Result != mirror.Result || c.Static != mirror.Static {
			out = append(out, Finding{Op: c.Op, Left: c.Left, Right: c.Right,
				Message: fmt.Sprintf("%s static=%v, mirror %s static=%v", c.Result, c.Static, mirror.Result, mirror.Static)})
			continue
		}
		swapped := make(map[[2]uint64]Outcome, len(mirror.Outcomes))
		for _, o := range mirror.Outcomes {
			swapped[[2]uint64{o.B, o.A}] = o
		}
		for _, o := range c.Outcomes {
			s, ok := swapped[[2]uint64{o.A, o.B}]
			if !ok {
				continue
			}
			if s.Code != o.Code || s.Bits != o.Bits {
				out = append(out, Finding{Op: c.Op, Left: c.Left, Right: c.Right,
					A: wordInt(c.Left, o.A).String(), B: wordInt(c.Right, o.B).String(),
					Message: fmt.Sprintf("code %v bits %#x, mirror code %v bits %#x", o.Code, o.Bits, s.Code, s.Bits)})
			}
		}
	}
	return out
}
