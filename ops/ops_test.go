package ops

import (
	"math"
	"math/big"
	"testing"

	"pgregory.net/rapid"

	"github.com/buckaroo-pm/boost-safe-numerics/interval"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

func TestParse(t *testing.T) {
	for _, op := range append(Binary(), Neg, Convert) {
		got, err := Parse(op.String())
		if err != nil || got != op {
			t.Fatalf("Parse(%q) = %v, %v", op.String(), got, err)
		}
		got, err = Parse(op.Name())
		if err != nil || got != op {
			t.Fatalf("Parse(%q) = %v, %v", op.Name(), got, err)
		}
	}
	if _, err := Parse("**"); err == nil {
		t.Fatalf("expected error for unknown operator")
	}
	if OpInvalid.Valid() || Op(200).Valid() || Op(200).Name() != "invalid" {
		t.Fatalf("invalid operators must report invalid")
	}
}

func TestOperatorLists(t *testing.T) {
	if got := len(Arithmetic()); got != 10 {
		t.Fatalf("Arithmetic() has %d ops", got)
	}
	for _, op := range Comparisons() {
		if !op.Comparison() || op.Spec().Result != ResultBool {
			t.Fatalf("%s must be a comparison", op)
		}
	}
	if !Mul.Commutative() || Sub.Commutative() || !Shl.Shift() || Div.Modular() || !Neg.Unary() {
		t.Fatalf("flag table mismatch")
	}
}

func TestEval(t *testing.T) {
	i := storage.MagOfInt64
	u := storage.MagOfUint64
	tests := []struct {
		name   string
		op     Op
		a, b   storage.Mag
		want   storage.Mag
		status Status
	}{
		{"mul", Mul, i(100), i(2), i(200), StatusOK},
		{"mul signs", Mul, i(-3), i(4), i(-12), StatusOK},
		{"mul overflow", Mul, u(1 << 32), u(1 << 32), storage.Mag{}, StatusOverflow},
		{"mul uint64 max", Mul, u(math.MaxUint64), u(1), u(math.MaxUint64), StatusOK},
		{"add carry", Add, u(math.MaxUint64), u(1), storage.Mag{}, StatusOverflow},
		{"add mixed", Add, i(-10), u(math.MaxUint64), u(math.MaxUint64 - 10), StatusOK},
		{"sub below zero", Sub, u(3), u(5), i(-2), StatusOK},
		{"div truncates", Div, i(-7), i(2), i(-3), StatusOK},
		{"div min by minus one", Div, i(math.MinInt64), i(-1), u(1 << 63), StatusOK},
		{"div zero", Div, i(1), i(0), storage.Mag{}, StatusDivByZero},
		{"mod sign of dividend", Mod, i(-7), i(3), i(-1), StatusOK},
		{"mod zero", Mod, i(1), i(0), storage.Mag{}, StatusDivByZero},
		{"shl negative value", Shl, i(-3), i(2), i(-12), StatusOK},
		{"shl overflow", Shl, u(1), u(64), storage.Mag{}, StatusOverflow},
		{"shl to top bit", Shl, u(1), u(63), u(1 << 63), StatusOK},
		{"shl negative count", Shl, u(1), i(-1), storage.Mag{}, StatusNegativeShift},
		{"shr floors", Shr, i(-9), i(1), i(-5), StatusOK},
		{"shr huge", Shr, i(-9), u(1000), i(-1), StatusOK},
		{"and signed", And, i(-8), i(13), i(8), StatusOK},
		{"or signed", Or, i(-8), i(3), i(-5), StatusOK},
		{"xor signed", Xor, i(-1), i(5), i(-6), StatusOK},
		{"and to -2^64", And, storage.Mag{Neg: true, Abs: math.MaxUint64}, i(-2), storage.Mag{}, StatusOverflow},
		{"neg", Neg, u(5), storage.Mag{}, i(-5), StatusOK},
		{"lt mixed signs", Lt, i(-1), u(0), u(1), StatusOK},
		{"ne", Ne, i(3), i(3), u(0), StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, status := Eval(tt.op, tt.a, tt.b)
			if status != tt.status {
				t.Fatalf("status = %s, want %s", status, tt.status)
			}
			if status == StatusOK && got.Cmp(tt.want) != 0 {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWrappedMatchesNativeInt8(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Int8().Draw(t, "x")
		y := rapid.Int8().Draw(t, "y")
		a := storage.WordOf(x)
		b := storage.WordOf(y)
		check := func(op Op, want int8) {
			got, status := Wrapped(op, storage.Int8, a, b)
			if status != StatusOK || got.Int64() != int64(want) {
				t.Fatalf("%d %s %d = %d (%s), want %d", x, op, y, got.Int64(), status, want)
			}
		}
		check(Add, x+y)
		check(Sub, x-y)
		check(Mul, x*y)
		check(And, x&y)
		check(Or, x|y)
		check(Xor, x^y)
		if y != 0 {
			check(Div, x/y)
			check(Mod, x%y)
		}
		if y >= 0 {
			check(Shl, x<<y)
			check(Shr, x>>y)
		}
	})
}

func TestWrappedMatchesNativeUint16(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Uint16().Draw(t, "x")
		y := rapid.Uint16().Draw(t, "y")
		a := storage.WordOf(x)
		b := storage.WordOf(y)
		check := func(op Op, want uint16) {
			got, status := Wrapped(op, storage.Uint16, a, b)
			if status != StatusOK || got.Uint64() != uint64(want) {
				t.Fatalf("%d %s %d = %d (%s), want %d", x, op, y, got.Uint64(), status, want)
			}
		}
		check(Add, x+y)
		check(Sub, x-y)
		check(Mul, x*y)
		check(Shl, x<<y)
		check(Shr, x>>y)
		if y != 0 {
			check(Div, x/y)
			check(Mod, x%y)
		}
	})
}

func TestWrappedConvertsOperands(t *testing.T) {
	a, _ := storage.FromInt64(storage.Int8, -1)
	b, _ := storage.FromUint64(storage.Uint8, 1)
	got, status := Wrapped(Add, storage.Uint8, a, b)
	if status != StatusOK || got.Uint64() != 0 {
		t.Fatalf("uint8(-1) + 1 = %v (%s)", got, status)
	}
	if _, status := Wrapped(Div, storage.Int32, a, storage.Word{Kind: storage.Int32}); status != StatusDivByZero {
		t.Fatalf("status = %s", status)
	}
	min8, _ := storage.FromInt64(storage.Int8, math.MinInt8)
	got, _ = Wrapped(Div, storage.Int8, min8, a)
	if got.Int64() != math.MinInt8 {
		t.Fatalf("int8 min / -1 must wrap to min, got %v", got)
	}
}

func TestWrappedNarrowResultKeepsOperands(t *testing.T) {
	tests := []struct {
		op   Op
		k    storage.Kind
		a, b storage.Word
		want int64
	}{
		{Div, storage.Int16, storage.WordOf(int8(127)), storage.WordOf(int32(math.MinInt32)), 0},
		{Mod, storage.Uint8, storage.WordOf(int32(10)), storage.WordOf(int32(65537)), 10},
		{Div, storage.Int8, storage.WordOf(int32(1000)), storage.WordOf(int32(256)), 3},
		{Div, storage.Int8, storage.WordOf(int32(-32768)), storage.WordOf(int32(-1)), 0},
		{Shr, storage.Int8, storage.WordOf(int32(-1024)), storage.WordOf(uint8(2)), 0},
		{Shr, storage.Uint8, storage.WordOf(int16(0x1F00)), storage.WordOf(uint8(4)), 0xF0},
	}
	for _, tt := range tests {
		got, status := Wrapped(tt.op, tt.k, tt.a, tt.b)
		if status != StatusOK || got.Kind != tt.k || got.Int64() != tt.want {
			t.Fatalf("%s %s %s into %s = %v (%s), want %d", tt.a, tt.op, tt.b, tt.k, got, status, tt.want)
		}
	}
	if _, status := Wrapped(Mod, storage.Uint8, storage.WordOf(int32(5)), storage.WordOf(int32(0))); status != StatusDivByZero {
		t.Fatalf("status = %s", status)
	}
}

// The interval rule of every operator must contain the exact result of every
// operand pair drawn from the operand ranges.
func TestRangeContainsEval(t *testing.T) {
	ops := append(Binary(), Neg)
	rapid.Check(t, func(t *rapid.T) {
		op := rapid.SampledFrom(ops).Draw(t, "op")
		a := drawRanged(t, "a")
		b := drawRanged(t, "b")
		if op.Shift() {
			b = drawCount(t)
		}
		got, status := Eval(op, storage.MagOfInt64(a.v), storage.MagOfInt64(b.v))
		if status != StatusOK {
			return
		}
		r, _ := Range(op, a.iv, b.iv)
		if !r.Contains(got.Int()) {
			t.Fatalf("%s %s %s = %s outside %s", a.iv, op, b.iv, got, r)
		}
	})
}

func TestEvalMatchesBigOracle(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Int64().Draw(t, "x")
		y := rapid.Int64().Draw(t, "y")
		a, b := storage.MagOfInt64(x), storage.MagOfInt64(y)
		bx, by := big.NewInt(x), big.NewInt(y)
		for op, want := range map[Op]*big.Int{
			Add: new(big.Int).Add(bx, by),
			Sub: new(big.Int).Sub(bx, by),
			Mul: new(big.Int).Mul(bx, by),
			And: new(big.Int).And(bx, by),
			Or:  new(big.Int).Or(bx, by),
			Xor: new(big.Int).Xor(bx, by),
		} {
			got, status := Eval(op, a, b)
			fits := want.CmpAbs(new(big.Int).SetUint64(math.MaxUint64)) <= 0
			if fits != (status == StatusOK) {
				t.Fatalf("%d %s %d: status %s for %s", x, op, y, status, want)
			}
			if fits && got.Int().BigInt().Cmp(want) != 0 {
				t.Fatalf("%d %s %d = %s, want %s", x, op, y, got, want)
			}
		}
	})
}

func TestDecide(t *testing.T) {
	a := interval.Make(0, 5)
	b := interval.Make(10, 20)
	if Decide(Lt, a, b) != interval.True || Decide(Ge, a, b) != interval.False {
		t.Fatalf("Decide mismatch")
	}
	if r, ok := Range(Eq, a, b); !ok || !r.Equal(interval.PointInt64(0)) {
		t.Fatalf("Range(==) = %s", r)
	}
	if r, _ := Range(Le, a, interval.Make(3, 4)); !r.Equal(interval.Make(0, 1)) {
		t.Fatalf("undecided comparison must span [0, 1], got %s", r)
	}
	if Decide(Add, a, b) != interval.Unknown {
		t.Fatalf("non-comparison must be unknown")
	}
}

type ranged struct {
	iv interval.Interval
	v  int64
}

func drawRanged(t *rapid.T, label string) ranged {
	lo := rapid.Int64Range(-1<<20, 1<<20).Draw(t, label+".lo")
	hi := rapid.Int64Range(lo, lo+1<<12).Draw(t, label+".hi")
	v := rapid.Int64Range(lo, hi).Draw(t, label+".v")
	return ranged{iv: interval.Make(lo, hi), v: v}
}

func drawCount(t *rapid.T) ranged {
	lo := rapid.Int64Range(0, 40).Draw(t, "count.lo")
	hi := rapid.Int64Range(lo, 40).Draw(t, "count.hi")
	return ranged{iv: interval.Make(lo, hi), v: rapid.Int64Range(lo, hi).Draw(t, "count.v")}
}
