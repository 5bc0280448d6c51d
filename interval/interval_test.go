package interval

import (
	"testing"

	sdkmath "cosmossdk.io/math"
)

func TestNewRejectsInconsistentBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for lo > hi")
		}
	}()
	_ = Make(3, 2)
}

func TestNewSaturates(t *testing.T) {
	big := Limit.MulRaw(4)
	iv := New(big.Neg(), big)
	if !iv.Lo().Equal(Limit.Neg()) || !iv.Hi().Equal(Limit) {
		t.Fatalf("expected saturated bounds, got %s", iv)
	}
	if !iv.Saturated() {
		t.Fatalf("expected Saturated")
	}
	if got := iv.String(); got != "[-inf, +inf]" {
		t.Fatalf("String() = %q", got)
	}
}

func TestZeroIntervalIsInvalid(t *testing.T) {
	var iv Interval
	if iv.Valid() {
		t.Fatalf("zero Interval must be invalid")
	}
	if iv.Contains(sdkmath.ZeroInt()) || iv.ContainsZero() {
		t.Fatalf("invalid interval must contain nothing")
	}
	if got := iv.Add(Make(1, 2)); got.Valid() {
		t.Fatalf("arithmetic on invalid interval must stay invalid, got %s", got)
	}
}

func TestSetOperations(t *testing.T) {
	a := Make(-5, 10)
	b := Make(3, 20)

	in, ok := a.Intersect(b)
	if !ok || !in.Equal(Make(3, 10)) {
		t.Fatalf("Intersect = %s, %v", in, ok)
	}
	if h := a.Hull(b); !h.Equal(Make(-5, 20)) {
		t.Fatalf("Hull = %s", h)
	}
	if a.Disjoint(b) {
		t.Fatalf("expected overlap")
	}
	if !Make(11, 12).Disjoint(a) {
		t.Fatalf("expected disjoint")
	}
	if !Make(0, 3).Within(a) || b.Within(a) {
		t.Fatalf("Within mismatch")
	}
	if got := a.Size(); !got.Equal(sdkmath.NewInt(16)) {
		t.Fatalf("Size = %s", got)
	}
	if h := (Interval{}).Hull(a); !h.Equal(a) {
		t.Fatalf("Hull with invalid = %s", h)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Interval
		want Interval
	}{
		{"add", Make(1, 2).Add(Make(-3, 4)), Make(-2, 6)},
		{"sub", Make(1, 2).Sub(Make(-3, 4)), Make(-3, 5)},
		{"neg", Make(-3, 7).Neg(), Make(-7, 3)},
		{"mul corners", Make(-3, 5).Mul(Make(-2, 4)), Make(-12, 20)},
		{"mul negative", Make(-4, -2).Mul(Make(-3, -1)), Make(2, 12)},
		{"mul zero", Make(0, 0).Mul(Make(-100, 100)), Make(0, 0)},
		{"and nonneg", Make(0, 12).And(Make(3, 7)), Make(0, 7)},
		{"and mixed", Make(-8, 3).And(Make(0, 100)), Make(0, 100)},
		{"or nonneg", Make(4, 5).Or(Make(1, 2)), Make(4, 7)},
		{"or negative", Make(-8, -1).Or(Make(-3, -2)), Make(-3, -1)},
		{"xor nonneg", Make(0, 8).Xor(Make(0, 3)), Make(0, 15)},
		{"xor signed", Make(-1, 0).Xor(Make(0, 1)), Make(-2, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equal(tt.want) {
				t.Fatalf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestMulSaturatesInsteadOfOverflowing(t *testing.T) {
	u := Unbounded()
	got := u.Mul(u)
	if !got.Equal(Unbounded()) {
		t.Fatalf("Unbounded*Unbounded = %s", got)
	}
	i32 := Make(-1<<31, 1<<31-1)
	if sq := i32.Mul(i32); sq.Saturated() || !sq.Hi().Equal(sdkmath.NewInt(1<<62)) {
		t.Fatalf("int32 square = %s", sq)
	}
	full := MakeUint(0, ^uint64(0))
	sq := full.Mul(full)
	if !sq.Hi().Equal(Limit) || !sq.Lo().IsZero() {
		t.Fatalf("uint64 square should saturate above, got %s", sq)
	}
}

func TestDiv(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Interval
		want    Interval
		defined bool
	}{
		{"positive", Make(10, 20), Make(2, 5), Make(2, 10), true},
		{"negative divisor", Make(10, 20), Make(-5, -2), Make(-10, -2), true},
		{"truncates", Make(-7, 7), Make(2, 2), Make(-3, 3), true},
		{"min over minus one", Make(-128, 127), Make(-1, -1), Make(-127, 128), true},
		{"straddles zero", Make(-10, 10), Make(-1, 1), Make(-10, 10), false},
		{"zero to positive", Make(6, 6), Make(0, 3), Make(2, 6), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, defined := tt.a.Div(tt.b)
			if defined != tt.defined {
				t.Fatalf("defined = %v, want %v", defined, tt.defined)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}

	if got, defined := Make(1, 2).Div(Make(0, 0)); defined || got.Valid() {
		t.Fatalf("division by [0,0] must be undefined and invalid, got %s", got)
	}
}

func TestMod(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Interval
		want    Interval
		defined bool
	}{
		{"small dividend", Make(-3, 4), Make(10, 20), Make(-3, 4), true},
		{"positive", Make(0, 100), Make(7, 7), Make(0, 6), true},
		{"dividend sign", Make(-100, -1), Make(-7, 7), Make(-6, 0), false},
		{"mixed", Make(-100, 3), Make(5, 9), Make(-8, 3), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, defined := tt.a.Mod(tt.b)
			if defined != tt.defined {
				t.Fatalf("defined = %v, want %v", defined, tt.defined)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestShifts(t *testing.T) {
	got, ok := Make(-3, 5).Shl(Make(0, 2))
	if !ok || !got.Equal(Make(-12, 20)) {
		t.Fatalf("Shl = %s, %v", got, ok)
	}
	got, ok = Make(-9, 17).Shr(Make(1, 2))
	if !ok || !got.Equal(Make(-5, 8)) {
		t.Fatalf("Shr = %s, %v", got, ok)
	}
	if _, ok := Make(1, 1).Shl(Make(-1, 3)); ok {
		t.Fatalf("negative count must be undefined")
	}
	if got, _ := Make(1, 1).Shl(Make(-5, -1)); got.Valid() {
		t.Fatalf("all-negative count must be invalid, got %s", got)
	}
	got, _ = Make(1, 1).Shl(Make(200, 300))
	if !got.Hi().Equal(Limit) {
		t.Fatalf("huge left shift must saturate, got %s", got)
	}
	got, _ = Make(-1, 1).Shr(Make(500, 500))
	if !got.Equal(Make(-1, 0)) {
		t.Fatalf("huge right shift = %s", got)
	}
}

func TestComparisons(t *testing.T) {
	a := Make(0, 5)
	b := Make(6, 9)
	c := Make(3, 8)

	if a.Less(b) != True || b.Less(a) != False || a.Less(c) != Unknown {
		t.Fatalf("Less mismatch")
	}
	if a.LessEq(Make(5, 7)) != True || b.LessEq(a) != False {
		t.Fatalf("LessEq mismatch")
	}
	if b.Greater(a) != True || a.GreaterEq(b) != False {
		t.Fatalf("Greater mismatch")
	}
	if PointInt64(4).Same(PointInt64(4)) != True || a.Same(b) != False || a.Same(c) != Unknown {
		t.Fatalf("Same mismatch")
	}
	if a.Differ(b) != True {
		t.Fatalf("Differ mismatch")
	}
	if Unbounded().Same(Unbounded()) != Unknown {
		t.Fatalf("saturated ranges must not decide equality")
	}
	if Unknown.String() != "unknown" || True.Not() != False {
		t.Fatalf("Truth helpers mismatch")
	}
}
