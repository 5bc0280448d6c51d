package storage

import (
	"math"
	"testing"

	sdkmath "cosmossdk.io/math"
	"pgregory.net/rapid"
)

func TestKindRanges(t *testing.T) {
	tests := []struct {
		kind     Kind
		name     string
		min, max string
	}{
		{Int8, "int8", "-128", "127"},
		{Uint8, "uint8", "0", "255"},
		{Int16, "int16", "-32768", "32767"},
		{Uint32, "uint32", "0", "4294967295"},
		{Int64, "int64", "-9223372036854775808", "9223372036854775807"},
		{Uint64, "uint64", "0", "18446744073709551615"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.name {
				t.Fatalf("String() = %q", got)
			}
			if got := tt.kind.Min().String(); got != tt.min {
				t.Fatalf("Min() = %s, want %s", got, tt.min)
			}
			if got := tt.kind.Max().String(); got != tt.max {
				t.Fatalf("Max() = %s, want %s", got, tt.max)
			}
			r := tt.kind.Range()
			if !r.Lo().Equal(tt.kind.Min()) || !r.Hi().Equal(tt.kind.Max()) {
				t.Fatalf("Range() = %s", r)
			}
		})
	}
}

func TestParse(t *testing.T) {
	for name, want := range map[string]Kind{
		"int8": Int8, "i16": Int16, "UINT32": Uint32, "u64": Uint64, " int64 ": Int64,
	} {
		got, err := Parse(name)
		if err != nil || got != want {
			t.Fatalf("Parse(%q) = %v, %v", name, got, err)
		}
	}
	for _, bad := range []string{"", "int", "int7", "float32", "u128"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) should fail", bad)
		}
	}
}

func TestOf(t *testing.T) {
	if Of[int8]() != Int8 || Of[uint16]() != Uint16 || Of[int32]() != Int32 || Of[uint64]() != Uint64 {
		t.Fatalf("Of mismatch")
	}
	if k := Of[int](); !k.Signed || !k.Valid() {
		t.Fatalf("Of[int]() = %v", k)
	}
	if k := Of[uintptr](); k.Signed {
		t.Fatalf("Of[uintptr]() must be unsigned")
	}
}

func TestZeroKindInvalid(t *testing.T) {
	var k Kind
	if k.Valid() || k.String() != "invalid" || k.Range().Valid() {
		t.Fatalf("zero kind must be invalid")
	}
	if k.Contains(Mag{}) {
		t.Fatalf("invalid kind contains nothing")
	}
}

func TestWidthNext(t *testing.T) {
	w := Width8
	var seen []Width
	for {
		seen = append(seen, w)
		next, ok := w.Next()
		if !ok {
			break
		}
		w = next
	}
	if len(seen) != 4 || seen[3] != Width64 {
		t.Fatalf("widths = %v", seen)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		kind Kind
		in   uint64
		want uint64
	}{
		{Int8, 200, asUint64(-56)},
		{Uint8, 0x1ff, 0xff},
		{Int16, 0x8000, asUint64(math.MinInt16)},
		{Uint32, math.MaxUint64, math.MaxUint32},
		{Int64, math.MaxUint64, math.MaxUint64},
	}
	for _, tt := range tests {
		if got := tt.kind.Truncate(tt.in); got != tt.want {
			t.Fatalf("%s.Truncate(%#x) = %#x, want %#x", tt.kind, tt.in, got, tt.want)
		}
	}
}

func TestWordRoundTrip(t *testing.T) {
	w, ok := FromInt64(Int8, -128)
	if !ok || w.Int64() != -128 || w.String() != "-128" {
		t.Fatalf("FromInt64(int8, -128) = %v, %v", w, ok)
	}
	if _, ok := FromInt64(Int8, 128); ok {
		t.Fatalf("128 must not fit int8")
	}
	if _, ok := FromInt64(Uint16, -1); ok {
		t.Fatalf("-1 must not fit uint16")
	}
	w, ok = FromUint64(Uint64, math.MaxUint64)
	if !ok || w.Uint64() != math.MaxUint64 || w.Negative() {
		t.Fatalf("FromUint64(uint64, max) = %v", w)
	}
	w, ok = FromInt(Int64, sdkmath.NewInt(math.MinInt64))
	if !ok || w.Int64() != math.MinInt64 {
		t.Fatalf("FromInt(int64, min) = %v, %v", w, ok)
	}
	if _, ok := FromInt(Uint64, sdkmath.NewIntFromUint64(math.MaxUint64).AddRaw(1)); ok {
		t.Fatalf("2^64 must not fit uint64")
	}
	if w := Wrap(Uint8, 300); w.Uint64() != 44 {
		t.Fatalf("Wrap(uint8, 300) = %v", w)
	}
	if w := WordOf(int16(-5)); w.Kind != Int16 || w.Int64() != -5 {
		t.Fatalf("WordOf(int16(-5)) = %+v", w)
	}
	if w := WordOf(uint8(250)); w.Kind != Uint8 || w.Uint64() != 250 {
		t.Fatalf("WordOf(uint8(250)) = %+v", w)
	}
}

func TestMagOrdering(t *testing.T) {
	vals := []Mag{
		{Neg: true, Abs: math.MaxUint64},
		MagOfInt64(math.MinInt64),
		MagOfInt64(-1),
		{Neg: true, Abs: 0},
		MagOfUint64(1),
		MagOfUint64(math.MaxUint64),
	}
	for i := 1; i < len(vals); i++ {
		if vals[i-1].Cmp(vals[i]) != -1 || vals[i].Cmp(vals[i-1]) != 1 {
			t.Fatalf("ordering broken between %s and %s", vals[i-1], vals[i])
		}
	}
	if (Mag{Neg: true}).Cmp(Mag{}) != 0 {
		t.Fatalf("-0 must equal 0")
	}
	if MagOfInt64(math.MinInt64).Abs != 1<<63 {
		t.Fatalf("MagOfInt64(min) wrong")
	}
}

func TestWordMagAgreesWithNative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		k := rapid.SampledFrom(All()).Draw(t, "kind")
		pattern := rapid.Uint64().Draw(t, "pattern")
		w := Wrap(k, pattern)
		m := w.Mag()
		if !k.Contains(m) {
			t.Fatalf("%s holds %s outside its range", k, m)
		}
		back, ok := FromMag(k, m)
		if !ok || back != w {
			t.Fatalf("FromMag(%s, %s) = %+v, want %+v", k, m, back, w)
		}
		if !k.ContainsInt(m.Int()) {
			t.Fatalf("ContainsInt disagrees for %s", m)
		}
	})
}
