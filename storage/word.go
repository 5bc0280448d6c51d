package storage

import (
	sdkmath "cosmossdk.io/math"
	"golang.org/x/exp/constraints"
)

// Word is a raw value held in a storage kind.
//
// Bits is the 64-bit extension of the stored pattern: sign-extended for
// signed kinds and zero-extended for unsigned ones, so Int64 and Uint64 read
// it directly.
type Word struct {
	Kind Kind
	Bits uint64
}

// Wrap stores the low bits of pattern in k, discarding the rest.
func Wrap(k Kind, pattern uint64) Word {
	return Word{Kind: k, Bits: k.Truncate(pattern)}
}

// FromMag stores m in k, reporting false when it is not representable.
func FromMag(k Kind, m Mag) (Word, bool) {
	if !k.Contains(m) {
		return Word{}, false
	}
	return Word{Kind: k, Bits: m.Pattern()}, true
}

// FromInt64 stores v in k, reporting false when it is not representable.
func FromInt64(k Kind, v int64) (Word, bool) {
	return FromMag(k, MagOfInt64(v))
}

// FromUint64 stores v in k, reporting false when it is not representable.
func FromUint64(k Kind, v uint64) (Word, bool) {
	return FromMag(k, MagOfUint64(v))
}

// FromInt stores v in k, reporting false when it is not representable.
func FromInt(k Kind, v sdkmath.Int) (Word, bool) {
	m, ok := MagOfInt(v)
	if !ok {
		return Word{}, false
	}
	return FromMag(k, m)
}

// WordOf stores a native integer in the kind matching its Go type.
func WordOf[T constraints.Integer](v T) Word {
	k := Of[T]()
	if k.Signed {
		return Word{Kind: k, Bits: asUint64(int64(v))}
	}
	return Word{Kind: k, Bits: uint64(v)}
}

// Negative reports whether the stored value is below zero.
func (w Word) Negative() bool {
	return w.Kind.Signed && asInt64(w.Bits) < 0
}

// Mag returns the stored value exactly.
func (w Word) Mag() Mag {
	if w.Negative() {
		return Mag{Neg: true, Abs: -w.Bits}
	}
	return Mag{Abs: w.Bits}
}

// Int64 reinterprets the stored pattern as int64.
func (w Word) Int64() int64 { return asInt64(w.Bits) }

// Uint64 returns the stored pattern.
func (w Word) Uint64() uint64 { return w.Bits }

// Int returns the stored value as an arbitrary-precision integer.
func (w Word) Int() sdkmath.Int { return w.Mag().Int() }

func (w Word) String() string { return w.Mag().String() }

func asInt64(v uint64) int64 {
	return int64(v) //nolint:gosec // G115: intentional bit-pattern reinterpretation for fixed-width ints.
}

func asUint64(v int64) uint64 {
	return uint64(v) //nolint:gosec // G115: intentional bit-pattern reinterpretation for unsigned ops.
}
