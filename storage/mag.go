package storage

import (
	"strconv"

	sdkmath "cosmossdk.io/math"
)

// Mag is an exact integer in sign-magnitude form. It covers every value of
// every storage kind and every single-operation result whose magnitude fits
// in 64 bits. Zero is never negative.
type Mag struct {
	Neg bool
	Abs uint64
}

// MagOfInt64 converts v.
func MagOfInt64(v int64) Mag {
	if v < 0 {
		return Mag{Neg: true, Abs: uint64(-(v + 1)) + 1} //nolint:gosec // G115: -(v+1) is non-negative.
	}
	return Mag{Abs: uint64(v)} //nolint:gosec // G115: v is non-negative.
}

// MagOfUint64 converts v.
func MagOfUint64(v uint64) Mag { return Mag{Abs: v} }

// MagOfInt converts v, reporting false when |v| does not fit in 64 bits.
func MagOfInt(v sdkmath.Int) (Mag, bool) {
	if v.IsNil() {
		return Mag{}, false
	}
	abs := v.Abs()
	if !abs.IsUint64() {
		return Mag{}, false
	}
	return Mag{Neg: v.IsNegative(), Abs: abs.Uint64()}, true
}

// Normalize clears the sign of zero.
func (m Mag) Normalize() Mag {
	if m.Abs == 0 {
		m.Neg = false
	}
	return m
}

// IsZero reports whether m == 0.
func (m Mag) IsZero() bool { return m.Abs == 0 }

// Negate returns -m.
func (m Mag) Negate() Mag {
	return Mag{Neg: !m.Neg, Abs: m.Abs}.Normalize()
}

// Cmp compares m and o, returning -1, 0 or +1.
func (m Mag) Cmp(o Mag) int {
	m, o = m.Normalize(), o.Normalize()
	switch {
	case m.Neg && !o.Neg:
		return -1
	case !m.Neg && o.Neg:
		return 1
	}
	c := 0
	switch {
	case m.Abs < o.Abs:
		c = -1
	case m.Abs > o.Abs:
		c = 1
	}
	if m.Neg {
		return -c
	}
	return c
}

// Int returns m as an arbitrary-precision integer.
func (m Mag) Int() sdkmath.Int {
	v := sdkmath.NewIntFromUint64(m.Abs)
	if m.Neg {
		return v.Neg()
	}
	return v
}

// Pattern returns the 64-bit two's complement pattern of m.
func (m Mag) Pattern() uint64 {
	if m.Neg {
		return -m.Abs
	}
	return m.Abs
}

func (m Mag) String() string {
	s := strconv.FormatUint(m.Abs, 10)
	if m.Neg && m.Abs != 0 {
		return "-" + s
	}
	return s
}
