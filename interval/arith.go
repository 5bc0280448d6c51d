package interval

import (
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// Shift counts are capped: past these, a left shift of any non-zero bound
// saturates and a right shift reaches 0 or -1, so larger counts change nothing.
const (
	maxShl = LimitBits
	maxShr = LimitBits + 1
)

// Add returns [a.lo+b.lo, a.hi+b.hi].
func (a Interval) Add(b Interval) Interval {
	if !a.Valid() || !b.Valid() {
		return Interval{}
	}
	return hull(a.lo.Add(b.lo), a.hi.Add(b.hi))
}

// Sub returns [a.lo-b.hi, a.hi-b.lo].
func (a Interval) Sub(b Interval) Interval {
	if !a.Valid() || !b.Valid() {
		return Interval{}
	}
	return hull(a.lo.Sub(b.hi), a.hi.Sub(b.lo))
}

// Neg returns [-hi, -lo].
func (a Interval) Neg() Interval {
	if !a.Valid() {
		return Interval{}
	}
	return hull(a.hi.Neg(), a.lo.Neg())
}

// Mul returns the hull of the four corner products. All four are needed:
// once either operand straddles zero the extrema can sit at any corner.
func (a Interval) Mul(b Interval) Interval {
	if !a.Valid() || !b.Valid() {
		return Interval{}
	}
	return hull(
		a.lo.Mul(b.lo),
		a.lo.Mul(b.hi),
		a.hi.Mul(b.lo),
		a.hi.Mul(b.hi),
	)
}

// Div returns the range of truncated quotients a/b.
//
// The bool is false when b contains zero: the quotient is then undefined for
// at least one divisor and the range only covers the non-zero divisors. If b
// is exactly [0, 0] the returned interval is invalid.
func (a Interval) Div(b Interval) (Interval, bool) {
	if !a.Valid() || !b.Valid() {
		return Interval{}, false
	}
	var out Interval
	for _, part := range b.nonZeroParts() {
		out = out.Hull(hull(
			a.lo.Quo(part.lo),
			a.lo.Quo(part.hi),
			a.hi.Quo(part.lo),
			a.hi.Quo(part.hi),
		))
	}
	return out, !b.ContainsZero()
}

// Mod returns the range of truncated remainders a%b. The remainder takes the
// dividend's sign and its magnitude stays below the largest divisor
// magnitude. The bool follows Div.
func (a Interval) Mod(b Interval) (Interval, bool) {
	if !a.Valid() || !b.Valid() {
		return Interval{}, false
	}
	parts := b.nonZeroParts()
	if len(parts) == 0 {
		return Interval{}, false
	}
	defined := !b.ContainsZero()
	if defined {
		// |a| below every divisor magnitude: a%b == a.
		least := sdkmath.MinInt(b.lo.Abs(), b.hi.Abs())
		if a.lo.Abs().LT(least) && a.hi.Abs().LT(least) {
			return a, true
		}
	}
	m := sdkmath.MaxInt(b.lo.Abs(), b.hi.Abs()).SubRaw(1)
	lo, hi := sdkmath.ZeroInt(), sdkmath.ZeroInt()
	if a.hi.IsPositive() {
		hi = sdkmath.MinInt(a.hi, m)
	}
	if a.lo.IsNegative() {
		lo = sdkmath.MaxInt(a.lo, m.Neg())
	}
	return Interval{lo: lo, hi: hi}, defined
}

// Shl returns the range of a * 2^s. Negative counts are undefined: the bool
// is false when s holds any, and the range covers the non-negative counts.
func (a Interval) Shl(s Interval) (Interval, bool) {
	if !a.Valid() || !s.Valid() || s.hi.IsNegative() {
		return Interval{}, false
	}
	lo, hi := shiftCounts(s, maxShl)
	kLo, kHi := pow2(lo), pow2(hi)
	return hull(
		a.lo.Mul(kLo),
		a.lo.Mul(kHi),
		a.hi.Mul(kLo),
		a.hi.Mul(kHi),
	), !s.lo.IsNegative()
}

// Shr returns the range of floor(a / 2^s), the arithmetic right shift.
// The bool follows Shl.
func (a Interval) Shr(s Interval) (Interval, bool) {
	if !a.Valid() || !s.Valid() || s.hi.IsNegative() {
		return Interval{}, false
	}
	lo, hi := shiftCounts(s, maxShr)
	return hull(
		rsh(a.lo, lo),
		rsh(a.lo, hi),
		rsh(a.hi, lo),
		rsh(a.hi, hi),
	), !s.lo.IsNegative()
}

// And returns a range covering every a & b in two's complement.
func (a Interval) And(b Interval) Interval {
	if !a.Valid() || !b.Valid() {
		return Interval{}
	}
	switch {
	case !a.lo.IsNegative() && !b.lo.IsNegative():
		return Interval{lo: sdkmath.ZeroInt(), hi: sdkmath.MinInt(a.hi, b.hi)}
	case !a.lo.IsNegative():
		return Interval{lo: sdkmath.ZeroInt(), hi: a.hi}
	case !b.lo.IsNegative():
		return Interval{lo: sdkmath.ZeroInt(), hi: b.hi}
	}
	return bitHull(a, b)
}

// Or returns a range covering every a | b in two's complement.
func (a Interval) Or(b Interval) Interval {
	if !a.Valid() || !b.Valid() {
		return Interval{}
	}
	n := bitSpan(a, b)
	switch {
	case !a.lo.IsNegative() && !b.lo.IsNegative():
		return Interval{lo: sdkmath.MaxInt(a.lo, b.lo), hi: pow2(n).SubRaw(1)}
	case a.hi.IsNegative() && b.hi.IsNegative():
		return Interval{lo: sdkmath.MaxInt(a.lo, b.lo), hi: sdkmath.NewInt(-1)}
	}
	return bitHull(a, b)
}

// Xor returns a range covering every a ^ b in two's complement.
func (a Interval) Xor(b Interval) Interval {
	if !a.Valid() || !b.Valid() {
		return Interval{}
	}
	if !a.lo.IsNegative() && !b.lo.IsNegative() {
		return Interval{lo: sdkmath.ZeroInt(), hi: pow2(bitSpan(a, b)).SubRaw(1)}
	}
	return bitHull(a, b)
}

// nonZeroParts splits iv into its strictly negative and strictly positive
// sub-ranges.
func (iv Interval) nonZeroParts() []Interval {
	parts := make([]Interval, 0, 2)
	if iv.lo.IsNegative() {
		parts = append(parts, Interval{lo: iv.lo, hi: sdkmath.MinInt(iv.hi, sdkmath.NewInt(-1))})
	}
	if iv.hi.IsPositive() {
		parts = append(parts, Interval{lo: sdkmath.MaxInt(iv.lo, sdkmath.OneInt()), hi: iv.hi})
	}
	return parts
}

func shiftCounts(s Interval, limit uint) (uint, uint) {
	return clampCount(s.lo, limit), clampCount(s.hi, limit)
}

func clampCount(v sdkmath.Int, limit uint) uint {
	if v.IsNegative() {
		return 0
	}
	if v.GT(sdkmath.NewIntFromUint64(uint64(limit))) {
		return limit
	}
	return uint(v.Uint64())
}

func rsh(v sdkmath.Int, n uint) sdkmath.Int {
	return sdkmath.NewIntFromBigInt(new(big.Int).Rsh(v.BigInt(), n))
}

// bitSpan returns the smallest n such that every bound lies in
// [-2^n, 2^n-1].
func bitSpan(a, b Interval) uint {
	n := 0
	for _, v := range []sdkmath.Int{a.lo, a.hi, b.lo, b.hi} {
		x := v.BigInt()
		if x.Sign() < 0 {
			x.Neg(x).Sub(x, big.NewInt(1))
		}
		n = max(n, x.BitLen())
	}
	return uint(n)
}

// bitHull is the fallback for bitwise operators on signed operands: both fit
// in n+1 bit two's complement, so does the result.
func bitHull(a, b Interval) Interval {
	n := bitSpan(a, b)
	return hull(pow2(n).Neg(), pow2(n).SubRaw(1))
}
