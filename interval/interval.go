// Package interval implements closed integer ranges whose arithmetic can
// never overflow.
//
// Bounds are cosmossdk.io/math integers. Every storage kind fits in
// (-2^64, 2^64), so products and shifts of storage ranges stay far below the
// 256-bit ceiling of that type. Bounds are additionally saturated at ±Limit:
// a bound equal to Limit (or -Limit) means "at least this far", which keeps
// every derived range inside the representable domain while still being
// wider than any storage kind, so containment decisions stay exact.
package interval

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// LimitBits is the bit length of the saturation bound.
const LimitBits = 127

// Limit is the saturation bound, 2^127.
var Limit = pow2(LimitBits)

// Interval is the closed range [lo, hi] with lo <= hi.
//
// The zero Interval is invalid: it describes no set at all and is what
// operators return alongside a false "defined" result.
type Interval struct {
	lo sdkmath.Int
	hi sdkmath.Int
}

// New constructs [lo, hi]. It panics if either bound is nil or lo > hi.
// Bounds beyond ±Limit are saturated.
func New(lo, hi sdkmath.Int) Interval {
	if lo.IsNil() || hi.IsNil() {
		panic("interval: nil bound")
	}
	if lo.GT(hi) {
		panic(fmt.Sprintf("interval: inconsistent interval [%s, %s]", lo, hi))
	}
	return Interval{lo: saturate(lo), hi: saturate(hi)}
}

// Make constructs [lo, hi] from int64 bounds.
func Make(lo, hi int64) Interval {
	return New(sdkmath.NewInt(lo), sdkmath.NewInt(hi))
}

// MakeUint constructs [lo, hi] from uint64 bounds.
func MakeUint(lo, hi uint64) Interval {
	return New(sdkmath.NewIntFromUint64(lo), sdkmath.NewIntFromUint64(hi))
}

// Point returns [v, v].
func Point(v sdkmath.Int) Interval {
	return New(v, v)
}

// PointInt64 returns [v, v].
func PointInt64(v int64) Interval {
	return Point(sdkmath.NewInt(v))
}

// PointUint64 returns [v, v].
func PointUint64(v uint64) Interval {
	return Point(sdkmath.NewIntFromUint64(v))
}

// Unbounded returns [-Limit, Limit].
func Unbounded() Interval {
	return Interval{lo: Limit.Neg(), hi: Limit}
}

// Valid reports whether iv was built by a constructor.
func (iv Interval) Valid() bool {
	return !iv.lo.IsNil() && !iv.hi.IsNil()
}

// Lo returns the lower bound.
func (iv Interval) Lo() sdkmath.Int { return iv.lo }

// Hi returns the upper bound.
func (iv Interval) Hi() sdkmath.Int { return iv.hi }

// Saturated reports whether a bound sits at ±Limit.
func (iv Interval) Saturated() bool {
	return iv.hi.Equal(Limit) || iv.lo.Equal(Limit.Neg())
}

// IsPoint reports whether the interval holds exactly one value.
func (iv Interval) IsPoint() bool {
	return iv.Valid() && iv.lo.Equal(iv.hi)
}

// Contains reports whether v lies in the interval.
func (iv Interval) Contains(v sdkmath.Int) bool {
	return iv.Valid() && iv.lo.LTE(v) && v.LTE(iv.hi)
}

// ContainsZero reports whether 0 lies in the interval.
func (iv Interval) ContainsZero() bool {
	return iv.Valid() && !iv.lo.IsPositive() && !iv.hi.IsNegative()
}

// Negative reports whether the interval holds any value below zero.
func (iv Interval) Negative() bool {
	return iv.Valid() && iv.lo.IsNegative()
}

// Within reports whether iv ⊆ outer.
func (iv Interval) Within(outer Interval) bool {
	if !iv.Valid() || !outer.Valid() {
		return false
	}
	return outer.lo.LTE(iv.lo) && iv.hi.LTE(outer.hi)
}

// Intersect returns iv ∩ o and whether it is non-empty.
func (iv Interval) Intersect(o Interval) (Interval, bool) {
	if !iv.Valid() || !o.Valid() {
		return Interval{}, false
	}
	lo := sdkmath.MaxInt(iv.lo, o.lo)
	hi := sdkmath.MinInt(iv.hi, o.hi)
	if lo.GT(hi) {
		return Interval{}, false
	}
	return Interval{lo: lo, hi: hi}, true
}

// Hull returns the smallest interval covering both iv and o.
// An invalid operand is ignored.
func (iv Interval) Hull(o Interval) Interval {
	switch {
	case !iv.Valid():
		return o
	case !o.Valid():
		return iv
	}
	return Interval{lo: sdkmath.MinInt(iv.lo, o.lo), hi: sdkmath.MaxInt(iv.hi, o.hi)}
}

// Disjoint reports whether iv and o share no value.
func (iv Interval) Disjoint(o Interval) bool {
	_, ok := iv.Intersect(o)
	return !ok
}

// Equal reports whether both intervals describe the same set.
func (iv Interval) Equal(o Interval) bool {
	if !iv.Valid() || !o.Valid() {
		return iv.Valid() == o.Valid()
	}
	return iv.lo.Equal(o.lo) && iv.hi.Equal(o.hi)
}

// Size returns the number of values in the interval.
func (iv Interval) Size() sdkmath.Int {
	if !iv.Valid() {
		return sdkmath.ZeroInt()
	}
	return iv.hi.Sub(iv.lo).AddRaw(1)
}

func (iv Interval) String() string {
	if !iv.Valid() {
		return "[invalid]"
	}
	return fmt.Sprintf("[%s, %s]", bound(iv.lo), bound(iv.hi))
}

func bound(v sdkmath.Int) string {
	switch {
	case v.Equal(Limit):
		return "+inf"
	case v.Equal(Limit.Neg()):
		return "-inf"
	default:
		return v.String()
	}
}

func saturate(v sdkmath.Int) sdkmath.Int {
	if v.GT(Limit) {
		return Limit
	}
	if v.LT(Limit.Neg()) {
		return Limit.Neg()
	}
	return v
}

func pow2(n uint) sdkmath.Int {
	return sdkmath.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), n))
}

func minOf(xs ...sdkmath.Int) sdkmath.Int {
	m := xs[0]
	for _, x := range xs[1:] {
		m = sdkmath.MinInt(m, x)
	}
	return m
}

func maxOf(xs ...sdkmath.Int) sdkmath.Int {
	m := xs[0]
	for _, x := range xs[1:] {
		m = sdkmath.MaxInt(m, x)
	}
	return m
}

// hull builds the saturated range covering all values.
func hull(xs ...sdkmath.Int) Interval {
	return Interval{lo: saturate(minOf(xs...)), hi: saturate(maxOf(xs...))}
}
