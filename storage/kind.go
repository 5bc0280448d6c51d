// Package storage describes the fixed-width integer representations a checked
// value can live in and the raw bit patterns stored in them.
package storage

import (
	"fmt"
	"math"
	"strings"
	"unsafe"

	sdkmath "cosmossdk.io/math"
	"golang.org/x/exp/constraints"

	"github.com/buckaroo-pm/boost-safe-numerics/interval"
)

// Width is the bit width of an integer kind.
type Width uint8

const (
	WidthInvalid Width = 0
	Width8       Width = 8
	Width16      Width = 16
	Width32      Width = 32
	Width64      Width = 64
)

// Widths lists the supported widths in ascending order.
var Widths = [...]Width{Width8, Width16, Width32, Width64}

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	default:
		return false
	}
}

// Next returns the next wider width, or false for 64.
func (w Width) Next() (Width, bool) {
	switch w {
	case Width8:
		return Width16, true
	case Width16:
		return Width32, true
	case Width32:
		return Width64, true
	default:
		return WidthInvalid, false
	}
}

// Kind is a storage kind: a width plus signedness.
// The zero Kind is invalid.
type Kind struct {
	Signed bool
	Width  Width
}

// Storage kinds.
var (
	Int8   = MakeInt(Width8)
	Int16  = MakeInt(Width16)
	Int32  = MakeInt(Width32)
	Int64  = MakeInt(Width64)
	Uint8  = MakeUint(Width8)
	Uint16 = MakeUint(Width16)
	Uint32 = MakeUint(Width32)
	Uint64 = MakeUint(Width64)
)

// MakeInt returns the signed kind of width w.
func MakeInt(w Width) Kind { return Kind{Signed: true, Width: w} }

// MakeUint returns the unsigned kind of width w.
func MakeUint(w Width) Kind { return Kind{Width: w} }

// All returns every kind ordered by width, signed before unsigned.
func All() []Kind {
	out := make([]Kind, 0, 2*len(Widths))
	for _, w := range Widths {
		out = append(out, MakeInt(w), MakeUint(w))
	}
	return out
}

// Of returns the kind matching the Go integer type T. Platform-sized int and
// uint map to their actual width.
func Of[T constraints.Integer]() Kind {
	var zero T
	w := Width(unsafe.Sizeof(zero) * 8) //nolint:gosec // G115: Sizeof of an integer type is at most 8.
	return Kind{Signed: ^zero < 0, Width: w}
}

// Valid reports whether k describes a supported representation.
func (k Kind) Valid() bool { return k.Width.Valid() }

// Bits returns the width in bits.
func (k Kind) Bits() uint { return uint(k.Width) }

// WithSign returns the kind of the same width with the given signedness.
func (k Kind) WithSign(signed bool) Kind { return Kind{Signed: signed, Width: k.Width} }

func (k Kind) String() string {
	if !k.Valid() {
		return "invalid"
	}
	if k.Signed {
		return fmt.Sprintf("int%d", k.Width)
	}
	return fmt.Sprintf("uint%d", k.Width)
}

// Parse resolves a kind name such as "int8", "u32" or "uint64".
func Parse(name string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	signed := true
	switch {
	case strings.HasPrefix(s, "uint"):
		signed, s = false, s[len("uint"):]
	case strings.HasPrefix(s, "int"):
		s = s[len("int"):]
	case strings.HasPrefix(s, "u"):
		signed, s = false, s[1:]
	case strings.HasPrefix(s, "i"):
		s = s[1:]
	default:
		return Kind{}, fmt.Errorf("unknown storage kind %q", name)
	}
	var w Width
	switch s {
	case "8":
		w = Width8
	case "16":
		w = Width16
	case "32":
		w = Width32
	case "64":
		w = Width64
	default:
		return Kind{}, fmt.Errorf("unknown storage kind %q", name)
	}
	return Kind{Signed: signed, Width: w}, nil
}

// MustParse is Parse that panics on error.
func MustParse(name string) Kind {
	k, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return k
}

// Mask returns the low-bits mask of the kind.
func (k Kind) Mask() uint64 {
	if k.Width >= Width64 {
		return math.MaxUint64
	}
	return (uint64(1) << k.Width) - 1
}

// MinMag returns the smallest representable value.
func (k Kind) MinMag() Mag {
	if !k.Signed {
		return Mag{}
	}
	return Mag{Neg: true, Abs: uint64(1) << (k.Width - 1)}
}

// MaxMag returns the largest representable value.
func (k Kind) MaxMag() Mag {
	if k.Signed {
		return Mag{Abs: (uint64(1) << (k.Width - 1)) - 1}
	}
	return Mag{Abs: k.Mask()}
}

// Min returns the smallest representable value.
func (k Kind) Min() sdkmath.Int { return k.MinMag().Int() }

// Max returns the largest representable value.
func (k Kind) Max() sdkmath.Int { return k.MaxMag().Int() }

// Range returns the canonical interval [Min, Max].
func (k Kind) Range() interval.Interval {
	if !k.Valid() {
		return interval.Interval{}
	}
	return interval.New(k.Min(), k.Max())
}

// Contains reports whether m is representable.
func (k Kind) Contains(m Mag) bool {
	if !k.Valid() {
		return false
	}
	if m.Neg {
		return k.Signed && m.Abs <= k.MinMag().Abs
	}
	return m.Abs <= k.MaxMag().Abs
}

// ContainsInt reports whether v is representable.
func (k Kind) ContainsInt(v sdkmath.Int) bool {
	return k.Range().Contains(v)
}

// Truncate keeps the low Width bits of pattern and extends them back to 64
// bits: sign extension for signed kinds, zero extension otherwise.
func (k Kind) Truncate(pattern uint64) uint64 {
	mask := k.Mask()
	pattern &= mask
	if !k.Signed || k.Width >= Width64 {
		return pattern
	}
	if pattern&(uint64(1)<<(k.Width-1)) != 0 {
		return pattern | ^mask
	}
	return pattern
}
