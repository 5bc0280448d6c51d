package ops

import (
	"math/bits"

	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Status is the outcome of an exact evaluation.
type Status uint8

const (
	StatusOK Status = iota
	// StatusOverflow means |result| >= 2^64: no storage kind can hold it.
	StatusOverflow
	StatusDivByZero
	StatusNegativeShift
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusOverflow:
		return "overflow"
	case StatusDivByZero:
		return "division by zero"
	case StatusNegativeShift:
		return "negative shift count"
	default:
		return "unknown"
	}
}

// Eval computes op on the mathematical values a and b. Comparisons yield
// 0 or 1. Unary operators ignore b.
func Eval(op Op, a, b storage.Mag) (storage.Mag, Status) {
	a, b = a.Normalize(), b.Normalize()
	switch op {
	case Add:
		return addMag(a, b)
	case Sub:
		return addMag(a, b.Negate())
	case Mul:
		hi, lo := bits.Mul64(a.Abs, b.Abs)
		if hi != 0 {
			return storage.Mag{}, StatusOverflow
		}
		return storage.Mag{Neg: a.Neg != b.Neg, Abs: lo}.Normalize(), StatusOK
	case Div:
		if b.IsZero() {
			return storage.Mag{}, StatusDivByZero
		}
		return storage.Mag{Neg: a.Neg != b.Neg, Abs: a.Abs / b.Abs}.Normalize(), StatusOK
	case Mod:
		if b.IsZero() {
			return storage.Mag{}, StatusDivByZero
		}
		return storage.Mag{Neg: a.Neg, Abs: a.Abs % b.Abs}.Normalize(), StatusOK
	case Shl:
		return shlMag(a, b)
	case Shr:
		return shrMag(a, b)
	case And, Or, Xor:
		return bitwiseMag(op, a, b)
	case Neg:
		return a.Negate(), StatusOK
	case Convert:
		return a, StatusOK
	case Lt, Le, Gt, Ge, Eq, Ne:
		return boolMag(compareMag(op, a, b)), StatusOK
	default:
		return storage.Mag{}, StatusOverflow
	}
}

func addMag(a, b storage.Mag) (storage.Mag, Status) {
	if a.Neg == b.Neg {
		sum, carry := bits.Add64(a.Abs, b.Abs, 0)
		if carry != 0 {
			return storage.Mag{}, StatusOverflow
		}
		return storage.Mag{Neg: a.Neg, Abs: sum}.Normalize(), StatusOK
	}
	if a.Abs >= b.Abs {
		return storage.Mag{Neg: a.Neg, Abs: a.Abs - b.Abs}.Normalize(), StatusOK
	}
	return storage.Mag{Neg: b.Neg, Abs: b.Abs - a.Abs}.Normalize(), StatusOK
}

// shlMag is a * 2^b, so negative values shift their magnitude.
func shlMag(a, b storage.Mag) (storage.Mag, Status) {
	if b.Neg {
		return storage.Mag{}, StatusNegativeShift
	}
	if a.IsZero() {
		return a, StatusOK
	}
	if b.Abs >= 64 || uint64(bits.Len64(a.Abs))+b.Abs > 64 {
		return storage.Mag{}, StatusOverflow
	}
	return storage.Mag{Neg: a.Neg, Abs: a.Abs << b.Abs}, StatusOK
}

// shrMag is floor(a / 2^b).
func shrMag(a, b storage.Mag) (storage.Mag, Status) {
	if b.Neg {
		return storage.Mag{}, StatusNegativeShift
	}
	if !a.Neg {
		return storage.Mag{Abs: a.Abs >> b.Abs}, StatusOK
	}
	if b.Abs >= 64 {
		return storage.Mag{Neg: true, Abs: 1}, StatusOK
	}
	q := a.Abs >> b.Abs
	if a.Abs&((uint64(1)<<b.Abs)-1) != 0 {
		q++
	}
	return storage.Mag{Neg: true, Abs: q}, StatusOK
}

// bitwiseMag works on 65-bit two's complement: a sign bit plus the low 64
// bits. Every Mag fits.
func bitwiseMag(op Op, a, b storage.Mag) (storage.Mag, Status) {
	as, al := split65(a)
	bs, bl := split65(b)
	var sign bool
	var low uint64
	switch op {
	case And:
		sign, low = as && bs, al&bl
	case Or:
		sign, low = as || bs, al|bl
	default:
		sign, low = as != bs, al^bl
	}
	if !sign {
		return storage.Mag{Abs: low}, StatusOK
	}
	if low == 0 {
		// -2^64
		return storage.Mag{}, StatusOverflow
	}
	return storage.Mag{Neg: true, Abs: -low}, StatusOK
}

func split65(m storage.Mag) (bool, uint64) {
	if m.Neg {
		return true, -m.Abs
	}
	return false, m.Abs
}

func compareMag(op Op, a, b storage.Mag) bool {
	c := a.Cmp(b)
	switch op {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	case Eq:
		return c == 0
	default:
		return c != 0
	}
}

func boolMag(b bool) storage.Mag {
	if b {
		return storage.Mag{Abs: 1}
	}
	return storage.Mag{}
}

// Compare evaluates a comparison on two words by value, independent of their
// kinds.
func Compare(op Op, a, b storage.Word) bool {
	return compareMag(op, a.Mag(), b.Mag())
}
