package ops

import (
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Wrapped evaluates op the way native fixed-width arithmetic wraps: the
// result is the exact result reduced into k. Operators whose low bits depend
// only on the low bits of their operands run directly on k's bits; division,
// remainder and right shift see the untruncated operands, so a divisor that
// is nonzero never turns into zero by narrowing. Shift counts keep their own
// kind. Division by zero and negative shift counts have no native result and
// are reported.
func Wrapped(op Op, k storage.Kind, a, b storage.Word) (storage.Word, Status) {
	if op.Comparison() {
		if compareMag(op, a.Mag(), b.Mag()) {
			return storage.Word{Kind: storage.Uint8, Bits: 1}, StatusOK
		}
		return storage.Word{Kind: storage.Uint8}, StatusOK
	}
	if !op.Modular() {
		exact, status := Eval(op, a.Mag(), b.Mag())
		if status != StatusOK {
			return storage.Word{}, status
		}
		return storage.Wrap(k, exact.Pattern()), StatusOK
	}

	x := k.Truncate(a.Bits)
	y := k.Truncate(b.Bits)
	switch op {
	case Add:
		return storage.Wrap(k, x+y), StatusOK
	case Sub:
		return storage.Wrap(k, x-y), StatusOK
	case Mul:
		return storage.Wrap(k, x*y), StatusOK
	case Shl:
		count := b.Mag()
		if count.Neg {
			return storage.Word{}, StatusNegativeShift
		}
		return storage.Wrap(k, shlBits(x, count.Abs)), StatusOK
	case And:
		return storage.Wrap(k, x&y), StatusOK
	case Or:
		return storage.Wrap(k, x|y), StatusOK
	case Xor:
		return storage.Wrap(k, x^y), StatusOK
	case Neg:
		return storage.Wrap(k, -x), StatusOK
	case Convert:
		return storage.Wrap(k, x), StatusOK
	default:
		return storage.Word{}, StatusOverflow
	}
}

func shlBits(x, count uint64) uint64 {
	if count >= 64 {
		return 0
	}
	return x << count
}
