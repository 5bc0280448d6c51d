package checked

import (
	"fmt"
	"strings"
)

// Mode is what happens when an operation cannot be proven safe.
type Mode uint8

const (
	// ModeRuntime performs the operation and checks the result.
	ModeRuntime Mode = iota
	// ModeStatic rejects the operation outright, whatever the operand values.
	ModeStatic
	// ModeWrap forwards the native wrapped result unchecked.
	ModeWrap
)

func (m Mode) String() string {
	switch m {
	case ModeRuntime:
		return "trap-at-runtime"
	case ModeStatic:
		return "trap-at-construction"
	case ModeWrap:
		return "legacy-wrap"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode resolves an exception policy name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "trap-at-runtime", "runtime":
		return ModeRuntime, nil
	case "trap-at-construction", "static":
		return ModeStatic, nil
	case "legacy-wrap", "wrap":
		return ModeWrap, nil
	default:
		return ModeRuntime, fmt.Errorf("unknown exception policy %q (expected: trap-at-construction|trap-at-runtime|legacy-wrap)", s)
	}
}

// ShiftMode controls left shifts of negative values.
type ShiftMode uint8

const (
	// ShiftArithmetic defines x << s as x * 2^s for every x.
	ShiftArithmetic ShiftMode = iota
	// ShiftReject treats a negative left operand of << as a domain error.
	ShiftReject
)

func (m ShiftMode) String() string {
	if m == ShiftReject {
		return "reject"
	}
	return "arithmetic"
}

// ParseShiftMode resolves a negative shift mode name.
func ParseShiftMode(s string) (ShiftMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "arithmetic":
		return ShiftArithmetic, nil
	case "reject":
		return ShiftReject, nil
	default:
		return ShiftArithmetic, fmt.Errorf("unknown negative shift mode %q (expected: arithmetic|reject)", s)
	}
}

// ExceptionPolicy is the type-level selector of a Mode. Implementations are
// zero-size types; a policy that also has a NegativeShift() ShiftMode method
// sets the shift mode.
type ExceptionPolicy interface {
	Mode() Mode
}

// TrapAtConstruction rejects every operation that is not statically safe.
type TrapAtConstruction struct{}

func (TrapAtConstruction) Mode() Mode { return ModeStatic }

// TrapAtRuntime checks every operation that is not statically safe.
type TrapAtRuntime struct{}

func (TrapAtRuntime) Mode() Mode { return ModeRuntime }

// LegacyWrap keeps native wraparound. Using it gives up the range guarantee
// beyond the destination kind.
type LegacyWrap struct{}

func (LegacyWrap) Mode() Mode { return ModeWrap }

// RejectNegativeShift wraps another policy and rejects negative left
// operands of <<.
type RejectNegativeShift[E ExceptionPolicy] struct{}

func (RejectNegativeShift[E]) Mode() Mode {
	var e E
	return e.Mode()
}

func (RejectNegativeShift[E]) NegativeShift() ShiftMode { return ShiftReject }

type shiftPolicy interface {
	NegativeShift() ShiftMode
}
