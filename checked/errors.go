package checked

import (
	"errors"
	"fmt"

	"github.com/buckaroo-pm/boost-safe-numerics/interval"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Code identifies the class of a checked arithmetic failure.
type Code int

// Stable error codes - do not change values.
const (
	CodeTypeMismatch         Code = 1001 // CK1001: invalid kind, range or operator
	CodeStaticSafety         Code = 2001 // CK2001: operation not provably safe
	CodeRangeViolation       Code = 3001 // CK3001: result outside the destination range
	CodeDivByZero            Code = 3002 // CK3002: division or remainder by zero
	CodeSignedDivOverflow    Code = 3003 // CK3003: min / -1
	CodeNegativeShift        Code = 3004 // CK3004: negative shift count
	CodeNegativeShiftOperand Code = 3005 // CK3005: negative left operand of << when rejected
)

// String returns the code as "CK3001" format.
func (c Code) String() string {
	return fmt.Sprintf("CK%d", int(c))
}

// Title is a short description of the code.
func (c Code) Title() string {
	switch c {
	case CodeTypeMismatch:
		return "type mismatch"
	case CodeStaticSafety:
		return "static safety violation"
	case CodeRangeViolation:
		return "range violation"
	case CodeDivByZero:
		return "division by zero"
	case CodeSignedDivOverflow:
		return "signed division overflow"
	case CodeNegativeShift:
		return "negative shift count"
	case CodeNegativeShiftOperand:
		return "negative shift operand"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every CK3xxx error is a range violation; the
// ones whose operation has no mathematical result are also domain errors.
var (
	ErrTypeMismatch   = errors.New("checked: type mismatch")
	ErrStaticSafety   = errors.New("checked: static safety violation")
	ErrRangeViolation = errors.New("checked: range violation")
	ErrDomain         = errors.New("checked: domain error")
)

// Error reports a failed checked operation.
type Error struct {
	Code  Code
	Op    ops.Op
	Left  Type
	Right Type // zero for unary operators and conversions

	// Exact is the interval the result was known to lie in.
	Exact interval.Interval
	// Dest is the result kind and DestRange the range it had to fit.
	Dest      storage.Kind
	DestRange interval.Interval
	// Value is the exact result when the failure was found at runtime.
	Value string

	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Code, e.Code.Title(), e.Message)
}

// Is matches the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTypeMismatch:
		return e.Code == CodeTypeMismatch
	case ErrStaticSafety:
		return e.Code == CodeStaticSafety
	case ErrRangeViolation:
		return e.Code >= CodeRangeViolation
	case ErrDomain:
		return e.Code > CodeRangeViolation
	}
	return false
}

// CodeOf returns the code of a checked error, or 0.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return 0
}

// errorBuilder helps construct Error values for one plan.
type errorBuilder struct {
	p Plan
}

func (eb errorBuilder) makeError(code Code, msg string) *Error {
	e := &Error{
		Code:      code,
		Op:        eb.p.Op,
		Left:      eb.p.Left,
		Exact:     eb.p.Exact,
		Dest:      eb.p.Result,
		DestRange: eb.p.Dest,
		Message:   msg,
	}
	if !eb.p.Op.Unary() {
		e.Right = eb.p.Right
	}
	return e
}

func (eb errorBuilder) staticSafety() *Error {
	return eb.makeError(CodeStaticSafety, fmt.Sprintf("%s is not provably safe: %s", eb.p.expr(), eb.p.Reason))
}

func (eb errorBuilder) rangeViolation(value storage.Mag) *Error {
	e := eb.makeError(CodeRangeViolation, fmt.Sprintf("%s = %s outside %s %s", eb.p.expr(), value, eb.p.Result, eb.p.Dest))
	e.Value = value.String()
	return e
}

func (eb errorBuilder) unrepresentable() *Error {
	e := eb.makeError(CodeRangeViolation, fmt.Sprintf("%s: |result| >= 2^64 outside %s %s", eb.p.expr(), eb.p.Result, eb.p.Dest))
	e.Value = "overflow"
	return e
}

func (eb errorBuilder) signedDivOverflow(value storage.Mag) *Error {
	e := eb.makeError(CodeSignedDivOverflow, fmt.Sprintf("%s = %s outside %s", eb.p.expr(), value, eb.p.Result))
	e.Value = value.String()
	return e
}

func (eb errorBuilder) divByZero() *Error {
	return eb.makeError(CodeDivByZero, fmt.Sprintf("%s: divisor is zero", eb.p.expr()))
}

func (eb errorBuilder) negativeShift(count storage.Mag) *Error {
	return eb.makeError(CodeNegativeShift, fmt.Sprintf("%s: shift count %s is negative", eb.p.expr(), count))
}

func (eb errorBuilder) negativeShiftOperand(value storage.Mag) *Error {
	return eb.makeError(CodeNegativeShiftOperand, fmt.Sprintf("%s: left operand %s is negative", eb.p.expr(), value))
}

func typeMismatch(op ops.Op, l, r Type, msg string) *Error {
	return &Error{Code: CodeTypeMismatch, Op: op, Left: l, Right: r, Message: msg}
}
