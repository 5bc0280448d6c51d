// Package ops defines the operators of the checked arithmetic engine and, for
// each one, its interval rule, its exact evaluation and its native
// fixed-width evaluation.
package ops

import (
	"fmt"
	"strings"
)

// Op identifies an operator.
type Op uint8

const (
	OpInvalid Op = iota
	Add
	Sub
	Mul
	Div
	Mod
	Shl
	Shr
	And
	Or
	Xor
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	Neg
	Convert
)

// Flags annotate operator behaviour.
type Flags uint16

const (
	FlagNone        Flags = 0
	FlagCommutative Flags = 1 << iota
	FlagComparison
	FlagUnary
	FlagShift
	FlagBitwise
	FlagDivision
	// FlagModular marks operators whose low result bits depend only on the
	// low bits of the operands, so operand truncation cannot change a result
	// that fits the destination.
	FlagModular
)

// Result tells how the result kind of an operator is derived.
type Result uint8

const (
	ResultNumeric Result = iota // promoted from both operands
	ResultLeft                  // the left operand's kind (shifts)
	ResultBool                  // comparisons
)

// Spec describes one operator.
type Spec struct {
	Symbol string
	Name   string
	Result Result
	Flags  Flags
}

var specTable = [...]Spec{
	OpInvalid: {Symbol: "?", Name: "invalid"},
	Add:       {Symbol: "+", Name: "add", Flags: FlagCommutative | FlagModular},
	Sub:       {Symbol: "-", Name: "sub", Flags: FlagModular},
	Mul:       {Symbol: "*", Name: "mul", Flags: FlagCommutative | FlagModular},
	Div:       {Symbol: "/", Name: "div", Flags: FlagDivision},
	Mod:       {Symbol: "%", Name: "mod", Flags: FlagDivision},
	Shl:       {Symbol: "<<", Name: "shl", Result: ResultLeft, Flags: FlagShift | FlagModular},
	Shr:       {Symbol: ">>", Name: "shr", Result: ResultLeft, Flags: FlagShift},
	And:       {Symbol: "&", Name: "and", Flags: FlagCommutative | FlagBitwise | FlagModular},
	Or:        {Symbol: "|", Name: "or", Flags: FlagCommutative | FlagBitwise | FlagModular},
	Xor:       {Symbol: "^", Name: "xor", Flags: FlagCommutative | FlagBitwise | FlagModular},
	Lt:        {Symbol: "<", Name: "lt", Result: ResultBool, Flags: FlagComparison},
	Le:        {Symbol: "<=", Name: "le", Result: ResultBool, Flags: FlagComparison},
	Gt:        {Symbol: ">", Name: "gt", Result: ResultBool, Flags: FlagComparison},
	Ge:        {Symbol: ">=", Name: "ge", Result: ResultBool, Flags: FlagComparison},
	Eq:        {Symbol: "==", Name: "eq", Result: ResultBool, Flags: FlagComparison | FlagCommutative},
	Ne:        {Symbol: "!=", Name: "ne", Result: ResultBool, Flags: FlagComparison | FlagCommutative},
	Neg:       {Symbol: "neg", Name: "neg", Result: ResultLeft, Flags: FlagUnary | FlagModular},
	Convert:   {Symbol: "convert", Name: "convert", Result: ResultLeft, Flags: FlagUnary | FlagModular},
}

// Spec returns the descriptor of op.
func (op Op) Spec() Spec {
	if int(op) >= len(specTable) {
		return specTable[OpInvalid]
	}
	return specTable[op]
}

// Valid reports whether op is a known operator.
func (op Op) Valid() bool { return op != OpInvalid && int(op) < len(specTable) }

func (op Op) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Op(%d)", op)
	}
	return specTable[op].Symbol
}

// Name returns the mnemonic of op.
func (op Op) Name() string { return op.Spec().Name }

// Has reports whether op carries every flag in f.
func (op Op) Has(f Flags) bool { return op.Spec().Flags&f == f }

// Commutative reports whether operands may be swapped.
func (op Op) Commutative() bool { return op.Has(FlagCommutative) }

// Comparison reports whether op yields a truth value.
func (op Op) Comparison() bool { return op.Has(FlagComparison) }

// Unary reports whether op takes a single operand.
func (op Op) Unary() bool { return op.Has(FlagUnary) }

// Shift reports whether op is << or >>.
func (op Op) Shift() bool { return op.Has(FlagShift) }

// Modular reports whether op is insensitive to operand truncation.
func (op Op) Modular() bool { return op.Has(FlagModular) }

// Parse resolves an operator by symbol or mnemonic.
func Parse(s string) (Op, error) {
	s = strings.TrimSpace(s)
	for op := Add; op < Op(len(specTable)); op++ {
		spec := specTable[op]
		if s == spec.Symbol || strings.EqualFold(s, spec.Name) {
			return op, nil
		}
	}
	return OpInvalid, fmt.Errorf("unknown operator %q", s)
}

// Binary lists the binary operators in table order.
func Binary() []Op {
	out := make([]Op, 0, len(specTable))
	for op := Add; op < Op(len(specTable)); op++ {
		if !op.Unary() {
			out = append(out, op)
		}
	}
	return out
}

// Arithmetic lists the binary operators that produce a number.
func Arithmetic() []Op {
	out := make([]Op, 0, len(specTable))
	for _, op := range Binary() {
		if !op.Comparison() {
			out = append(out, op)
		}
	}
	return out
}

// Comparisons lists the comparison operators.
func Comparisons() []Op {
	return []Op{Lt, Le, Gt, Ge, Eq, Ne}
}
