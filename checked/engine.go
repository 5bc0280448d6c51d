package checked

import (
	"fmt"

	"github.com/buckaroo-pm/boost-safe-numerics/interval"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/promote"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Engine runs checked operations on Operands under a promotion policy and
// an exception mode. The zero Engine uses promote.Default, ModeRuntime and
// ShiftArithmetic. Engines are plain values and safe for concurrent use.
type Engine struct {
	Promotion promote.Policy
	Mode      Mode
	Shift     ShiftMode
}

// Plan is the static analysis of one operation: everything that can be
// decided from the operand types alone.
type Plan struct {
	Op    ops.Op
	Left  Type
	Right Type

	// Exact holds every possible mathematical result. Defined is false when
	// the operation has no result for some operand pair.
	Exact   interval.Interval
	Defined bool

	// Result is the promoted kind; Dest is the range the result must fit.
	Result storage.Kind
	Dest   interval.Interval

	// Static is true when the native result is proven to equal the exact one.
	Static bool
	// Reason says why Static is false.
	Reason string

	// Truth is the decided outcome of a comparison, if any.
	Truth interval.Truth
}

func (p Plan) expr() string {
	switch {
	case p.Op == ops.Convert:
		return fmt.Sprintf("%s as %s", p.Left, p.Result)
	case p.Op.Unary():
		return fmt.Sprintf("%s %s", p.Op, p.Left)
	default:
		return fmt.Sprintf("%s %s %s", p.Left, p.Op, p.Right)
	}
}

func (p Plan) String() string {
	if p.Op.Comparison() {
		return fmt.Sprintf("%s -> %s", p.expr(), p.Truth)
	}
	verdict := "static"
	if !p.Static {
		verdict = "checked: " + p.Reason
	}
	return fmt.Sprintf("%s in %s -> %s %s (%s)", p.expr(), p.Exact, p.Result, p.Dest, verdict)
}

func (e Engine) promotion() promote.Policy {
	if e.Promotion == nil {
		return promote.Default{}
	}
	return e.Promotion
}

// Plan analyses op over operands of types l and r. Unary operators ignore r.
// It fails only with CK1001.
func (e Engine) Plan(op ops.Op, l, r Type) (Plan, error) {
	if !op.Valid() || op == ops.Convert {
		return Plan{}, typeMismatch(op, l, r, fmt.Sprintf("operator %s cannot be planned", op))
	}
	if op.Unary() {
		r = l
	}
	if err := checkTypes(op, l, r); err != nil {
		return Plan{}, err
	}

	p := Plan{Op: op, Left: l, Right: r}
	p.Exact, p.Defined = ops.Range(op, l.Range, r.Range)
	if op.Comparison() {
		p.Truth = ops.Decide(op, l.Range, r.Range)
		p.Static = true
		return p, nil
	}

	p.Result = e.promotion().Promote(op, l.Kind, r.Kind, p.Exact)
	if !p.Result.Valid() {
		return Plan{}, typeMismatch(op, l, r, fmt.Sprintf("promotion policy %s returned no kind", e.promotion().Name()))
	}
	p.Dest = p.Result.Range()
	p.Static, p.Reason = e.certify(p)
	return p, nil
}

// PlanConvert analyses storing a value of type t into kind k.
func (e Engine) PlanConvert(t Type, k storage.Kind) (Plan, error) {
	return e.planInto(t, k, k.Range())
}

// PlanWithin analyses restricting a value of type t to the range r of its
// own kind.
func (e Engine) PlanWithin(t Type, r interval.Interval) (Plan, error) {
	return e.planInto(t, t.Kind, r)
}

func (e Engine) planInto(t Type, k storage.Kind, dest interval.Interval) (Plan, error) {
	if err := checkTypes(ops.Convert, t, t); err != nil {
		return Plan{}, err
	}
	if !k.Valid() {
		return Plan{}, typeMismatch(ops.Convert, t, Type{}, fmt.Sprintf("target kind %s is not a storage kind", k))
	}
	if !dest.Within(k.Range()) {
		return Plan{}, typeMismatch(ops.Convert, t, Type{}, fmt.Sprintf("range %s exceeds %s", dest, k))
	}
	p := Plan{
		Op:      ops.Convert,
		Left:    t,
		Right:   t,
		Exact:   t.Range,
		Defined: true,
		Result:  k,
		Dest:    dest,
	}
	p.Static, p.Reason = e.certify(p)
	return p, nil
}

// certify decides whether the native result of p always equals the exact
// one. Operators that are not modular also need their operands to survive
// conversion into the result kind.
func (e Engine) certify(p Plan) (bool, string) {
	switch {
	case !p.Defined && p.Op.Shift():
		return false, fmt.Sprintf("shift count range %s holds negative counts", p.Right.Range)
	case !p.Defined:
		return false, fmt.Sprintf("divisor range %s contains zero", p.Right.Range)
	case !p.Exact.Within(p.Dest):
		return false, fmt.Sprintf("result range %s exceeds %s %s", p.Exact, p.Result, p.Dest)
	case e.Shift == ShiftReject && p.Op == ops.Shl && p.Left.Range.Negative():
		return false, fmt.Sprintf("left operand range %s holds negative values", p.Left.Range)
	case !p.Op.Modular() && !p.Left.Range.Within(p.Result.Range()):
		return false, fmt.Sprintf("left operand range %s does not fit %s", p.Left.Range, p.Result)
	case !p.Op.Modular() && !p.Op.Shift() && !p.Right.Range.Within(p.Result.Range()):
		return false, fmt.Sprintf("right operand range %s does not fit %s", p.Right.Range, p.Result)
	}
	return true, ""
}

// Prove fails with CK2001 unless op over l and r is statically safe. It does
// not depend on the engine's mode.
func (e Engine) Prove(op ops.Op, l, r Type) error {
	p, err := e.Plan(op, l, r)
	if err != nil {
		return err
	}
	if !p.Static {
		return errorBuilder{p}.staticSafety()
	}
	return nil
}

// Apply runs a numeric operator. Unary operators ignore b.
func (e Engine) Apply(op ops.Op, a, b Operand) (Operand, error) {
	if op.Unary() {
		b = a
	}
	if op.Comparison() {
		return Operand{}, typeMismatch(op, a.Type(), b.Type(), fmt.Sprintf("comparison %s has no numeric result", op))
	}
	if err := checkOperands(op, a, b); err != nil {
		return Operand{}, err
	}
	p, err := e.Plan(op, a.Type(), b.Type())
	if err != nil {
		return Operand{}, err
	}
	return e.execute(p, e.Mode, a, b)
}

// Negate returns -a.
func (e Engine) Negate(a Operand) (Operand, error) {
	return e.Apply(ops.Neg, a, a)
}

// Convert stores a in kind k. Narrowing is checked like any operation;
// under ModeWrap it truncates.
func (e Engine) Convert(a Operand, k storage.Kind) (Operand, error) {
	if err := checkOperands(ops.Convert, a, a); err != nil {
		return Operand{}, err
	}
	p, err := e.PlanConvert(a.Type(), k)
	if err != nil {
		return Operand{}, err
	}
	return e.execute(p, e.Mode, a, a)
}

// Within restricts a to the declared range r of its own kind. A declared
// range has no native wrapping, so ModeWrap checks like ModeRuntime.
func (e Engine) Within(a Operand, r interval.Interval) (Operand, error) {
	if err := checkOperands(ops.Convert, a, a); err != nil {
		return Operand{}, err
	}
	p, err := e.PlanWithin(a.Type(), r)
	if err != nil {
		return Operand{}, err
	}
	mode := e.Mode
	if mode == ModeWrap {
		mode = ModeRuntime
	}
	return e.execute(p, mode, a, a)
}

// Compare evaluates a comparison. Comparisons are always well defined; when
// the operand ranges decide the outcome the values are not consulted.
func (e Engine) Compare(op ops.Op, a, b Operand) (bool, error) {
	if !op.Comparison() {
		return false, typeMismatch(op, a.Type(), b.Type(), fmt.Sprintf("operator %s is not a comparison", op))
	}
	if err := checkOperands(op, a, b); err != nil {
		return false, err
	}
	p, err := e.Plan(op, a.Type(), b.Type())
	if err != nil {
		return false, err
	}
	if p.Truth.Known() {
		traceDecided(p)
		return p.Truth == interval.True, nil
	}
	return ops.Compare(op, a.Word, b.Word), nil
}

func (e Engine) execute(p Plan, mode Mode, a, b Operand) (Operand, error) {
	eb := errorBuilder{p}
	if p.Static {
		raw, _ := ops.Wrapped(p.Op, p.Result, a.Word, b.Word)
		traceCertified(p)
		return Operand{Word: raw, Range: p.Exact}, nil
	}

	switch mode {
	case ModeStatic:
		return Operand{}, fail(eb.staticSafety())
	case ModeWrap:
		return e.wrap(p, a, b)
	default:
		return e.check(p, a, b)
	}
}

// check is the runtime path: the exact result must lie in the destination
// range, and is then stored in the result kind.
func (e Engine) check(p Plan, a, b Operand) (Operand, error) {
	eb := errorBuilder{p}
	if err := e.checkShiftOperand(p, a); err != nil {
		return Operand{}, fail(err)
	}
	x, y := a.Word.Mag(), b.Word.Mag()
	exact, status := ops.Eval(p.Op, x, y)
	switch status {
	case ops.StatusDivByZero:
		return Operand{}, fail(eb.divByZero())
	case ops.StatusNegativeShift:
		return Operand{}, fail(eb.negativeShift(y))
	case ops.StatusOverflow:
		return Operand{}, fail(eb.unrepresentable())
	}

	if !p.Dest.Contains(exact.Int()) {
		if p.Op == ops.Div && y.Cmp(minusOne) == 0 {
			return Operand{}, fail(eb.signedDivOverflow(exact))
		}
		return Operand{}, fail(eb.rangeViolation(exact))
	}

	raw, _ := storage.FromMag(p.Result, exact)
	rng := p.Dest
	if p.Exact.Valid() {
		if in, ok := p.Exact.Intersect(p.Dest); ok {
			rng = in
		}
	}
	traceChecked(p, raw)
	return Operand{Word: raw, Range: rng}, nil
}

// wrap is the legacy path: native wraparound, domain errors still reported.
func (e Engine) wrap(p Plan, a, b Operand) (Operand, error) {
	eb := errorBuilder{p}
	if err := e.checkShiftOperand(p, a); err != nil {
		return Operand{}, fail(err)
	}
	raw, status := ops.Wrapped(p.Op, p.Result, a.Word, b.Word)
	switch status {
	case ops.StatusDivByZero:
		return Operand{}, fail(eb.divByZero())
	case ops.StatusNegativeShift:
		return Operand{}, fail(eb.negativeShift(b.Word.Mag()))
	}
	traceWrapped(p, raw)
	return Operand{Word: raw, Range: p.Result.Range()}, nil
}

func (e Engine) checkShiftOperand(p Plan, a Operand) *Error {
	if e.Shift == ShiftReject && p.Op == ops.Shl && a.Word.Negative() {
		return errorBuilder{p}.negativeShiftOperand(a.Word.Mag())
	}
	return nil
}

func checkOperands(op ops.Op, a, b Operand) error {
	if err := a.validate(); err != nil {
		return typeMismatch(op, a.Type(), b.Type(), "left operand: "+err.(*Error).Message)
	}
	if err := b.validate(); err != nil {
		return typeMismatch(op, a.Type(), b.Type(), "right operand: "+err.(*Error).Message)
	}
	return nil
}

var minusOne = storage.MagOfInt64(-1)
