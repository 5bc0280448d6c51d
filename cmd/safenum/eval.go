package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <kind:value> <op> <kind:value> | neg <kind:value> | <kind:value> as <kind> | <kind:value> within <lo..hi>",
		Short: "Evaluate one checked operation",
		Long: `Evaluate one checked operation under the configured policies.

Operands are written kind:value, optionally with a declared range:
int8:100, uint16:7@0..10. Operators are symbols or names (+ or add).`,
		Example: "  safenum eval int8:100 mul int8:2\n  safenum eval --promotion native int8:100 '*' int8:2\n  safenum eval int16:300 as uint8",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			line, err := evaluate(s.engine, args)
			if err != nil {
				if checked.CodeOf(err) != 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", errorLabel(), err)
					return errReported
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
}

// evaluate runs the operation spelled by args and formats its result.
func evaluate(eng checked.Engine, args []string) (string, error) {
	if len(args) == 2 {
		op, err := ops.Parse(args[0])
		if err != nil {
			return "", err
		}
		if op != ops.Neg {
			return "", fmt.Errorf("%s is not a unary operator", args[0])
		}
		a, err := parseOperand(args[1])
		if err != nil {
			return "", err
		}
		p, err := eng.Plan(op, a.Type(), a.Type())
		if err != nil {
			return "", err
		}
		res, err := eng.Negate(a)
		if err != nil {
			return "", err
		}
		return formatResult(p, res, eng.Mode == checked.ModeWrap), nil
	}
	if len(args) != 3 {
		return "", errors.New("expected 2 or 3 arguments")
	}

	a, err := parseOperand(args[0])
	if err != nil {
		return "", err
	}
	switch strings.ToLower(args[1]) {
	case "as":
		k, err := storage.Parse(args[2])
		if err != nil {
			return "", err
		}
		p, err := eng.PlanConvert(a.Type(), k)
		if err != nil {
			return "", err
		}
		res, err := eng.Convert(a, k)
		if err != nil {
			return "", err
		}
		return formatResult(p, res, eng.Mode == checked.ModeWrap), nil
	case "within":
		r, err := parseRange(args[2])
		if err != nil {
			return "", err
		}
		p, err := eng.PlanWithin(a.Type(), r)
		if err != nil {
			return "", err
		}
		res, err := eng.Within(a, r)
		if err != nil {
			return "", err
		}
		// Declared ranges are always checked.
		return formatResult(p, res, false), nil
	}

	op, err := ops.Parse(args[1])
	if err != nil {
		return "", err
	}
	b, err := parseOperand(args[2])
	if err != nil {
		return "", err
	}
	if op.Comparison() {
		truth, err := eng.Compare(op, a, b)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(truth), nil
	}
	if op.Unary() {
		return "", fmt.Errorf("%s takes one operand", op.Name())
	}
	p, err := eng.Plan(op, a.Type(), b.Type())
	if err != nil {
		return "", err
	}
	res, err := eng.Apply(op, a, b)
	if err != nil {
		return "", err
	}
	return formatResult(p, res, eng.Mode == checked.ModeWrap), nil
}

func formatResult(p checked.Plan, res checked.Operand, wrapped bool) string {
	var verdict string
	switch {
	case p.Static:
		verdict = okColor.Sprint("static")
	case wrapped:
		verdict = checkColor.Sprint("wrapped")
	default:
		verdict = checkColor.Sprint("checked")
	}
	return fmt.Sprintf("%s:%s in %s (%s)", res.Kind(), res.Word, res.Range, verdict)
}
