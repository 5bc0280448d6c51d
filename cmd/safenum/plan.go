package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

func newPlanCmd() *cobra.Command {
	var prove bool
	cmd := &cobra.Command{
		Use:   "plan <type> <op> <type> | neg <type> | <type> as <kind>",
		Short: "Show the static analysis of an operation",
		Long: `Show the result interval, promoted kind and certification of an
operation on operand types. Types are kinds with an optional range:
int8, uint16@0..10.`,
		Example: "  safenum plan int32 mul int32\n  safenum plan --prove int8@-3..5 mul int8@-2..4",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := planArgs(s.engine, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			if prove && !p.Static && !p.Op.Comparison() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s %s: %s\n", errorLabel(),
					checked.CodeStaticSafety, checked.CodeStaticSafety.Title(), p.Reason)
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&prove, "prove", false, "fail unless the operation is statically safe")
	return cmd
}

func planArgs(eng checked.Engine, args []string) (checked.Plan, error) {
	if len(args) == 2 {
		op, err := ops.Parse(args[0])
		if err != nil {
			return checked.Plan{}, err
		}
		if !op.Unary() || op == ops.Convert {
			return checked.Plan{}, fmt.Errorf("%s is not a unary operator", args[0])
		}
		t, err := parseType(args[1])
		if err != nil {
			return checked.Plan{}, err
		}
		return eng.Plan(op, t, t)
	}

	l, err := parseType(args[0])
	if err != nil {
		return checked.Plan{}, err
	}
	if strings.EqualFold(args[1], "as") {
		k, err := storage.Parse(args[2])
		if err != nil {
			return checked.Plan{}, err
		}
		return eng.PlanConvert(l, k)
	}
	op, err := ops.Parse(args[1])
	if err != nil {
		return checked.Plan{}, err
	}
	r, err := parseType(args[2])
	if err != nil {
		return checked.Plan{}, err
	}
	return eng.Plan(op, l, r)
}
