package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/buckaroo-pm/boost-safe-numerics/internal/matrix"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/observ"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/ui"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
)

type matrixFlags struct {
	ui      string
	out     string
	check   string
	verify  bool
	summary bool
	timings bool
	jobs    int
	samples int
	only    []string
}

func newMatrixCmd() *cobra.Command {
	var f matrixFlags
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Generate the regression matrix of the engine",
		Long: `Generate, for every configured operator and pair of kinds, the promoted
result kind, whether the operation is statically safe, and the outcome of
every pair of sampled edge values. The matrix can be verified against an
exact oracle, saved as a snapshot and compared with a baseline.`,
		Example: "  safenum matrix --summary --verify\n  safenum matrix --out testdata/matrix.msgpack\n  safenum matrix --check testdata/matrix.msgpack",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatrix(cmd, f)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.ui, "ui", "auto", "interactive viewer (auto|on|off)")
	flags.StringVar(&f.out, "out", "", "write the matrix snapshot to this file")
	flags.StringVar(&f.check, "check", "", "compare with a baseline snapshot and fail on differences")
	flags.BoolVar(&f.verify, "verify", false, "check every cell against the exact oracle")
	flags.BoolVar(&f.summary, "summary", false, "print only the summary")
	flags.BoolVar(&f.timings, "timings", false, "print phase timings")
	flags.IntVar(&f.jobs, "jobs", 0, "operators generated in parallel (0 = GOMAXPROCS)")
	flags.IntVar(&f.samples, "samples", 0, "values sampled per kind (default from config)")
	flags.StringSliceVar(&f.only, "op", nil, "operators to print (default: all generated)")
	return cmd
}

func runMatrix(cmd *cobra.Command, f matrixFlags) error {
	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}
	s, cleanup, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opList, err := s.cfg.MatrixOps()
	if err != nil {
		return err
	}
	kinds, err := s.cfg.MatrixKinds()
	if err != nil {
		return err
	}
	samples := s.cfg.SampleCount()
	if f.samples > 0 {
		samples = f.samples
	}
	printed, err := selectOps(f.only, opList)
	if err != nil {
		return err
	}

	var timer *observ.Timer
	if f.timings {
		timer = observ.NewTimer()
	}
	opts := matrix.Options{
		Engine:  s.engine,
		Ops:     opList,
		Kinds:   kinds,
		Samples: samples,
		Jobs:    f.jobs,
		Timer:   timer,
	}

	out := cmd.OutOrStdout()
	interactive := shouldUseTUI(mode)
	idx := timer.Begin("generate")
	var m *matrix.Matrix
	if interactive {
		m, err = ui.RunMatrix(cmd.Context(), "safenum matrix", opts, os.Stdin, out)
	} else {
		m, err = matrix.Generate(cmd.Context(), opts)
	}
	timer.End(idx, fmt.Sprintf("%d ops x %d kinds", len(opList), len(kinds)))
	if err != nil {
		return err
	}

	failed := false
	if f.verify {
		idx := timer.Begin("verify")
		findings := append(matrix.Verify(m, s.engine), matrix.Symmetry(m)...)
		timer.End(idx, fmt.Sprintf("%d findings", len(findings)))
		for _, fd := range findings {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", errorLabel(), fd)
		}
		if len(findings) > 0 {
			failed = true
		} else {
			fmt.Fprintln(out, okColor.Sprint("verified: every cell agrees with the exact oracle"))
		}
	}

	if f.check != "" {
		idx := timer.Begin("check")
		base, err := matrix.ReadFile(f.check)
		if err != nil {
			return err
		}
		diff := matrix.Diff(base, m)
		timer.End(idx, fmt.Sprintf("%d differences", len(diff)))
		for _, d := range diff {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", checkColor.Sprint("changed:"), d)
		}
		if len(diff) > 0 {
			failed = true
		} else {
			fmt.Fprintf(out, "%s matches %s\n", okColor.Sprint("baseline:"), f.check)
		}
	}

	if f.out != "" {
		idx := timer.Begin("write")
		if err := matrix.WriteFile(f.out, m); err != nil {
			return err
		}
		timer.End(idx, f.out)
		fmt.Fprintf(out, "wrote %s\n", accentColor.Sprint(f.out))
	}

	if !interactive {
		if err := printMatrix(out, m, printed, f.summary); err != nil {
			return err
		}
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if failed {
		return errReported
	}
	return nil
}

func selectOps(names []string, generated []ops.Op) ([]ops.Op, error) {
	if len(names) == 0 {
		return generated, nil
	}
	out := make([]ops.Op, 0, len(names))
	for _, name := range names {
		op, err := ops.Parse(name)
		if err != nil {
			return nil, err
		}
		found := false
		for _, g := range generated {
			found = found || g == op
		}
		if !found {
			return nil, fmt.Errorf("operator %s is not in the generated matrix", op.Name())
		}
		out = append(out, op)
	}
	return out, nil
}

func printMatrix(out io.Writer, m *matrix.Matrix, opList []ops.Op, summaryOnly bool) error {
	if !summaryOnly {
		for _, op := range opList {
			if _, err := fmt.Fprintf(out, "%s (%s)\n", accentColor.Sprint(op.Name()), op); err != nil {
				return err
			}
			if err := matrix.Render(out, m, op, !color.NoColor); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
	}
	header := fmt.Sprintf("promotion %s, mode %s, shift %s, %d samples per kind",
		m.Promotion, m.Mode, m.Shift, m.Samples)
	_, err := fmt.Fprintf(out, "%s\n%s\n", header, strings.TrimRight(matrix.Summary(m).String(), "\n"))
	return err
}
