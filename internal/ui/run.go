package ui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buckaroo-pm/boost-safe-numerics/internal/matrix"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
)

// RunMatrix generates a matrix while showing progress, then lets the user
// browse it until they quit. Quitting during generation cancels it.
func RunMatrix(ctx context.Context, title string, opts matrix.Options, in io.Reader, out io.Writer) (*matrix.Matrix, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so generation never blocks on a program that already quit.
	events := make(chan Event, len(opts.Ops)+1)
	opts.Progress = func(op ops.Op, cells int, err error) {
		events <- Event{Op: op, Cells: cells, Err: err}
	}
	go func() {
		m, err := matrix.Generate(ctx, opts)
		events <- Event{Final: true, Matrix: m, Err: err}
		close(events)
	}()

	model := newMatrixModel(title, opts.Ops, events)
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return nil, err
	}
	fm := final.(*matrixModel)
	switch {
	case fm.err != nil:
		return nil, fm.err
	case fm.result == nil:
		return nil, errors.New("matrix generation cancelled")
	}
	return fm.result, nil
}
