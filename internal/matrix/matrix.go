// Package matrix derives the regression matrix of the checked engine: for
// every operator and every pair of storage kinds it records the planned
// result kind, whether the operation is certified, and the outcome for a
// grid of edge values. Matrices can be verified against an independent
// oracle, rendered, and saved as msgpack snapshots to catch regressions.
package matrix

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/observ"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/trace"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Outcome is one sampled operation.
type Outcome struct {
	A    uint64       `msgpack:"a"`    // left operand bits
	B    uint64       `msgpack:"b"`    // right operand bits
	Code checked.Code `msgpack:"code"` // 0 on success
	Bits uint64       `msgpack:"bits"` // result bits when Code is 0
}

// Cell is one operator over one pair of kinds, both with full ranges.
type Cell struct {
	Op       ops.Op       `msgpack:"op"`
	Left     storage.Kind `msgpack:"left"`
	Right    storage.Kind `msgpack:"right"`
	Result   storage.Kind `msgpack:"result"`
	Static   bool         `msgpack:"static"`
	Outcomes []Outcome    `msgpack:"outcomes"`
}

// Raised counts the failed outcomes.
func (c *Cell) Raised() int {
	n := 0
	for _, o := range c.Outcomes {
		if o.Code != 0 {
			n++
		}
	}
	return n
}

// Verdict classifies a cell.
type Verdict uint8

const (
	VerdictStatic  Verdict = iota // certified, never checked
	VerdictChecked                // checked; some samples pass
	VerdictAlways                 // every sample raised
)

func (v Verdict) String() string {
	switch v {
	case VerdictStatic:
		return "static"
	case VerdictChecked:
		return "checked"
	default:
		return "raises"
	}
}

func (c *Cell) Verdict() Verdict {
	switch {
	case c.Static:
		return VerdictStatic
	case len(c.Outcomes) > 0 && c.Raised() == len(c.Outcomes):
		return VerdictAlways
	default:
		return VerdictChecked
	}
}

func (c *Cell) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

// Matrix is a generated regression matrix.
type Matrix struct {
	Schema    uint16         `msgpack:"schema"`
	Promotion string         `msgpack:"promotion"`
	Mode      string         `msgpack:"mode"`
	Shift     string         `msgpack:"shift"`
	Samples   int            `msgpack:"samples"`
	Ops       []ops.Op       `msgpack:"ops"`
	Kinds     []storage.Kind `msgpack:"kinds"`
	Cells     []Cell         `msgpack:"cells"`
}

// Cell finds the cell of op over l and r.
func (m *Matrix) Cell(op ops.Op, l, r storage.Kind) (*Cell, bool) {
	for i := range m.Cells {
		c := &m.Cells[i]
		if c.Op == op && c.Left == l && c.Right == r {
			return c, true
		}
	}
	return nil, false
}

// Options configures Generate.
type Options struct {
	Engine  checked.Engine
	Ops     []ops.Op
	Kinds   []storage.Kind
	Samples int
	// Jobs bounds the operators generated in parallel; 0 means GOMAXPROCS.
	Jobs int
	// Timer, if set, records one nested phase per operator.
	Timer *observ.Timer
	// Progress, if set, is called once per finished operator, from the
	// goroutine that generated it.
	Progress func(op ops.Op, cells int, err error)
}

// Generate builds the matrix, one goroutine per operator. A tracer in ctx
// receives a span for the run with one child span per operator.
func Generate(ctx context.Context, opts Options) (*Matrix, error) {
	if len(opts.Ops) == 0 || len(opts.Kinds) == 0 {
		return nil, errors.New("matrix: no operators or kinds")
	}
	for _, op := range opts.Ops {
		if !op.Valid() || op.Unary() || op.Comparison() {
			return nil, fmt.Errorf("matrix: %s is not a binary arithmetic operator", op)
		}
	}
	if opts.Samples <= 0 {
		return nil, fmt.Errorf("matrix: sample count %d must be positive", opts.Samples)
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	samples := make(map[storage.Kind][]storage.Word, len(opts.Kinds))
	for _, k := range opts.Kinds {
		if !k.Valid() {
			return nil, fmt.Errorf("matrix: invalid kind %s", k)
		}
		samples[k] = Samples(k, opts.Samples)
	}

	ctx, run := trace.StartSpan(ctx, trace.ScopeEngine, "matrix")
	results := make([][]Cell, len(opts.Ops))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(opts.Ops)))
	for i, op := range opts.Ops {
		i, op := i, op
		g.Go(func() error {
			idx := opts.Timer.Begin("generate/" + op.Name())
			_, span := trace.StartSpan(gctx, trace.ScopeEngine, "matrix "+op.Name())
			cells, err := generateOp(gctx, opts.Engine, op, opts.Kinds, samples)
			note := fmt.Sprintf("%d cells", len(cells))
			if err != nil {
				note = err.Error()
				span.Fail(err)
			} else {
				span.End(note)
			}
			opts.Timer.End(idx, note)
			if opts.Progress != nil {
				opts.Progress(op, len(cells), err)
			}
			results[i] = cells
			return err
		})
	}
	if err := g.Wait(); err != nil {
		run.Fail(err)
		return nil, err
	}

	m := &Matrix{
		Schema:    snapshotSchema,
		Promotion: promotionName(opts.Engine),
		Mode:      opts.Engine.Mode.String(),
		Shift:     opts.Engine.Shift.String(),
		Samples:   opts.Samples,
		Ops:       append([]ops.Op(nil), opts.Ops...),
		Kinds:     append([]storage.Kind(nil), opts.Kinds...),
	}
	for _, cells := range results {
		m.Cells = append(m.Cells, cells...)
	}
	run.WithExtra("policy", m.Promotion+"/"+m.Mode).End(fmt.Sprintf("%d cells", len(m.Cells)))
	return m, nil
}

func generateOp(ctx context.Context, eng checked.Engine, op ops.Op, kinds []storage.Kind, samples map[storage.Kind][]storage.Word) ([]Cell, error) {
	cells := make([]Cell, 0, len(kinds)*len(kinds))
	for _, l := range kinds {
		for _, r := range kinds {
			select {
			case <-ctx.Done():
				return cells, ctx.Err()
			default:
			}
			cell, err := generateCell(eng, op, l, r, samples[l], samples[r])
			if err != nil {
				return cells, err
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

func generateCell(eng checked.Engine, op ops.Op, l, r storage.Kind, ls, rs []storage.Word) (Cell, error) {
	plan, err := eng.Plan(op, checked.TypeOf(l), checked.TypeOf(r))
	if err != nil {
		return Cell{}, fmt.Errorf("matrix: plan %s %s %s: %w", l, op, r, err)
	}
	cell := Cell{
		Op:       op,
		Left:     l,
		Right:    r,
		Result:   plan.Result,
		Static:   plan.Static,
		Outcomes: make([]Outcome, 0, len(ls)*len(rs)),
	}
	for _, a := range ls {
		for _, b := range rs {
			res, err := eng.Apply(op, checked.NewOperand(a), checked.NewOperand(b))
			o := Outcome{A: a.Bits, B: b.Bits}
			if err != nil {
				o.Code = checked.CodeOf(err)
				if o.Code == 0 {
					return Cell{}, fmt.Errorf("matrix: %s %s %s: %w", a, op, b, err)
				}
			} else {
				o.Bits = res.Word.Bits
			}
			cell.Outcomes = append(cell.Outcomes, o)
		}
	}
	return cell, nil
}

func promotionName(eng checked.Engine) string {
	if eng.Promotion == nil {
		return "default"
	}
	return eng.Promotion.Name()
}
