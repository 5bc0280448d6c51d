package matrix

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

// Current snapshot schema - increment when the Matrix layout changes.
const snapshotSchema uint16 = 1

// Encode writes m as msgpack.
func Encode(w io.Writer, m *Matrix) error {
	return msgpack.NewEncoder(w).Encode(m)
}

// Decode reads a msgpack snapshot and checks its schema.
func Decode(r io.Reader) (*Matrix, error) {
	var m Matrix
	if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("matrix snapshot: %w", err)
	}
	if m.Schema != snapshotSchema {
		return nil, fmt.Errorf("matrix snapshot: schema %d, want %d", m.Schema, snapshotSchema)
	}
	return &m, nil
}

// WriteFile saves m to path, replacing it atomically.
func WriteFile(path string, m *Matrix) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	if err := Encode(f, m); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// ReadFile loads a snapshot saved by WriteFile.
func ReadFile(path string) (m *Matrix, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return Decode(f)
}

type cellKey struct {
	op   ops.Op
	l, r storage.Kind
}

// Diff lists the differences between a baseline and a current matrix: cells
// that appeared or vanished, changed result kinds or certification, and
// sampled outcomes whose code or value changed.
func Diff(base, cur *Matrix) []string {
	var out []string
	if base.Promotion != cur.Promotion || base.Mode != cur.Mode || base.Shift != cur.Shift {
		out = append(out, fmt.Sprintf("policies: %s/%s/%s -> %s/%s/%s",
			base.Promotion, base.Mode, base.Shift, cur.Promotion, cur.Mode, cur.Shift))
	}

	curCells := make(map[cellKey]*Cell, len(cur.Cells))
	for i := range cur.Cells {
		c := &cur.Cells[i]
		curCells[cellKey{c.Op, c.Left, c.Right}] = c
	}
	seen := make(map[cellKey]bool, len(base.Cells))
	for i := range base.Cells {
		b := &base.Cells[i]
		key := cellKey{b.Op, b.Left, b.Right}
		seen[key] = true
		c, ok := curCells[key]
		if !ok {
			out = append(out, fmt.Sprintf("%s: removed", b))
			continue
		}
		if b.Result != c.Result || b.Static != c.Static {
			out = append(out, fmt.Sprintf("%s: %s %s -> %s %s", b, b.Result, b.Verdict(), c.Result, c.Verdict()))
		}
		outcomes := make(map[[2]uint64]Outcome, len(c.Outcomes))
		for _, o := range c.Outcomes {
			outcomes[[2]uint64{o.A, o.B}] = o
		}
		for _, o := range b.Outcomes {
			n, ok := outcomes[[2]uint64{o.A, o.B}]
			if !ok {
				continue
			}
			if n.Code != o.Code || n.Bits != o.Bits {
				out = append(out, fmt.Sprintf("%s: %s, %s: %s -> %s", b,
					wordInt(b.Left, o.A), wordInt(b.Right, o.B),
					outcomeText(b.Result, o), outcomeText(c.Result, n)))
			}
		}
	}
	for i := range cur.Cells {
		c := &cur.Cells[i]
		if !seen[cellKey{c.Op, c.Left, c.Right}] {
			out = append(out, fmt.Sprintf("%s: added", c))
		}
	}
	return out
}

func outcomeText(k storage.Kind, o Outcome) string {
	if o.Code != 0 {
		return o.Code.String()
	}
	return wordInt(k, o.Bits).String()
}
