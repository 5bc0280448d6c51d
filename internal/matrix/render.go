package matrix

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
)

var (
	staticStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	alwaysStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

// CellText is the table text of a cell: the result kind and either ✓
// (certified), raised/total (checked) or ✗ (every sample raised).
func CellText(c *Cell) string {
	switch c.Verdict() {
	case VerdictStatic:
		return c.Result.String() + " ✓"
	case VerdictAlways:
		return c.Result.String() + " ✗"
	default:
		return fmt.Sprintf("%s %d/%d", c.Result, c.Raised(), len(c.Outcomes))
	}
}

// Rows lays out the cells of op as a table: the header row names the right
// kinds, and each following row starts with its left kind.
func Rows(m *Matrix, op ops.Op) [][]string {
	header := make([]string, 0, len(m.Kinds)+1)
	header = append(header, op.String())
	for _, k := range m.Kinds {
		header = append(header, k.String())
	}
	rows := [][]string{header}
	for _, l := range m.Kinds {
		row := make([]string, 0, len(m.Kinds)+1)
		row = append(row, l.String())
		for _, r := range m.Kinds {
			text := "-"
			if c, ok := m.Cell(op, l, r); ok {
				text = CellText(c)
			}
			row = append(row, text)
		}
		rows = append(rows, row)
	}
	return rows
}

// Render writes the table of op to w. When styled is set, cells are colored
// by verdict.
func Render(w io.Writer, m *Matrix, op ops.Op, styled bool) error {
	rows := Rows(m, op)
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	var b strings.Builder
	for ri, row := range rows {
		for ci, cell := range row {
			if ci > 0 {
				b.WriteString("  ")
			}
			text := runewidth.FillRight(cell, widths[ci])
			if styled {
				text = styleCell(m, op, ri, ci, text)
			}
			b.WriteString(text)
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func styleCell(m *Matrix, op ops.Op, ri, ci int, text string) string {
	if ri == 0 || ci == 0 {
		return headerStyle.Render(text)
	}
	c, ok := m.Cell(op, m.Kinds[ri-1], m.Kinds[ci-1])
	if !ok {
		return text
	}
	switch c.Verdict() {
	case VerdictStatic:
		return staticStyle.Render(text)
	case VerdictAlways:
		return alwaysStyle.Render(text)
	default:
		return checkedStyle.Render(text)
	}
}

// Stats summarizes a matrix.
type Stats struct {
	Cells    int
	Static   int
	Checked  int
	Always   int
	Outcomes int
	Raised   int
	ByCode   map[checked.Code]int
}

// Summary counts cells by verdict and failed outcomes by code.
func Summary(m *Matrix) Stats {
	s := Stats{ByCode: make(map[checked.Code]int)}
	for i := range m.Cells {
		c := &m.Cells[i]
		s.Cells++
		switch c.Verdict() {
		case VerdictStatic:
			s.Static++
		case VerdictAlways:
			s.Always++
		default:
			s.Checked++
		}
		s.Outcomes += len(c.Outcomes)
		for _, o := range c.Outcomes {
			if o.Code != 0 {
				s.Raised++
				s.ByCode[o.Code]++
			}
		}
	}
	return s
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d cells: %d static, %d checked, %d always raise\n", s.Cells, s.Static, s.Checked, s.Always)
	fmt.Fprintf(&b, "%d samples, %d raised", s.Outcomes, s.Raised)
	codes := make([]checked.Code, 0, len(s.ByCode))
	for c := range s.ByCode {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, c := range codes {
		fmt.Fprintf(&b, "\n  %s %-24s %d", c, c.Title(), s.ByCode[c])
	}
	return b.String()
}
