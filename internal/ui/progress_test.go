package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/buckaroo-pm/boost-safe-numerics/checked"
	"github.com/buckaroo-pm/boost-safe-numerics/internal/matrix"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
	"github.com/buckaroo-pm/boost-safe-numerics/storage"
)

func smallMatrix(t *testing.T) *matrix.Matrix {
	t.Helper()
	m, err := matrix.Generate(context.Background(), matrix.Options{
		Engine:  checked.Engine{},
		Ops:     []ops.Op{ops.Add, ops.Mul},
		Kinds:   []storage.Kind{storage.Int8, storage.Uint8},
		Samples: 4,
	})
	require.NoError(t, err)
	return m
}

func TestMatrixModelProgressThenTable(t *testing.T) {
	m := newMatrixModel("matrix", []ops.Op{ops.Add, ops.Mul}, nil)
	require.Contains(t, m.View(), "queued")

	m.Update(eventMsg{Op: ops.Add, Cells: 4})
	view := m.View()
	require.Contains(t, view, "add (4 cells)")
	require.Contains(t, view, "queued")

	m.Update(eventMsg{Op: ops.Mul, Err: errors.New("boom")})
	require.Contains(t, m.View(), "mul (boom)")

	m.Update(eventMsg{Final: true, Matrix: smallMatrix(t)})
	view = m.View()
	require.Contains(t, view, "add (1/2)")
	require.Contains(t, view, "int8")
	require.Contains(t, view, "uint8")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 1, m.op)
	view = m.View()
	require.Contains(t, view, "mul (2/2)")
	require.Contains(t, view, "int16 ✓")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 0, m.op)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, 1, m.op)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	require.True(t, m.done)
}

func TestMatrixModelFailure(t *testing.T) {
	m := newMatrixModel("matrix", []ops.Op{ops.Add}, nil)
	_, cmd := m.Update(eventMsg{Final: true, Err: errors.New("plan failed")})
	require.NotNil(t, cmd)
	require.True(t, m.done)
	require.Contains(t, m.View(), "plan failed")
}

func TestMatrixModelChannelClosedEarly(t *testing.T) {
	events := make(chan Event)
	close(events)
	m := newMatrixModel("matrix", []ops.Op{ops.Add}, events)
	msg := m.listenForEvent()()
	require.IsType(t, doneMsg{}, msg)
	m.Update(msg)
	require.ErrorContains(t, m.err, "stopped")
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "abcd...", truncate("abcdefghij", 7))
	require.Equal(t, "ab", truncate("abcdef", 2))
	require.True(t, strings.HasPrefix(truncate("abc", 0), "abc"))
}
