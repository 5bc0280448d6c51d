package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/buckaroo-pm/boost-safe-numerics/internal/matrix"
	"github.com/buckaroo-pm/boost-safe-numerics/ops"
)

// Event reports generation progress. The last event carries the finished
// matrix or the generation error.
type Event struct {
	Op     ops.Op
	Cells  int
	Err    error
	Matrix *matrix.Matrix
	Final  bool
}

type matrixModel struct {
	title   string
	events  <-chan Event
	spinner spinner.Model
	prog    progress.Model
	items   []opItem
	index   map[ops.Op]int
	width   int

	result *matrix.Matrix
	err    error
	done   bool

	table   table.Model
	columns []table.Column
	op      int
}

type opItem struct {
	op     ops.Op
	status string
	detail string
}

type eventMsg Event
type doneMsg struct{}

// NewMatrixModel returns a Bubble Tea model that shows generation progress
// for opList and, once the matrix arrives, a table of one operator at a
// time.
func NewMatrixModel(title string, opList []ops.Op, events <-chan Event) tea.Model {
	return newMatrixModel(title, opList, events)
}

func newMatrixModel(title string, opList []ops.Op, events <-chan Event) *matrixModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]opItem, 0, len(opList))
	index := make(map[ops.Op]int, len(opList))
	for i, op := range opList {
		items = append(items, opItem{op: op, status: "queued"})
		index[op] = i
	}
	return &matrixModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *matrixModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *matrixModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(Event(msg))
		if m.done {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		if !m.done {
			m.done = true
			if m.err == nil && m.result == nil {
				m.err = fmt.Errorf("matrix generation stopped")
			}
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		if m.result != nil && msg.Height > 6 {
			m.table.SetHeight(msg.Height - 6)
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *matrixModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.done = true
		return m, tea.Quit
	}
	if m.result == nil || len(m.result.Ops) == 0 {
		return m, nil
	}
	switch msg.String() {
	case "right", "l", "tab":
		m.showOp((m.op + 1) % len(m.result.Ops))
		return m, nil
	case "left", "h", "shift+tab":
		m.showOp((m.op + len(m.result.Ops) - 1) % len(m.result.Ops))
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *matrixModel) View() string {
	if m.result != nil {
		return m.tableView()
	}
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-12-4, 20)
	for _, item := range m.items {
		name := item.op.Name()
		if item.detail != "" {
			name += " (" + item.detail + ")"
		}
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, truncate(name, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styleStatus("error").Render(m.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *matrixModel) tableView() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	op := m.result.Ops[m.op]
	header := fmt.Sprintf("%s  %s (%d/%d)  promotion %s, mode %s, shift %s",
		m.title, op.Name(), m.op+1, len(m.result.Ops), m.result.Promotion, m.result.Mode, m.result.Shift)

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(header, m.width)))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString(styleStatus("static").Render("✓ static"))
	b.WriteString("  ")
	b.WriteString(styleStatus("checked").Render("n/m raised of sampled"))
	b.WriteString("  ")
	b.WriteString(styleStatus("raises").Render("✗ always raises"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("←/→ operator  ↑/↓ row  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *matrixModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *matrixModel) applyEvent(ev Event) tea.Cmd {
	if ev.Final {
		m.result, m.err = ev.Matrix, ev.Err
		if m.err != nil || m.result == nil {
			m.done = true
			return tea.Quit
		}
		m.buildTable()
		return m.prog.SetPercent(1.0)
	}
	idx, ok := m.index[ev.Op]
	if !ok {
		return nil
	}
	if ev.Err != nil {
		m.items[idx].status = "error"
		m.items[idx].detail = ev.Err.Error()
	} else {
		m.items[idx].status = "done"
		m.items[idx].detail = fmt.Sprintf("%d cells", ev.Cells)
	}

	finished := 0
	for _, item := range m.items {
		if item.status != "queued" {
			finished++
		}
	}
	return m.prog.SetPercent(float64(finished) / float64(len(m.items)))
}

func (m *matrixModel) buildTable() {
	rows := matrix.Rows(m.result, m.result.Ops[0])
	columns := make([]table.Column, len(rows[0]))
	for i, title := range rows[0] {
		width := runewidth.StringWidth(title)
		for _, row := range rows[1:] {
			width = max(width, runewidth.StringWidth(row[i]))
		}
		columns[i] = table.Column{Title: title, Width: max(width, 12)}
	}
	m.columns = columns
	m.table = table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(len(m.result.Kinds)+1),
	)
	m.showOp(0)
}

func (m *matrixModel) showOp(i int) {
	m.op = i
	rows := matrix.Rows(m.result, m.result.Ops[i])
	if len(m.columns) > 0 {
		m.columns[0].Title = rows[0][0]
		m.table.SetColumns(m.columns)
	}
	tableRows := make([]table.Row, 0, len(rows)-1)
	for _, row := range rows[1:] {
		tableRows = append(tableRows, table.Row(row))
	}
	m.table.SetRows(tableRows)
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done", "static":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error", "raises":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "checked":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
