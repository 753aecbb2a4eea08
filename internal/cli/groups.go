package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// GroupSelectModel is the bubbletea model for interactive grouping-column
// selection. Any non-standard column of the input table can be toggled on;
// confirmed selections become group nodes in the built graph.
type GroupSelectModel struct {
	Columns  []string
	Cursor   int
	Checked  map[int]bool
	Aborted  bool
	Finished bool
}

// NewGroupSelectModel creates a selection model over the table's grouping
// columns, pre-checking any columns already selected via flags.
func NewGroupSelectModel(columns, preselected []string) GroupSelectModel {
	checked := make(map[int]bool)
	for i, col := range columns {
		for _, sel := range preselected {
			if col == sel {
				checked[i] = true
			}
		}
	}
	return GroupSelectModel{Columns: columns, Checked: checked}
}

func (m GroupSelectModel) Init() tea.Cmd {
	return nil
}

func (m GroupSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Columns)-1 {
				m.Cursor++
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			all := len(m.selectedIndexes()) < len(m.Columns)
			for i := range m.Columns {
				m.Checked[i] = all
			}
		case "enter":
			m.Finished = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m GroupSelectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Grouping Columns"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	for i, col := range m.Columns {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		box := "[ ]"
		if m.Checked[i] {
			box = "[" + StyleSuccess.Render("x") + "]"
		}

		line := fmt.Sprintf("%s%s %s", cursor, box, col)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if m.Checked[i] {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", len(m.selectedIndexes()), len(m.Columns))))

	return b.String()
}

// Selected returns the confirmed column names in table order.
func (m GroupSelectModel) Selected() []string {
	var cols []string
	for _, i := range m.selectedIndexes() {
		cols = append(cols, m.Columns[i])
	}
	return cols
}

func (m GroupSelectModel) selectedIndexes() []int {
	var idx []int
	for i, checked := range m.Checked {
		if checked {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	return idx
}

// selectGroupsInteractive runs the selection TUI over the table's grouping
// columns. Returns the confirmed selection, or an error if the user aborts.
func selectGroupsInteractive(columns, preselected []string) ([]string, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	p := tea.NewProgram(NewGroupSelectModel(columns, preselected))
	result, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("group selection: %w", err)
	}

	m, ok := result.(GroupSelectModel)
	if !ok || m.Aborted {
		return nil, fmt.Errorf("group selection aborted")
	}
	return m.Selected(), nil
}
