package cli

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(m GroupSelectModel, msgs ...tea.Msg) GroupSelectModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(GroupSelectModel)
	}
	return m
}

func TestGroupSelectToggle(t *testing.T) {
	m := NewGroupSelectModel([]string{"Critical", "Deprecated", "Internal"}, nil)

	m = update(m, key(" "), key("down"), key("down"), key(" "), key("enter"))

	if !m.Finished || m.Aborted {
		t.Fatalf("model state = %+v, want finished", m)
	}
	want := []string{"Critical", "Internal"}
	if got := m.Selected(); !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
}

func TestGroupSelectPreselection(t *testing.T) {
	m := NewGroupSelectModel([]string{"A", "B"}, []string{"B"})
	if got := m.Selected(); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("preselected = %v, want [B]", got)
	}

	// Toggling a preselected entry clears it
	m = update(m, key("down"), key(" "))
	if got := m.Selected(); got != nil {
		t.Errorf("Selected() = %v, want none", got)
	}
}

func TestGroupSelectToggleAll(t *testing.T) {
	m := NewGroupSelectModel([]string{"A", "B", "C"}, nil)

	m = update(m, key("a"))
	if got := m.Selected(); len(got) != 3 {
		t.Fatalf("after select-all: %v, want all three", got)
	}

	m = update(m, key("a"))
	if got := m.Selected(); got != nil {
		t.Errorf("after deselect-all: %v, want none", got)
	}
}

func TestGroupSelectAbort(t *testing.T) {
	m := NewGroupSelectModel([]string{"A"}, nil)
	m = update(m, key("esc"))
	if !m.Aborted {
		t.Error("esc should abort the selection")
	}
}

func TestGroupSelectCursorBounds(t *testing.T) {
	m := NewGroupSelectModel([]string{"A", "B"}, nil)

	m = update(m, key("up"))
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want clamped at 0", m.Cursor)
	}
	m = update(m, key("down"), key("down"), key("down"))
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want clamped at 1", m.Cursor)
	}
}
