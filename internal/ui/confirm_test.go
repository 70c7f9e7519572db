package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chris-regnier/devjournal/internal/entry"
)

func press(m confirmModel, msg tea.KeyMsg) confirmModel {
	updated, _ := m.Update(msg)
	return updated.(confirmModel)
}

func TestConfirmAccepts(t *testing.T) {
	for _, r := range []rune{'y', 'Y'} {
		m := press(confirmModel{deletion: single}, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		if !m.done || !m.confirmed {
			t.Errorf("%q: expected confirmed, got %+v", r, m)
		}
	}
}

func TestConfirmDeclines(t *testing.T) {
	msgs := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'n'}},
		{Type: tea.KeyEnter},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	}
	for _, msg := range msgs {
		m := press(confirmModel{deletion: single}, msg)
		if !m.done || m.confirmed {
			t.Errorf("%v: expected declined, got %+v", msg, m)
		}
	}
}

func TestConfirmIgnoresOtherKeys(t *testing.T) {
	m := press(confirmModel{deletion: single}, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if m.done {
		t.Error("unrelated key should not finish the prompt")
	}
}

var single = Deletion{Entries: []entry.Entry{{
	ID:          42,
	CreatedAt:   time.Date(2024, time.March, 13, 15, 0, 0, 0, time.Local),
	Title:       "Fix login",
	Description: "Safari drops the session cookie",
}}}

func TestDeletionHeading(t *testing.T) {
	bulk := Deletion{Project: "web", Entries: make([]entry.Entry, 3)}
	one := Deletion{Project: "web", Entries: make([]entry.Entry, 1)}
	tests := map[string]struct {
		d    Deletion
		want string
	}{
		"single entry": {single, `Delete entry #42 "Fix login"?`},
		"project":      {bulk, `Delete 3 entries of project "web"?`},
		"project of 1": {one, `Delete 1 entry of project "web"?`},
	}
	for name, tt := range tests {
		if got := tt.d.Heading(); got != tt.want {
			t.Errorf("%s: got %q, want %q", name, got, tt.want)
		}
	}
}

func TestConfirmViewSingleEntry(t *testing.T) {
	m := confirmModel{deletion: single}
	view := stripANSI(m.View())
	for _, want := range []string{
		`Delete entry #42 "Fix login"?`,
		"#42",
		"2024-03-13 15:00",
		"Safari drops the session cookie",
		"This cannot be undone. [y/N]",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	m.done = true
	if m.View() != "" {
		t.Error("finished prompt should render nothing")
	}
}

func TestConfirmViewListsProjectEntries(t *testing.T) {
	d := Deletion{Project: "web"}
	for i := 1; i <= maxListedDeletions+2; i++ {
		d.Entries = append(d.Entries, entry.Entry{ID: int64(i), Title: fmt.Sprintf("Entry %d", i), Description: "body"})
	}
	view := stripANSI(confirmModel{deletion: d}.View())

	if !strings.Contains(view, `Delete 7 entries of project "web"?`) {
		t.Errorf("missing heading:\n%s", view)
	}
	if !strings.Contains(view, "Entry 5") || strings.Contains(view, "Entry 6") {
		t.Errorf("expected the first %d entries only:\n%s", maxListedDeletions, view)
	}
	if !strings.Contains(view, "... and 2 more") {
		t.Errorf("missing overflow summary:\n%s", view)
	}
	if strings.Contains(view, "body") {
		t.Errorf("bulk prompt should not preview descriptions:\n%s", view)
	}
}
