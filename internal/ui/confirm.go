package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chris-regnier/devjournal/internal/entry"
)

// maxListedDeletions caps how many entries the prompt lists before
// summarizing the rest.
const maxListedDeletions = 5

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Deletion describes the entries a delete command is about to remove.
// Project is set for bulk deletes.
type Deletion struct {
	Project string
	Entries []entry.Entry
}

// Heading is the question asked of the user.
func (d Deletion) Heading() string {
	n := len(d.Entries)
	if d.Project != "" {
		return fmt.Sprintf("Delete %d %s of project %q?", n, plural(n, "entry", "entries"), d.Project)
	}
	if n == 1 {
		return fmt.Sprintf("Delete entry #%d %q?", d.Entries[0].ID, d.Entries[0].Title)
	}
	return fmt.Sprintf("Delete %d %s?", n, plural(n, "entry", "entries"))
}

func (d Deletion) listing() string {
	var b strings.Builder
	for i := range d.Entries {
		if i == maxListedDeletions {
			rest := len(d.Entries) - maxListedDeletions
			fmt.Fprintf(&b, "  ... and %d more\n", rest)
			break
		}
		e := &d.Entries[i]
		fmt.Fprintf(&b, "  #%-4d %s  %s\n", e.ID, e.CreatedAt.Local().Format(timeFormat), e.Title)
		if len(d.Entries) == 1 {
			if p := e.Preview(60); p != "" {
				fmt.Fprintf(&b, "        %s\n", p)
			}
		}
	}
	return b.String()
}

type confirmModel struct {
	deletion  Deletion
	confirmed bool
	done      bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch strings.ToLower(msg.String()) {
		case "y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "n", "enter", "esc", "ctrl+c":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	return headingStyle.Render(m.deletion.Heading()) + "\n" +
		dimStyle.Render(m.deletion.listing()) + "\n" +
		warningStyle.Render("This cannot be undone. [y/N]") + " "
}

// ConfirmDeletion lists what d would remove and asks the user to confirm.
// Anything but "y" declines.
func ConfirmDeletion(d Deletion) (bool, error) {
	p := tea.NewProgram(confirmModel{deletion: d})
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	return result.(confirmModel).confirmed, nil
}
