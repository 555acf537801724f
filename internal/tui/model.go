package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the Bubble Tea model for browsing pages of contacts.
// The left pane lists the current page; the right pane shows the selection.
type Model struct {
	pages    [][]Entry
	page     int
	cursor   int
	width    int
	height   int
	keys     keyMap
	help     help.Model
	quitting bool
}

// NewModel creates a Model over pages, starting on the first entry.
func NewModel(pages [][]Entry) Model {
	return Model{
		pages: pages,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Page returns the zero-based index of the current page.
func (m Model) Page() int { return m.page }

// Selected returns the entry under the cursor.
func (m Model) Selected() (Entry, bool) {
	if len(m.pages) == 0 {
		return Entry{}, false
	}
	return m.pages[m.page][m.cursor], true
}

// Update handles key presses and resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < m.pageLen()-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.PrevPage):
			if m.page > 0 {
				m.page--
				m.cursor = 0
			}
		case key.Matches(msg, m.keys.NextPage):
			if m.page < len(m.pages)-1 {
				m.page++
				m.cursor = 0
			}
		}
	}
	return m, nil
}

// View renders the list and detail panes above the help bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.pages) == 0 {
		return "No contacts saved.\n\n" + m.help.View(m.keys) + "\n"
	}

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	left, right := PaneWidths(width)

	listPane := FocusedBorder().Width(max(left-2, 0)).Render(m.listView())
	detailPane := UnfocusedBorder().Width(max(right-2, 0)).Render(m.detailView())

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Contacts: page %d/%d", m.page+1, len(m.pages))))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView() string {
	var lines []string
	for i, e := range m.pages[m.page] {
		if i == m.cursor {
			lines = append(lines, selectedStyle.Render("> "+e.Name))
			continue
		}
		lines = append(lines, "  "+e.Name)
	}
	return strings.Join(lines, "\n")
}

func (m Model) detailView() string {
	e, _ := m.Selected()
	phones := mutedStyle.Render("none")
	if len(e.Phones) > 0 {
		phones = strings.Join(e.Phones, ", ")
	}
	birthday := mutedStyle.Render("not set")
	if e.Birthday != "" {
		birthday = e.Birthday
	}
	return fmt.Sprintf("%s\n\nPhones:   %s\nBirthday: %s", titleStyle.Render(e.Name), phones, birthday)
}

func (m Model) pageLen() int {
	if len(m.pages) == 0 {
		return 0
	}
	return len(m.pages[m.page])
}
