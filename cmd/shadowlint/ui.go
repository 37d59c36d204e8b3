package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shadowlint/internal/parser"
	"shadowlint/internal/shadow"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	findingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	isFinding   bool
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list             list.Model
	findings         []shadow.Finding
	structuralErrors []parser.StructuralError
	lastUpdate       time.Time
	fileCount        int
}

type updateMsg struct {
	findings         []shadow.Finding
	structuralErrors []parser.StructuralError
	fileCount        int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.findings = msg.findings
		m.structuralErrors = msg.structuralErrors
		m.fileCount = msg.fileCount
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, f := range m.findings {
			items = append(items, item{
				title:     fmt.Sprintf("Shadowed Name: %s", f.Name),
				desc:      fmt.Sprintf("%s (%s) at %s:%d:%d", f.Message, f.Kind, f.Location.File, f.Location.Line, f.Location.Column),
				isFinding: true,
			})
		}
		for _, e := range m.structuralErrors {
			items = append(items, item{
				title:     "Structural Error",
				desc:      fmt.Sprintf("%s at %s:%d:%d", e.Kind, e.Location.File, e.Location.Line, e.Location.Column),
				isFinding: false,
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files",
		m.lastUpdate.Format("15:04:05"), m.fileCount))

	var summary string
	if len(m.findings) == 0 && len(m.structuralErrors) == 0 {
		summary = successStyle.Render("✅ No Shadowed Names")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			findingStyle.Render(fmt.Sprintf("%d Shadowed", len(m.findings))),
			errorStyle.Render(fmt.Sprintf("%d Structural Errors", len(m.structuralErrors))))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Name Shadowing Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Detected Issues"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}
