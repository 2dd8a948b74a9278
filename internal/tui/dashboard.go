// Package tui is the terminal dashboard front end: pick a profile, capture
// a sample, see the report.
package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"digital-nose/internal/app"
	"digital-nose/internal/report"
	"digital-nose/internal/scent"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Bold(true).Width(18)
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginLeft(2)
	faintStyle = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the bubbletea model for the dashboard.
type Model struct {
	app      *app.App
	profiles []scent.ScentProfile
	cursor   int

	report *report.ScentReport
	err    error
}

// New builds the dashboard model over a trained application context.
func New(a *app.App) Model {
	return Model{
		app:      a,
		profiles: a.Profiles(),
	}
}

// Run starts the dashboard and blocks until the user quits.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.profiles)-1 {
			m.cursor++
		}
	case "enter", "c":
		// Captures are in-memory and cheap, run them inline.
		_, rep, err := m.app.CaptureSample(m.profiles[m.cursor].Name)
		if err != nil {
			m.err = err
			m.report = nil
		} else {
			m.err = nil
			m.report = &rep
		}
	}
	return m, nil
}

func (m Model) View() string {
	var list strings.Builder
	list.WriteString(titleStyle.Render("Digital Nose"))
	list.WriteString("\n\n")
	for i, profile := range m.profiles {
		cursor := "  "
		name := profile.Name
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
			name = selectedStyle.Render(name)
		}
		list.WriteString(cursor + name + "\n")
	}
	list.WriteString("\n")
	list.WriteString(faintStyle.Render("enter/c capture · j/k move · q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, list.String(), m.reportView()) + "\n"
}

// reportView renders the right-hand panel: the last report, the last error,
// or a hint when nothing has been captured yet.
func (m Model) reportView() string {
	if m.err != nil {
		return panelStyle.Render(errStyle.Render(fmt.Sprintf("capture failed: %v", m.err)))
	}
	if m.report == nil {
		return panelStyle.Render(faintStyle.Render("no capture yet"))
	}

	doc := m.report.Doc()
	var b strings.Builder
	b.WriteString(labelStyle.Render("predicted") + doc.PredictedFamily + "\n")
	b.WriteString(labelStyle.Render("confidence") + fmt.Sprintf("%.4f", doc.Confidence) + "\n")
	b.WriteString(labelStyle.Render("intensity") + fmt.Sprintf("%.2f", doc.IntensityIndex) + "\n")
	b.WriteString(labelStyle.Render("temperature") + fmt.Sprintf("%.2f °C", doc.Environment["temperature_c"]) + "\n")
	b.WriteString(labelStyle.Render("humidity") + fmt.Sprintf("%.2f %%", doc.Environment["humidity_pct"]) + "\n")
	b.WriteString("\n" + labelStyle.Render("probabilities") + "\n")

	labels := make([]string, 0, len(doc.RawProbabilities))
	for label := range doc.RawProbabilities {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return doc.RawProbabilities[labels[i]] > doc.RawProbabilities[labels[j]]
	})
	for _, label := range labels {
		b.WriteString(fmt.Sprintf("  %-10s %.4f\n", label, doc.RawProbabilities[label]))
	}
	b.WriteString("\n" + faintStyle.Render(doc.Timestamp))

	return panelStyle.Render(b.String())
}
