package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"digital-nose/internal/model"
	"digital-nose/internal/report"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	fieldStyle  = lipgloss.NewStyle().Bold(true).Width(20)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	dimStyle = lipgloss.NewStyle().Faint(true)
)

// renderMetrics formats training metrics for the terminal.
func renderMetrics(m model.Metrics) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Model trained") + "\n")
	b.WriteString(fieldStyle.Render("overall accuracy") + fmt.Sprintf("%.4f", m.OverallAccuracy) + "\n")
	b.WriteString(fieldStyle.Render("samples evaluated") + fmt.Sprintf("%d", m.SamplesEvaluated) + "\n")

	labels := make([]string, 0, len(m.PerClassAccuracy))
	for label := range m.PerClassAccuracy {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		value := "n/a"
		if acc := m.PerClassAccuracy[label]; acc != nil {
			value = fmt.Sprintf("%.4f", *acc)
		}
		b.WriteString(fieldStyle.Render("  "+label) + value + "\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderReport formats a scent report for the terminal, probabilities
// sorted from most to least likely.
func renderReport(profileName string, rep report.ScentReport) string {
	doc := rep.Doc()

	var b strings.Builder
	b.WriteString(headerStyle.Render("Scent Report") + dimStyle.Render("  (captured "+profileName+")") + "\n")
	b.WriteString(fieldStyle.Render("timestamp") + doc.Timestamp + "\n")
	b.WriteString(fieldStyle.Render("predicted family") + doc.PredictedFamily + "\n")
	b.WriteString(fieldStyle.Render("confidence") + fmt.Sprintf("%.4f", doc.Confidence) + "\n")
	b.WriteString(fieldStyle.Render("intensity index") + fmt.Sprintf("%.2f", doc.IntensityIndex) + "\n")
	b.WriteString(fieldStyle.Render("temperature") + fmt.Sprintf("%.2f °C", doc.Environment["temperature_c"]) + "\n")
	b.WriteString(fieldStyle.Render("humidity") + fmt.Sprintf("%.2f %%", doc.Environment["humidity_pct"]) + "\n")

	labels := make([]string, 0, len(doc.RawProbabilities))
	for label := range doc.RawProbabilities {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return doc.RawProbabilities[labels[i]] > doc.RawProbabilities[labels[j]]
	})
	b.WriteString(fieldStyle.Render("probabilities") + "\n")
	for _, label := range labels {
		b.WriteString(fmt.Sprintf("  %-12s %.4f\n", label, doc.RawProbabilities[label]))
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
