// Package dashboard renders the summary view: totals, pipeline value,
// the most aged active orders, and status/priority breakdown bars.
package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/theme"
	"github.com/posentinel/sentinel/internal/urgency"
)

// topAgedCount is how many of the oldest active orders are listed.
const topAgedCount = 10

// barWidth is the width of the breakdown bars.
const barWidth = 24

// Model is the summary dashboard view component.
type Model struct {
	records []urgency.EvaluatedOrder
	width   int
	height  int
}

// New creates a new dashboard model.
func New(width, height int) Model {
	return Model{width: width, height: height}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetRecords replaces the evaluated order set the dashboard summarizes.
func (m *Model) SetRecords(records []urgency.EvaluatedOrder) {
	m.records = records
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections := []string{
		titleStyle.Render("Dashboard"),
		m.renderTotals(),
		"",
		m.renderStatusBars(),
		"",
		m.renderPriorityBars(),
		"",
		m.renderTopAged(),
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(strings.Join(sections, "\n"))
}

// renderTotals summarizes counts and pipeline value.
func (m Model) renderTotals() string {
	var active, overdue int
	var totalValue float64
	for _, r := range m.records {
		totalValue += r.TotalAmount
		if !r.Status.IsTerminal() {
			active++
		}
		if r.Status == model.StatusOverdue {
			overdue++
		}
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	line := func(label, value string) string {
		return labelStyle.Render(label) + " " + valueStyle.Render(value)
	}

	return strings.Join([]string{
		line("Orders tracked:", fmt.Sprintf("%d", len(m.records))),
		line("Active:", fmt.Sprintf("%d", active)),
		line("Overdue:", fmt.Sprintf("%d", overdue)),
		line("Pipeline value:", fmt.Sprintf("%.2f", totalValue)),
	}, "\n")
}

// renderStatusBars draws one proportional bar per status in use.
func (m Model) renderStatusBars() string {
	counts := make(map[model.Status]int)
	for _, r := range m.records {
		counts[r.Status]++
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render("By status")}
	for _, s := range model.AllStatuses {
		if counts[s] == 0 {
			continue
		}
		lines = append(lines, renderBar(
			string(s), counts[s], len(m.records),
			theme.StatusStyle(s).GetForeground(),
		))
	}
	if len(lines) == 1 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorGray).Render("no data"))
	}
	return strings.Join(lines, "\n")
}

// renderPriorityBars draws one proportional bar per priority in use.
func (m Model) renderPriorityBars() string {
	counts := make(map[model.Priority]int)
	for _, r := range m.records {
		counts[r.Priority]++
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render("By priority")}
	for _, p := range model.AllPriorities {
		if counts[p] == 0 {
			continue
		}
		lines = append(lines, renderBar(
			string(p), counts[p], len(m.records),
			theme.PriorityStyle(p).GetForeground(),
		))
	}
	if len(lines) == 1 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorGray).Render("no data"))
	}
	return strings.Join(lines, "\n")
}

// renderBar draws a single labeled proportional bar.
func renderBar(label string, count, total int, color lipgloss.TerminalColor) string {
	filled := 0
	if total > 0 {
		filled = count * barWidth / total
	}
	if count > 0 && filled == 0 {
		filled = 1
	}

	bar := lipgloss.NewStyle().Foreground(color).
		Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.ColorSubtle).
			Render(strings.Repeat("░", barWidth-filled))

	return fmt.Sprintf("%-10s %s %d", label, bar, count)
}

// renderTopAged lists the oldest non-terminal orders.
func (m Model) renderTopAged() string {
	var active []urgency.EvaluatedOrder
	for _, r := range m.records {
		if !r.Status.IsTerminal() {
			active = append(active, r)
		}
	}

	// Records arrive pipeline-ordered (oldest first), so the head of
	// the active subset is already the top-aged list.
	if len(active) > topAgedCount {
		active = active[:topAgedCount]
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render("Most aged active orders")}
	if len(active) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorGray).Render("none"))
	}
	for _, r := range active {
		tierBadge := theme.TierStyle(r.Urgency).Render(r.Urgency)
		lines = append(lines, fmt.Sprintf(
			"%4dd %s %s  %s", r.Age, tierBadge, r.PONumber, r.Vendor,
		))
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
