package orderlist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/posentinel/sentinel/internal/dates"
	"github.com/posentinel/sentinel/internal/theme"
	"github.com/posentinel/sentinel/internal/urgency"
)

// OrderItem wraps an evaluated order so it can be used in a bubbles/list.
type OrderItem struct {
	Record urgency.EvaluatedOrder
}

// FilterValue returns the string used for fuzzy filtering.
func (i OrderItem) FilterValue() string { return i.Record.PONumber }

// Title returns the PO number for the list.
func (i OrderItem) Title() string { return i.Record.PONumber }

// Description returns a short summary line for the list.
func (i OrderItem) Description() string {
	return fmt.Sprintf("%s | %s | %dd", i.Record.Vendor, i.Record.Status, i.Record.Age)
}

// ItemDelegate implements list.ItemDelegate for rendering order rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single order row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	oi, ok := item.(OrderItem)
	if !ok {
		return
	}

	rec := oi.Record
	isSelected := index == m.Index()

	tierBadge := theme.TierStyle(rec.Urgency).Render(rec.Urgency)
	statusBadge := theme.StatusStyle(rec.Status).Render(string(rec.Status))
	priBadge := theme.PriorityStyle(rec.Priority).Render(string(rec.Priority)[:1])

	ageStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("%4dd", rec.Age))

	dueStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render("due " + dates.Display(rec.DeliveryDate))

	amountStr := ""
	if rec.TotalAmount != 0 {
		amountStr = lipgloss.NewStyle().
			Foreground(theme.ColorGreen).
			Render(fmt.Sprintf(" %s %.2f", rec.Currency, rec.TotalAmount))
	}

	line := fmt.Sprintf(
		"%s %s %s %s  %s %s %s%s",
		tierBadge, statusBadge, priBadge, rec.PONumber,
		rec.Vendor, ageStr, dueStr, amountStr,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
