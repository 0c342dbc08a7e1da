// Package detail renders a single evaluated purchase order in full.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/posentinel/sentinel/internal/dates"
	"github.com/posentinel/sentinel/internal/keys"
	"github.com/posentinel/sentinel/internal/theme"
	"github.com/posentinel/sentinel/internal/urgency"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// EditMsg signals the parent to open the edit form for the current order.
type EditMsg struct {
	OrderID string
}

// DeleteMsg signals the parent to delete the current order.
type DeleteMsg struct {
	OrderID string
}

// Model is the order detail view component.
type Model struct {
	record   *urgency.EvaluatedOrder
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Edit):
			if m.record != nil {
				id := m.record.ID
				return m, func() tea.Msg {
					return EditMsg{OrderID: id}
				}
			}

		case key.Matches(msg, m.keys.Delete):
			if m.record != nil {
				id := m.record.ID
				return m, func() tea.Msg {
					return DeleteMsg{OrderID: id}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.record == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No order selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.record == nil {
		return ""
	}

	rec := m.record
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(rec.PONumber))

	// Badges line: urgency tier + status + priority
	tierBadge := theme.TierStyle(rec.Urgency).Render(rec.Urgency)
	statusBadge := theme.StatusStyle(rec.Status).Render(string(rec.Status))
	priBadge := theme.PriorityStyle(rec.Priority).Render(string(rec.Priority))

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, tierBadge, "  ", statusBadge, "  ", priBadge,
	)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	row := func(label, value string) {
		if value == "" {
			return
		}
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			metaStyle.Render(fmt.Sprintf("%-12s", label)),
			valStyle.Render(value),
		))
	}

	row("Vendor:", rec.Vendor)
	row("Age:", fmt.Sprintf("%d days", rec.Age))
	row("Ordered:", dates.Display(rec.CreationDate))
	if rec.ApproveDate != "" {
		row("Approved:", dates.Display(rec.ApproveDate))
	} else {
		row("Approved:", "pending approval")
	}
	row("Due:", dates.Display(rec.DeliveryDate))

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	itemHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, itemHeaderStyle.Render("Line Item"))

	row("Item code:", rec.ItemCode)
	if rec.Quantity != 0 {
		qty := fmt.Sprintf("%g", rec.Quantity)
		if rec.UOM != "" {
			qty += " " + rec.UOM
		}
		row("Quantity:", qty)
	}
	if rec.PendingQuantity != 0 {
		row("Pending:", fmt.Sprintf("%g", rec.PendingQuantity))
	}
	if rec.UnitPrice != 0 {
		row("Unit price:", fmt.Sprintf("%s %.2f", rec.Currency, rec.UnitPrice))
	}
	if rec.TotalAmount != 0 {
		row("Total:", fmt.Sprintf("%s %.2f", rec.Currency, rec.TotalAmount))
	}

	desc := rec.ItemDescription
	if desc == "" {
		desc = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, "")
	sections = append(sections, desc)

	if rec.Notes != "" {
		sections = append(sections, "")
		sections = append(sections, separator)
		sections = append(sections, "")
		sections = append(sections, itemHeaderStyle.Render("Notes"))
		sections = append(sections, rec.Notes)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetRecord updates the order being displayed and re-renders the content.
func (m *Model) SetRecord(rec urgency.EvaluatedOrder) {
	m.record = &rec
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.record != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
