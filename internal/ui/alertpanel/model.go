// Package alertpanel lists the deduplicated urgency alerts, newest first,
// with mark-read and clear-all actions.
package alertpanel

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/posentinel/sentinel/internal/keys"
	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/theme"
)

// AlertsMsg delivers the current alert history to the panel.
type AlertsMsg struct {
	Alerts []model.Alert
}

// MarkReadMsg asks the app to persist a read flag for one alert.
type MarkReadMsg struct {
	AlertID string
}

// ClearAlertsMsg asks the app to wipe the alert history.
type ClearAlertsMsg struct{}

// OpenOrderMsg asks the app to jump to the order behind an alert.
type OpenOrderMsg struct {
	OrderID string
}

// alertItem wraps an alert for bubbles/list.
type alertItem struct {
	alert model.Alert
}

func (i alertItem) FilterValue() string { return i.alert.PONumber }
func (i alertItem) Title() string       { return i.alert.Title }
func (i alertItem) Description() string { return i.alert.Message }

// alertDelegate renders one alert per row pair.
type alertDelegate struct{}

func (d alertDelegate) Height() int                             { return 2 }
func (d alertDelegate) Spacing() int                            { return 1 }
func (d alertDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render draws an alert: severity badge, title, then the message line.
func (d alertDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ai, ok := item.(alertItem)
	if !ok {
		return
	}

	a := ai.alert
	isSelected := index == m.Index()

	badge := severityStyle(a.Severity).Render(string(a.Severity))
	title := lipgloss.NewStyle().Bold(true).Render(a.Title)
	if !a.Read {
		title = theme.UnreadBadgeStyle.Render("●") + " " + title
	}
	stamp := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(a.CreatedAt.Format("2006-01-02 15:04"))

	first := fmt.Sprintf("%s %s  %s", badge, title, stamp)
	second := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(a.Message)

	line := lipgloss.JoinVertical(lipgloss.Left, first, second)
	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// severityStyle maps an alert severity to a badge style.
func severityStyle(s model.Severity) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch s {
	case model.SeverityCritical:
		return base.Foreground(theme.ColorWhite).Background(theme.ColorRed)
	case model.SeverityWarning:
		return base.Foreground(theme.ColorOrange)
	default:
		return base.Foreground(theme.ColorBlue)
	}
}

// Model is the alert history view component.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	alerts []model.Alert
	width  int
	height int
}

// New creates a new alert panel model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, alertDelegate{}, width, height)
	l.Title = "Alerts"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{list: l, keys: k, width: width, height: height}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the alert panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case AlertsMsg:
		m.alerts = msg.Alerts
		items := make([]list.Item, len(msg.Alerts))
		for i, a := range msg.Alerts {
			items[i] = alertItem{alert: a}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.MarkRead):
			item, ok := m.list.SelectedItem().(alertItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return MarkReadMsg{AlertID: item.alert.ID}
			}

		case key.Matches(msg, m.keys.ClearAlerts):
			if len(m.alerts) == 0 {
				return m, nil
			}
			return m, func() tea.Msg { return ClearAlertsMsg{} }

		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(alertItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return OpenOrderMsg{OrderID: item.alert.OrderID}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// UnreadCount returns the number of unacknowledged alerts, shown as the
// header badge.
func (m Model) UnreadCount() int {
	n := 0
	for _, a := range m.alerts {
		if !a.Read {
			n++
		}
	}
	return n
}

// View renders the alert panel.
func (m Model) View() string {
	if len(m.alerts) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No alerts. Aged orders will surface here.")
	}
	return m.list.View()
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
