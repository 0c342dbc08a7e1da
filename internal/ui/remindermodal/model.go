// Package remindermodal previews the daily reminder email before it is
// sent: a spinner while the draft is prepared, then subject, body, and
// send/later actions.
package remindermodal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/posentinel/sentinel/internal/ai"
	"github.com/posentinel/sentinel/internal/theme"
)

// DraftReadyMsg delivers the prepared reminder draft to the modal.
type DraftReadyMsg struct {
	Draft         ai.Draft
	CriticalCount int
}

// SendReminderMsg asks the app to send the previewed draft.
type SendReminderMsg struct {
	Draft ai.Draft
}

// DismissReminderMsg asks the app to close the modal without sending.
// Snooze controls whether the reminder stays eligible to fire again today.
type DismissReminderMsg struct {
	Snooze bool
}

// Model is the reminder preview modal.
type Model struct {
	spinner   spinner.Model
	draft     ai.Draft
	recipient string
	critical  int
	drafting  bool
	width     int
	height    int
}

// New creates a new reminder modal.
func New(recipient string, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		spinner:   sp,
		recipient: recipient,
		width:     width,
		height:    height,
	}
}

// Start puts the modal into the drafting state and spins up the spinner.
func (m *Model) Start() tea.Cmd {
	m.drafting = true
	m.draft = ai.Draft{}
	m.critical = 0
	return m.spinner.Tick
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the reminder modal.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DraftReadyMsg:
		m.drafting = false
		m.draft = msg.Draft
		m.critical = msg.CriticalCount
		return m, nil

	case spinner.TickMsg:
		if !m.drafting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.drafting {
			if msg.String() == "esc" {
				return m, func() tea.Msg {
					return DismissReminderMsg{Snooze: true}
				}
			}
			return m, nil
		}

		switch msg.String() {
		case "enter", "s":
			draft := m.draft
			return m, func() tea.Msg {
				return SendReminderMsg{Draft: draft}
			}
		case "esc", "l":
			return m, func() tea.Msg {
				return DismissReminderMsg{Snooze: true}
			}
		}
	}

	return m, nil
}

// View renders the reminder modal.
func (m Model) View() string {
	var body string
	if m.drafting {
		body = m.spinner.View() + " Preparing the daily reminder..."
	} else {
		body = m.renderPreview()
	}

	panel := theme.DetailPanelStyle.
		Width(min(m.width-8, 90)).
		Render(body)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		panel,
	)
}

// renderPreview shows the draft with its send/later hint line.
func (m Model) renderPreview() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	hintStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)

	sections := []string{
		titleStyle.Render("Daily Reminder"),
		"",
		labelStyle.Render("To:      ") + m.recipient,
		labelStyle.Render("Subject: ") + m.draft.Subject,
		labelStyle.Render(fmt.Sprintf("Orders:  %d requiring attention", m.critical)),
		"",
		m.draft.Body,
		"",
		hintStyle.Render("enter/s send    esc/l later"),
	}

	return strings.Join(sections, "\n")
}

// Drafting reports whether the modal is still waiting for a draft.
func (m Model) Drafting() bool {
	return m.drafting
}

// SetSize updates the modal dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
