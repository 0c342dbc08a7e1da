package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	aiservice "github.com/posentinel/sentinel/internal/ai"
	"github.com/posentinel/sentinel/internal/credential"
	"github.com/posentinel/sentinel/internal/email"
	"github.com/posentinel/sentinel/internal/exporter"
	"github.com/posentinel/sentinel/internal/importer"
	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/pipeline"
	"github.com/posentinel/sentinel/internal/reminder"
	"github.com/posentinel/sentinel/internal/ui/remindermodal"
	"github.com/posentinel/sentinel/internal/urgency"
)

// ordersLoadedMsg carries the freshly evaluated, pipeline-ordered set.
type ordersLoadedMsg struct {
	records []urgency.EvaluatedOrder
	err     error
}

// alertsLoadedMsg carries the persisted alert history.
type alertsLoadedMsg struct {
	alerts []model.Alert
}

// alertsReconciledMsg carries the merged history after an evaluation pass.
type alertsReconciledMsg struct {
	history []model.Alert
	err     error
}

// orderMutatedMsg reports the outcome of a create/update/delete/reset.
type orderMutatedMsg struct {
	err error
}

// importResultMsg reports the outcome of a CSV import.
type importResultMsg struct {
	count int
	err   error
}

// exportResultMsg reports the outcome of a CSV export.
type exportResultMsg struct {
	path string
	err  error
}

// reminderSentMsg reports the outcome of a reminder dispatch.
type reminderSentMsg struct {
	err error
}

// loadOrders reads the stored set and evaluates it as of today. The
// result is pipeline-ordered (oldest first) so every consumer shares
// the same fixed ordering.
func (m Model) loadOrders() tea.Cmd {
	s := m.store
	engine := m.engine
	return func() tea.Msg {
		orders, err := s.GetOrders(context.Background())
		if err != nil {
			return ordersLoadedMsg{err: err}
		}
		evaluated := engine.EvaluateAll(orders, time.Now())
		return ordersLoadedMsg{
			records: pipeline.Query(evaluated, pipeline.FilterSpec{}),
		}
	}
}

// loadAlerts reads the persisted alert history.
func (m Model) loadAlerts() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		history, err := s.GetAlerts(context.Background())
		if err != nil {
			return alertsLoadedMsg{}
		}
		return alertsLoadedMsg{alerts: history}
	}
}

// reconcileAlerts merges alert candidates from the current records into
// the history, persists the result, and fires one desktop popup per
// newly created alert.
func (m Model) reconcileAlerts() tea.Cmd {
	s := m.store
	reconciler := m.reconciler
	notifier := m.notifier
	records := m.records
	existing := m.alertHistory
	return func() tea.Msg {
		history, created := reconciler.Reconcile(records, existing, time.Now())
		if len(created) == 0 {
			return alertsReconciledMsg{history: history}
		}

		if err := s.SaveAlerts(context.Background(), history); err != nil {
			return alertsReconciledMsg{history: existing, err: err}
		}
		for _, a := range created {
			_ = notifier.Notify(a.Title, a.Message)
		}
		return alertsReconciledMsg{history: history}
	}
}

// createOrder persists a new order.
func (m Model) createOrder(order model.PurchaseOrder) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return orderMutatedMsg{err: s.CreateOrder(context.Background(), order)}
	}
}

// updateOrder persists an edited order, carrying over stored fields the
// form does not expose.
func (m Model) updateOrder(order model.PurchaseOrder) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		existing, err := s.GetOrderByID(context.Background(), order.ID)
		if err != nil {
			return orderMutatedMsg{err: err}
		}
		order.UOM = existing.UOM
		order.PendingQuantity = existing.PendingQuantity
		return orderMutatedMsg{err: s.UpdateOrder(context.Background(), order)}
	}
}

// deleteOrder removes an order by ID.
func (m Model) deleteOrder(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return orderMutatedMsg{err: s.DeleteOrder(context.Background(), id)}
	}
}

// resetAll wipes the tracked order set and the alert history.
func (m Model) resetAll() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if err := s.ReplaceOrders(context.Background(), nil); err != nil {
			return orderMutatedMsg{err: err}
		}
		return orderMutatedMsg{err: s.ClearAlerts(context.Background())}
	}
}

// importFile parses a CSV file and prepends its orders to the stored set.
func (m Model) importFile(path string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		orders, err := importer.ReadFile(path, time.Now())
		if err != nil {
			return importResultMsg{err: err}
		}
		if err := s.AppendOrders(context.Background(), orders); err != nil {
			return importResultMsg{err: err}
		}
		return importResultMsg{count: len(orders)}
	}
}

// exportVisible writes the current filtered view to a dated CSV file.
func (m Model) exportVisible(records []urgency.EvaluatedOrder) tea.Cmd {
	return func() tea.Msg {
		path := exporter.DefaultFilename(time.Now())
		if err := exporter.WriteFile(path, records); err != nil {
			return exportResultMsg{err: err}
		}
		return exportResultMsg{path: path}
	}
}

// markAlertRead persists the read flag for one alert.
func (m Model) markAlertRead(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_ = s.MarkAlertRead(context.Background(), id)
		return nil
	}
}

// clearAlerts wipes the persisted alert history.
func (m Model) clearAlerts() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		_ = s.ClearAlerts(context.Background())
		return nil
	}
}

// prepareDraft builds the reminder email draft: AI-generated when an
// assistant is configured, static otherwise.
func (m Model) prepareDraft() tea.Cmd {
	assistant := m.assistant
	recipient := m.cfg.Reminder.Recipient
	critical := aiservice.CriticalForReport(m.records, m.criticalTiers)
	return func() tea.Msg {
		draft := aiservice.StaticDraft(time.Now())
		if assistant != nil {
			draft = assistant.DraftReminder(context.Background(), critical, recipient)
		}
		return remindermodal.DraftReadyMsg{
			Draft:         draft,
			CriticalCount: len(critical),
		}
	}
}

// sendReminder dispatches the draft over SMTP and, on success, records
// today as sent so the gate stays closed until tomorrow.
func (m Model) sendReminder(draft aiservice.Draft) tea.Cmd {
	s := m.store
	poller := m.poller
	cfg := m.cfg
	date := m.dueDate
	return func() tea.Msg {
		password, _ := credential.Get(credential.SMTPPassword)
		client := email.NewClient(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, password, cfg.SMTP.From,
		)
		if err := client.Send(cfg.Reminder.Recipient, draft.Subject, draft.Body); err != nil {
			return reminderSentMsg{err: err}
		}

		if date == "" {
			date = time.Now().Format(reminder.DateFormat)
		}
		poller.MarkFired(date)
		if err := s.SetLastReminder(context.Background(), date); err != nil {
			return reminderSentMsg{err: err}
		}
		return reminderSentMsg{}
	}
}
