// Package app is the root Bubble Tea model: view routing, global keys,
// and the glue between the store, the urgency engine, and the views.
package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	aiservice "github.com/posentinel/sentinel/internal/ai"
	"github.com/posentinel/sentinel/internal/alerts"
	"github.com/posentinel/sentinel/internal/credential"
	"github.com/posentinel/sentinel/internal/keys"
	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/notify"
	"github.com/posentinel/sentinel/internal/reminder"
	"github.com/posentinel/sentinel/internal/store"
	"github.com/posentinel/sentinel/internal/ui"
	aiview "github.com/posentinel/sentinel/internal/ui/ai"
	"github.com/posentinel/sentinel/internal/ui/alertpanel"
	"github.com/posentinel/sentinel/internal/ui/dashboard"
	"github.com/posentinel/sentinel/internal/ui/detail"
	helpview "github.com/posentinel/sentinel/internal/ui/help"
	"github.com/posentinel/sentinel/internal/ui/orderform"
	"github.com/posentinel/sentinel/internal/ui/orderlist"
	"github.com/posentinel/sentinel/internal/ui/remindermodal"
	"github.com/posentinel/sentinel/internal/urgency"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewDashboard
	ViewAlerts
	ViewAI
	ViewHelp
	ViewOrderCreate
	ViewOrderEdit
	ViewReminder
	ViewConfirm
	ViewImport
)

// confirmAction is the pending destructive action behind the confirm form.
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDelete
	confirmReset
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	cfg          *model.AppConfig
	store        store.Store
	keys         *keys.KeyMap

	engine        *urgency.Engine
	criticalTiers map[string]bool
	reconciler    *alerts.Reconciler
	notifier      notify.Notifier
	poller        *reminder.Poller
	assistant     *aiservice.Assistant

	records      []urgency.EvaluatedOrder
	alertHistory []model.Alert

	orderList     orderlist.Model
	detail        detail.Model
	dashboard     dashboard.Model
	alertPanel    alertpanel.Model
	aiView        aiview.Model
	helpView      helpview.Model
	orderForm     orderform.Model
	reminderModal remindermodal.Model

	confirmForm   *huh.Form
	confirmValue  *bool
	confirmWhat   confirmAction
	confirmTarget string

	importForm *huh.Form
	importPath *string

	dueDate       string
	statusMessage string
	ready         bool
}

// New creates the root application model from the loaded configuration
// and an opened store.
func New(cfg *model.AppConfig, s store.Store) (Model, error) {
	engine, err := urgency.NewEngine(urgency.FromAppConfig(cfg.Urgency))
	if err != nil {
		return Model{}, fmt.Errorf("building urgency engine: %w", err)
	}

	criticalTiers := urgency.CriticalTiersFromAppConfig(*cfg)
	reconciler := alerts.NewReconciler(criticalTiers, cfg.Alerts.MaxHistory)

	var notifier notify.Notifier = notify.Discard{}
	if cfg.Alerts.Desktop {
		notifier = notify.NewDesktop("Sentinel")
	}

	window := reminder.Window{
		DayOff: time.Weekday(cfg.Reminder.DayOff),
		Hour:   cfg.Reminder.Hour,
		Minute: cfg.Reminder.Minute,
	}
	poller := reminder.NewPoller(
		s, window, time.Duration(cfg.Reminder.PollIntervalSec)*time.Second,
	)

	k := keys.DefaultKeyMap()
	assistant := loadAIAssistant(cfg, s, engine)
	tierLabels := engine.Table().Labels()

	return Model{
		currentView:   ViewList,
		cfg:           cfg,
		store:         s,
		keys:          k,
		engine:        engine,
		criticalTiers: criticalTiers,
		reconciler:    reconciler,
		notifier:      notifier,
		poller:        poller,
		assistant:     assistant,
		orderList:     orderlist.New(k, tierLabels, 80, 24),
		detail:        detail.New(k, 80, 24),
		dashboard:     dashboard.New(80, 24),
		alertPanel:    alertpanel.New(k, 80, 24),
		aiView:        aiview.New(assistant, k, 80, 24),
		helpView:      helpview.New(k, 80, 24),
		orderForm:     orderform.New(80, 24),
		reminderModal: remindermodal.New(cfg.Reminder.Recipient, 80, 24),
	}, nil
}

// loadAIAssistant attempts to create an AI assistant by loading the API
// key from the environment or system keyring. Returns nil if no key is
// available.
func loadAIAssistant(
	cfg *model.AppConfig,
	s store.Store,
	engine *urgency.Engine,
) *aiservice.Assistant {
	apiKey, err := credential.Get(credential.AnthropicAPIKey)
	if err != nil || apiKey == "" {
		return nil
	}
	return aiservice.New(apiKey, s, engine, cfg.AI.Model, cfg.AI.MaxTokens)
}

// Init returns the initial commands: load data and start the reminder
// poller.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.orderList.Init(),
		m.loadOrders(),
		m.loadAlerts(),
		m.poller.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.orderList.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.dashboard.SetSize(w, h)
		m.alertPanel.SetSize(w, h)
		m.aiView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.orderForm.SetSize(w, h)
		m.reminderModal.SetSize(w, h)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case ordersLoadedMsg:
		if msg.err != nil {
			m.statusMessage = "load failed: " + msg.err.Error()
			return m, nil
		}
		m.records = msg.records
		m.dashboard.SetRecords(msg.records)
		var cmd tea.Cmd
		m.orderList, cmd = m.orderList.Update(orderlist.RecordsMsg{Records: msg.records})
		return m, tea.Batch(cmd, m.reconcileAlerts())

	case alertsLoadedMsg:
		m.alertHistory = msg.alerts
		var cmd tea.Cmd
		m.alertPanel, cmd = m.alertPanel.Update(alertpanel.AlertsMsg{Alerts: msg.alerts})
		return m, cmd

	case alertsReconciledMsg:
		if msg.err != nil {
			m.statusMessage = "alerts: " + msg.err.Error()
			return m, nil
		}
		m.alertHistory = msg.history
		var cmd tea.Cmd
		m.alertPanel, cmd = m.alertPanel.Update(alertpanel.AlertsMsg{Alerts: msg.history})
		return m, cmd

	case orderMutatedMsg:
		if msg.err != nil {
			m.statusMessage = msg.err.Error()
			return m, nil
		}
		m.statusMessage = ""
		return m, m.loadOrders()

	case importResultMsg:
		if msg.err != nil {
			m.statusMessage = "import failed: " + msg.err.Error()
			return m, nil
		}
		m.statusMessage = fmt.Sprintf("imported %d orders", msg.count)
		return m, m.loadOrders()

	case exportResultMsg:
		if msg.err != nil {
			m.statusMessage = "export failed: " + msg.err.Error()
		} else {
			m.statusMessage = "exported to " + msg.path
		}
		return m, nil

	case reminderSentMsg:
		if msg.err != nil {
			m.statusMessage = "reminder failed: " + msg.err.Error()
		} else {
			m.statusMessage = "reminder sent"
		}
		m.currentView = ViewList
		return m, nil

	case reminder.DueMsg:
		m.dueDate = msg.Date
		m.previousView = m.currentView
		m.currentView = ViewReminder
		return m, tea.Batch(
			m.reminderModal.Start(),
			m.prepareDraft(),
			m.poller.WaitForNextDue(),
		)

	case remindermodal.DraftReadyMsg:
		var cmd tea.Cmd
		m.reminderModal, cmd = m.reminderModal.Update(msg)
		return m, cmd

	case remindermodal.SendReminderMsg:
		return m, m.sendReminder(msg.Draft)

	case remindermodal.DismissReminderMsg:
		m.currentView = m.previousView
		m.statusMessage = "reminder postponed"
		return m, nil

	case orderlist.SelectedOrderMsg:
		return m.openDetail(msg.OrderID)

	case alertpanel.OpenOrderMsg:
		return m.openDetail(msg.OrderID)

	case alertpanel.MarkReadMsg:
		m.alertHistory = alerts.MarkRead(m.alertHistory, msg.AlertID)
		var cmd tea.Cmd
		m.alertPanel, cmd = m.alertPanel.Update(alertpanel.AlertsMsg{Alerts: m.alertHistory})
		return m, tea.Batch(cmd, m.markAlertRead(msg.AlertID))

	case alertpanel.ClearAlertsMsg:
		m.alertHistory = nil
		var cmd tea.Cmd
		m.alertPanel, cmd = m.alertPanel.Update(alertpanel.AlertsMsg{})
		return m, tea.Batch(cmd, m.clearAlerts())

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case detail.EditMsg:
		return m.openEditForm(msg.OrderID)

	case detail.DeleteMsg:
		return m.openConfirm(confirmDelete, msg.OrderID)

	case orderform.OrderCreatedMsg:
		m.currentView = ViewList
		return m, m.createOrder(msg.Order)

	case orderform.OrderUpdatedMsg:
		m.currentView = ViewList
		return m, m.updateOrder(msg.Order)

	case orderform.OrderFormCancelMsg:
		m.currentView = ViewList
		return m, nil

	case aiview.AIPanelCloseMsg:
		m.aiView.Reset()
		m.currentView = ViewList
		return m, nil

	case aiview.AIStreamStartedMsg, aiview.AIResponseChunkMsg:
		if m.currentView == ViewAI {
			var cmd tea.Cmd
			m.aiView, cmd = m.aiView.Update(msg)
			return m, cmd
		}
		return m, nil

	case aiview.AINavigateOrderMsg:
		return m.openDetail(msg.OrderID)

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work across views. Returns
// handled=false when the key should fall through to the active view.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.poller.Stop()
		return true, m, tea.Quit
	}

	// Text inputs and forms own the keyboard.
	switch m.currentView {
	case ViewAI, ViewOrderCreate, ViewOrderEdit, ViewConfirm, ViewImport, ViewReminder:
		return false, m, nil
	}
	if m.currentView == ViewList && m.orderList.InputActive() {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewList {
			m.poller.Stop()
			return true, m, tea.Quit
		}

	case "esc":
		if m.currentView == ViewDashboard ||
			m.currentView == ViewAlerts ||
			m.currentView == ViewHelp {
			m.currentView = ViewList
			return true, m, nil
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "d":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewDashboard
			return true, m, nil
		}

	case "g":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewAlerts
			return true, m, nil
		}

	case "a":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewAI
			return true, m, m.aiView.Focus()
		}

	case "n":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewOrderCreate
			return true, m, m.orderForm.StartCreate()
		}

	case "e":
		if m.currentView == ViewList {
			if rec, ok := m.orderList.SelectedRecord(); ok {
				mdl, cmd := m.openEditForm(rec.ID)
				return true, mdl, cmd
			}
		}

	case "x":
		if m.currentView == ViewList {
			if rec, ok := m.orderList.SelectedRecord(); ok {
				mdl, cmd := m.openConfirm(confirmDelete, rec.ID)
				return true, mdl, cmd
			}
		}

	case "i":
		if m.currentView == ViewList {
			mdl, cmd := m.openImportForm()
			return true, mdl, cmd
		}

	case "o":
		if m.currentView == ViewList {
			return true, m, m.exportVisible(m.orderList.VisibleRecords())
		}

	case "R":
		if m.currentView == ViewList {
			mdl, cmd := m.openConfirm(confirmReset, "")
			return true, mdl, cmd
		}
	}

	return false, m, nil
}

// openDetail shows the detail view for the order with the given ID.
func (m Model) openDetail(orderID string) (tea.Model, tea.Cmd) {
	for _, rec := range m.records {
		if rec.ID == orderID {
			m.detail.SetRecord(rec)
			m.previousView = m.currentView
			m.currentView = ViewDetail
			return m, nil
		}
	}
	m.statusMessage = "order not found"
	return m, nil
}

// openEditForm starts the edit form for the order with the given ID.
func (m Model) openEditForm(orderID string) (tea.Model, tea.Cmd) {
	for _, rec := range m.records {
		if rec.ID == orderID {
			m.previousView = m.currentView
			m.currentView = ViewOrderEdit
			return m, m.orderForm.StartEdit(rec.PurchaseOrder)
		}
	}
	m.statusMessage = "order not found"
	return m, nil
}

// openConfirm shows a yes/no form guarding a destructive action.
func (m Model) openConfirm(what confirmAction, target string) (tea.Model, tea.Cmd) {
	title := "Delete this order?"
	if what == confirmReset {
		title = "Reset ALL tracked orders? This cannot be undone."
	}

	m.confirmValue = new(bool)
	m.confirmWhat = what
	m.confirmTarget = target
	m.confirmForm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(m.confirmValue),
		),
	)
	m.previousView = m.currentView
	m.currentView = ViewConfirm
	return m, m.confirmForm.Init()
}

// openImportForm shows a one-field form asking for the CSV path.
func (m Model) openImportForm() (tea.Model, tea.Cmd) {
	m.importPath = new(string)
	m.importForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("CSV file to import").
				Placeholder("orders.csv").
				Value(m.importPath),
		),
	)
	m.previousView = m.currentView
	m.currentView = ViewImport
	return m, m.importForm.Init()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.orderList, cmd = m.orderList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewAlerts:
		m.alertPanel, cmd = m.alertPanel.Update(msg)
	case ViewAI:
		m.aiView, cmd = m.aiView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewOrderCreate, ViewOrderEdit:
		m.orderForm, cmd = m.orderForm.Update(msg)
	case ViewReminder:
		m.reminderModal, cmd = m.reminderModal.Update(msg)
	case ViewConfirm:
		return m.updateConfirm(msg)
	case ViewImport:
		return m.updateImport(msg)
	}

	return m, cmd
}

// updateConfirm drives the confirm form and fires the guarded action.
func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.currentView = ViewList
		return m, nil
	}

	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	if m.confirmForm.State == huh.StateAborted {
		m.currentView = m.previousView
		return m, nil
	}
	if m.confirmForm.State != huh.StateCompleted {
		return m, cmd
	}

	what, target, confirmed := m.confirmWhat, m.confirmTarget, *m.confirmValue
	m.confirmForm = nil
	m.confirmWhat = confirmNone
	m.currentView = ViewList
	if !confirmed {
		return m, nil
	}

	switch what {
	case confirmDelete:
		return m, m.deleteOrder(target)
	case confirmReset:
		return m, m.resetAll()
	}
	return m, nil
}

// updateImport drives the import path form.
func (m Model) updateImport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.importForm == nil {
		m.currentView = ViewList
		return m, nil
	}

	mdl, cmd := m.importForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.importForm = f
	}

	if m.importForm.State == huh.StateAborted {
		m.currentView = m.previousView
		return m, nil
	}
	if m.importForm.State != huh.StateCompleted {
		return m, cmd
	}

	path := *m.importPath
	m.importForm = nil
	m.currentView = ViewList
	if path == "" {
		return m, nil
	}
	return m, m.importFile(path)
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "Sentinel"
	if unread := m.alertPanel.UnreadCount(); unread > 0 {
		headerTitle = fmt.Sprintf("Sentinel [%d alerts]", unread)
	}
	header := m.layout.RenderHeader(headerTitle, m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.orderList.View()
	case ViewDetail:
		return m.detail.View()
	case ViewDashboard:
		return m.dashboard.View()
	case ViewAlerts:
		return m.alertPanel.View()
	case ViewAI:
		return m.aiView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewOrderCreate, ViewOrderEdit:
		return m.orderForm.View()
	case ViewReminder:
		return m.reminderModal.View()
	case ViewConfirm:
		if m.confirmForm != nil {
			return m.confirmForm.View()
		}
		return ""
	case ViewImport:
		if m.importForm != nil {
			return m.importForm.View()
		}
		return ""
	default:
		return ""
	}
}

// headerStatus summarizes the tracked set for the header's right side.
func (m Model) headerStatus() string {
	return fmt.Sprintf("%d orders", len(m.records))
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMessage != "" && m.currentView == ViewList {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "esc back | e edit | x delete | j/k scroll"
	case ViewDashboard:
		return "esc back | d list"
	case ViewAlerts:
		return "m mark read | C clear all | enter open order | esc back"
	case ViewAI:
		return "enter send | esc close"
	case ViewOrderCreate, ViewOrderEdit:
		return "enter next | shift+tab back | esc cancel"
	case ViewReminder:
		return "enter send | esc later"
	case ViewConfirm, ViewImport:
		return "enter confirm | esc cancel"
	default:
		if summary := m.orderList.FilterSummary(); summary != "" {
			return summary + " | c clear"
		}
		return "q quit | ? help | n new | / search | s status | u urgency | b range | d dashboard | g alerts"
	}
}
