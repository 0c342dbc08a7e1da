// Package orderlist is the main table view: the filtered order set in
// fixed oldest-first order, with search, status, urgency, and date-range
// predicates cycled from the keyboard.
package orderlist

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/posentinel/sentinel/internal/dates"
	"github.com/posentinel/sentinel/internal/keys"
	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/pipeline"
	"github.com/posentinel/sentinel/internal/theme"
	"github.com/posentinel/sentinel/internal/urgency"
)

// RecordsMsg delivers a freshly evaluated order set to the list.
type RecordsMsg struct {
	Records []urgency.EvaluatedOrder
}

// SelectedOrderMsg is sent when the user opens an order.
type SelectedOrderMsg struct {
	OrderID string
}

// dateFields is the cycle order for the range-filter date field.
var dateFields = []pipeline.DateField{
	pipeline.DateFieldCreation,
	pipeline.DateFieldApproval,
	pipeline.DateFieldDelivery,
}

// Model is the order table view component.
type Model struct {
	list       list.Model
	keys       *keys.KeyMap
	records    []urgency.EvaluatedOrder
	spec       pipeline.FilterSpec
	tierLabels []string

	statusIndex  int // 0 = all, i>0 = AllStatuses[i-1]
	urgencyIndex int // 0 = all, i>0 = tierLabels[i-1]
	fieldIndex   int

	searchMode  bool
	searchInput textinput.Model
	rangeMode   bool
	rangeInput  textinput.Model

	width  int
	height int
}

// New creates a new order list model. tierLabels is the active table's
// label set, used for the urgency filter cycle.
func New(k *keys.KeyMap, tierLabels []string, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Purchase Orders"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search vendor, PO number, item code..."
	si.Prompt = "/ "
	si.Width = width - 4

	ri := textinput.New()
	ri.Placeholder = "YYYY-MM-DD YYYY-MM-DD (either may be blank)"
	ri.Prompt = "range: "
	ri.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		tierLabels:  tierLabels,
		spec:        pipeline.FilterSpec{DateField: pipeline.DateFieldCreation},
		searchInput: si,
		rangeInput:  ri,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the order list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RecordsMsg:
		m.records = msg.Records
		return m, m.applyFilter()

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		if m.rangeMode {
			return m.handleRangeKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.spec.Search = strings.TrimSpace(m.searchInput.Value())
		return m, m.applyFilter()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.spec.Search = ""
		return m, m.applyFilter()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleRangeKeys processes key input while entering a date range.
func (m Model) handleRangeKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.rangeMode = false
		m.spec.Start, m.spec.End = parseRange(m.rangeInput.Value())
		return m, m.applyFilter()

	case "esc":
		m.rangeMode = false
		m.rangeInput.Reset()
		m.spec.Start, m.spec.End = nil, nil
		return m, m.applyFilter()
	}

	var cmd tea.Cmd
	m.rangeInput, cmd = m.rangeInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(OrderItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedOrderMsg{OrderID: item.Record.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		m.searchInput.SetValue(m.spec.Search)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleStatus):
		m.statusIndex = (m.statusIndex + 1) % (len(model.AllStatuses) + 1)
		if m.statusIndex == 0 {
			m.spec.Status = nil
		} else {
			status := model.AllStatuses[m.statusIndex-1]
			m.spec.Status = &status
		}
		return m, m.applyFilter()

	case key.Matches(msg, m.keys.CycleUrgency):
		m.urgencyIndex = (m.urgencyIndex + 1) % (len(m.tierLabels) + 1)
		if m.urgencyIndex == 0 {
			m.spec.Urgency = nil
		} else {
			label := m.tierLabels[m.urgencyIndex-1]
			m.spec.Urgency = &label
		}
		return m, m.applyFilter()

	case key.Matches(msg, m.keys.CycleDateField):
		m.fieldIndex = (m.fieldIndex + 1) % len(dateFields)
		m.spec.DateField = dateFields[m.fieldIndex]
		return m, m.applyFilter()

	case key.Matches(msg, m.keys.ClearFilters):
		m.spec = pipeline.FilterSpec{DateField: pipeline.DateFieldCreation}
		m.statusIndex = 0
		m.urgencyIndex = 0
		m.fieldIndex = 0
		m.searchInput.Reset()
		m.rangeInput.Reset()
		return m, m.applyFilter()
	}

	if msg.String() == "b" {
		m.rangeMode = true
		return m, m.rangeInput.Focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// parseRange reads up to two space-separated dates; a missing or
// unparseable token leaves that bound open.
func parseRange(raw string) (start, end *time.Time) {
	fields := strings.Fields(raw)
	if len(fields) > 0 {
		if t, ok := dates.Normalize(fields[0]); ok {
			start = &t
		}
	}
	if len(fields) > 1 {
		if t, ok := dates.Normalize(fields[1]); ok {
			end = &t
		}
	}
	return start, end
}

// applyFilter re-runs the pipeline over the current records and spec.
func (m *Model) applyFilter() tea.Cmd {
	visible := pipeline.Query(m.records, m.spec)
	items := make([]list.Item, len(visible))
	for i, rec := range visible {
		items[i] = OrderItem{Record: rec}
	}
	return m.list.SetItems(items)
}

// VisibleRecords returns the currently filtered view in display order,
// the shape the exporter consumes.
func (m Model) VisibleRecords() []urgency.EvaluatedOrder {
	items := m.list.Items()
	records := make([]urgency.EvaluatedOrder, 0, len(items))
	for _, it := range items {
		if oi, ok := it.(OrderItem); ok {
			records = append(records, oi.Record)
		}
	}
	return records
}

// SelectedRecord returns the order under the cursor.
func (m Model) SelectedRecord() (urgency.EvaluatedOrder, bool) {
	item, ok := m.list.SelectedItem().(OrderItem)
	if !ok {
		return urgency.EvaluatedOrder{}, false
	}
	return item.Record, true
}

// InputActive reports whether a text input currently owns the keyboard,
// so global shortcuts must not fire.
func (m Model) InputActive() bool {
	return m.searchMode || m.rangeMode
}

// FilterSummary describes the active predicates for the status bar.
func (m Model) FilterSummary() string {
	var parts []string
	if m.spec.Search != "" {
		parts = append(parts, "search: "+m.spec.Search)
	}
	if m.spec.Status != nil {
		parts = append(parts, "status: "+string(*m.spec.Status))
	}
	if m.spec.Urgency != nil {
		parts = append(parts, "urgency: "+*m.spec.Urgency)
	}
	if m.spec.Start != nil || m.spec.End != nil {
		bound := string(m.spec.DateField) + ": "
		if m.spec.Start != nil {
			bound += dates.Format(*m.spec.Start)
		}
		bound += ".."
		if m.spec.End != nil {
			bound += dates.Format(*m.spec.End)
		}
		parts = append(parts, bound)
	}
	return strings.Join(parts, " | ")
}

// View renders the order list view.
func (m Model) View() string {
	if m.searchMode {
		bar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, bar, m.list.View())
	}
	if m.rangeMode {
		bar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.rangeInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, bar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no orders are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if !m.spec.IsZero() {
		return style.Render("No matching orders.\nPress c to clear filters.")
	}

	return style.Render(
		"No purchase orders tracked yet.\n\n" +
			"Press n to create one, or i to import a CSV file.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
	m.rangeInput.Width = width - 4
}
