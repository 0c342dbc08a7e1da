// Package orderform is the create/edit form for purchase orders, built
// on huh. Field values live on the heap so huh's Value pointers stay
// valid across Bubble Tea model copies.
package orderform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/posentinel/sentinel/internal/dates"
	"github.com/posentinel/sentinel/internal/model"
	"github.com/posentinel/sentinel/internal/theme"
)

// OrderCreatedMsg is dispatched when a new order is created via the form.
type OrderCreatedMsg struct {
	Order model.PurchaseOrder
}

// OrderUpdatedMsg is dispatched when an existing order is updated via the form.
type OrderUpdatedMsg struct {
	Order model.PurchaseOrder
}

// OrderFormCancelMsg is dispatched when the user cancels the form.
type OrderFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	poNumber     string
	vendor       string
	creationDate string
	approveDate  string
	deliveryDate string
	status       string
	priority     string
	itemCode     string
	description  string
	quantity     string
	unitPrice    string
	currency     string
	notes        string
}

// Model is the Bubble Tea model for the order create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	width    int
	height   int
}

// New creates a new order form model.
func New(width, height int) Model {
	return Model{
		fb: &formBindings{
			status:   string(model.StatusPending),
			priority: string(model.PriorityMedium),
		},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new order.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{
		status:   string(model.StatusPending),
		priority: string(model.PriorityMedium),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing order.
func (m *Model) StartEdit(order model.PurchaseOrder) tea.Cmd {
	m.editMode = true
	m.editID = order.ID
	*m.fb = formBindings{
		poNumber:     order.PONumber,
		vendor:       order.Vendor,
		creationDate: order.CreationDate,
		approveDate:  order.ApproveDate,
		deliveryDate: order.DeliveryDate,
		status:       string(order.Status),
		priority:     string(order.Priority),
		itemCode:     order.ItemCode,
		description:  order.ItemDescription,
		quantity:     formatOptionalNumber(order.Quantity),
		unitPrice:    formatOptionalNumber(order.UnitPrice),
		currency:     order.Currency,
		notes:        order.Notes,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the order form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return OrderFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the order form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Purchase Order"
	if m.editMode {
		titleText = "Edit Purchase Order"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	statusOpts := make([]huh.Option[string], len(model.AllStatuses))
	for i, s := range model.AllStatuses {
		statusOpts[i] = huh.NewOption(string(s), string(s))
	}
	priorityOpts := make([]huh.Option[string], len(model.AllPriorities))
	for i, p := range model.AllPriorities {
		priorityOpts[i] = huh.NewOption(string(p), string(p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("PO Number").
				Placeholder("PO-2024-0001").
				Value(&m.fb.poNumber).
				Validate(validateRequired("PO Number")),
			huh.NewInput().
				Title("Vendor").
				Placeholder("Supplier name").
				Value(&m.fb.vendor).
				Validate(validateRequired("Vendor")),
			huh.NewInput().
				Title("Order Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.creationDate).
				Validate(validateDate("Order Date", true)),
			huh.NewInput().
				Title("Approve Date").
				Placeholder("YYYY-MM-DD (blank if not approved)").
				Value(&m.fb.approveDate).
				Validate(validateDate("Approve Date", false)),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.deliveryDate).
				Validate(validateDate("Due Date", false)),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOpts...).
				Value(&m.fb.status),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorityOpts...).
				Value(&m.fb.priority),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Item Code").
				Value(&m.fb.itemCode),
			huh.NewText().
				Title("Item Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewInput().
				Title("Quantity").
				Value(&m.fb.quantity).
				Validate(validateOptionalNumber("Quantity")),
			huh.NewInput().
				Title("Unit Price").
				Value(&m.fb.unitPrice).
				Validate(validateOptionalNumber("Unit Price")),
			huh.NewInput().
				Title("Currency").
				Placeholder("USD").
				Value(&m.fb.currency),
			huh.NewText().
				Title("Notes").
				Value(&m.fb.notes),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	quantity, _ := strconv.ParseFloat(strings.TrimSpace(m.fb.quantity), 64)
	unitPrice, _ := strconv.ParseFloat(strings.TrimSpace(m.fb.unitPrice), 64)

	order := model.PurchaseOrder{
		PONumber:        strings.TrimSpace(m.fb.poNumber),
		Vendor:          strings.TrimSpace(m.fb.vendor),
		CreationDate:    strings.TrimSpace(m.fb.creationDate),
		ApproveDate:     strings.TrimSpace(m.fb.approveDate),
		DeliveryDate:    strings.TrimSpace(m.fb.deliveryDate),
		Status:          model.ParseStatus(m.fb.status),
		Priority:        model.ParsePriority(m.fb.priority),
		ItemCode:        strings.TrimSpace(m.fb.itemCode),
		ItemDescription: strings.TrimSpace(m.fb.description),
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		TotalAmount:     quantity * unitPrice,
		Currency:        strings.TrimSpace(m.fb.currency),
		Notes:           strings.TrimSpace(m.fb.notes),
	}

	if m.editMode {
		order.ID = m.editID
		return func() tea.Msg { return OrderUpdatedMsg{Order: order} }
	}
	return func() tea.Msg { return OrderCreatedMsg{Order: order} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func formatOptionalNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

// validateDate accepts anything the normalizer can resolve, which covers
// ISO, slash, and two-digit-year forms, not just YYYY-MM-DD.
func validateDate(fieldName string, required bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if required {
				return fmt.Errorf("%s is required", fieldName)
			}
			return nil
		}
		if _, ok := dates.Normalize(s); !ok {
			return fmt.Errorf("unrecognized date, use YYYY-MM-DD")
		}
		return nil
	}
}

func validateOptionalNumber(fieldName string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("%s must be a number", fieldName)
		}
		return nil
	}
}
