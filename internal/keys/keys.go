package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Help toggle
	Help key.Binding

	// Views
	Dashboard key.Binding
	Alerts    key.Binding
	AI        key.Binding

	// Order actions
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Filters
	CycleStatus    key.Binding
	CycleUrgency   key.Binding
	CycleDateField key.Binding
	ClearFilters   key.Binding

	// Data exchange
	Import key.Binding
	Export key.Binding
	Reset  key.Binding

	// Alert actions
	MarkRead    key.Binding
	ClearAlerts key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dashboard"),
		),
		Alerts: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "alerts"),
		),
		AI: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "AI panel"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new order"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit order"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete order"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle status filter"),
		),
		CycleUrgency: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "cycle urgency filter"),
		),
		CycleDateField: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle date field"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import CSV"),
		),
		Export: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "export CSV"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset all data"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark alert read"),
		),
		ClearAlerts: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear alerts"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.CycleStatus, k.CycleUrgency, k.CycleDateField, k.ClearFilters},
		{k.New, k.Edit, k.Delete, k.Import, k.Export, k.Reset},
		{k.Dashboard, k.Alerts, k.AI, k.MarkRead, k.ClearAlerts, k.Help},
	}
}
