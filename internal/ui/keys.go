package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the settings screen.
type keyMap struct {
	// Global
	Cancel     key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Focus
	NextField key.Binding
	PrevField key.Binding

	// Selectors
	PrevOption key.Binding
	NextOption key.Binding

	// Actions
	Confirm        key.Binding
	SwitchAccount  key.Binding
	ReloadPrinters key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c", "q"),
			key.WithHelp("esc/q", "Cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down", "j"),
			key.WithHelp("tab/j", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up", "k"),
			key.WithHelp("shift+tab/k", "Previous field"),
		),

		PrevOption: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("h/left", "Previous option"),
		),
		NextOption: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("l/right", "Next option"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Link printer"),
		),
		SwitchAccount: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Switch account"),
		),
		ReloadPrinters: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload printers"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.NextOption, k.Confirm, k.Help, k.Cancel}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.PrevOption, k.NextOption},
		{k.Confirm, k.SwitchAccount, k.ReloadPrinters},
		{k.CycleTheme, k.Help, k.Cancel},
	}
}
