package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// View modes
	ViewBoth  key.Binding
	ViewLeft  key.Binding
	ViewRight key.Binding

	// Grid
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	MoreColumns  key.Binding
	FewerColumns key.Binding
	ToggleDates  key.Binding

	// Periods and timeline
	PrevPeriod   key.Binding
	NextPeriod   key.Binding
	PeriodPicker key.Binding
	ScrubUp      key.Binding
	ScrubDown    key.Binding
	Collections  key.Binding

	// Pickers
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Switch pane"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close overlay"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh now"),
		),

		// View modes
		ViewBoth: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Both panes"),
		),
		ViewLeft: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Left pane only"),
		),
		ViewRight: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Right pane only"),
		),

		// Grid
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Row up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Row down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		MoreColumns: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "More columns"),
		),
		FewerColumns: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Fewer columns"),
		),
		ToggleDates: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Toggle dates"),
		),

		// Periods and timeline
		PrevPeriod: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Newer month"),
		),
		NextPeriod: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Older month"),
		),
		PeriodPicker: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("o", "Pick month"),
		),
		ScrubUp: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "Timeline up"),
		),
		ScrubDown: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "Timeline down"),
		),
		Collections: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Pick collection"),
		),

		// Pickers
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Grid
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.PageUp, k.PageDown, k.HalfPageDown, k.HalfPageUp},
		{k.MoreColumns, k.FewerColumns, k.ToggleDates},
		// Dates
		{k.PrevPeriod, k.NextPeriod, k.PeriodPicker, k.ScrubUp, k.ScrubDown},
		// Panes
		{k.Tab, k.ViewBoth, k.ViewLeft, k.ViewRight, k.Collections},
		// General
		{k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
