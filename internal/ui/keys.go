package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application. Handlers dispatch
// through key.Matches on these bindings, and the help overlay renders their
// help text, so a binding changed here changes both.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// View switching
	ViewUpload  key.Binding
	ViewResults key.Binding
	ViewLog     key.Binding

	// Upload actions
	SwitchFocus key.Binding
	Confirm     key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Player actions
	PlayPause  key.Binding
	Mute       key.Binding
	SeekBack   key.Binding
	SeekAhead  key.Binding
	Restart    key.Binding
	Fullscreen key.Binding
	OpenPlayer key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle this help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle color theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "Back"),
		),

		// View switching
		ViewUpload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Upload a video"),
		),
		ViewResults: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Last analysis results"),
		),
		ViewLog: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Client log"),
		),

		// Upload actions
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("Tab", "Switch between file input and sample list"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "Start the analysis"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("j/k", "Move up/down"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/k", "Move up/down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g/G", "Go to top/bottom"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("g/G", "Go to top/bottom"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+d/u", "Half page down/up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d/u", "Half page down/up"),
		),

		// Player actions
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Play / pause"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Mute / unmute"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "Seek 5 seconds"),
		),
		SeekAhead: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("←/→", "Seek 5 seconds"),
		),
		Restart: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "Restart from the beginning"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Fullscreen"),
		),
		OpenPlayer: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Open the annotated footage"),
		),
	}
}
