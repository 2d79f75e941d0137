// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replayui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the session browser.
type KeyMap struct {
	// Navigation (list movement or viewer scrolling depending on the
	// active screen).
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Action cycling in the list footer (View / Replay / Resume).
	ActionLeft  key.Binding
	ActionRight key.Binding

	// Select the highlighted session with the current action.
	Select key.Binding

	// Back to the previous screen (viewer → list). In the list,
	// clears the filter first; with no filter it quits.
	Back key.Binding

	// Filter.
	FilterActivate key.Binding

	// Scope toggle: this project / all sessions.
	ToggleScope key.Binding

	// Replay overlay.
	Advance key.Binding // Manual step when auto-advance is off.
	Cancel  key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	ActionLeft: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "action"),
	),
	ActionRight: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "action"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	ToggleScope: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "scope"),
	),
	Advance: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "advance"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
