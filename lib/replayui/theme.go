// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replayui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the session browser and replay
// overlay. All colors use lipgloss ANSI 256-color codes for broad
// terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Transcript roles.
	UserText      lipgloss.Color
	AssistantText lipgloss.Color
	ThinkingText  lipgloss.Color
	ToolText      lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Replay progress.
	ProgressFilled lipgloss.Color
	ProgressEmpty  lipgloss.Color
	NoticeText     lipgloss.Color

	// Filter match highlighting.
	MatchBackground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	UserText:      lipgloss.Color("114"), // green
	AssistantText: lipgloss.Color("252"), // normal
	ThinkingText:  lipgloss.Color("141"), // light purple
	ToolText:      lipgloss.Color("220"), // amber

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	ProgressFilled: lipgloss.Color("114"),
	ProgressEmpty:  lipgloss.Color("240"),
	NoticeText:     lipgloss.Color("175"), // magenta

	MatchBackground: lipgloss.Color("58"),
}
