// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replayui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/rewindlabs/rewind/lib/fuzzy"
	"github.com/rewindlabs/rewind/lib/sessionindex"
)

// Action is what Enter does to the highlighted session.
type Action int

const (
	// ActionView opens the transcript viewer.
	ActionView Action = iota
	// ActionReplay starts a segmented replay into the live session.
	ActionReplay
	// ActionResume requests a server-side resume with the stored
	// provider token. Only offered when the session has one.
	ActionResume

	actionCount
)

// String names the action for the footer.
func (action Action) String() string {
	switch action {
	case ActionView:
		return "View"
	case ActionReplay:
		return "Replay"
	case ActionResume:
		return "Resume"
	default:
		return "?"
	}
}

// listRow pairs a session with its fuzzy match state while a filter
// is active.
type listRow struct {
	meta      sessionindex.Meta
	label     string
	score     int
	positions []int
}

// buildRows applies the scope and filter to the full session set.
// With a filter query, rows are ordered by match score; otherwise the
// scan order (newest first) is kept.
func buildRows(sessions []sessionindex.Meta, showAll bool, projectRoot, query string) []listRow {
	scoped := sessionindex.WithUserMessages(sessions)
	if !showAll {
		scoped = sessionindex.ForProject(scoped, projectRoot)
	}

	var rows []listRow
	if query == "" {
		for _, meta := range scoped {
			rows = append(rows, listRow{meta: meta, label: sessionindex.FormatLabel(meta)})
		}
		return rows
	}

	pattern := []rune(query)
	slab := fuzzy.NewSlab()
	for _, meta := range scoped {
		label := sessionindex.FormatLabel(meta)
		match := fuzzy.Match(label, pattern, slab)
		if match.Score <= 0 {
			continue
		}
		rows = append(rows, listRow{
			meta:      meta,
			label:     label,
			score:     match.Score,
			positions: match.Positions,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].score > rows[j].score
	})
	return rows
}

// renderListRow styles one row, highlighting fuzzy match positions
// and inverting the selected row.
func renderListRow(row listRow, selected bool, theme Theme, width int) string {
	positions := make(map[int]bool, len(row.positions))
	for _, position := range row.positions {
		positions[position] = true
	}

	base := lipgloss.NewStyle().Foreground(theme.NormalText)
	match := lipgloss.NewStyle().Foreground(theme.NormalText).Background(theme.MatchBackground)
	if selected {
		base = base.Foreground(theme.SelectedForeground).Background(theme.SelectedBackground)
		match = match.Foreground(theme.SelectedForeground)
	}

	var out strings.Builder
	if selected {
		out.WriteString(base.Render("> "))
	} else {
		out.WriteString(base.Render("  "))
	}
	for index, r := range []rune(row.label) {
		if positions[index] {
			out.WriteString(match.Render(string(r)))
		} else {
			out.WriteString(base.Render(string(r)))
		}
	}
	return ansi.Truncate(out.String(), width, "…")
}

// listFooter renders the action selector and key hints.
func listFooter(model Model) string {
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	selectedStyle := lipgloss.NewStyle().
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.SelectedBackground)

	resumable := false
	if row, ok := model.selectedRow(); ok {
		resumable = row.meta.ProviderToken != ""
	}

	var parts []string
	for action := ActionView; action < actionCount; action++ {
		name := " " + action.String() + " "
		switch {
		case action == model.action:
			parts = append(parts, selectedStyle.Render(name))
		case action == ActionResume && !resumable:
			parts = append(parts, help.Render(name))
		default:
			parts = append(parts, name)
		}
	}

	scope := "this project"
	if model.showAll {
		scope = "all sessions"
	}
	hints := fmt.Sprintf("  ←/→ action · Enter select · / filter · a scope (%s) · q quit", scope)
	return strings.Join(parts, " ") + help.Render(hints)
}
