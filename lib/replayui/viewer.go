// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replayui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rewindlabs/rewind/lib/transcript"
)

// viewerState is the transcript viewer: a scrollable rendering of one
// session's items.
type viewerState struct {
	path   string
	items  []transcript.Item
	lines  []string
	offset int
}

// renderTranscript produces the viewer's line buffer. User, thinking,
// and tool entries render as prefixed plain text in role colors;
// assistant messages render as markdown, since that is what agents
// actually emit.
func renderTranscript(items []transcript.Item, theme Theme, width int) []string {
	user := lipgloss.NewStyle().Foreground(theme.UserText)
	thinking := lipgloss.NewStyle().Foreground(theme.ThinkingText).Italic(true)
	tool := lipgloss.NewStyle().Foreground(theme.ToolText)
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	var lines []string
	for _, item := range items {
		switch item.Kind {
		case transcript.KindMessage:
			text := item.Text()
			if text == "" {
				continue
			}
			switch item.Role {
			case "user":
				if transcript.IsSyntheticSeed(text) {
					continue
				}
				lines = append(lines, user.Render("user: "+flattenText(text)))
			case "assistant":
				rendered := renderMarkdown(text, theme, width)
				if rendered == "" {
					continue
				}
				lines = append(lines, strings.Split(rendered, "\n")...)
			}

		case transcript.KindReasoning:
			text := item.Text()
			if text == "" {
				continue
			}
			lines = append(lines, thinking.Render("thinking: "+flattenText(text)))

		case transcript.KindFunctionCall:
			name := item.Name
			if name == "" {
				name = "tool"
			}
			arguments := string(item.Arguments)
			if arguments == "" {
				arguments = "{}"
			}
			lines = append(lines, tool.Render("tool: "+name+" "+flattenText(arguments)))

		case transcript.KindFunctionCallOutput:
			output := item.OutputString()
			if output == "" {
				continue
			}
			lines = append(lines, faint.Render("tool.out: "+flattenText(output)))
		}
	}
	return lines
}

// flattenText collapses a multi-line payload to one line for the
// single-row entry kinds.
func flattenText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// visibleLines returns the viewport slice for the current offset.
func (viewer *viewerState) visibleLines(height int) []string {
	if height < 1 || len(viewer.lines) == 0 {
		return nil
	}
	start := viewer.offset
	if start > len(viewer.lines)-1 {
		start = len(viewer.lines) - 1
	}
	end := start + height
	if end > len(viewer.lines) {
		end = len(viewer.lines)
	}
	return viewer.lines[start:end]
}

// scroll moves the viewport by delta lines, clamped to the buffer.
func (viewer *viewerState) scroll(delta, height int) {
	maxOffset := len(viewer.lines) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	viewer.offset += delta
	if viewer.offset > maxOffset {
		viewer.offset = maxOffset
	}
	if viewer.offset < 0 {
		viewer.offset = 0
	}
}
