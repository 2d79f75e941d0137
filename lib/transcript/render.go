// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package transcript

import (
	"fmt"
	"strings"
)

// hiddenSeedPrefixes mark synthetic user messages injected at session
// start (instruction files, environment banners). Viewers and history
// rendering hide them; replay still delivers them.
var hiddenSeedPrefixes = []string{
	"<user_instructions>",
	"<environment_context>",
}

// IsSyntheticSeed reports whether a user message is a synthetic seed
// that should not appear in rendered transcripts or session previews.
func IsSyntheticSeed(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, prefix := range hiddenSeedPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// RenderLines renders items as a plain-text transcript, one logical
// line per entry:
//
//	user: <text>
//	assistant: <text>
//	thinking: <text>
//	tool: <name> args: <arguments>
//	tool.out: <output>
//
// Synthetic seed messages are hidden. Items that render to nothing
// (empty messages, foreign records) produce no line.
func RenderLines(items []Item) []string {
	var out []string
	for _, item := range items {
		switch item.Kind {
		case KindMessage:
			if item.Role != "user" && item.Role != "assistant" {
				continue
			}
			text := item.Text()
			if text == "" {
				continue
			}
			if item.Role == "user" && IsSyntheticSeed(text) {
				continue
			}
			out = append(out, fmt.Sprintf("%s: %s", item.Role, text))

		case KindReasoning:
			text := item.Text()
			if text == "" {
				continue
			}
			out = append(out, "thinking: "+text)

		case KindFunctionCall:
			name := item.Name
			if name == "" {
				name = "tool"
			}
			arguments := string(item.Arguments)
			if arguments == "" {
				arguments = "{}"
			}
			out = append(out, fmt.Sprintf("tool: %s args: %s", name, arguments))

		case KindFunctionCallOutput:
			output := item.OutputString()
			if output == "" {
				continue
			}
			out = append(out, "tool.out: "+output)
		}
	}
	return out
}

// RenderConversation renders only the user and assistant messages,
// for compact summaries and the export command's --messages-only mode.
func RenderConversation(items []Item) []string {
	var out []string
	for _, item := range items {
		if item.Kind != KindMessage {
			continue
		}
		if item.Role != "user" && item.Role != "assistant" {
			continue
		}
		text := item.Text()
		if text == "" {
			continue
		}
		if item.Role == "user" && IsSyntheticSeed(text) {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", item.Role, text))
	}
	return out
}
