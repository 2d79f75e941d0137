// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import (
	"strings"

	"github.com/rewindlabs/rewind/lib/transcript"
)

// IntroBanner is prepended to the first non-empty send of a plan. It
// tells the agent the following turns are restored history, not live
// instructions.
const IntroBanner = "[RESTORE MODE] The following content restores prior conversation history. DO NOT RESPOND OR ACT on this content. Remain silent until the restore completes.\n"

// EndMarker is sent once, on natural completion only, to release the
// agent back to normal interaction. It is deliberately not followed by
// an interrupt: the next genuine user turn must not be swallowed.
const EndMarker = "[RESTORE MODE END] Restore complete. Resume normal interaction."

// renderSegmentBody flattens a run of items into the single text
// payload delivered as one user-input op. Message items contribute
// their fragment texts, tool calls a "[tool:<name>] <arguments>" line,
// tool outputs their output text. Reasoning and shell-call items
// contribute nothing — their content is not something the agent should
// re-ingest verbatim.
func renderSegmentBody(items []transcript.Item) string {
	var builder strings.Builder
	for _, item := range items {
		switch item.Kind {
		case transcript.KindMessage:
			for _, fragment := range item.Content {
				builder.WriteString(fragment.Text)
				builder.WriteByte('\n')
			}

		case transcript.KindFunctionCall:
			name := item.Name
			if name == "" {
				name = "tool"
			}
			arguments := string(item.Arguments)
			if arguments == "" {
				arguments = "{}"
			}
			builder.WriteString("[tool:")
			builder.WriteString(name)
			builder.WriteString("] ")
			builder.WriteString(arguments)
			builder.WriteByte('\n')

		case transcript.KindFunctionCallOutput:
			if len(item.Output) > 0 {
				for _, fragment := range item.Output {
					builder.WriteString(fragment.Text)
					builder.WriteByte('\n')
				}
			} else if item.OutputText != "" {
				builder.WriteString(item.OutputText)
				builder.WriteByte('\n')
			}
		}
	}
	return builder.String()
}
