// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import "github.com/rewindlabs/rewind/lib/transcript"

// EstimateTokens approximates the token cost of a run of items:
// the character count of every textual payload reachable from each
// item, divided by 4 rounding up. Empty input estimates 0.
//
// This is a heuristic, not a tokenizer. Its only guarantees are that
// it is deterministic and monotone under concatenation — the estimate
// of items[0:n] never decreases as n grows, because it is the ceiling
// of a non-decreasing character sum. Callers must not assume it
// matches any model's real count.
func EstimateTokens(items []transcript.Item) int {
	var chars int
	for _, item := range items {
		switch item.Kind {
		case transcript.KindMessage:
			for _, fragment := range item.Content {
				chars += len(fragment.Text)
			}

		case transcript.KindFunctionCall:
			chars += len(item.Name)
			chars += len(item.Arguments)

		case transcript.KindFunctionCallOutput:
			if len(item.Output) > 0 {
				for _, fragment := range item.Output {
					chars += len(fragment.Text)
				}
			} else {
				chars += len(item.OutputText)
			}
		}
	}
	return (chars + 3) / 4
}
