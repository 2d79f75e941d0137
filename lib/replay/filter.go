// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import "github.com/rewindlabs/rewind/lib/transcript"

// Replayable reports whether items of the given kind may appear in a
// replay plan. Everything else — state snapshots, tool-event audit
// records, unknown kinds — is excluded by contract, not by error:
// foreign records are a normal part of a rollout file and must simply
// never reach a plan.
func Replayable(kind transcript.Kind) bool {
	switch kind {
	case transcript.KindMessage,
		transcript.KindReasoning,
		transcript.KindFunctionCall,
		transcript.KindFunctionCallOutput,
		transcript.KindLocalShellCall:
		return true
	}
	return false
}

// FilterReplayable returns the items eligible for replay, in their
// original order. Ineligible items are dropped silently.
func FilterReplayable(items []transcript.Item) []transcript.Item {
	filtered := make([]transcript.Item, 0, len(items))
	for _, item := range items {
		if Replayable(item.Kind) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
