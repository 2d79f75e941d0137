// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import "github.com/rewindlabs/rewind/lib/transcript"

// Budget defaults. The segmentation budget bounds plan-time chunks;
// the send budget is deliberately tighter and is enforced again at
// send time, where oversized segments bisect.
const (
	// DefaultMaxTokensPerChunk is the plan-time segmentation ceiling.
	DefaultMaxTokensPerChunk = 2000

	// DefaultMaxTokensPerSend is the send-time ceiling. Smaller than
	// the chunk ceiling so a conservative re-validation pass runs on
	// every segment before it goes out.
	DefaultMaxTokensPerSend = 1800
)

// Plan is a segmented replay of a transcript: the filtered item list
// (immutable for the plan's lifetime), the segment partition over it
// (mutable — delivery may replace a segment with two finer ones), the
// token estimate used as the percentage denominator, and the
// send-time ceiling.
type Plan struct {
	// Items is the replay-eligible item list. Segments index into it.
	Items []transcript.Item

	// Segments partitions [0, len(Items)) in delivery order. The
	// driver may split a not-yet-sent segment in place.
	Segments []Segment

	// TokenTotal is the percentage denominator. It is estimated over
	// the item set the caller handed to NewPlan, which may be the
	// pre-filter population — so the sum of sent segment estimates
	// can drift from it in either direction, and displayed
	// percentages clamp at 100. Always at least 1.
	TokenTotal int

	// MaxTokensPerSend is the send-time ceiling enforced by the
	// driver's re-validation step.
	MaxTokensPerSend int
}

// PlanOptions overrides the plan budgets. Zero fields take defaults.
type PlanOptions struct {
	// MaxTokensPerChunk is the segmentation ceiling.
	MaxTokensPerChunk int

	// MaxTokensPerSend is the send-time re-validation ceiling.
	MaxTokensPerSend int
}

// NewPlan builds a replay plan from transcript items. The items are
// filtered defensively (foreign records must never reach delivery even
// if the caller skipped FilterReplayable), segmented against the chunk
// budget, and the token total is estimated over the items as given —
// before filtering — so it matches what the user will see reported for
// the whole session.
func NewPlan(items []transcript.Item, options PlanOptions) *Plan {
	maxPerChunk := options.MaxTokensPerChunk
	if maxPerChunk <= 0 {
		maxPerChunk = DefaultMaxTokensPerChunk
	}
	maxPerSend := options.MaxTokensPerSend
	if maxPerSend <= 0 {
		maxPerSend = DefaultMaxTokensPerSend
	}

	tokenTotal := EstimateTokens(items)
	if tokenTotal < 1 {
		tokenTotal = 1
	}

	filtered := FilterReplayable(items)
	return &Plan{
		Items:            filtered,
		Segments:         SegmentByTokens(filtered, maxPerChunk),
		TokenTotal:       tokenTotal,
		MaxTokensPerSend: maxPerSend,
	}
}
