// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import "github.com/rewindlabs/rewind/lib/transcript"

// Segment is one plan entry: the half-open index range [Start, End)
// into the plan's item list, with the token estimate recomputed for
// exactly that range.
type Segment struct {
	// Start is the inclusive first item index.
	Start int

	// End is the exclusive last item index.
	End int

	// Tokens is EstimateTokens of items[Start:End] at the time the
	// segment was formed. Bisection recomputes it for each half; it
	// is never inherited from a parent segment.
	Tokens int
}

// Len returns the number of items the segment spans.
func (segment Segment) Len() int {
	return segment.End - segment.Start
}

// SegmentByTokens partitions items into contiguous segments whose
// estimates stay within maxTokensPerChunk, by greedy forward scan:
// each segment extends one item at a time, recomputing the estimate,
// and closes at the last extension that did not exceed the budget.
//
// A single item whose own estimate exceeds the budget is not dropped
// or truncated — items are atomic, so it becomes a one-item segment
// regardless of size.
//
// The output is always an exact ordered partition of [0, len(items)):
// contiguous, non-overlapping, no gaps. Empty input yields nil.
func SegmentByTokens(items []transcript.Item, maxTokensPerChunk int) []Segment {
	var segments []Segment
	start := 0
	for start < len(items) {
		end := start
		estimate := 0
		for end < len(items) {
			extended := EstimateTokens(items[start : end+1])
			if extended > maxTokensPerChunk {
				break
			}
			estimate = extended
			end++
		}
		if end == start {
			// Single over-budget item: force a one-item segment.
			segments = append(segments, Segment{
				Start:  start,
				End:    start + 1,
				Tokens: EstimateTokens(items[start : start+1]),
			})
			start++
			continue
		}
		segments = append(segments, Segment{Start: start, End: end, Tokens: estimate})
		start = end
	}
	return segments
}
