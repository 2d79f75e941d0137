// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import (
	"fmt"
	"strings"
)

// ProgressSnapshot is a point-in-time view of delivery progress,
// decoupled from the driver so any UI layer can format it.
type ProgressSnapshot struct {
	// Percent is the clamped delivery percentage (0-100).
	Percent int

	// SegmentsDone counts segments already processed.
	SegmentsDone int

	// SegmentsTotal is the current segment count, including any
	// splits made at send time.
	SegmentsTotal int

	// TokensSent is the running sum of sent segment estimates.
	TokensSent int

	// TokenTotal is the percentage denominator.
	TokenTotal int

	// Status is the driver state the snapshot was taken in.
	Status Status
}

// FormatProgress renders a snapshot as a single text line fitting the
// given width:
//
//	Restoring:  42% [#########----------------]
//
// Pure formatting — no driver state is consulted or modified, so any
// UI layer (or a plain log line) can call it.
func FormatProgress(snapshot ProgressSnapshot, width int) string {
	switch snapshot.Status {
	case StatusCancelled:
		return "Restore cancelled"
	case StatusComplete:
		return fmt.Sprintf("Restore complete: %d segments (~%d tokens)",
			snapshot.SegmentsDone, snapshot.TokensSent)
	}

	if snapshot.Percent == 0 && snapshot.SegmentsDone == 0 {
		return "Replay ready — Enter to advance; Esc cancels."
	}

	percent := snapshot.Percent
	if percent > 100 {
		percent = 100
	}
	label := fmt.Sprintf("Restoring: %3d%%", percent)

	const bracketWidth = 2
	const minBarWidth = 10
	barWidth := width - len(label) - 1
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	fillWidth := (barWidth - bracketWidth) * percent / 100
	emptyWidth := barWidth - bracketWidth - fillWidth

	var builder strings.Builder
	builder.WriteString(label)
	builder.WriteByte(' ')
	builder.WriteByte('[')
	builder.WriteString(strings.Repeat("#", fillWidth))
	builder.WriteString(strings.Repeat("-", emptyWidth))
	builder.WriteByte(']')
	return builder.String()
}
