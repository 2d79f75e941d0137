// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replayui

import (
	"github.com/rewindlabs/rewind/lib/transcript"
)

// historyLine is one entry in the delivery log shown alongside the
// replay overlay. Notices are styled differently from transcript
// content.
type historyLine struct {
	text   string
	notice bool
}

// deliveryHistory accumulates what the replay driver has delivered,
// for display. It satisfies the driver's history interface.
type deliveryHistory struct {
	lines []historyLine
}

// InsertItems renders delivered items to transcript lines and appends
// them to the log.
func (history *deliveryHistory) InsertItems(items []transcript.Item) {
	for _, line := range transcript.RenderLines(items) {
		history.lines = append(history.lines, historyLine{text: line})
	}
}

// Notice appends a status line to the log.
func (history *deliveryHistory) Notice(text string) {
	history.lines = append(history.lines, historyLine{text: text, notice: true})
}

// tail returns the last n lines of the log.
func (history *deliveryHistory) tail(n int) []historyLine {
	if len(history.lines) <= n {
		return history.lines
	}
	return history.lines[len(history.lines)-n:]
}
