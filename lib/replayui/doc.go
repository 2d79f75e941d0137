// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// Package replayui is the terminal session browser: a bubbletea model
// that lists recorded sessions, views their transcripts, and drives
// segmented replays into a live agent session.
//
// The browser has three screens. The list shows sessions for the
// current project (toggleable to all sessions) with fuzzy filtering
// and a footer action selector. The viewer renders one transcript
// read-only, with assistant messages rendered as markdown. The replay
// overlay shows delivery progress and the tail of what has been sent,
// advancing on a timer or on Enter.
package replayui
