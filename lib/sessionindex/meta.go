// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package sessionindex

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rewindlabs/rewind/lib/transcript"
)

// Meta is the per-session summary the picker lists. It is derived
// entirely from the transcript file, so it can be cached against a
// digest of the file's content.
type Meta struct {
	// Path is the absolute path of the transcript file.
	Path string `cbor:"path"`

	// Timestamp is the session start time as recorded in the header,
	// RFC 3339. Empty when the header was missing or malformed.
	Timestamp string `cbor:"timestamp"`

	// UserMessages counts real user turns. Synthetic seed messages
	// (instruction files, environment banners) are not counted.
	UserMessages int `cbor:"user_messages"`

	// ToolCalls counts function_call items.
	ToolCalls int `cbor:"tool_calls"`

	// FirstMessage is the first real user message, flattened to a
	// single line for preview display.
	FirstMessage string `cbor:"first_message"`

	// ProviderToken, when present, allows server-side resume instead
	// of replay. Taken from the header, or from the latest state
	// record when the header lacks one.
	ProviderToken string `cbor:"provider_token,omitempty"`

	// RecordedProjectRoot is the working directory the session was
	// recorded in, used for project-scoped listing.
	RecordedProjectRoot string `cbor:"recorded_project_root,omitempty"`
}

// stateRecord is the slice of a foreign state record this package
// cares about: a resume token updated mid-session supersedes the one
// in the header.
type stateRecord struct {
	RecordType          string `json:"record_type"`
	ProviderResumeToken string `json:"provider_resume_token"`
}

// metaFromTranscript summarizes one parsed transcript.
func metaFromTranscript(path string, header transcript.Header, items []transcript.Item) Meta {
	meta := Meta{
		Path:                path,
		Timestamp:           header.Timestamp,
		ProviderToken:       header.ProviderResumeToken,
		RecordedProjectRoot: header.RecordedProjectRoot,
	}

	var tokenFromState string
	for _, item := range items {
		switch item.Kind {
		case transcript.KindMessage:
			if item.Role != "user" {
				continue
			}
			text := previewText(item)
			if transcript.IsSyntheticSeed(text) {
				continue
			}
			meta.UserMessages++
			if meta.FirstMessage == "" && text != "" {
				meta.FirstMessage = text
			}

		case transcript.KindFunctionCall:
			meta.ToolCalls++

		case transcript.KindOther:
			var state stateRecord
			if err := json.Unmarshal(item.Raw, &state); err != nil {
				continue
			}
			if state.RecordType == "state" && state.ProviderResumeToken != "" {
				tokenFromState = state.ProviderResumeToken
			}
		}
	}
	if meta.ProviderToken == "" {
		meta.ProviderToken = tokenFromState
	}
	return meta
}

// previewText flattens a message to a single line: fragments joined
// with spaces, newlines replaced.
func previewText(item transcript.Item) string {
	var parts []string
	for _, fragment := range item.Content {
		if fragment.Text == "" {
			continue
		}
		parts = append(parts, strings.ReplaceAll(fragment.Text, "\n", " "))
	}
	return strings.Join(parts, " ")
}

// previewRunes bounds the first-message preview in a label.
const previewRunes = 50

// FormatLabel renders a Meta as a single picker row:
//
//	2026-08-12 09:30 · 3 msgs/2 tools · fix the flaky watcher…
//
// The timestamp falls back to its raw header form when it does not
// parse as RFC 3339.
func FormatLabel(meta Meta) string {
	stamp := meta.Timestamp
	if parsed, err := time.Parse(time.RFC3339, meta.Timestamp); err == nil {
		stamp = parsed.UTC().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%s · %d msgs/%d tools · %s",
		stamp, meta.UserMessages, meta.ToolCalls,
		truncateRunes(meta.FirstMessage, previewRunes))
}

// truncateRunes cuts s to at most max runes, appending an ellipsis
// when anything was removed.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
