// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package transcript

import "encoding/json"

// Kind classifies a transcript item. The first five kinds are response
// items that can participate in replay; KindOther covers everything
// else found in a rollout file (state snapshots, tool-event audit
// records, unknown record types).
type Kind string

const (
	// KindMessage is a user or assistant message.
	KindMessage Kind = "message"

	// KindReasoning is a chain-of-thought reasoning block.
	KindReasoning Kind = "reasoning"

	// KindFunctionCall is a tool invocation by the agent.
	KindFunctionCall Kind = "function_call"

	// KindFunctionCallOutput is the result of a tool invocation.
	KindFunctionCallOutput Kind = "function_call_output"

	// KindLocalShellCall is a shell command executed by the agent's
	// local shell tool.
	KindLocalShellCall Kind = "local_shell_call"

	// KindOther is any record that is not a response item. Items of
	// this kind never reach a replay plan.
	KindOther Kind = "other"
)

// Fragment is one text block inside a message, reasoning, or tool
// output payload. Rollout files store content as arrays of objects
// with a "text" field; fields other than the text are ignored.
type Fragment struct {
	Text string `json:"text"`
}

// Item is one structured entry from a persisted session transcript.
// Items are immutable once loaded; the slice returned by ReadFile owns
// them for the lifetime of the plan built on top.
//
// Which fields are populated depends on Kind:
//
//   - KindMessage: Role and Content
//   - KindReasoning: Content (preferred) or Summary
//   - KindFunctionCall: Name, Arguments, CallID
//   - KindFunctionCallOutput: CallID and Output or OutputText
//   - KindLocalShellCall: Raw only
//   - KindOther: Raw only
type Item struct {
	// Kind is the item discriminant.
	Kind Kind

	// Role is "user" or "assistant" for message items.
	Role string

	// Content holds the text fragments of a message or reasoning item.
	Content []Fragment

	// Summary holds the reasoning summary fragments, used when a
	// reasoning item carries no full content.
	Summary []Fragment

	// Name is the tool name for function_call items.
	Name string

	// Arguments is the tool argument payload for function_call items,
	// preserved as raw JSON.
	Arguments json.RawMessage

	// CallID correlates a function_call with its function_call_output.
	CallID string

	// Output holds the output fragments of a function_call_output item
	// when the rollout stores them as an array.
	Output []Fragment

	// OutputText holds the single-string output form, used when no
	// fragment array is present.
	OutputText string

	// Raw is the original JSON record. Kept so viewers can surface
	// fields this package does not model.
	Raw json.RawMessage
}

// wireItem mirrors the JSON shape of a rollout response item. Records
// carrying a "record_type" field (state, tool_event) are not response
// items and decode to KindOther via decodeItem.
type wireItem struct {
	Type       string          `json:"type"`
	RecordType string          `json:"record_type"`
	Role       string          `json:"role"`
	Content    []Fragment      `json:"content"`
	Summary    []Fragment      `json:"summary"`
	Name       string          `json:"name"`
	Arguments  json.RawMessage `json:"arguments"`
	CallID     string          `json:"call_id"`
	Output     json.RawMessage `json:"output"`
	OutputText string          `json:"output_text"`
}

// decodeItem parses one JSONL record into an Item. Returns false when
// the line is not valid JSON at all; malformed lines are skipped by
// callers rather than surfaced as errors.
func decodeItem(line []byte) (Item, bool) {
	var wire wireItem
	if err := json.Unmarshal(line, &wire); err != nil {
		return Item{}, false
	}

	item := Item{
		Kind:      KindOther,
		Role:      wire.Role,
		Content:   wire.Content,
		Summary:   wire.Summary,
		Name:      wire.Name,
		Arguments: wire.Arguments,
		CallID:    wire.CallID,
		Raw:       append(json.RawMessage(nil), line...),
	}

	// Records with a record_type (state snapshots, tool events) are
	// never response items, even if they also carry a "type" field.
	if wire.RecordType == "" {
		switch Kind(wire.Type) {
		case KindMessage, KindReasoning, KindFunctionCall,
			KindFunctionCallOutput, KindLocalShellCall:
			item.Kind = Kind(wire.Type)
		}
	}

	// The output field of a function_call_output is either an array of
	// fragments or a single JSON string. Try both.
	if len(wire.Output) > 0 {
		var fragments []Fragment
		if err := json.Unmarshal(wire.Output, &fragments); err == nil {
			item.Output = fragments
		} else {
			var text string
			if err := json.Unmarshal(wire.Output, &text); err == nil {
				item.OutputText = text
			}
		}
	}
	if item.OutputText == "" && wire.OutputText != "" {
		item.OutputText = wire.OutputText
	}

	return item, true
}

// Text returns the concatenated fragment texts of a message or
// reasoning item. Reasoning items fall back to their summary fragments
// when no full content is present.
func (item Item) Text() string {
	fragments := item.Content
	if item.Kind == KindReasoning && len(fragments) == 0 {
		fragments = item.Summary
	}
	var size int
	for _, fragment := range fragments {
		size += len(fragment.Text)
	}
	buf := make([]byte, 0, size)
	for _, fragment := range fragments {
		buf = append(buf, fragment.Text...)
	}
	return string(buf)
}

// OutputString returns the tool output text of a function_call_output
// item: the concatenated output fragments, or the single output string
// when no fragment array is present.
func (item Item) OutputString() string {
	if len(item.Output) == 0 {
		return item.OutputText
	}
	var size int
	for _, fragment := range item.Output {
		size += len(fragment.Text)
	}
	buf := make([]byte, 0, size)
	for _, fragment := range item.Output {
		buf = append(buf, fragment.Text...)
	}
	return string(buf)
}
