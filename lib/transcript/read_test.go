// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

const sampleTranscript = `{"timestamp":"2026-03-14T09:30:00Z","provider_resume_token":"tok-1","recorded_project_root":"/home/dev/project"}
{"type":"message","role":"user","content":[{"text":"fix the flaky test"}]}
{"type":"reasoning","summary":[{"text":"looking at the timer setup"}]}
{"type":"function_call","name":"shell","arguments":{"cmd":["go","test","./..."]},"call_id":"c1"}
{"type":"function_call_output","call_id":"c1","output":[{"text":"ok"},{"text":" all passing"}]}
{"type":"function_call_output","call_id":"c2","output":"single string form"}
{"record_type":"state","provider_resume_token":"tok-2"}
{"record_type":"tool_event","tool_kind":"exec","phase":"begin","call_id":"c1"}
this line is not json at all
{"type":"message","role":"assistant","content":[{"text":"done, the sleep was racy"}]}
`

func writeTranscript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing transcript fixture: %v", err)
	}
	return path
}

func TestReadFile(t *testing.T) {
	path := writeTranscript(t, "session.jsonl", sampleTranscript)

	header, items, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if header.Timestamp != "2026-03-14T09:30:00Z" {
		t.Fatalf("header timestamp %q", header.Timestamp)
	}
	if header.ProviderResumeToken != "tok-1" {
		t.Fatalf("header resume token %q", header.ProviderResumeToken)
	}
	if header.RecordedProjectRoot != "/home/dev/project" {
		t.Fatalf("header project root %q", header.RecordedProjectRoot)
	}

	// The unparseable line is skipped: 9 parseable records follow the
	// header, of which two are foreign (state, tool_event).
	if len(items) != 8 {
		t.Fatalf("got %d items, want 8", len(items))
	}

	wantKinds := []Kind{
		KindMessage, KindReasoning, KindFunctionCall,
		KindFunctionCallOutput, KindFunctionCallOutput,
		KindOther, KindOther, KindMessage,
	}
	for index, item := range items {
		if item.Kind != wantKinds[index] {
			t.Fatalf("item %d kind %s, want %s", index, item.Kind, wantKinds[index])
		}
	}

	if items[0].Text() != "fix the flaky test" {
		t.Fatalf("message text %q", items[0].Text())
	}
	if items[1].Text() != "looking at the timer setup" {
		t.Fatalf("reasoning summary fallback %q", items[1].Text())
	}
	if items[2].Name != "shell" || items[2].CallID != "c1" {
		t.Fatalf("function call parsed as %+v", items[2])
	}
	if items[3].OutputString() != "ok all passing" {
		t.Fatalf("fragment output %q", items[3].OutputString())
	}
	if items[4].OutputString() != "single string form" {
		t.Fatalf("string output %q", items[4].OutputString())
	}
}

func TestReadFileZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl.zst")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	encoder, err := zstd.NewWriter(file)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	if _, err := encoder.Write([]byte(sampleTranscript)); err != nil {
		t.Fatalf("writing compressed fixture: %v", err)
	}
	if err := encoder.Close(); err != nil {
		t.Fatalf("closing encoder: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("closing fixture: %v", err)
	}

	header, items, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(zst): %v", err)
	}
	if header.Timestamp == "" {
		t.Fatal("header lost in decompression")
	}
	if len(items) != 8 {
		t.Fatalf("got %d items, want 8", len(items))
	}
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "absent.jsonl"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadFileMalformedHeader(t *testing.T) {
	path := writeTranscript(t, "session.jsonl",
		"not a header\n{\"type\":\"message\",\"role\":\"user\",\"content\":[{\"text\":\"hi\"}]}\n")

	header, items, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if header.Timestamp != "" {
		t.Fatalf("malformed header produced %+v, want zero value", header)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
}

func TestIsTranscriptPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"session.jsonl", true},
		{"a/b/session.jsonl.zst", true},
		{"session.jsonl.lz4", true},
		{"session.json", false},
		{"notes.txt", false},
		{"session.zst", false},
	}
	for _, test := range tests {
		if got := IsTranscriptPath(test.path); got != test.want {
			t.Fatalf("IsTranscriptPath(%q) = %v, want %v", test.path, got, test.want)
		}
	}
}
