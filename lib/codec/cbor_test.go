// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
	"time"
)

type cacheRecord struct {
	Path      string    `cbor:"path"`
	Digest    string    `cbor:"digest"`
	Timestamp time.Time `cbor:"timestamp"`
	Turns     int       `cbor:"turns"`
}

func TestRoundTrip(t *testing.T) {
	in := cacheRecord{
		Path:      "/home/user/.rewind/sessions/2026/08/session-1.jsonl",
		Digest:    "abc123",
		Timestamp: time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC),
		Turns:     14,
	}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out cacheRecord
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Path != in.Path || out.Digest != in.Digest || out.Turns != in.Turns {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
	if !out.Timestamp.Equal(in.Timestamp) {
		t.Fatalf("timestamp mismatch: got %v, want %v", out.Timestamp, in.Timestamp)
	}
}

// Deterministic encoding: same value, identical bytes, every time.
func TestMarshalDeterministic(t *testing.T) {
	value := map[string]any{
		"zebra":  1,
		"apple":  "x",
		"middle": []string{"a", "b"},
	}
	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 8; i++ {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding not deterministic:\n%x\n%x", first, again)
		}
	}
}

// Records gain fields over time; decoding into an older shape must
// not fail on the extras.
func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	data, err := Marshal(map[string]any{
		"path":   "/tmp/s.jsonl",
		"digest": "d",
		"extra":  "future field",
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out cacheRecord
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Path != "/tmp/s.jsonl" || out.Digest != "d" {
		t.Fatalf("decoded %+v", out)
	}
}

func TestAnyTargetDecodesToStringMap(t *testing.T) {
	data, err := Marshal(map[string]any{"k": map[string]any{"nested": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out any
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	top, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("decoded to %T, want map[string]any", out)
	}
	if _, ok := top["k"].(map[string]any); !ok {
		t.Fatalf("nested value decoded to %T, want map[string]any", top["k"])
	}
}

func TestStreamEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	records := []cacheRecord{
		{Path: "a.jsonl", Digest: "1", Turns: 3},
		{Path: "b.jsonl", Digest: "2", Turns: 7},
	}
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}
	dec := NewDecoder(&buf)
	for i := range records {
		var out cacheRecord
		if err := dec.Decode(&out); err != nil {
			t.Fatalf("Decode record %d: %v", i, err)
		}
		if out.Path != records[i].Path || out.Digest != records[i].Digest || out.Turns != records[i].Turns {
			t.Fatalf("record %d: got %+v, want %+v", i, out, records[i])
		}
	}
}
