// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOutboxDeliversInOrder(t *testing.T) {
	outbox := NewOutbox(discardLogger())
	outbox.Submit(UserInput("first"))
	outbox.Submit(Interrupt())
	outbox.Submit(UserInput("second"))
	outbox.Close()

	var ops []Op
	for op := range outbox.Ops() {
		ops = append(ops, op)
	}
	if len(ops) != 3 {
		t.Fatalf("ops = %d, want 3", len(ops))
	}
	if ops[0].Text != "first" || ops[1].Type != OpTypeInterrupt || ops[2].Text != "second" {
		t.Fatalf("unexpected op order: %+v", ops)
	}
	if outbox.Dropped() != 0 {
		t.Fatalf("dropped = %d, want 0", outbox.Dropped())
	}
}

func TestOutboxDropsWhenFull(t *testing.T) {
	outbox := NewOutbox(discardLogger())
	for i := 0; i < defaultOutboxCapacity+5; i++ {
		outbox.Submit(Interrupt())
	}
	if outbox.Dropped() != 5 {
		t.Fatalf("dropped = %d, want 5", outbox.Dropped())
	}
}

func TestOutboxSubmitAfterClose(t *testing.T) {
	outbox := NewOutbox(discardLogger())
	outbox.Close()
	outbox.Close() // idempotent
	outbox.Submit(UserInput("late"))
	if outbox.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", outbox.Dropped())
	}
}

func TestRecorderCounts(t *testing.T) {
	recorder := &Recorder{}
	recorder.Submit(UserInput("a"))
	recorder.Submit(Interrupt())
	recorder.Submit(UserInput("b"))

	if got := recorder.Interrupts(); got != 1 {
		t.Fatalf("Interrupts() = %d, want 1", got)
	}
	inputs := recorder.UserInputs()
	if len(inputs) != 2 || inputs[0].Text != "a" || inputs[1].Text != "b" {
		t.Fatalf("unexpected user inputs: %+v", inputs)
	}
}

func TestOpLogWriterRecordsAndForwards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.jsonl")
	recorder := &Recorder{}
	writer, err := NewOpLogWriter(path, recorder, discardLogger())
	if err != nil {
		t.Fatalf("NewOpLogWriter: %v", err)
	}

	writer.Submit(UserInput("hello"))
	writer.Submit(Interrupt())

	summary := writer.Summary()
	if summary.UserInputs != 1 || summary.Interrupts != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.TextBytes != int64(len("hello")) {
		t.Fatalf("text bytes = %d, want %d", summary.TextBytes, len("hello"))
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Forwarded to the next sink unchanged.
	if len(recorder.Ops) != 2 || recorder.Ops[0].Text != "hello" {
		t.Fatalf("forwarded ops: %+v", recorder.Ops)
	}

	// One JSON record per line, with the op type preserved.
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer file.Close()
	var records []opRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record opRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("bad log line %q: %v", scanner.Text(), err)
		}
		records = append(records, record)
	}
	if len(records) != 2 {
		t.Fatalf("log records = %d, want 2", len(records))
	}
	if records[0].Type != OpTypeUserInput || records[0].Text != "hello" {
		t.Fatalf("first record = %+v", records[0])
	}
	if records[1].Type != OpTypeInterrupt {
		t.Fatalf("second record = %+v", records[1])
	}
}

func TestOpLogWriterSubmitAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.jsonl")
	recorder := &Recorder{}
	writer, err := NewOpLogWriter(path, recorder, discardLogger())
	if err != nil {
		t.Fatalf("NewOpLogWriter: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Still forwards, just without logging.
	writer.Submit(UserInput("post-close"))
	if len(recorder.Ops) != 1 {
		t.Fatalf("forwarded ops after close = %d, want 1", len(recorder.Ops))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("log should be empty, got %q", data)
	}
}
