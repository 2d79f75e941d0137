// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// opRecord is the JSONL shape of one logged op.
type opRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Type      OpType    `json:"type"`
	Text      string    `json:"text,omitempty"`
}

// OpLogWriter writes every submitted op as one JSON line to an audit
// file, then forwards it to the next Sink. It is safe for concurrent
// use. Write failures are logged, never surfaced to the submitter —
// the op stream must not stall on a full disk.
type OpLogWriter struct {
	next    Sink
	logger  *slog.Logger
	file    *os.File
	encoder *json.Encoder
	mutex   sync.Mutex
	closed  bool

	// Aggregated counters, protected by mutex.
	startTime  time.Time
	userInputs int64
	interrupts int64
	textBytes  int64
}

// NewOpLogWriter creates (or truncates) the audit file at path and
// returns a Sink that tees ops into it before forwarding to next.
func NewOpLogWriter(path string, next Sink, logger *slog.Logger) (*OpLogWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating op log %s: %w", path, err)
	}
	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	return &OpLogWriter{
		next:      next,
		logger:    logger,
		file:      file,
		encoder:   encoder,
		startTime: time.Now(),
	}, nil
}

// Submit implements Sink: append the op to the log, update counters,
// forward to the next sink.
func (writer *OpLogWriter) Submit(op Op) {
	writer.mutex.Lock()
	if !writer.closed {
		record := opRecord{Timestamp: time.Now(), Type: op.Type, Text: op.Text}
		if err := writer.encoder.Encode(record); err != nil {
			writer.logger.Warn("op log write failed", "error", err)
		}
		switch op.Type {
		case OpTypeUserInput:
			writer.userInputs++
			writer.textBytes += int64(len(op.Text))
		case OpTypeInterrupt:
			writer.interrupts++
		}
	}
	writer.mutex.Unlock()

	if writer.next != nil {
		writer.next.Submit(op)
	}
}

// OpLogSummary aggregates what passed through the writer.
type OpLogSummary struct {
	UserInputs int64         `json:"user_inputs"`
	Interrupts int64         `json:"interrupts"`
	TextBytes  int64         `json:"text_bytes"`
	Duration   time.Duration `json:"duration"`
}

// Summary returns the counters accumulated so far.
func (writer *OpLogWriter) Summary() OpLogSummary {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	return OpLogSummary{
		UserInputs: writer.userInputs,
		Interrupts: writer.interrupts,
		TextBytes:  writer.textBytes,
		Duration:   time.Since(writer.startTime),
	}
}

// Close flushes and closes the audit file. Idempotent. Ops submitted
// after Close still forward to the next sink, just without logging.
func (writer *OpLogWriter) Close() error {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()
	if writer.closed {
		return nil
	}
	writer.closed = true
	if err := writer.file.Sync(); err != nil {
		writer.file.Close()
		return fmt.Errorf("syncing op log: %w", err)
	}
	return writer.file.Close()
}
