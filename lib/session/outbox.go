// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"log/slog"
	"sync"
)

// defaultOutboxCapacity bounds the op channel. Replay emits at most a
// few ops per advance, so a consumer that services the channel at all
// never sees it fill.
const defaultOutboxCapacity = 256

// Outbox is a channel-backed Sink. Ops submitted on one side are
// consumed from Ops() on the other, preserving submission order. When
// the channel is full, Submit drops the op and counts it rather than
// blocking — the replay driver must never stall inside an advance.
type Outbox struct {
	channel chan Op
	logger  *slog.Logger

	mutex   sync.Mutex
	closed  bool
	dropped int
}

// NewOutbox creates an Outbox with the default capacity. Background
// drop warnings go to logger.
func NewOutbox(logger *slog.Logger) *Outbox {
	return &Outbox{
		channel: make(chan Op, defaultOutboxCapacity),
		logger:  logger,
	}
}

// Submit implements Sink. Never blocks: if the outbox is full or
// closed, the op is dropped and counted.
func (outbox *Outbox) Submit(op Op) {
	outbox.mutex.Lock()
	defer outbox.mutex.Unlock()
	if outbox.closed {
		outbox.dropped++
		return
	}
	select {
	case outbox.channel <- op:
	default:
		outbox.dropped++
		outbox.logger.Warn("outbox full, dropping op", "op", op.Type, "dropped", outbox.dropped)
	}
}

// Ops returns the consumer side of the outbox.
func (outbox *Outbox) Ops() <-chan Op {
	return outbox.channel
}

// Dropped returns the number of ops discarded because the outbox was
// full or closed.
func (outbox *Outbox) Dropped() int {
	outbox.mutex.Lock()
	defer outbox.mutex.Unlock()
	return outbox.dropped
}

// Close closes the consumer channel. Submit after Close drops.
// Idempotent.
func (outbox *Outbox) Close() {
	outbox.mutex.Lock()
	defer outbox.mutex.Unlock()
	if outbox.closed {
		return
	}
	outbox.closed = true
	close(outbox.channel)
}
