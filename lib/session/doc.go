// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// Package session defines the outbound interface to a live agent
// session: a small operation vocabulary (user input, interrupt) and
// Sink implementations for delivering it. The agent runtime itself is
// an external collaborator — this package never interprets ops, it
// only carries them.
//
// Sinks compose: an OpLogWriter tees ops into a JSONL audit file
// before forwarding to the channel-backed Outbox the runtime consumes.
// All submission paths are fire-and-forget so callers (the replay
// driver in particular) never block.
package session
