// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcript models persisted agent session transcripts: the
// rollout JSONL format of one header record followed by response items
// (messages, reasoning, tool calls, tool outputs) interleaved with
// foreign records this package classifies as KindOther.
//
// Ingestion is deliberately forgiving. Unparseable lines, unknown
// record types, and partial writes are all skipped silently — a
// transcript written by a crashed session must still load. The only
// hard error is being unable to read the file at all.
//
// Compressed transcripts (.jsonl.zst, .jsonl.lz4) decompress
// transparently on read.
package transcript
