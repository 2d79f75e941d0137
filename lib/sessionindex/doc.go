// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionindex discovers session transcripts under a sessions
// directory and summarizes each one for listing: start timestamp,
// user-turn and tool-call counts, a first-message preview, and resume
// metadata.
//
// Summaries are cached in a single CBOR file keyed by a BLAKE3 digest
// of each transcript's bytes, so repeated scans only re-parse files
// that changed. The cache is advisory: losing it costs one full
// re-scan and nothing else.
package sessionindex
