// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Rewind's standard binary serialization:
// CBOR with deterministic encoding.
//
// Every component that persists binary state (the session index
// cache in particular) goes through this package rather than
// configuring its own encoder. Determinism matters because cache
// entries are keyed by a digest of their content: two encodes of the
// same record must be byte-identical or the cache invalidates
// itself.
package codec
