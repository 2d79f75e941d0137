// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// Package replay reconstructs a persisted conversation inside a live
// agent session without letting the agent act on it.
//
// The pipeline is two-phase. At plan time, FilterReplayable selects
// the eligible items and SegmentByTokens partitions them into
// contiguous ranges bounded by a token estimate (EstimateTokens, a
// chars/4 ceiling heuristic). At send time, the Driver re-validates
// each segment against a tighter ceiling, bisecting oversized ones in
// place, then delivers each segment as a user-input op immediately
// followed by an interrupt op so the agent ingests the content but
// never responds to it. Natural completion releases the agent with a
// single unpaired end-of-restore marker.
//
// The driver is single-threaded and cooperative: one Advance per tick
// or keypress, no blocking, all emissions fire-and-forget through a
// session.Sink.
package replay
