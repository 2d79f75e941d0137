// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rewindlabs/rewind/lib/session"
	"github.com/rewindlabs/rewind/lib/transcript"
)

// Status is the driver lifecycle state.
type Status int

const (
	// StatusActive means segments remain to deliver.
	StatusActive Status = iota

	// StatusComplete means every segment was delivered and the
	// end-of-restore marker went out. Terminal.
	StatusComplete

	// StatusCancelled means delivery was stopped by the user.
	// Terminal.
	StatusCancelled
)

// String returns the lowercase status name.
func (status Status) String() string {
	switch status {
	case StatusActive:
		return "active"
	case StatusComplete:
		return "complete"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(status))
	}
}

// History receives what the driver delivers, for progressive display.
// Implementations render however they like; the driver hands over raw
// items and plain notice lines and never waits for either.
type History interface {
	// InsertItems receives the raw items of a segment that was just
	// sent, in delivery order.
	InsertItems(items []transcript.Item)

	// Notice receives a human-readable status line (completion
	// summary, cancellation notice).
	Notice(text string)
}

// CompletionFunc is called exactly once, on natural completion, with
// the approximate token count actually sent and the plan's original
// segment count (before any send-time splits).
type CompletionFunc func(approxTokens, segments int)

// DriverConfig wires a Driver to its collaborators. Session is
// required; History and OnComplete may be nil.
type DriverConfig struct {
	// Session receives the delivery ops (user input, interrupt).
	Session session.Sink

	// History receives delivered items and notices for display.
	History History

	// OnComplete is invoked on natural completion (never on cancel).
	OnComplete CompletionFunc
}

// Driver delivers a replay plan one step at a time. It is a plain
// exclusively-owned value: both the timer path and the keypress path
// hold the same *Driver and call the same Advance, so automatic and
// manual delivery produce identical end states for the same plan.
//
// Not safe for concurrent use — the owning session invokes it from a
// single event loop, and an Advance completes (including all
// emissions) before the next call starts.
type Driver struct {
	plan   *Plan
	config DriverConfig

	cursor     int
	tokensSent int
	introSent  bool
	status     Status

	// originalSegments is the segment count at Accept time, reported
	// in the completion notification. Send-time bisection grows the
	// live segment list but not this number.
	originalSegments int
}

// NewDriver creates a driver and accepts the given plan. The caller
// owns the driver exclusively; creating a new driver for a session
// supersedes any previous one.
func NewDriver(plan *Plan, config DriverConfig) *Driver {
	driver := &Driver{config: config}
	driver.Accept(plan)
	return driver
}

// Accept installs a new plan and resets all delivery state: cursor,
// tokens sent, the intro flag, and status back to Active. Whatever
// plan was in progress is discarded — a session has at most one live
// plan.
func (driver *Driver) Accept(plan *Plan) {
	driver.plan = plan
	driver.cursor = 0
	driver.tokensSent = 0
	driver.introSent = false
	driver.status = StatusActive
	driver.originalSegments = len(plan.Segments)
}

// Advance performs one delivery step. Every trigger — the periodic
// tick and the manual confirmation key — goes through this single
// transition:
//
//   - terminal status or exhausted cursor: no-op
//   - current segment over the send ceiling and splittable: bisect it
//     in place and return without sending or moving the cursor
//   - otherwise: render the segment, send it as one user-input op
//     followed immediately by an interrupt, forward the raw items to
//     History, account the tokens, and move the cursor
//
// The bisection step may need to run on several consecutive calls
// until the segment at the cursor is under the ceiling or is a single
// atomic item (which sends regardless of size).
func (driver *Driver) Advance() {
	if driver.status != StatusActive {
		return
	}
	if driver.cursor >= len(driver.plan.Segments) {
		return
	}

	segment := driver.plan.Segments[driver.cursor]
	if segment.Tokens > driver.plan.MaxTokensPerSend && segment.Len() > 1 {
		driver.bisect(segment)
		return
	}

	body := renderSegmentBody(driver.plan.Items[segment.Start:segment.End])
	if strings.TrimSpace(body) != "" {
		payload := body
		if !driver.introSent {
			payload = IntroBanner + body
			driver.introSent = true
		}
		// Send, then interrupt, in that order, unconditionally. The
		// interrupt is what keeps the agent from acting on restored
		// content; it must never be separated from its send.
		driver.config.Session.Submit(session.UserInput(payload))
		driver.config.Session.Submit(session.Interrupt())

		if driver.config.History != nil {
			driver.config.History.InsertItems(driver.plan.Items[segment.Start:segment.End])
		}
	}

	driver.tokensSent += segment.Tokens
	driver.cursor++

	if driver.cursor >= len(driver.plan.Segments) {
		driver.complete()
	}
}

// bisect splits the segment at the cursor into two adjacent halves at
// its midpoint index, each with a freshly computed estimate, and
// replaces it in the segment list. Already-sent segments are never
// touched, so emission order is preserved.
func (driver *Driver) bisect(segment Segment) {
	mid := segment.Start + segment.Len()/2
	left := Segment{
		Start:  segment.Start,
		End:    mid,
		Tokens: EstimateTokens(driver.plan.Items[segment.Start:mid]),
	}
	right := Segment{
		Start:  mid,
		End:    segment.End,
		Tokens: EstimateTokens(driver.plan.Items[mid:segment.End]),
	}
	driver.plan.Segments = slices.Replace(
		driver.plan.Segments, driver.cursor, driver.cursor+1, left, right)
}

// complete transitions to StatusComplete. The end-of-restore marker
// goes out as a user input with no trailing interrupt — intentionally,
// so the next genuine user turn is not swallowed — followed by the
// one-time completion summary and the owner notification.
func (driver *Driver) complete() {
	driver.status = StatusComplete

	driver.config.Session.Submit(session.UserInput(EndMarker))

	tokens := driver.tokensSent
	if tokens < 1 {
		tokens = 1
	}
	if driver.config.History != nil {
		driver.config.History.Notice(fmt.Sprintf(
			"Replay complete: %d/%d segments (~%d tokens).",
			driver.cursor, len(driver.plan.Segments), tokens))
	}
	if driver.config.OnComplete != nil {
		driver.config.OnComplete(tokens, driver.originalSegments)
	}
}

// Cancel stops delivery. Terminal and idempotent: cancelling a
// non-active driver does nothing. If any progress had occurred, one
// interrupt goes out to stop a turn potentially in flight; a cancel
// before the first send emits nothing to the session.
func (driver *Driver) Cancel() {
	if driver.status != StatusActive {
		return
	}
	driver.status = StatusCancelled

	if driver.config.History != nil {
		driver.config.History.Notice("Replay cancelled by user.")
	}
	if driver.percent() > 0 || driver.cursor > 0 || driver.introSent {
		driver.config.Session.Submit(session.Interrupt())
	}
}

// IsComplete reports whether the driver reached a terminal state
// (Complete or Cancelled).
func (driver *Driver) IsComplete() bool {
	return driver.status != StatusActive
}

// Status returns the current lifecycle state.
func (driver *Driver) Status() Status {
	return driver.status
}

// percent is the clamped integer delivery percentage. The denominator
// may have been estimated over a different item population than the
// segment estimates (see Plan.TokenTotal), so clamping is load-bearing,
// not cosmetic.
func (driver *Driver) percent() int {
	percent := 100 * driver.tokensSent / driver.plan.TokenTotal
	if percent > 100 {
		percent = 100
	}
	return percent
}

// Progress returns a read-only snapshot for display.
func (driver *Driver) Progress() ProgressSnapshot {
	done := driver.cursor
	if total := len(driver.plan.Segments); done > total {
		done = total
	}
	return ProgressSnapshot{
		Percent:       driver.percent(),
		SegmentsDone:  done,
		SegmentsTotal: len(driver.plan.Segments),
		TokensSent:    driver.tokensSent,
		TokenTotal:    driver.plan.TokenTotal,
		Status:        driver.status,
	}
}
