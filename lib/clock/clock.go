// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability. Production code
// injects Real(); tests inject Fake() and advance time explicitly, so
// tick-driven replay delivery is deterministic under test.
package clock

import "time"

// Clock is the time source interface. Code that would call time.Now,
// time.After, time.NewTicker, or time.Sleep takes a Clock instead.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d has elapsed. If d <= 0, it receives immediately.
	After(d time.Duration) <-chan time.Time

	// NewTicker returns a Ticker delivering ticks on C every d.
	// Panics if d <= 0, matching time.NewTicker.
	NewTicker(d time.Duration) *Ticker

	// Sleep pauses the calling goroutine for at least d.
	Sleep(d time.Duration)
}

// Ticker wraps a periodic timer. Read ticks from C; call Stop to
// release resources. C is buffered with capacity 1 — if the consumer
// falls behind, ticks are dropped rather than queued.
type Ticker struct {
	// C delivers ticks.
	C <-chan time.Time

	stopFunc func()
}

// Stop turns the ticker off. No ticks arrive on C after Stop returns.
// Stop does not close C.
func (ticker *Ticker) Stop() { ticker.stopFunc() }
