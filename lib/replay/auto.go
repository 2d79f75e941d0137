// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import (
	"context"
	"time"

	"github.com/rewindlabs/rewind/lib/clock"
)

// DefaultAdvanceInterval paces automatic delivery. One segment per
// tick keeps the op stream readable in the consumer and leaves room
// for the paired interrupts to land between sends.
const DefaultAdvanceInterval = 150 * time.Millisecond

// AutoAdvance drives the driver to completion from a periodic tick,
// returning when the driver reaches a terminal state. Cancelling the
// context cancels the driver (which emits its own interrupt if
// delivery had started).
//
// The timer is just a trigger source: each tick calls the same
// Advance the manual keypress path calls, so automatic and manual
// delivery are indistinguishable to the session. The caller must not
// operate the driver from another goroutine while AutoAdvance runs —
// the driver has exactly one owner at a time.
func AutoAdvance(ctx context.Context, driver *Driver, clk clock.Clock, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultAdvanceInterval
	}
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for !driver.IsComplete() {
		select {
		case <-ctx.Done():
			driver.Cancel()
			return
		case <-ticker.C:
			driver.Advance()
		}
	}
}
