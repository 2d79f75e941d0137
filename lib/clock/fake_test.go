// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var testStart = time.Unix(1767225600, 0) // 2026-01-01T00:00:00Z

func TestFakeAfter(t *testing.T) {
	fake := Fake(testStart)
	channel := fake.After(5 * time.Second)

	select {
	case <-channel:
		t.Fatal("After fired before the clock advanced")
	default:
	}

	fake.Advance(4 * time.Second)
	select {
	case <-channel:
		t.Fatal("After fired one second early")
	default:
	}

	fake.Advance(time.Second)
	select {
	case fired := <-channel:
		if !fired.Equal(testStart.Add(5 * time.Second)) {
			t.Fatalf("fired at %v, want start+5s", fired)
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeAfterImmediate(t *testing.T) {
	fake := Fake(testStart)
	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeTicker(t *testing.T) {
	fake := Fake(testStart)
	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()

	// One tick per advanced interval, as long as the consumer drains.
	for i := 0; i < 3; i++ {
		fake.Advance(time.Second)
		select {
		case <-ticker.C:
		default:
			t.Fatalf("missing tick %d", i)
		}
	}

	// An undrained consumer drops ticks instead of queueing them.
	fake.Advance(5 * time.Second)
	var received int
	for {
		select {
		case <-ticker.C:
			received++
			continue
		default:
		}
		break
	}
	if received != 1 {
		t.Fatalf("got %d buffered ticks, want 1 (capacity)", received)
	}
}

func TestFakeTickerStop(t *testing.T) {
	fake := Fake(testStart)
	ticker := fake.NewTicker(time.Second)
	ticker.Stop()

	fake.Advance(10 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestFakeNow(t *testing.T) {
	fake := Fake(testStart)
	fake.Advance(90 * time.Minute)
	if got := fake.Now(); !got.Equal(testStart.Add(90 * time.Minute)) {
		t.Fatalf("Now = %v, want start+90m", got)
	}
}
