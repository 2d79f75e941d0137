// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package session

// OpType classifies an operation submitted to the agent session.
type OpType string

const (
	// OpTypeUserInput injects text into the session as a user turn.
	OpTypeUserInput OpType = "user_input"

	// OpTypeInterrupt halts whatever turn the agent has in flight.
	// Carries no payload.
	OpTypeInterrupt OpType = "interrupt"
)

// Op is one operation for the agent session. The session runtime is an
// external collaborator: it consumes ops from a Sink and emits its own
// events elsewhere. This package only defines the outbound half.
type Op struct {
	// Type selects the operation.
	Type OpType `json:"type"`

	// Text is the injected text for OpTypeUserInput ops.
	Text string `json:"text,omitempty"`
}

// UserInput builds a user-input op.
func UserInput(text string) Op {
	return Op{Type: OpTypeUserInput, Text: text}
}

// Interrupt builds an interrupt op.
func Interrupt() Op {
	return Op{Type: OpTypeInterrupt}
}

// Sink accepts session operations. Submit is fire-and-forget: it never
// blocks and never reports failure to the caller. Implementations that
// can lose ops (bounded outboxes) account for drops themselves.
type Sink interface {
	Submit(op Op)
}

// Recorder is a Sink that appends every submitted op to a slice.
// Used by tests and by dry-run tooling that wants to inspect the op
// stream instead of driving a live session.
type Recorder struct {
	Ops []Op
}

// Submit implements Sink.
func (recorder *Recorder) Submit(op Op) {
	recorder.Ops = append(recorder.Ops, op)
}

// Interrupts returns the number of recorded interrupt ops.
func (recorder *Recorder) Interrupts() int {
	var count int
	for _, op := range recorder.Ops {
		if op.Type == OpTypeInterrupt {
			count++
		}
	}
	return count
}

// UserInputs returns the recorded user-input ops in submission order.
func (recorder *Recorder) UserInputs() []Op {
	var inputs []Op
	for _, op := range recorder.Ops {
		if op.Type == OpTypeUserInput {
			inputs = append(inputs, op)
		}
	}
	return inputs
}
