// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCommandErrorWithoutHint(t *testing.T) {
	err := Validation("unknown flag --spped")
	if err.Error() != "unknown flag --spped" {
		t.Errorf("Error() = %q", err.Error())
	}
	if strings.Contains(err.Error(), "\n\n") {
		t.Error("empty hint should not add a blank line")
	}
}

func TestCommandErrorWithHint(t *testing.T) {
	err := NotFound("no sessions under %s", "/tmp/none").
		WithHint("Set paths.sessions in your config, or pass --sessions.")

	want := "no sessions under /tmp/none\n\nSet paths.sessions in your config, or pass --sessions."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Category != CategoryNotFound {
		t.Errorf("Category = %q, want %q", err.Category, CategoryNotFound)
	}
}

func TestCommandErrorWithHintReturnsReceiver(t *testing.T) {
	original := Validation("bad input")
	if original.WithHint("fix it") != original {
		t.Error("WithHint should return the same pointer")
	}
}

func TestCommandErrorSurvivesWrapping(t *testing.T) {
	inner := Internal("cache write failed").WithHint("check disk space")
	wrapped := fmt.Errorf("startup: %w", inner)

	var cmdErr *CommandError
	if !errors.As(wrapped, &cmdErr) {
		t.Fatal("errors.As should find CommandError in wrapped chain")
	}
	if cmdErr.Hint != "check disk space" {
		t.Errorf("Hint = %q after unwrap", cmdErr.Hint)
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		err  *CommandError
		code int
	}{
		{Validation("bad"), 2},
		{NotFound("missing"), 3},
		{Internal("bug"), 1},
	}
	for _, test := range tests {
		if got := test.err.ExitCode(); got != test.code {
			t.Errorf("%s: exit code %d, want %d", test.err.Category, got, test.code)
		}
	}
}
