// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides shared command-line plumbing: categorized
// errors with exit codes, and usage failure helpers.
package cli

import "fmt"

// ErrorCategory classifies command errors so the entrypoint can pick
// an exit code and decide whether to print usage, without parsing
// error message text.
type ErrorCategory string

const (
	// CategoryValidation indicates bad invocation: unknown flags,
	// wrong argument count, unparseable values. The user should fix
	// the command line; usage is printed.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not
	// exist: a transcript path, a sessions directory, a config file.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryInternal indicates an unexpected failure: I/O errors,
	// bugs, malformed data the system itself produced.
	CategoryInternal ErrorCategory = "internal"
)

// CommandError is a categorized error returned by command
// implementations. The shared entrypoint maps the category to an exit
// code and chooses whether to show usage.
type CommandError struct {
	// Category classifies the error.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is an optional recovery suggestion, printed after the
	// message.
	Hint string
}

// Error returns the underlying error message, with the hint appended
// when present. The category is not part of the text; it travels
// separately to the exit-code mapping.
func (e *CommandError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// WithHint attaches a recovery suggestion and returns the receiver,
// so it chains off the constructors.
func (e *CommandError) WithHint(hint string) *CommandError {
	e.Hint = hint
	return e
}

// Unwrap returns the underlying error, so errors.Is and errors.As
// walk the chain through the CommandError wrapper.
func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode maps the category to a process exit code: 2 for usage
// errors, 3 for missing resources, 1 for everything else.
func (e *CommandError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	default:
		return 1
	}
}

// Validation creates a validation error: the invocation was wrong.
func Validation(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *CommandError {
	return &CommandError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
