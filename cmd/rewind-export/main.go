// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// rewind-export renders a recorded session transcript to stdout as
// plain text. Compressed transcripts (.jsonl.zst, .jsonl.lz4) are
// decompressed transparently.
//
// By default every transcript entry is rendered, including tool calls
// and their output. With --messages-only, only the user/assistant
// conversation is kept, which reads like a chat log and pastes well
// into issues and reviews.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/rewindlabs/rewind/lib/cli"
	"github.com/rewindlabs/rewind/lib/transcript"
	"github.com/rewindlabs/rewind/lib/version"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var messagesOnly bool
	var width int

	flagSet := pflag.NewFlagSet("rewind-export", pflag.ContinueOnError)
	flagSet.BoolVar(&messagesOnly, "messages-only", false, "render only user/assistant messages")
	flagSet.IntVar(&width, "width", 0, "wrap to this many columns (default: terminal width, 0 on pipes)")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("rewind-export")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	if len(args) != 1 {
		return cli.Validation("expected exactly one transcript path, got %d arguments", len(args))
	}
	path := args[0]

	if !transcript.IsTranscriptPath(path) {
		return cli.Validation("%s does not look like a transcript", path).
			WithHint("Transcripts end in .jsonl, .jsonl.zst, or .jsonl.lz4.")
	}

	_, items, err := transcript.ReadFile(path)
	if err != nil {
		return cli.NotFound("read transcript %s: %w", path, err)
	}

	var lines []string
	if messagesOnly {
		lines = transcript.RenderConversation(items)
	} else {
		lines = transcript.RenderLines(items)
	}

	if width == 0 {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	for _, line := range lines {
		if width > 0 {
			line = ansi.Wrap(line, width, " ,.;-")
		}
		fmt.Println(line)
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Rewind transcript export — render a recorded session to plain text.

Usage:
  rewind-export [flags] PATH

Flags:
%s`, flagSet.FlagUsages())
}
