// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// rewind is the interactive session browser: it scans the recorded
// session directory, lists sessions for the current project, and can
// view a transcript or replay it into an agent session in bounded
// segments.
//
// Two modes of operation:
//
// Browse mode (default): full-screen TUI. The footer action selector
// chooses what Enter does to the highlighted session (View / Replay /
// Resume).
//
// Headless mode (--replay PATH): replays one transcript without the
// TUI, advancing on the configured interval, and prints a summary.
// Useful for scripting and for inspecting the op stream with
// --op-log.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/rewindlabs/rewind/lib/cli"
	"github.com/rewindlabs/rewind/lib/clock"
	"github.com/rewindlabs/rewind/lib/config"
	"github.com/rewindlabs/rewind/lib/replay"
	"github.com/rewindlabs/rewind/lib/replayui"
	"github.com/rewindlabs/rewind/lib/session"
	"github.com/rewindlabs/rewind/lib/sessionindex"
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
	var configPath string
	var sessionsDir string
	var logOutput string
	var opLogDir string
	var replayPath string
	var manual bool

	flagSet := pflag.NewFlagSet("rewind", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "config file path (default: $REWIND_CONFIG, else built-in defaults)")
	flagSet.StringVar(&sessionsDir, "sessions", "", "sessions directory (overrides config)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file (overrides config)")
	flagSet.StringVar(&opLogDir, "op-log", "", "directory for per-replay op logs (overrides config)")
	flagSet.StringVar(&replayPath, "replay", "", "replay this transcript headlessly and exit")
	flagSet.BoolVar(&manual, "manual", false, "advance only on Enter instead of the timer")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("rewind")
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
	if args := flagSet.Args(); len(args) > 0 {
		return cli.Validation("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if sessionsDir != "" {
		cfg.Paths.Sessions = sessionsDir
	}
	if logOutput != "" {
		cfg.Logging.Output = logOutput
	}
	if opLogDir != "" {
		cfg.Paths.OpLog = opLogDir
	}
	if manual {
		cfg.Replay.AutoAdvance = false
	}

	workingDir, err := os.Getwd()
	if err != nil {
		return cli.Internal("determine working directory: %w", err)
	}
	projectRoot := sessionindex.DetectProjectRoot(workingDir)
	if err := cfg.ApplyProjectOverlay(projectRoot); err != nil {
		return cli.Validation("apply project overrides: %w", err).
			WithHint("Check " + filepath.Join(projectRoot, config.OverlayFileName) + " for syntax errors.")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Validation("invalid configuration: %w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return cli.Internal("create data directories: %w", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if replayPath != "" {
		return runHeadless(cfg, logger, replayPath)
	}
	return runBrowser(cfg, logger, projectRoot)
}

// loadConfig resolves the config source: an explicit --config wins,
// then $REWIND_CONFIG, then built-in defaults.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, cli.Validation("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, cli.Validation("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the background logger. A TUI owns the terminal, so
// records go to the configured file or nowhere.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.Logging.Output == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.OpenFile(cfg.Logging.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, cli.Validation("open log output %s: %w", cfg.Logging.Output, err)
	}
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
	return logger, func() { file.Close() }, nil
}

// newSink builds the op delivery chain: an outbox drained by a logging
// consumer, optionally fronted by a JSONL op-log writer.
func newSink(cfg *config.Config, logger *slog.Logger) (session.Sink, func(), error) {
	outbox := session.NewOutbox(logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for op := range outbox.Ops() {
			logger.Debug("session op", "type", op.Type, "bytes", len(op.Text))
		}
	}()

	var sink session.Sink = outbox
	var writer *session.OpLogWriter
	if cfg.Paths.OpLog != "" {
		path := filepath.Join(cfg.Paths.OpLog,
			time.Now().UTC().Format("20060102-150405")+".oplog.jsonl")
		var err error
		writer, err = session.NewOpLogWriter(path, outbox, logger)
		if err != nil {
			outbox.Close()
			<-done
			return nil, nil, cli.Internal("open op log: %w", err)
		}
		sink = writer
	}

	cleanup := func() {
		if writer != nil {
			summary := writer.Summary()
			logger.Info("op log closed",
				"user_inputs", summary.UserInputs,
				"interrupts", summary.Interrupts,
				"text_bytes", summary.TextBytes)
			writer.Close()
		}
		outbox.Close()
		<-done
	}
	return sink, cleanup, nil
}

func runBrowser(cfg *config.Config, logger *slog.Logger, projectRoot string) error {
	index := sessionindex.Open(cfg.CachePath())
	sessions, err := index.Scan(cfg.Paths.Sessions)
	if err != nil {
		return cli.Internal("scan sessions: %w", err).
			WithHint("Check that " + cfg.Paths.Sessions + " is readable.")
	}
	if err := index.Save(); err != nil {
		logger.Warn("session index cache not saved", "error", err)
	}

	sink, cleanup, err := newSink(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var resumed *sessionindex.Meta
	model := replayui.NewModel(replayui.Options{
		Sessions:          sessions,
		ProjectRoot:       projectRoot,
		Session:           sink,
		MaxTokensPerChunk: cfg.Replay.MaxTokensPerChunk,
		MaxTokensPerSend:  cfg.Replay.MaxTokensPerSend,
		AutoAdvance:       cfg.Replay.AutoAdvance,
		AdvanceInterval:   cfg.AdvanceInterval(),
		OnResume: func(meta sessionindex.Meta) {
			resumed = &meta
		},
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return cli.Internal("run browser: %w", err)
	}

	// A resume request outlives the TUI: hand the token to whatever
	// launched us.
	if resumed != nil {
		fmt.Printf("resume %s %s\n", resumed.ProviderToken, resumed.Path)
	}
	return nil
}

// runHeadless replays one transcript on a timer without the TUI.
func runHeadless(cfg *config.Config, logger *slog.Logger, path string) error {
	_, items, err := transcript.ReadFile(path)
	if err != nil {
		return cli.NotFound("read transcript %s: %w", path, err)
	}

	plan := replay.NewPlan(items, replay.PlanOptions{
		MaxTokensPerChunk: cfg.Replay.MaxTokensPerChunk,
		MaxTokensPerSend:  cfg.Replay.MaxTokensPerSend,
	})
	if len(plan.Segments) == 0 {
		return cli.Validation("nothing to replay: no eligible items in %s", path)
	}

	sink, cleanup, err := newSink(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var approxTokens, segments int
	driver := replay.NewDriver(plan, replay.DriverConfig{
		Session: sink,
		OnComplete: func(tokens, count int) {
			approxTokens, segments = tokens, count
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	replay.AutoAdvance(ctx, driver, clock.Real(), cfg.AdvanceInterval())

	fmt.Printf("replayed %s: %d segments, ~%d tokens\n", path, segments, approxTokens)
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Rewind session browser — replay recorded agent sessions in bounded segments.

Scans the configured sessions directory and lists recorded sessions
for the current project (press a to widen to all sessions, / to
filter). Enter runs the footer action on the highlighted session:
View opens a read-only transcript viewer, Replay re-injects the
conversation into the live agent session segment by segment, Resume
hands the stored provider token back to the launcher.

Configuration comes from --config, then $REWIND_CONFIG, then built-in
defaults ($HOME/.rewind). A %s file at the project
root may override replay pacing and log level.

Usage:
  rewind [flags]

Flags:
%s`, config.OverlayFileName, flagSet.FlagUsages())
}
