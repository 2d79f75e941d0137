// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// OverlayFileName is the per-project override file, looked up in the
// project root. JSONC: comments and trailing commas are allowed.
const OverlayFileName = ".rewind.jsonc"

// overlay is the subset of the configuration a project may override.
// Paths are deliberately excluded — a checked-in file must not be
// able to redirect where transcripts are read from or logs written
// to.
type overlay struct {
	Replay *struct {
		MaxTokensPerChunk *int    `json:"max_tokens_per_chunk"`
		MaxTokensPerSend  *int    `json:"max_tokens_per_send"`
		AutoAdvance       *bool   `json:"auto_advance"`
		AdvanceInterval   *string `json:"advance_interval"`
	} `json:"replay"`
	Logging *struct {
		Level *string `json:"level"`
	} `json:"logging"`
}

// ApplyProjectOverlay merges the project's .rewind.jsonc into the
// config, if one exists. A missing file is not an error; a present
// but malformed file is.
func (c *Config) ApplyProjectOverlay(projectRoot string) error {
	path := filepath.Join(projectRoot, OverlayFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading project overlay %s: %w", path, err)
	}

	var over overlay
	if err := json.Unmarshal(jsonc.ToJSON(data), &over); err != nil {
		return fmt.Errorf("parsing project overlay %s: %w", path, err)
	}

	if over.Replay != nil {
		if over.Replay.MaxTokensPerChunk != nil {
			c.Replay.MaxTokensPerChunk = *over.Replay.MaxTokensPerChunk
		}
		if over.Replay.MaxTokensPerSend != nil {
			c.Replay.MaxTokensPerSend = *over.Replay.MaxTokensPerSend
		}
		if over.Replay.AutoAdvance != nil {
			c.Replay.AutoAdvance = *over.Replay.AutoAdvance
		}
		if over.Replay.AdvanceInterval != nil {
			c.Replay.AdvanceInterval = *over.Replay.AdvanceInterval
		}
	}
	if over.Logging != nil && over.Logging.Level != nil {
		c.Logging.Level = *over.Logging.Level
	}
	return nil
}
