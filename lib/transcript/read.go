// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Header is the metadata record on the first line of a rollout file.
// Unknown fields are ignored; a first line that fails to parse yields
// a zero Header rather than an error.
type Header struct {
	// Timestamp is the session start time in RFC 3339 form.
	Timestamp string `json:"timestamp"`

	// ProviderResumeToken, when present, lets a session be resumed
	// server-side instead of replayed. Opaque to this package.
	ProviderResumeToken string `json:"provider_resume_token,omitempty"`

	// RecordedProjectRoot is the working directory the session was
	// recorded in.
	RecordedProjectRoot string `json:"recorded_project_root,omitempty"`
}

// maxLineBytes bounds a single transcript line. Tool outputs and
// instruction blocks can run to megabytes.
const maxLineBytes = 8 * 1024 * 1024

// ReadFile loads a session transcript: the header record from the
// first line, then one Item per subsequent line. Unparseable lines are
// skipped silently — a rollout file interleaves response items with
// foreign records and partial writes, and none of those are errors.
//
// Files ending in .zst or .lz4 are decompressed transparently.
func ReadFile(path string) (Header, []Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("opening transcript %s: %w", path, err)
	}
	defer file.Close()

	reader, closeReader, err := decompressingReader(file, path)
	if err != nil {
		return Header{}, nil, err
	}
	defer closeReader()

	return readAll(reader)
}

// readAll parses a transcript stream: header line first, items after.
func readAll(reader io.Reader) (Header, []Item, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var header Header
	var items []Item
	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if first {
			first = false
			// Best effort: a malformed header leaves the zero value.
			_ = json.Unmarshal(line, &header)
			continue
		}
		if len(line) == 0 {
			continue
		}
		item, ok := decodeItem(line)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return header, items, fmt.Errorf("scanning transcript: %w", err)
	}

	return header, items, nil
}

// decompressingReader wraps file in a decompressor selected by the
// path's extension. The returned close function releases decompressor
// resources; it does not close the underlying file.
func decompressingReader(file *os.File, path string) (io.Reader, func(), error) {
	switch {
	case strings.HasSuffix(path, ".zst"):
		decoder, err := zstd.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("opening zstd transcript %s: %w", path, err)
		}
		return decoder, decoder.Close, nil

	case strings.HasSuffix(path, ".lz4"):
		return lz4.NewReader(file), func() {}, nil

	default:
		return file, func() {}, nil
	}
}

// IsTranscriptPath reports whether path looks like a session transcript
// file: .jsonl, optionally with a .zst or .lz4 compression suffix.
func IsTranscriptPath(path string) bool {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(path, ".zst"), ".lz4")
	return strings.HasSuffix(trimmed, ".jsonl")
}
