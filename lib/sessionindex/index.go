// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package sessionindex

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/rewindlabs/rewind/lib/codec"
	"github.com/rewindlabs/rewind/lib/transcript"
)

// cacheVersion invalidates the whole cache when the Meta shape or the
// summarization rules change.
const cacheVersion = 1

type cacheEntry struct {
	// Digest is the BLAKE3 digest of the transcript file's bytes at
	// the time the metadata was extracted.
	Digest string `cbor:"digest"`
	Meta   Meta   `cbor:"meta"`
}

type cacheSnapshot struct {
	Version int                   `cbor:"version"`
	Entries map[string]cacheEntry `cbor:"entries"`
}

// Index scans a sessions directory for transcripts and summarizes
// each one, reusing cached summaries for files whose content has not
// changed. Not safe for concurrent use.
type Index struct {
	cachePath string
	entries   map[string]cacheEntry
	dirty     bool
}

// Open creates an Index backed by the cache file at cachePath. A
// missing, unreadable, or version-mismatched cache yields an empty
// index; every transcript is then summarized from scratch on the
// first Scan. An empty cachePath disables persistence entirely.
func Open(cachePath string) *Index {
	index := &Index{
		cachePath: cachePath,
		entries:   make(map[string]cacheEntry),
	}
	if cachePath == "" {
		return index
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return index
	}
	var snapshot cacheSnapshot
	if err := codec.Unmarshal(data, &snapshot); err != nil {
		slog.Debug("session index cache unreadable, rebuilding",
			"path", cachePath, "error", err)
		return index
	}
	if snapshot.Version != cacheVersion || snapshot.Entries == nil {
		return index
	}
	index.entries = snapshot.Entries
	return index
}

// Scan walks root recursively and returns a summary for every
// transcript file found, newest session first. Files that cannot be
// read or digested are skipped. The in-memory cache is replaced by
// the scan result, so entries for deleted files age out.
func (index *Index) Scan(root string) ([]Meta, error) {
	fresh := make(map[string]cacheEntry)
	var metas []Meta

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable subdirectory hides its sessions but does
			// not fail the scan.
			slog.Debug("skipping unreadable path", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !transcript.IsTranscriptPath(path) {
			return nil
		}

		digest, err := digestFile(path)
		if err != nil {
			slog.Debug("skipping undigestable transcript", "path", path, "error", err)
			return nil
		}
		if cached, ok := index.entries[path]; ok && cached.Digest == digest {
			fresh[path] = cached
			metas = append(metas, cached.Meta)
			return nil
		}

		header, items, err := transcript.ReadFile(path)
		if err != nil {
			slog.Debug("skipping unreadable transcript", "path", path, "error", err)
			return nil
		}
		meta := metaFromTranscript(path, header, items)
		fresh[path] = cacheEntry{Digest: digest, Meta: meta}
		metas = append(metas, meta)
		index.dirty = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning sessions under %s: %w", root, err)
	}

	if len(fresh) != len(index.entries) {
		index.dirty = true
	}
	index.entries = fresh

	// RFC 3339 timestamps sort lexicographically; path breaks ties so
	// the order is stable across scans.
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].Timestamp != metas[j].Timestamp {
			return metas[i].Timestamp > metas[j].Timestamp
		}
		return metas[i].Path < metas[j].Path
	})
	return metas, nil
}

// Save persists the cache if anything changed since Open or the last
// Save. The write is atomic: temp file in the same directory, then
// rename.
func (index *Index) Save() error {
	if index.cachePath == "" || !index.dirty {
		return nil
	}

	data, err := codec.Marshal(cacheSnapshot{
		Version: cacheVersion,
		Entries: index.entries,
	})
	if err != nil {
		return fmt.Errorf("encoding session index cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(index.cachePath), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmpPath := index.cachePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing session index cache: %w", err)
	}
	if err := os.Rename(tmpPath, index.cachePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming session index cache into place: %w", err)
	}
	index.dirty = false
	return nil
}

// WithUserMessages filters out sessions that have no real user turns.
// Auto-start sessions (instruction seeds only) are noise in a picker.
func WithUserMessages(metas []Meta) []Meta {
	var out []Meta
	for _, meta := range metas {
		if meta.UserMessages > 0 {
			out = append(out, meta)
		}
	}
	return out
}

// ForProject keeps only sessions recorded in the given project root.
// Sessions without a recorded root are excluded: there is no way to
// tell which project they belong to.
func ForProject(metas []Meta, projectRoot string) []Meta {
	var out []Meta
	for _, meta := range metas {
		if meta.RecordedProjectRoot != "" && meta.RecordedProjectRoot == projectRoot {
			out = append(out, meta)
		}
	}
	return out
}

// digestFile computes the BLAKE3 digest of the file's raw bytes
// (compressed form for compressed transcripts — recompression counts
// as a change, which only costs a re-summarize).
func digestFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
