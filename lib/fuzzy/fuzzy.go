// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

// Package fuzzy wraps fzf's matching algorithm behind a small
// case-insensitive API shared by the session picker and any CLI
// filtering.
package fuzzy

import (
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// Result is one fuzzy match outcome. A zero Score means no match;
// Positions are rune indices into the matched text, used for
// highlighting.
type Result struct {
	Score     int
	Positions []int
}

// NewSlab allocates a scratch slab for the matcher. Reuse one slab
// across calls in a loop; pass nil for one-off matches.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}

// Match scores pattern against text. Both sides are lowercased first,
// so matching is always case-insensitive. An empty pattern matches
// nothing.
func Match(text string, pattern []rune, slab *util.Slab) Result {
	if len(pattern) == 0 {
		return Result{}
	}

	lowered := make([]rune, len(pattern))
	for i, r := range pattern {
		lowered[i] = unicode.ToLower(r)
	}
	chars := util.ToChars([]byte(strings.ToLower(text)))

	match, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if match.Score <= 0 {
		return Result{}
	}
	result := Result{Score: match.Score}
	if positions != nil {
		result.Positions = *positions
	}
	return result
}
