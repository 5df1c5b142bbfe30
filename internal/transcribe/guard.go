package transcribe

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"subgen/internal/logging"
)

const (
	// repeatLimit is the run length of identical normalized text at which
	// the guard treats the engine output as degenerate.
	repeatLimit = 8
	// repeatMinLength exempts short filler words from truncation.
	repeatMinLength = 8
)

// LoopGuard detects runaway repetition in engine output. Degenerate
// models can emit the same phrase indefinitely; the guard truncates the
// stream once the same normalized text has occurred repeatLimit times in
// a row and is at least repeatMinLength characters long.
type LoopGuard struct {
	last string
	run  int
}

// Admit reports whether the segment text should be consumed. A false
// return means the stream should be treated as ended.
func (g *LoopGuard) Admit(text string) bool {
	norm := normalizeText(text)
	if norm == g.last {
		g.run++
	} else {
		g.last = norm
		g.run = 1
	}

	return g.run < repeatLimit || utf8.RuneCountInString(norm) < repeatMinLength
}

// normalizeText lowercases, collapses whitespace runs, and trims.
func normalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// DrainGuarded consumes a stream through a loop guard and returns the
// collected segments sorted by start time (stable, to preserve discovery
// order on ties). Guard truncation closes the stream and is not an error.
func DrainGuarded(ctx context.Context, stream *Stream, logger *logging.Logger) ([]RawSegment, error) {
	var guard LoopGuard
	var segments []RawSegment
	truncated := false

	for seg := range stream.Segments() {
		if !guard.Admit(seg.Text) {
			logger.Warnw("repetition loop detected, truncating recognition output",
				"repeats", repeatLimit,
				"text", seg.Text,
				"kept", len(segments),
			)
			truncated = true
			stream.Close()
			break
		}
		segments = append(segments, seg)
	}

	if !truncated {
		if err := stream.Err(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	return segments, nil
}
