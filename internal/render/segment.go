// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns raw bot replies into styled terminal output:
// fenced code blocks get syntax highlighting, inline code gets a subtle
// background, everything else flows as text.
package render

import "strings"

// =============================================================================
// SEGMENT TYPES
// =============================================================================

// Kind discriminates segment variants.
type Kind int

const (
	KindText Kind = iota
	KindCode
)

// Segment is one run of a message: either plain text or the body of a
// fenced code block with its language tag.
type Segment struct {
	Kind     Kind
	Content  string
	Language string // only set for KindCode; empty when the fence had no tag
}

// =============================================================================
// FENCE TOKENIZER
// =============================================================================

// Split partitions raw message text into text and code segments in
// source order. A fence opens with ``` at the start of a line,
// optionally followed by a language tag, and closes with a bare ```
// line. An unterminated fence is not a code block: its lines fold back
// into the surrounding text. Each call scans fresh; there is no state
// carried between calls.
func Split(raw string) []Segment {
	lines := strings.Split(raw, "\n")

	var segments []Segment
	var textLines []string
	var codeLines []string
	var language string
	var fenceLine string
	inCode := false

	flushText := func() {
		if len(textLines) == 0 {
			return
		}
		segments = append(segments, Segment{
			Kind:    KindText,
			Content: strings.Join(textLines, "\n"),
		})
		textLines = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			if inCode {
				segments = append(segments, Segment{
					Kind:     KindCode,
					Content:  strings.Join(codeLines, "\n"),
					Language: language,
				})
				codeLines = nil
				language = ""
				inCode = false
			} else {
				flushText()
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				fenceLine = line
				inCode = true
			}
			continue
		}

		if inCode {
			codeLines = append(codeLines, line)
		} else {
			textLines = append(textLines, line)
		}
	}

	// An unterminated fence renders as plain text, opener included.
	// The opener flushed any preceding text, so the fold-back rejoins
	// that segment: an input with no closed fence stays one segment.
	if inCode {
		fold := append([]string{fenceLine}, codeLines...)
		if n := len(segments); n > 0 && segments[n-1].Kind == KindText {
			segments[n-1].Content += "\n" + strings.Join(fold, "\n")
		} else {
			textLines = append(textLines, fold...)
		}
	}
	flushText()

	if len(segments) == 0 {
		return []Segment{{Kind: KindText, Content: raw}}
	}
	return segments
}

// CodeSegments filters the code segments out of a split.
func CodeSegments(segments []Segment) []Segment {
	var out []Segment
	for _, s := range segments {
		if s.Kind == KindCode {
			out = append(out, s)
		}
	}
	return out
}
