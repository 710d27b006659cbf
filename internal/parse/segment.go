// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import "strings"

// Chunk is one exam-sized slice of a source document: every line from one
// boundary (inclusive) to the next (exclusive). Metadata patterns run over
// the whole chunk, since header fields lead it and grading fields trail it.
type Chunk struct {
	// StartLine is the 1-based line number of the chunk's first line in the
	// source text, used to anchor diagnostics.
	StartLine int

	Lines []string
}

// Text joins the chunk back into newline-delimited text.
func (c Chunk) Text() string {
	return strings.Join(c.Lines, "\n")
}

// segState tracks the boundary scan. The segmenter is a two-state machine:
// before the first boundary it discards preamble, after it every line
// belongs to the open chunk.
type segState int

const (
	beforeFirstExam segState = iota
	inExam
)

// Segment splits source text into exam chunks at the template's header
// marker. A document with no detected boundaries is one chunk covering the
// whole text. Chunk order is appearance order; the scan is a single pass.
func Segment(text string, tpl *Template) []Chunk {
	lines := strings.Split(text, "\n")

	var chunks []Chunk
	var current Chunk
	state := beforeFirstExam

	for i, line := range lines {
		if tpl.Header.MatchString(line) {
			if state == inExam {
				chunks = append(chunks, current)
			}
			current = Chunk{StartLine: i + 1, Lines: []string{line}}
			state = inExam
			continue
		}
		if state == inExam {
			current.Lines = append(current.Lines, line)
		}
	}

	if state == inExam {
		chunks = append(chunks, current)
	}

	if len(chunks) == 0 {
		// No boundary found: the whole text is one exam and metadata
		// extraction is best-effort over it.
		return []Chunk{{StartLine: 1, Lines: lines}}
	}
	return chunks
}
