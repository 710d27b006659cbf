// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns rendered exam-report text into structured exam
// records: row matching, exam segmentation, metadata extraction, and
// assembly. All functions are pure; callers own the returned values.
package parse

import (
	"regexp"
	"strconv"

	"github.com/n0call/examstats/pkg/types"
)

var (
	// rowRe matches a graded question row such as
	// "17. T5B04: D (should be A)". The trailing clause is optional.
	// Selected and correct answers accept any uppercase letter; answer-choice
	// alphabets vary between exam formats. Unanchored: two-column renders
	// place two rows on one physical line.
	rowRe = regexp.MustCompile(
		`(\d+)\.\s*([A-Z]\d[A-Z]\d{2}):\s*([A-Z])\b\s*(?:\(\s*should be\s*([A-Z])\s*\))?`)

	// idTokenRe spots a question-id token on lines that fail the full row
	// pattern, so near-miss rows can be reported instead of vanishing. The
	// second alternative catches a numbered id whose colon a render lost.
	idTokenRe = regexp.MustCompile(`\b[A-Z]\d[A-Z]\d{2}:|\b\d+\.\s*[A-Z]\d[A-Z]\d{2}\b`)
)

// Diagnostic describes a line the parser noticed but could not (or would
// not silently) accept. Diagnostics are advisory; they never fail a parse.
type Diagnostic struct {
	// Line is the 1-based line number within the exam block.
	Line int `json:"line" yaml:"line"`

	Text   string `json:"text" yaml:"text"`
	Reason string `json:"reason" yaml:"reason"`
}

const (
	reasonPartialRow    = "partial row match: question id without a parsable answer"
	reasonContradictory = "contradictory annotation: (should be) names the selected answer"
)

// MatchRow reports whether line carries a question-result row and, if so,
// the first parsed result on it. A row without a "(should be X)" clause is
// correct by construction. Lines that do not fit the pattern return
// ok=false; they are metadata or noise, not errors.
func MatchRow(line string) (types.QuestionResult, bool) {
	rows := matchRows(line)
	if len(rows) == 0 {
		return types.QuestionResult{}, false
	}
	return rows[0].result, true
}

// rowMatch pairs a parsed row with its contradictory-annotation flag: a row
// whose stated correct answer equals the selected one. Such rows score as
// correct (the annotation agrees with the selection) but the assembler
// reports them.
type rowMatch struct {
	result        types.QuestionResult
	contradictory bool
}

// matchRows returns every question row on a line, left to right, so both
// columns of a two-column render survive when they land on one line.
func matchRows(line string) []rowMatch {
	ms := rowRe.FindAllStringSubmatch(line, -1)
	if ms == nil {
		return nil
	}

	rows := make([]rowMatch, 0, len(ms))
	for _, m := range ms {
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		selected := m[3]
		correct := m[4]
		contradictory := correct != "" && correct == selected
		if correct == "" {
			correct = selected
		}

		rows = append(rows, rowMatch{
			result: types.QuestionResult{
				Number:     number,
				QuestionID: m[2],
				Selected:   selected,
				Correct:    correct,
				IsCorrect:  selected == correct,
			},
			contradictory: contradictory,
		})
	}
	return rows
}

// looksLikeRow reports whether a non-matching line still carries a
// question-id token, i.e. is probably a malformed row.
func looksLikeRow(line string) bool {
	return idTokenRe.MatchString(line)
}
