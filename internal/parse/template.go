// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/n0call/examstats/pkg/types"
)

// Template describes one report format: the header line that marks an exam
// boundary and the per-field metadata patterns. Report templates differ
// between VEC systems, so extraction is a strategy value rather than a set
// of hardcoded patterns; alternate formats plug in without touching the
// segmenter or assembler.
//
// Each metadata pattern is independently optional. A pattern that does not
// match simply leaves its field unset.
type Template struct {
	// Name identifies the template in diagnostics and config.
	Name string

	// Header matches the line that begins each exam in a concatenated
	// report. Must match whole single lines.
	Header *regexp.Regexp

	// Candidate captures (name, pin) from the header line.
	Candidate *regexp.Regexp

	// Outcome captures the PASS/FAIL word.
	Outcome *regexp.Regexp

	// ReportedScore captures (correct, total) from the grading line.
	ReportedScore *regexp.Regexp

	// Element captures the element number.
	Element *regexp.Regexp

	// TestNumber captures the test number.
	TestNumber *regexp.Regexp

	// Validity captures (from, to) of the test validity range.
	Validity *regexp.Regexp

	// StartedAt captures (timestamp, examiner) of the exam start.
	StartedAt *regexp.Regexp

	// GradedAt captures (timestamp, examiner) of the grading.
	GradedAt *regexp.Regexp
}

// DefaultTemplate returns the template for the standard result-sheet format:
// a "Name (PIN: NNNN)" candidate header, "Test Passed/Failed - N out of M"
// grading line, and "Exam started/graded at ... by ..." footer lines.
func DefaultTemplate() *Template {
	return &Template{
		Name:          "default",
		Header:        regexp.MustCompile(`^\s*.+?\s+\(PIN:\s*\d+\)\s*$`),
		Candidate:     regexp.MustCompile(`(?m)^\s*(.+?)\s+\(PIN:\s*(\d+)\)\s*$`),
		Outcome:       regexp.MustCompile(`\b(FAIL|PASS)\b`),
		ReportedScore: regexp.MustCompile(`Test\s+(?:Failed|Passed)\s+-\s+(\d+)\s+out of\s+(\d+)`),
		Element:       regexp.MustCompile(`Element\s+(\d+)`),
		TestNumber:    regexp.MustCompile(`Test\s+#(\d+)`),
		Validity:      regexp.MustCompile(`valid\s+(.+?)\s+—\s+(.+?)\n`),
		StartedAt:     regexp.MustCompile(`Exam started at\s+(.+?)\s+by\s+(\S+)`),
		GradedAt:      regexp.MustCompile(`Exam graded at\s+(.+?)\s+by\s+(\S+)`),
	}
}

// ExtractMetadata applies the template's field patterns over one exam
// block. Missing fields stay zero; nothing here is fatal.
func (t *Template) ExtractMetadata(text string) types.Metadata {
	var md types.Metadata

	if m := find(t.Candidate, text, 2); m != nil {
		md.CandidateName = strings.TrimSpace(m[1])
		md.PIN = m[2]
	}
	if m := find(t.Outcome, text, 1); m != nil {
		md.Outcome = m[1]
	}
	if m := find(t.ReportedScore, text, 2); m != nil {
		md.ReportedCorrect, _ = strconv.Atoi(m[1])
		md.ReportedTotal, _ = strconv.Atoi(m[2])
	}
	if m := find(t.Element, text, 1); m != nil {
		md.Element, _ = strconv.Atoi(m[1])
	}
	if m := find(t.TestNumber, text, 1); m != nil {
		md.TestNumber = m[1]
	}
	if m := find(t.Validity, text, 2); m != nil {
		md.ValidFrom = strings.TrimSpace(m[1])
		md.ValidTo = strings.TrimSpace(m[2])
	}
	if m := find(t.StartedAt, text, 2); m != nil {
		md.ExamStartedAt = strings.TrimSpace(m[1])
		md.ExamStartedBy = m[2]
	}
	if m := find(t.GradedAt, text, 2); m != nil {
		md.ExamGradedAt = strings.TrimSpace(m[1])
		md.ExamGradedBy = m[2]
	}

	return md
}

// find runs re over text and returns the submatches when the pattern is set,
// matches, and captured at least n groups.
func find(re *regexp.Regexp, text string, n int) []string {
	if re == nil {
		return nil
	}
	m := re.FindStringSubmatch(text)
	if m == nil || len(m) < n+1 {
		return nil
	}
	return m
}
