// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the examstats pipeline.
// All entities are value objects built bottom-up (QuestionResult → Exam →
// Source → AggregateResult) and are never mutated after their containing
// parent finishes construction.
package types

// QuestionResult is one graded question instance parsed from a result row.
type QuestionResult struct {
	// Number is the question's position within its exam (1-based, not
	// globally unique).
	Number int `json:"number" yaml:"number"`

	// QuestionID is the exam-bank identifier, e.g. "T3A04": element letter,
	// section digit, subsection letter, two-digit question number.
	QuestionID string `json:"question_id" yaml:"question_id"`

	// Selected is the test-taker's answer choice, a single uppercase letter.
	Selected string `json:"selected" yaml:"selected"`

	// Correct is the answer key's letter. It equals Selected unless the row
	// carried a "(should be X)" annotation.
	Correct string `json:"correct" yaml:"correct"`

	// IsCorrect reports whether Selected equals Correct.
	IsCorrect bool `json:"is_correct" yaml:"is_correct"`
}

// SectionID returns the section grouping key: element plus section digit
// (e.g. "T3"). Empty when the id is too short to carry one.
func (q QuestionResult) SectionID() string {
	if len(q.QuestionID) < 2 {
		return ""
	}
	return q.QuestionID[:2]
}

// SubsectionID returns the subsection grouping key: element, section digit,
// and subsection letter (e.g. "T3A").
func (q QuestionResult) SubsectionID() string {
	if len(q.QuestionID) < 3 {
		return ""
	}
	return q.QuestionID[:3]
}

// Metadata holds exam/candidate header and footer fields extracted from one
// exam block. Every field is independently optional; absent fields are
// omitted from serialized output.
type Metadata struct {
	CandidateName   string `json:"candidate_name,omitempty" yaml:"candidate_name,omitempty"`
	PIN             string `json:"pin,omitempty" yaml:"pin,omitempty"`
	Outcome         string `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	ReportedCorrect int    `json:"reported_correct,omitempty" yaml:"reported_correct,omitempty"`
	ReportedTotal   int    `json:"reported_total,omitempty" yaml:"reported_total,omitempty"`
	Element         int    `json:"element,omitempty" yaml:"element,omitempty"`
	TestNumber      string `json:"test_number,omitempty" yaml:"test_number,omitempty"`
	ValidFrom       string `json:"valid_from,omitempty" yaml:"valid_from,omitempty"`
	ValidTo         string `json:"valid_to,omitempty" yaml:"valid_to,omitempty"`
	ExamStartedAt   string `json:"exam_started_at,omitempty" yaml:"exam_started_at,omitempty"`
	ExamStartedBy   string `json:"exam_started_by,omitempty" yaml:"exam_started_by,omitempty"`
	ExamGradedAt    string `json:"exam_graded_at,omitempty" yaml:"exam_graded_at,omitempty"`
	ExamGradedBy    string `json:"exam_graded_by,omitempty" yaml:"exam_graded_by,omitempty"`
}

// Summary holds derived correctness totals for an exam, a source, or a
// whole run. The optional fields appear only at the levels that use them.
type Summary struct {
	// Files is the number of input files in a multi-source run.
	Files int `json:"total_input_files,omitempty" yaml:"total_input_files,omitempty"`

	// Exams is the number of exams parsed, set on multi-exam sources and
	// aggregate runs.
	Exams int `json:"total_exams_parsed,omitempty" yaml:"total_exams_parsed,omitempty"`

	// Total is the number of questions parsed.
	Total int `json:"total_questions_parsed" yaml:"total_questions_parsed"`

	Correct   int `json:"correct" yaml:"correct"`
	Incorrect int `json:"incorrect" yaml:"incorrect"`

	// Accuracy is Correct/Total, or 0 when Total is 0. Unrounded.
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`

	// Integrity checks over question numbering, computed per exam against
	// the reported total when metadata carries one, else the highest number
	// seen. Empty for exams with no parsed rows.
	MissingNumbers    []int `json:"missing_numbers,omitempty" yaml:"missing_numbers,omitempty"`
	DuplicateNumbers  []int `json:"duplicate_numbers,omitempty" yaml:"duplicate_numbers,omitempty"`
	UnexpectedNumbers []int `json:"unexpected_numbers,omitempty" yaml:"unexpected_numbers,omitempty"`
}

// Exam is one complete test attempt: header metadata, graded questions in
// order of appearance, and the derived summary.
type Exam struct {
	Metadata  Metadata         `json:"metadata" yaml:"metadata"`
	Summary   Summary          `json:"summary" yaml:"summary"`
	Questions []QuestionResult `json:"questions" yaml:"questions"`
}

// Source is one input document's parse result. A single-exam document is
// flattened (Questions set, Exams nil); a concatenated document carries its
// exams under Exams with a rolled-up Summary and the candidate identity
// promoted into Metadata.
type Source struct {
	// Path identifies the input this result came from.
	Path string `json:"source" yaml:"source"`

	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Summary  Summary  `json:"summary" yaml:"summary"`

	Questions []QuestionResult `json:"questions,omitempty" yaml:"questions,omitempty"`
	Exams     []Exam           `json:"exams,omitempty" yaml:"exams,omitempty"`
}

// ExamList normalizes single-exam and multi-exam sources to a list of exams.
func (s *Source) ExamList() []Exam {
	if len(s.Exams) > 0 {
		return s.Exams
	}
	return []Exam{{Metadata: s.Metadata, Summary: s.Summary, Questions: s.Questions}}
}

// FlatRow is a question-level record flattened across sources and exams,
// the shape row-level CSV output uses.
type FlatRow struct {
	Source     string `json:"source" yaml:"source"`
	ExamIndex  int    `json:"exam_index_in_source" yaml:"exam_index_in_source"`
	TestNumber string `json:"test_number" yaml:"test_number"`
	Element    int    `json:"element" yaml:"element"`
	Number     int    `json:"number" yaml:"number"`
	QuestionID string `json:"question_id" yaml:"question_id"`
	Selected   string `json:"selected" yaml:"selected"`
	Correct    string `json:"correct" yaml:"correct"`
	IsCorrect  bool   `json:"is_correct" yaml:"is_correct"`
}

// FlatRows flattens a source's exams into question-level rows, preserving
// exam order and within-exam question order. ExamIndex is 1-based.
func (s *Source) FlatRows() []FlatRow {
	var rows []FlatRow
	for i, exam := range s.ExamList() {
		for _, q := range exam.Questions {
			rows = append(rows, FlatRow{
				Source:     s.Path,
				ExamIndex:  i + 1,
				TestNumber: exam.Metadata.TestNumber,
				Element:    exam.Metadata.Element,
				Number:     q.Number,
				QuestionID: q.QuestionID,
				Selected:   q.Selected,
				Correct:    q.Correct,
				IsCorrect:  q.IsCorrect,
			})
		}
	}
	return rows
}

// Summarize reduces a question sequence to its correctness totals.
// Accuracy is 0 when the sequence is empty.
func Summarize(questions []QuestionResult) Summary {
	s := Summary{Total: len(questions)}
	for _, q := range questions {
		if q.IsCorrect {
			s.Correct++
		}
	}
	s.Incorrect = s.Total - s.Correct
	if s.Total > 0 {
		s.Accuracy = float64(s.Correct) / float64(s.Total)
	}
	return s
}

// StatEntry is one row of an aggregate accuracy table: a question, section,
// or subsection id with its attempt counts across every exam considered.
type StatEntry struct {
	ID        string  `json:"id" yaml:"id"`
	Attempts  int     `json:"attempts" yaml:"attempts"`
	Correct   int     `json:"correct" yaml:"correct"`
	Incorrect int     `json:"incorrect" yaml:"incorrect"`
	Accuracy  float64 `json:"accuracy" yaml:"accuracy"`
}

// SourceFailure records a source that could not be parsed at all.
type SourceFailure struct {
	Source string `json:"source" yaml:"source"`
	Error  string `json:"error" yaml:"error"`
}

// AggregateResult is the combined output of a multi-source run. Sources
// preserves input order; Results keys are the entries of Sources.
type AggregateResult struct {
	Sources []string `json:"sources" yaml:"sources"`
	Summary Summary  `json:"summary" yaml:"summary"`

	// Stat tables are sorted ascending by accuracy (hardest first); ties
	// keep first-encounter order.
	QuestionStats   []StatEntry `json:"question_stats" yaml:"question_stats"`
	SectionStats    []StatEntry `json:"section_stats" yaml:"section_stats"`
	SubsectionStats []StatEntry `json:"subsection_stats" yaml:"subsection_stats"`

	// Results maps each source identifier to its full parse result,
	// unmodified.
	Results map[string]*Source `json:"results" yaml:"results"`

	// FailedSources lists inputs that produced no result. Present only on
	// partial-failure runs.
	FailedSources []SourceFailure `json:"failed_sources,omitempty" yaml:"failed_sources,omitempty"`
}
