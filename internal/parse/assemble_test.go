// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"
	"testing"

	"github.com/n0call/examstats/pkg/types"
)

const fullExamText = `John Q Public (PIN: 5678)
FCC Technician Exam - Element 2
Test #42
FAIL
Test Failed - 1 out of 2
valid 2026-01-01 — 2026-12-31
1. T3A04: A
2. T3A05: B (should be C)
Exam started at 2026-03-01 10:00 by KE0ABC
Exam graded at 2026-03-01 10:45 by KE0XYZ
`

func chunkOf(text string) Chunk {
	return Chunk{StartLine: 1, Lines: strings.Split(text, "\n")}
}

func TestExtractMetadata(t *testing.T) {
	md := DefaultTemplate().ExtractMetadata(fullExamText)

	want := types.Metadata{
		CandidateName:   "John Q Public",
		PIN:             "5678",
		Outcome:         "FAIL",
		ReportedCorrect: 1,
		ReportedTotal:   2,
		Element:         2,
		TestNumber:      "42",
		ValidFrom:       "2026-01-01",
		ValidTo:         "2026-12-31",
		ExamStartedAt:   "2026-03-01 10:00",
		ExamStartedBy:   "KE0ABC",
		ExamGradedAt:    "2026-03-01 10:45",
		ExamGradedBy:    "KE0XYZ",
	}
	if md != want {
		t.Errorf("ExtractMetadata = %+v, want %+v", md, want)
	}
}

func TestExtractMetadataMissingFields(t *testing.T) {
	md := DefaultTemplate().ExtractMetadata("1. T3A04: A\n")
	if md != (types.Metadata{}) {
		t.Errorf("expected empty metadata, got %+v", md)
	}
}

func TestAssemble(t *testing.T) {
	exam, diags := Assemble(chunkOf(fullExamText), DefaultTemplate(), types.ParseOptions{})

	if len(exam.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(exam.Questions))
	}
	if exam.Summary.Total != len(exam.Questions) {
		t.Errorf("summary.Total = %d, want %d", exam.Summary.Total, len(exam.Questions))
	}
	if exam.Summary.Correct != 1 || exam.Summary.Incorrect != 1 {
		t.Errorf("summary = %d correct / %d incorrect, want 1/1", exam.Summary.Correct, exam.Summary.Incorrect)
	}
	if exam.Summary.Accuracy != 0.5 {
		t.Errorf("summary.Accuracy = %v, want 0.5", exam.Summary.Accuracy)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %+v", diags)
	}
}

func TestAssembleEmptyChunk(t *testing.T) {
	exam, diags := Assemble(chunkOf("no rows here\njust noise\n"), DefaultTemplate(), types.ParseOptions{})

	if len(exam.Questions) != 0 {
		t.Errorf("got %d questions, want 0", len(exam.Questions))
	}
	if exam.Summary.Total != 0 || exam.Summary.Accuracy != 0 {
		t.Errorf("empty exam summary = %+v, want zero totals", exam.Summary)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %+v", diags)
	}
}

func TestAssembleAppearanceOrder(t *testing.T) {
	// Two-column renders interleave numbering; appearance order wins by
	// default and --sort-rows restores numeric order.
	text := "1. T1A01: A\n18. T5B04: B\n2. T1A02: C\n19. T5B05: D\n"

	exam, _ := Assemble(chunkOf(text), DefaultTemplate(), types.ParseOptions{})
	gotOrder := []int{}
	for _, q := range exam.Questions {
		gotOrder = append(gotOrder, q.Number)
	}
	wantOrder := []int{1, 18, 2, 19}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("appearance order = %v, want %v", gotOrder, wantOrder)
		}
	}

	sorted, _ := Assemble(chunkOf(text), DefaultTemplate(), types.ParseOptions{SortByNumber: true})
	wantSorted := []int{1, 2, 18, 19}
	for i, q := range sorted.Questions {
		if q.Number != wantSorted[i] {
			t.Fatalf("sorted order wrong at %d: got %d, want %d", i, q.Number, wantSorted[i])
		}
	}
}

func TestAssembleTwoColumnSingleLine(t *testing.T) {
	// Some renders keep both columns on one physical line; every row on the
	// line must survive, left column first.
	text := "Test Passed - 3 out of 4\n" +
		"1. T1A01: A        18. T5B04: B (should be C)\n" +
		"2. T1A02: D        19. T5B05: A\n"

	exam, diags := Assemble(chunkOf(text), DefaultTemplate(), types.ParseOptions{})
	if len(exam.Questions) != 4 {
		t.Fatalf("got %d questions, want 4", len(exam.Questions))
	}
	wantOrder := []int{1, 18, 2, 19}
	for i, q := range exam.Questions {
		if q.Number != wantOrder[i] {
			t.Fatalf("question %d has number %d, want %d", i, q.Number, wantOrder[i])
		}
	}
	if exam.Summary.Correct != 3 || exam.Summary.Incorrect != 1 {
		t.Errorf("summary = %d correct / %d incorrect, want 3/1", exam.Summary.Correct, exam.Summary.Incorrect)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %+v", diags)
	}

	sorted, _ := Assemble(chunkOf(text), DefaultTemplate(), types.ParseOptions{SortByNumber: true})
	wantSorted := []int{1, 2, 18, 19}
	for i, q := range sorted.Questions {
		if q.Number != wantSorted[i] {
			t.Fatalf("sorted order wrong at %d: got %d, want %d", i, q.Number, wantSorted[i])
		}
	}
}

func TestAssembleNumberingIntegrity(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantMissing    []int
		wantDuplicates []int
		wantUnexpected []int
	}{
		{
			name:        "missing number against reported total",
			text:        "Test Failed - 1 out of 3\n1. T1A01: A\n3. T1A03: B\n",
			wantMissing: []int{2},
		},
		{
			name:           "duplicate number",
			text:           "1. T1A01: A\n1. T1A01: A\n2. T1A02: B\n",
			wantDuplicates: []int{1},
		},
		{
			name:           "unexpected number beyond reported total",
			text:           "Test Passed - 2 out of 2\n1. T1A01: A\n2. T1A02: B\n5. T1A05: C\n",
			wantMissing:    nil,
			wantUnexpected: []int{5},
		},
		{
			name: "clean numbering",
			text: "1. T1A01: A\n2. T1A02: B\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exam, _ := Assemble(chunkOf(tt.text), DefaultTemplate(), types.ParseOptions{})
			assertIntSlice(t, "missing", exam.Summary.MissingNumbers, tt.wantMissing)
			assertIntSlice(t, "duplicates", exam.Summary.DuplicateNumbers, tt.wantDuplicates)
			assertIntSlice(t, "unexpected", exam.Summary.UnexpectedNumbers, tt.wantUnexpected)
		})
	}
}

func assertIntSlice(t *testing.T, label string, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s = %v, want %v", label, got, want)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", label, got, want)
			return
		}
	}
}

func TestAssembleDiagnostics(t *testing.T) {
	text := "1. T1A01: A\nT1A02: no number here\n3. T1A03: B (should be B)\n"
	exam, diags := Assemble(chunkOf(text), DefaultTemplate(), types.ParseOptions{})

	if len(exam.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(exam.Questions))
	}
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(diags), diags)
	}
	if diags[0].Reason != reasonPartialRow || diags[0].Line != 2 {
		t.Errorf("diags[0] = %+v, want partial-row at line 2", diags[0])
	}
	if diags[1].Reason != reasonContradictory || diags[1].Line != 3 {
		t.Errorf("diags[1] = %+v, want contradictory at line 3", diags[1])
	}
}

func TestAssembleDiagnosticLostColon(t *testing.T) {
	// A render that drops the colon after the question id leaves the row
	// unparsable; it must surface as a diagnostic, not vanish.
	exam, diags := Assemble(chunkOf("1. T1A01: A\n12. T3B07\n"), DefaultTemplate(), types.ParseOptions{})

	if len(exam.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(exam.Questions))
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	if diags[0].Reason != reasonPartialRow || diags[0].Line != 2 {
		t.Errorf("diags[0] = %+v, want partial-row at line 2", diags[0])
	}
}

func TestParseSourceSingleExam(t *testing.T) {
	src, _ := ParseSource(fullExamText, "exam.txt", DefaultTemplate(), types.ParseOptions{})

	if src.Exams != nil {
		t.Error("single-exam source should be flattened, not carry Exams")
	}
	if len(src.Questions) != 2 {
		t.Errorf("got %d questions, want 2", len(src.Questions))
	}
	if src.Metadata.CandidateName != "John Q Public" {
		t.Errorf("metadata.CandidateName = %q", src.Metadata.CandidateName)
	}
}

func TestParseSourceConcatenatedExams(t *testing.T) {
	src, _ := ParseSource(twoExamText, "multi.txt", DefaultTemplate(), types.ParseOptions{})

	if len(src.Exams) != 2 {
		t.Fatalf("got %d exams, want 2", len(src.Exams))
	}
	if src.Questions != nil {
		t.Error("multi-exam source must not carry top-level questions")
	}
	if src.Summary.Exams != 2 || src.Summary.Total != 4 {
		t.Errorf("summary = %+v, want 2 exams / 4 questions", src.Summary)
	}
	if src.Summary.Correct != 3 || src.Summary.Accuracy != 0.75 {
		t.Errorf("summary = %+v, want 3 correct, accuracy 0.75", src.Summary)
	}
	if src.Metadata.CandidateName != "John Doe" || src.Metadata.PIN != "1234" {
		t.Errorf("top-level metadata = %+v, want candidate identity promoted", src.Metadata)
	}
}

func TestParseSourceNoExamDetected(t *testing.T) {
	src, _ := ParseSource("nothing recognizable\n", "empty.txt", DefaultTemplate(), types.ParseOptions{})

	if len(src.Questions) != 0 || src.Summary.Total != 0 {
		t.Errorf("expected valid empty source, got %+v", src)
	}
}
