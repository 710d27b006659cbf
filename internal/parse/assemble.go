// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"sort"

	"github.com/n0call/examstats/pkg/types"
)

// Assemble builds one structured Exam from a segmented chunk: metadata via
// the template, question rows via the row matcher in order of appearance,
// and the derived summary with numbering integrity checks. A chunk with no
// matching rows yields a valid empty exam, not an error.
func Assemble(chunk Chunk, tpl *Template, opts types.ParseOptions) (types.Exam, []Diagnostic) {
	metadata := tpl.ExtractMetadata(chunk.Text())

	var questions []types.QuestionResult
	var diags []Diagnostic

	for i, line := range chunk.Lines {
		rows := matchRows(line)
		if len(rows) == 0 {
			if looksLikeRow(line) {
				diags = append(diags, Diagnostic{
					Line:   chunk.StartLine + i,
					Text:   line,
					Reason: reasonPartialRow,
				})
			}
			continue
		}
		for _, r := range rows {
			if r.contradictory {
				diags = append(diags, Diagnostic{
					Line:   chunk.StartLine + i,
					Text:   line,
					Reason: reasonContradictory,
				})
			}
			questions = append(questions, r.result)
		}
	}

	if opts.SortByNumber {
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].Number < questions[j].Number
		})
	}

	summary := types.Summarize(questions)
	summary.MissingNumbers, summary.DuplicateNumbers, summary.UnexpectedNumbers =
		checkNumbering(questions, metadata.ReportedTotal)

	return types.Exam{
		Metadata:  metadata,
		Summary:   summary,
		Questions: questions,
	}, diags
}

// checkNumbering validates 1-based question numbering against the reported
// exam total when metadata carries one, so 35- and 50-question exams are
// checked consistently; otherwise the highest number seen stands in.
func checkNumbering(questions []types.QuestionResult, reportedTotal int) (missing, duplicates, unexpected []int) {
	if len(questions) == 0 {
		return nil, nil, nil
	}

	seen := make(map[int]int, len(questions))
	maxSeen := 0
	for _, q := range questions {
		seen[q.Number]++
		if q.Number > maxSeen {
			maxSeen = q.Number
		}
	}

	expectedTotal := reportedTotal
	if expectedTotal <= 0 {
		expectedTotal = maxSeen
	}

	for n := 1; n <= expectedTotal; n++ {
		if seen[n] == 0 {
			missing = append(missing, n)
		}
	}

	numbers := make([]int, 0, len(seen))
	for n := range seen {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	for _, n := range numbers {
		if seen[n] > 1 {
			duplicates = append(duplicates, n)
		}
		if n < 1 || n > expectedTotal {
			unexpected = append(unexpected, n)
		}
	}

	return missing, duplicates, unexpected
}

// ParseSource parses one source document: segment, assemble each chunk, and
// shape the result. A single-exam document is flattened; a concatenated
// document keeps per-exam records under Exams with a rolled-up summary and
// the candidate identity promoted from the first exam.
func ParseSource(text, path string, tpl *Template, opts types.ParseOptions) (*types.Source, []Diagnostic) {
	chunks := Segment(text, tpl)

	exams := make([]types.Exam, 0, len(chunks))
	var diags []Diagnostic
	for _, chunk := range chunks {
		exam, d := Assemble(chunk, tpl, opts)
		exams = append(exams, exam)
		diags = append(diags, d...)
	}

	if len(exams) == 1 {
		return &types.Source{
			Path:      path,
			Metadata:  exams[0].Metadata,
			Summary:   exams[0].Summary,
			Questions: exams[0].Questions,
		}, diags
	}

	summary := types.Summary{Exams: len(exams)}
	for _, exam := range exams {
		summary.Total += exam.Summary.Total
		summary.Correct += exam.Summary.Correct
	}
	summary.Incorrect = summary.Total - summary.Correct
	if summary.Total > 0 {
		summary.Accuracy = float64(summary.Correct) / float64(summary.Total)
	}

	// Concatenated reports repeat one candidate across attempts; carry the
	// identity to the top level.
	metadata := types.Metadata{
		CandidateName: exams[0].Metadata.CandidateName,
		PIN:           exams[0].Metadata.PIN,
	}

	return &types.Source{
		Path:     path,
		Metadata: metadata,
		Summary:  summary,
		Exams:    exams,
	}, diags
}
