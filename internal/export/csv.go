// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/n0call/examstats/pkg/types"
)

// questionHeader is the schema of row-level CSV output.
var questionHeader = []string{
	"source", "exam_index_in_source", "test_number", "element",
	"number", "question_id", "selected", "correct", "is_correct",
}

// WriteQuestionsCSV writes flattened question rows to w. Rows are written
// in the order given; the core has already made that order authoritative.
func WriteQuestionsCSV(w io.Writer, rows []types.FlatRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(questionHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Source,
			strconv.Itoa(r.ExamIndex),
			r.TestNumber,
			formatElement(r.Element),
			strconv.Itoa(r.Number),
			r.QuestionID,
			r.Selected,
			r.Correct,
			strconv.FormatBool(r.IsCorrect),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatsCSV writes one aggregate table to w. The id column is named per
// table: question_id, section_id, or subsection_id. Entries arrive
// pre-sorted hardest-first; accuracy is formatted to 4 decimals here, a
// presentation choice the core does not make.
func WriteStatsCSV(w io.Writer, idColumn string, entries []types.StatEntry) error {
	cw := csv.NewWriter(w)
	header := []string{idColumn, "attempts", "correct", "incorrect", "accuracy"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, e := range entries {
		record := []string{
			e.ID,
			strconv.Itoa(e.Attempts),
			strconv.Itoa(e.Correct),
			strconv.Itoa(e.Incorrect),
			strconv.FormatFloat(e.Accuracy, 'f', 4, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatElement renders the element number, leaving the column empty when
// metadata never carried one.
func formatElement(element int) string {
	if element == 0 {
		return ""
	}
	return strconv.Itoa(element)
}
