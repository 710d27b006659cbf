// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats rolls parsed question results up into aggregate accuracy
// tables and combines multi-source runs. Everything here is a pure
// reduction over already-parsed values.
package stats

import (
	"sort"

	"github.com/n0call/examstats/pkg/types"
)

// Aggregate groups the flattened question sequence three independent ways
// (question id, section id, subsection id) and returns one accuracy table
// per grouping. Tables are sorted ascending by accuracy, hardest first;
// groups tied on accuracy keep the order their first members appeared in.
// An empty input yields three empty tables.
func Aggregate(questions []types.QuestionResult) (question, section, subsection []types.StatEntry) {
	question = groupBy(questions, func(q types.QuestionResult) string { return q.QuestionID })
	section = groupBy(questions, types.QuestionResult.SectionID)
	subsection = groupBy(questions, types.QuestionResult.SubsectionID)
	return question, section, subsection
}

// groupBy tallies attempts per key in first-encounter order, then applies
// the stable accuracy sort. Questions whose key is empty (malformed ids too
// short to carry the grouping) are skipped.
func groupBy(questions []types.QuestionResult, key func(types.QuestionResult) string) []types.StatEntry {
	index := make(map[string]int)
	var entries []types.StatEntry

	for _, q := range questions {
		k := key(q)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(entries)
			index[k] = i
			entries = append(entries, types.StatEntry{ID: k})
		}
		entries[i].Attempts++
		if q.IsCorrect {
			entries[i].Correct++
		} else {
			entries[i].Incorrect++
		}
	}

	for i := range entries {
		entries[i].Accuracy = float64(entries[i].Correct) / float64(entries[i].Attempts)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Accuracy < entries[j].Accuracy
	})
	return entries
}
