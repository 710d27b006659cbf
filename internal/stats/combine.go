// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import "github.com/n0call/examstats/pkg/types"

// Combine merges per-source parse results into one aggregate: global stat
// tables over the fully flattened question list, an overall summary, and
// the unmodified per-source results keyed by identifier. Source order is
// input order throughout. Failures are carried verbatim so a partial run
// is never mistaken for a clean one.
func Combine(sources []*types.Source, failures []types.SourceFailure) *types.AggregateResult {
	agg := &types.AggregateResult{
		Sources:       make([]string, 0, len(sources)),
		Results:       make(map[string]*types.Source, len(sources)),
		FailedSources: failures,
	}

	var all []types.QuestionResult
	for _, src := range sources {
		agg.Sources = append(agg.Sources, src.Path)
		agg.Results[src.Path] = src

		for _, exam := range src.ExamList() {
			agg.Summary.Exams++
			all = append(all, exam.Questions...)
		}
	}

	summary := types.Summarize(all)
	summary.Files = len(sources)
	summary.Exams = agg.Summary.Exams
	agg.Summary = summary

	agg.QuestionStats, agg.SectionStats, agg.SubsectionStats = Aggregate(all)
	return agg
}
