// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"fmt"
	"testing"

	"github.com/n0call/examstats/pkg/types"
)

func sourceOf(path string, questions ...types.QuestionResult) *types.Source {
	return &types.Source{
		Path:      path,
		Summary:   types.Summarize(questions),
		Questions: questions,
	}
}

func allCorrect(n int) []types.QuestionResult {
	questions := make([]types.QuestionResult, n)
	for i := range questions {
		questions[i] = q(fmt.Sprintf("T1A%02d", i+1), "A", "A")
	}
	return questions
}

func TestCombineTwoCleanSources(t *testing.T) {
	agg := Combine([]*types.Source{
		sourceOf("a.txt", allCorrect(10)...),
		sourceOf("b.txt", allCorrect(10)...),
	}, nil)

	if agg.Summary.Accuracy != 1.0 {
		t.Errorf("overall accuracy = %v, want 1.0", agg.Summary.Accuracy)
	}
	if agg.Summary.Files != 2 || agg.Summary.Exams != 2 || agg.Summary.Total != 20 {
		t.Errorf("summary = %+v, want 2 files / 2 exams / 20 questions", agg.Summary)
	}

	if len(agg.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(agg.Results))
	}
	wantSources := []string{"a.txt", "b.txt"}
	for i, want := range wantSources {
		if agg.Sources[i] != want {
			t.Errorf("sources[%d] = %q, want %q (input order)", i, agg.Sources[i], want)
		}
		if agg.Results[want] == nil {
			t.Errorf("results missing key %q", want)
		}
	}
	if len(agg.FailedSources) != 0 {
		t.Errorf("clean run must carry no failures, got %+v", agg.FailedSources)
	}
}

func TestCombineStatsSpanSources(t *testing.T) {
	agg := Combine([]*types.Source{
		sourceOf("a.txt", q("T3A04", "A", "A")),
		sourceOf("b.txt", q("T3A04", "B", "A")),
	}, nil)

	if len(agg.QuestionStats) != 1 {
		t.Fatalf("got %d question stats, want 1", len(agg.QuestionStats))
	}
	e := agg.QuestionStats[0]
	if e.ID != "T3A04" || e.Attempts != 2 || e.Correct != 1 || e.Accuracy != 0.5 {
		t.Errorf("entry = %+v, want T3A04 attempts=2 correct=1 accuracy=0.5", e)
	}
}

func TestCombineMultiExamSource(t *testing.T) {
	multi := &types.Source{
		Path: "multi.txt",
		Exams: []types.Exam{
			{Summary: types.Summarize(allCorrect(2)), Questions: allCorrect(2)},
			{Summary: types.Summarize(allCorrect(3)), Questions: allCorrect(3)},
		},
	}

	agg := Combine([]*types.Source{multi, sourceOf("single.txt", allCorrect(1)...)}, nil)

	if agg.Summary.Exams != 3 {
		t.Errorf("summary.Exams = %d, want 3", agg.Summary.Exams)
	}
	if agg.Summary.Total != 6 {
		t.Errorf("summary.Total = %d, want 6", agg.Summary.Total)
	}
	if agg.Results["multi.txt"] != multi {
		t.Error("results must carry the source unmodified")
	}
}

func TestCombineCarriesFailures(t *testing.T) {
	failures := []types.SourceFailure{{Source: "bad.pdf", Error: "gs failed"}}
	agg := Combine([]*types.Source{sourceOf("good.txt", allCorrect(1)...)}, failures)

	if len(agg.FailedSources) != 1 || agg.FailedSources[0].Source != "bad.pdf" {
		t.Errorf("failed sources = %+v, want bad.pdf carried through", agg.FailedSources)
	}
	if agg.Summary.Files != 1 {
		t.Errorf("summary.Files = %d, want 1 (parsed sources only)", agg.Summary.Files)
	}
}

func TestCombineEmpty(t *testing.T) {
	agg := Combine(nil, nil)
	if agg.Summary.Total != 0 || agg.Summary.Accuracy != 0 {
		t.Errorf("empty combine summary = %+v, want zeros", agg.Summary)
	}
	if len(agg.QuestionStats) != 0 {
		t.Errorf("empty combine must yield empty stats")
	}
}
