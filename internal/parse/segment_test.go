// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"
	"testing"
)

const twoExamText = `preamble noise
John Doe (PIN: 1234)
Test Failed - 1 out of 2
1. T3A04: A
2. T3A05: B (should be C)
John Doe (PIN: 1234)
Test Passed - 2 out of 2
1. T3A04: A
2. T3A05: C
`

func TestSegment(t *testing.T) {
	tpl := DefaultTemplate()

	tests := []struct {
		name       string
		text       string
		wantChunks int
		wantStarts []int
	}{
		{
			name:       "no boundary is one chunk",
			text:       "1. T3A04: A\n2. T3A05: B\n",
			wantChunks: 1,
			wantStarts: []int{1},
		},
		{
			name:       "two concatenated exams",
			text:       twoExamText,
			wantChunks: 2,
			wantStarts: []int{2, 6},
		},
		{
			name:       "empty text is one chunk",
			text:       "",
			wantChunks: 1,
			wantStarts: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Segment(tt.text, tpl)
			if len(chunks) != tt.wantChunks {
				t.Fatalf("got %d chunks, want %d", len(chunks), tt.wantChunks)
			}
			for i, want := range tt.wantStarts {
				if chunks[i].StartLine != want {
					t.Errorf("chunk[%d].StartLine = %d, want %d", i, chunks[i].StartLine, want)
				}
			}
		})
	}
}

func TestSegmentDiscardsPreamble(t *testing.T) {
	chunks := Segment(twoExamText, DefaultTemplate())
	for i, c := range chunks {
		if strings.Contains(c.Text(), "preamble noise") {
			t.Errorf("chunk[%d] contains preamble text", i)
		}
	}
}

func TestSegmentChunkContents(t *testing.T) {
	chunks := Segment(twoExamText, DefaultTemplate())
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if !strings.Contains(chunks[0].Text(), "Test Failed") {
		t.Error("first chunk missing its grading line")
	}
	if !strings.Contains(chunks[1].Text(), "Test Passed") {
		t.Error("second chunk missing its grading line")
	}
	if strings.Contains(chunks[0].Text(), "Test Passed") {
		t.Error("first chunk leaked into the second exam")
	}
}
