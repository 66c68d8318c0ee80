// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"math"
	"testing"

	"github.com/pdiddy/refcheck/pkg/types"
)

func TestScoreCandidate(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		year    int
		authors []string
		paper   types.Paper
		want    float64
	}{
		{
			name:  "containment base",
			title: "Attention is All you Need",
			paper: types.Paper{Title: "Attention Is All You Need"},
			want:  0.8,
		},
		{
			name:  "containment with subtitle",
			title: "BERT",
			paper: types.Paper{Title: "BERT: Pre-training of Deep Bidirectional Transformers"},
			want:  0.8,
		},
		{
			name:    "full bonuses exceed one",
			title:   "Attention is All you Need",
			year:    2017,
			authors: []string{"Ashish Vaswani"},
			paper: types.Paper{
				Title:   "Attention Is All You Need",
				Year:    2017,
				Authors: []types.Author{{Name: "Ashish Vaswani"}},
			},
			want: 1.1,
		},
		{
			name:  "word overlap branch",
			title: "Deep Learning for Image Recognition",
			paper: types.Paper{Title: "Deep Learning for Speech Recognition"},
			want:  0.8, // 4 of 5 words shared
		},
		{
			name:  "year bonus without author",
			title: "Some Unrelated Title Here",
			year:  2020,
			paper: types.Paper{Title: "Entirely Different Words Throughout", Year: 2020},
			want:  0.1,
		},
		{
			name:  "empty candidate title",
			title: "Attention is All you Need",
			paper: types.Paper{},
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreCandidate(tt.title, tt.year, tt.authors, &tt.paper)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("scoreCandidate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBestCandidatePrefersEarlierOnTie(t *testing.T) {
	first := &types.Paper{Title: "Attention Is All You Need"}
	second := &types.Paper{Title: "Attention is all you need"}

	best, score := bestCandidate([]*types.Paper{first, second}, "Attention is All you Need", 0, nil)
	if best != first {
		t.Fatalf("tie must keep the earlier candidate, got %q", best.Title)
	}
	if math.Abs(score-0.8) > 1e-9 {
		t.Fatalf("score = %v, want 0.8", score)
	}
}

func TestBestCandidateEmpty(t *testing.T) {
	best, score := bestCandidate(nil, "anything", 0, nil)
	if best != nil || score != 0 {
		t.Fatalf("empty list: got (%v, %v)", best, score)
	}
}
