// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"reflect"
	"testing"
)

const referenceList = `References

[1] Vaswani, A. and Shazeer, N. et al. Attention is All you Need. NeurIPS, 2017.
    https://arxiv.org/abs/1706.03762
[2] He, K. Deep Residual Learning for Image Recognition. CVPR, 2016.
    https://doi.org/10.1109/CVPR.2016.90
[3] An entry without recognizable authors or venue
`

func TestParseText(t *testing.T) {
	citations := ParseText(referenceList)
	if len(citations) != 3 {
		t.Fatalf("got %d entries", len(citations))
	}

	first := citations[0]
	if first.Title != "Attention is All you Need" {
		t.Errorf("title = %q", first.Title)
	}
	if want := []string{"Vaswani, A.", "Shazeer, N."}; !reflect.DeepEqual(first.Authors, want) {
		t.Errorf("authors = %v, want %v", first.Authors, want)
	}
	if first.Year != 2017 {
		t.Errorf("year = %d", first.Year)
	}
	if first.Venue != "NeurIPS" {
		t.Errorf("venue = %q", first.Venue)
	}
	if first.URL != "https://arxiv.org/abs/1706.03762" {
		t.Errorf("url = %q", first.URL)
	}
	if first.RawText == "" {
		t.Error("raw text must be preserved")
	}

	second := citations[1]
	if second.DOI != "10.1109/CVPR.2016.90" {
		t.Errorf("doi = %q", second.DOI)
	}
	if second.Title != "Deep Residual Learning for Image Recognition" {
		t.Errorf("title = %q", second.Title)
	}

	third := citations[2]
	if third.Title == "" || third.RawText == "" {
		t.Errorf("fallback entry = %+v", third)
	}
}

func TestParseTextMultilineEntries(t *testing.T) {
	text := "[1] Brown, T. et al. Language Models are\n    Few-Shot Learners. NeurIPS, 2020."
	citations := ParseText(text)
	if len(citations) != 1 {
		t.Fatalf("got %d entries", len(citations))
	}
	if citations[0].Title != "Language Models are Few-Shot Learners" {
		t.Errorf("title = %q", citations[0].Title)
	}
	if citations[0].Year != 2020 {
		t.Errorf("year = %d", citations[0].Year)
	}
}

func TestParseTextIgnoresPreamble(t *testing.T) {
	if got := ParseText("No numbered entries here.\nJust prose.\n"); got != nil {
		t.Fatalf("got %v", got)
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"NeurIPS, 2017", 2017},
		{"pages 1234-1250, 1998", 1998},
		{"no year at all", 0},
		{"arXiv:1706.03762", 0},
	}
	for _, tt := range tests {
		if got := extractYear(tt.in); got != tt.want {
			t.Errorf("extractYear(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
