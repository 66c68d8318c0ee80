// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ident

import "testing"

func TestIsDOI(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"10.1145/3292500.3330701", true},
		{"10.48550/arXiv.1706.03762", true},
		{" 10.1000/xyz ", true},
		{"doi:10.1000/xyz", false},
		{"https://doi.org/10.1000/xyz", false},
		{"2301.07041", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsDOI(tt.in); got != tt.want {
			t.Errorf("IsDOI(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.1000/xyz", "10.1000/xyz"},
		{"https://doi.org/10.1000/xyz", "10.1000/xyz"},
		{"http://doi.org/10.1000/xyz", "10.1000/xyz"},
		{"doi.org/10.1000/xyz", "10.1000/xyz"},
		{"doi:10.1000/xyz", "10.1000/xyz"},
		{"DOI:10.1000/xyz", "10.1000/xyz"},
		{"  10.1000/xyz  ", "10.1000/xyz"},
	}
	for _, tt := range tests {
		if got := NormalizeDOI(tt.in); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDOIFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"doi.org URL", "https://doi.org/10.1145/3292500.3330701", "10.1145/3292500.3330701"},
		{"doi.org with fragment", "https://doi.org/10.1000/xyz#sec2", "10.1000/xyz"},
		{"doi.org with query", "https://doi.org/10.1000/xyz?utm=1", "10.1000/xyz"},
		{"non-DOI URL", "https://example.com/paper", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DOIFromURL(tt.url); got != tt.want {
				t.Errorf("DOIFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestArxivIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"abs URL", "https://arxiv.org/abs/1706.03762", "1706.03762"},
		{"versioned", "https://arxiv.org/abs/1706.03762v5", "1706.03762v5"},
		{"with query", "https://arxiv.org/abs/2301.07041?context=cs", "2301.07041"},
		{"pdf URL not matched", "https://arxiv.org/pdf/1706.03762.pdf", ""},
		{"unrelated URL", "https://doi.org/10.1/x", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArxivIDFromURL(tt.url); got != tt.want {
				t.Errorf("ArxivIDFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestStripArxivVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1706.03762v5", "1706.03762"},
		{"1706.03762", "1706.03762"},
		{"2301.07041v12", "2301.07041"},
		{"hep-th/9901001v2", "hep-th/9901001"},
		{"vaswani", "vaswani"},
	}
	for _, tt := range tests {
		if got := StripArxivVersion(tt.in); got != tt.want {
			t.Errorf("StripArxivVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolverURLs(t *testing.T) {
	if got := DOIResolverURL("doi:10.1000/xyz"); got != "https://doi.org/10.1000/xyz" {
		t.Errorf("DOIResolverURL = %q", got)
	}
	if got := DOIResolverURL(""); got != "" {
		t.Errorf("DOIResolverURL(empty) = %q, want empty", got)
	}
	if got := ArxivAbsURL("1706.03762v5"); got != "https://arxiv.org/abs/1706.03762" {
		t.Errorf("ArxivAbsURL = %q", got)
	}
	if got := ArxivPDFURL("1706.03762"); got != "https://arxiv.org/pdf/1706.03762.pdf" {
		t.Errorf("ArxivPDFURL = %q", got)
	}
	if got := ArxivAbsURL(""); got != "" {
		t.Errorf("ArxivAbsURL(empty) = %q, want empty", got)
	}
}
