// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the refcheck
// verification engine: the citation as extracted from a document, the
// authoritative paper record a metadata source returns, and the verdict
// produced by comparing the two.
package types

// Citation holds the raw fields of one bibliography entry as extracted
// from the source document. It is immutable input to the resolution
// pipeline: verification never modifies a Citation.
type Citation struct {
	// Title is the cited paper title, possibly with formatting artifacts.
	Title string `json:"title" yaml:"title"`

	// Authors lists the author names as cited, in citation order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the cited publication year (0 if absent).
	Year int `json:"year" yaml:"year"`

	// Venue is the cited journal or conference name, if any.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// URL is the cited link, which may encode a DOI or arXiv ID.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// DOI is the cited DOI, if the extractor found one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// RawText is the full citation string as it appeared in the document.
	RawText string `json:"raw_text,omitempty" yaml:"raw_text,omitempty"`
}
