// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// External identifier keys used in Paper.ExternalIDs. The names follow
// the Semantic Scholar externalIds field so records round-trip without
// renaming.
const (
	IDTypeDOI      = "DOI"
	IDTypeArxiv    = "ArXiv"
	IDTypeCorpus   = "CorpusId"
	IDTypeOpenAlex = "OpenAlex"
	IDTypePubMed   = "PubMed"
)

// Author is one author entry on an authoritative paper record.
type Author struct {
	// Name is the display name as the source records it.
	Name string `json:"name" yaml:"name"`
}

// Paper holds authoritative metadata for a published paper as returned
// by a metadata source. A Paper is owned by a single verification call
// and is not mutated after construction.
type Paper struct {
	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Year is the publication year (0 if unknown).
	Year int `json:"year" yaml:"year"`

	// Venue is the journal or conference name ("arXiv" for preprints).
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// ExternalIDs maps identifier type (IDTypeDOI, IDTypeArxiv, ...) to
	// identifier value. Absent identifiers have no key.
	ExternalIDs map[string]string `json:"external_ids,omitempty" yaml:"external_ids,omitempty"`

	// OpenAccessPDF is a direct PDF link when the source knows one.
	OpenAccessPDF string `json:"open_access_pdf,omitempty" yaml:"open_access_pdf,omitempty"`

	// URL is the source's canonical page for the paper.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ArxivID returns the paper's arXiv identifier, or "" if it has none.
func (p *Paper) ArxivID() string {
	if p == nil {
		return ""
	}
	return p.ExternalIDs[IDTypeArxiv]
}

// DOI returns the paper's DOI, or "" if it has none.
func (p *Paper) DOI() string {
	if p == nil {
		return ""
	}
	return p.ExternalIDs[IDTypeDOI]
}

// AuthorNames returns the display names of all authors in order.
func (p *Paper) AuthorNames() []string {
	if p == nil || len(p.Authors) == 0 {
		return nil
	}
	names := make([]string, len(p.Authors))
	for i, a := range p.Authors {
		names[i] = a.Name
	}
	return names
}
