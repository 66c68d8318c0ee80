// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ident extracts and normalizes external paper identifiers
// (DOI, arXiv) and constructs the resolver URLs for them.
package ident

import (
	"regexp"
	"strconv"
	"strings"
)

// Resolver base URLs.
const (
	doiBase      = "https://doi.org/"
	arxivAbsBase = "https://arxiv.org/abs/"
	arxivPDFBase = "https://arxiv.org/pdf/"
)

// doiPattern matches bare DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/\S+$`)

// doiURLPattern captures the DOI component of a doi.org URL.
var doiURLPattern = regexp.MustCompile(`doi\.org/([^\s?#]+)`)

// arxivURLPattern captures the arXiv ID component of an arxiv.org
// abstract URL.
var arxivURLPattern = regexp.MustCompile(`arxiv\.org/abs/([^\s/?#]+)`)

// IsDOI reports whether s looks like a bare DOI.
func IsDOI(s string) bool {
	return doiPattern.MatchString(strings.TrimSpace(s))
}

// NormalizeDOI strips resolver prefixes and whitespace from a DOI so
// the bare identifier remains. "https://doi.org/10.1/x", "doi:10.1/x",
// and "10.1/x" all normalize to "10.1/x".
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi.org/"} {
		if strings.HasPrefix(doi, prefix) {
			return doi[len(prefix):]
		}
	}
	if len(doi) > 4 && strings.EqualFold(doi[:4], "doi:") {
		return strings.TrimSpace(doi[4:])
	}
	return doi
}

// DOIFromURL extracts a DOI from a doi.org URL, or returns "".
func DOIFromURL(url string) string {
	if url == "" || !strings.Contains(url, "doi.org") {
		return ""
	}
	if m := doiURLPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// ArxivIDFromURL extracts an arXiv ID from an arxiv.org/abs URL, or
// returns "". Version suffixes are preserved; callers that want the
// unversioned ID use StripArxivVersion.
func ArxivIDFromURL(url string) string {
	if url == "" || !strings.Contains(url, "arxiv.org/abs/") {
		return ""
	}
	if m := arxivURLPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// StripArxivVersion removes a trailing version suffix from an arXiv ID
// (e.g. "2301.07041v2" → "2301.07041").
func StripArxivVersion(id string) string {
	vIdx := strings.LastIndex(id, "v")
	if vIdx <= 0 {
		return id
	}
	if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
		return id[:vIdx]
	}
	return id
}

// DOIResolverURL constructs the doi.org resolver link for a DOI.
func DOIResolverURL(doi string) string {
	if doi == "" {
		return ""
	}
	return doiBase + NormalizeDOI(doi)
}

// ArxivAbsURL constructs the arxiv.org abstract page link for an ID.
func ArxivAbsURL(arxivID string) string {
	if arxivID == "" {
		return ""
	}
	return arxivAbsBase + StripArxivVersion(arxivID)
}

// ArxivPDFURL constructs the arxiv.org PDF link for an ID.
func ArxivPDFURL(arxivID string) string {
	if arxivID == "" {
		return ""
	}
	return arxivPDFBase + StripArxivVersion(arxivID) + ".pdf"
}
