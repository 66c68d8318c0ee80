// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/refcheck/internal/ident"
	"github.com/pdiddy/refcheck/internal/normalize"
	"github.com/pdiddy/refcheck/pkg/types"
)

// crossValidate compares the cited fields against the accepted
// candidate and returns findings in fixed check order: title, authors,
// year, venue, DOI.
func (r *Resolver) crossValidate(c types.Citation, p *types.Paper) []types.Finding {
	var findings []types.Finding
	arxivExact := arxivIDsMatchExactly(c, p)

	if f := r.checkTitle(c, p); f != nil {
		findings = append(findings, *f)
	}
	if f := checkAuthors(c, p, arxivExact); f != nil {
		findings = append(findings, *f)
	}
	if f := checkYear(c, p, arxivExact); f != nil {
		findings = append(findings, *f)
	}
	if f := checkVenue(c, p); f != nil {
		findings = append(findings, *f)
	}
	if f := checkDOI(c, p); f != nil {
		findings = append(findings, *f)
	}
	return findings
}

// checkTitle flags titles whose normalized similarity falls below the
// match threshold. Formatting differences alone never trigger it.
func (r *Resolver) checkTitle(c types.Citation, p *types.Paper) *types.Finding {
	if c.Title == "" || p.Title == "" {
		return nil
	}
	if normalize.TitleSimilarity(c.Title, p.Title) >= r.Threshold {
		return nil
	}
	return &types.Finding{
		Kind:       types.KindError,
		Field:      types.FieldTitle,
		Details:    fmt.Sprintf("Title mismatch: cited as '%s' but actually '%s'", c.Title, p.Title),
		Correction: p.Title,
	}
}

// checkAuthors compares the cited author list against the record. An
// exact arXiv ID match downgrades a mismatch to a warning: the
// identifier pins the paper, so the difference is usually incomplete
// author data at the source.
func checkAuthors(c types.Citation, p *types.Paper, arxivExact bool) *types.Finding {
	if len(c.Authors) == 0 {
		return nil
	}
	match, detail := normalize.CompareAuthorLists(c.Authors, p.AuthorNames())
	if match {
		return nil
	}

	correction := strings.Join(p.AuthorNames(), ", ")
	if arxivExact {
		return &types.Finding{
			Kind:       types.KindWarning,
			Field:      types.FieldAuthor,
			Details:    detail + " (arXiv ID matches exactly; author data at the source may be incomplete)",
			Correction: correction,
		}
	}
	return &types.Finding{
		Kind:       types.KindError,
		Field:      types.FieldAuthor,
		Details:    detail,
		Correction: correction,
	}
}

// checkYear flags year differences as warnings, never errors: the
// conference year and the preprint year of the same paper commonly
// differ by one.
func checkYear(c types.Citation, p *types.Paper, arxivExact bool) *types.Finding {
	if c.Year == 0 || p.Year == 0 || c.Year == p.Year {
		return nil
	}

	details := fmt.Sprintf("Year mismatch: cited as %d but actually %d", c.Year, p.Year)
	if arxivExact {
		details += " (arXiv ID matches exactly; likely a conference vs. preprint year difference)"
	}
	return &types.Finding{
		Kind:       types.KindWarning,
		Field:      types.FieldYear,
		Details:    details,
		Correction: strconv.Itoa(p.Year),
	}
}

// checkVenue compares venues only when both sides have one, using the
// substantial-difference heuristic so abbreviations and boilerplate
// don't flag. A citation missing its venue gets a suggestion to add
// the arXiv URL when the resolved record is a preprint.
func checkVenue(c types.Citation, p *types.Paper) *types.Finding {
	switch {
	case c.Venue != "" && p.Venue != "":
		if !normalize.VenuesSubstantiallyDifferent(c.Venue, p.Venue) {
			return nil
		}
		return &types.Finding{
			Kind:       types.KindWarning,
			Field:      types.FieldVenue,
			Details:    fmt.Sprintf("Venue mismatch: cited as '%s' but actually '%s'", c.Venue, p.Venue),
			Correction: p.Venue,
		}

	case c.Venue == "" && p.Venue != "":
		if ident.ArxivIDFromURL(c.URL) != "" {
			// The citation already points at arXiv; nothing to add.
			return nil
		}
		if id := p.ArxivID(); id != "" {
			url := ident.ArxivAbsURL(id)
			return &types.Finding{
				Kind:       types.KindWarning,
				Field:      types.FieldVenue,
				Details:    "Reference should include arXiv URL: " + url,
				Correction: url,
			}
		}
		return nil

	default:
		return nil
	}
}

// checkDOI compares DOIs case-insensitively with any trailing URL
// fragment stripped.
func checkDOI(c types.Citation, p *types.Paper) *types.Finding {
	cited := stripFragment(citedDOI(c))
	actual := stripFragment(p.DOI())
	if cited == "" || actual == "" || strings.EqualFold(cited, actual) {
		return nil
	}
	return &types.Finding{
		Kind:       types.KindError,
		Field:      types.FieldDOI,
		Details:    fmt.Sprintf("DOI mismatch: cited as %s but actually %s", cited, actual),
		Correction: actual,
	}
}

func stripFragment(s string) string {
	if i := strings.Index(s, "#"); i >= 0 {
		return s[:i]
	}
	return s
}
