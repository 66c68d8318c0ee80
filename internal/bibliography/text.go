// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"regexp"
	"strings"

	"github.com/pdiddy/refcheck/internal/ident"
	"github.com/pdiddy/refcheck/pkg/types"
)

var (
	// entryStartRe matches the opening of a numbered reference entry
	// like "[1] Authors. Title. Venue, Year."
	entryStartRe = regexp.MustCompile(`^\[(\d+)\]\s+`)

	// authorBlockRe matches an author block such as "Smith, A. and
	// Jones, B." or "Brown, T. et al." at the start of an entry,
	// capturing it separately from the title that follows.
	authorBlockRe = regexp.MustCompile(
		`^((?:[A-Z][a-z]+(?:,\s+[A-Z]\.?)?(?:,?\s+(?:and|&)\s+)?)+(?:\s*et\s+al\.)?)\s*[.]?\s+(.+)$`,
	)

	yearRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
	urlRe  = regexp.MustCompile(`https?://\S+`)

	// initialRe matches single-letter author initials like "A." so
	// period-based splitting does not break on them.
	initialRe = regexp.MustCompile(`\b([A-Z])\.`)
)

// ParseText parses a plain-text numbered reference list of the form
// "[N] Authors. Title. Venue, Year. URL" into citations. An entry may
// span several lines; a new entry starts at the next "[N]" marker.
// Field extraction is heuristic, so the full entry text is always
// preserved in RawText for the raw-text fallback strategy.
func ParseText(text string) []types.Citation {
	var citations []types.Citation
	for _, raw := range splitEntries(text) {
		citations = append(citations, parseEntry(raw))
	}
	return citations
}

// splitEntries groups lines into entries, each beginning at a "[N]"
// marker. Text before the first marker is ignored.
func splitEntries(text string) []string {
	var entries []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			entries = append(entries, strings.TrimSpace(strings.Join(current, " ")))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if entryStartRe.MatchString(line) {
			flush()
			current = []string{line}
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		}
	}
	flush()
	return entries
}

// parseEntry extracts citation fields from one raw entry string.
func parseEntry(raw string) types.Citation {
	c := types.Citation{RawText: raw}

	body := entryStartRe.ReplaceAllString(raw, "")
	c.Year = extractYear(body)

	if u := urlRe.FindString(body); u != "" {
		u = strings.TrimRight(u, ".,;")
		if doi := ident.DOIFromURL(u); doi != "" {
			c.DOI = doi
		}
		c.URL = u
		body = strings.TrimSpace(strings.Replace(body, u, "", 1))
	}

	if m := authorBlockRe.FindStringSubmatch(body); m != nil {
		c.Authors = parseAuthors(m[1])
		body = m[2]
	}

	parts := splitOnPeriods(body)
	if len(parts) >= 1 {
		c.Title = strings.Trim(strings.TrimSpace(parts[0]), `"“”`)
	}
	if len(parts) >= 2 {
		c.Venue = cleanVenue(parts[1])
	}
	return c
}

// extractYear finds the first 4-digit year (19xx or 20xx) in the text.
func extractYear(text string) int {
	m := yearRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	year := 0
	for _, d := range m[1] {
		year = year*10 + int(d-'0')
	}
	return year
}

// parseAuthors splits an author block on "and", "&", and commas that
// separate whole names. A comma followed by an initial belongs to the
// preceding surname and is kept.
func parseAuthors(block string) []string {
	block = strings.TrimSpace(block)
	for _, suffix := range []string{"et al.", "et al"} {
		block = strings.TrimSpace(strings.TrimSuffix(block, suffix))
	}
	block = strings.ReplaceAll(block, " & ", " and ")

	var authors []string
	for _, part := range strings.Split(block, " and ") {
		for _, name := range splitNameList(part) {
			name = strings.Trim(name, " ,")
			if name != "" {
				authors = append(authors, name)
			}
		}
	}
	return authors
}

// splitNameList splits "Smith, A., Jones, B." into whole names,
// keeping the "Surname, Initial" pairs together.
func splitNameList(s string) []string {
	parts := strings.Split(s, ",")
	var names []string
	for i := 0; i < len(parts); i++ {
		name := strings.TrimSpace(parts[i])
		if name == "" {
			continue
		}
		// An initial like "A." attaches to the preceding surname.
		if i+1 < len(parts) {
			next := strings.TrimSpace(parts[i+1])
			if initialRe.MatchString(next) && len(next) <= 3 {
				name = name + ", " + next
				i++
			}
		}
		names = append(names, name)
	}
	return names
}

// splitOnPeriods splits an entry into segments at sentence periods,
// protecting abbreviations (et al., e.g., i.e.) and single-letter
// initials from false splits.
func splitOnPeriods(text string) []string {
	safe := strings.ReplaceAll(text, "et al.", "et al\x00")
	safe = strings.ReplaceAll(safe, "e.g.", "e\x00g\x00")
	safe = strings.ReplaceAll(safe, "i.e.", "i\x00e\x00")
	safe = initialRe.ReplaceAllString(safe, "${1}\x00")

	parts := strings.Split(safe, ". ")

	var result []string
	for _, p := range parts {
		p = strings.ReplaceAll(p, "\x00", ".")
		p = strings.TrimSpace(strings.TrimSuffix(p, "."))
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// cleanVenue strips trailing year and page fragments from a venue
// segment.
func cleanVenue(s string) string {
	s = yearRe.ReplaceAllString(s, "")
	s = strings.Trim(s, " .,:;")
	return s
}
