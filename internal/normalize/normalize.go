// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize provides the text comparison primitives the
// resolution pipeline uses: title and author-name normalization, title
// similarity, and the venue difference heuristic. All comparisons are
// case-folded and punctuation-insensitive so formatting variance
// between citation styles does not surface as a mismatch.
package normalize

import (
	"strings"
	"unicode"
)

// Text lowercases s, strips punctuation, and collapses whitespace.
func Text(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Title normalizes a paper title for comparison.
func Title(title string) string {
	return Text(title)
}

// CleanTitleForSearch prepares a cited title for use as a free-text
// search query: LaTeX braces and surrounding quotes are stripped,
// punctuation that confuses query parsers is removed, and whitespace
// (including newlines from wrapped citations) is collapsed.
func CleanTitleForSearch(title string) string {
	title = strings.NewReplacer("{", "", "}", "", "\n", " ").Replace(title)
	title = strings.Trim(title, `"'`)
	return Text(title)
}

// TitleSimilarity returns a similarity score in [0,1] for two titles.
// Normalized equality scores 1.0; substring containment (one title
// wholly inside the other, as with subtitle truncation) scores 0.95;
// otherwise the score is word-set overlap |common| / max(|A|,|B|).
func TitleSimilarity(a, b string) float64 {
	na, nb := Title(a), Title(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.95
	}
	return WordOverlap(na, nb)
}

// WordOverlap returns |common words| / max(word count) for two
// already-normalized strings.
func WordOverlap(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	common := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			common++
		}
	}
	maxLen := len(wa)
	if len(wb) > maxLen {
		maxLen = len(wb)
	}
	return float64(common) / float64(maxLen)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

// venueStopwords are filler words ignored when comparing venue names,
// so "Proceedings of the 31st Conference on ..." matches "...".
var venueStopwords = map[string]struct{}{
	"the": {}, "of": {}, "on": {}, "in": {}, "and": {}, "for": {},
	"proceedings": {}, "proc": {}, "conference": {}, "conf": {},
	"international": {}, "intl": {}, "annual": {}, "journal": {},
	"workshop": {}, "symposium": {}, "meeting": {}, "advances": {},
}

// significantWords returns the normalized venue words with stopwords
// and ordinals ("31st", "2017") removed.
func significantWords(venue string) []string {
	var out []string
	for _, w := range strings.Fields(Text(venue)) {
		if _, skip := venueStopwords[w]; skip {
			continue
		}
		if isOrdinalOrYear(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isOrdinalOrYear(w string) bool {
	digits := 0
	for _, r := range w {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits > 0 && digits >= len(w)-2
}

// VenuesSubstantiallyDifferent reports whether two venue names refer to
// plainly different publication venues. It tolerates abbreviations,
// ordinals, and boilerplate: venues are different only when neither
// contains the other, one is not an abbreviation of the other, and
// their significant words overlap on less than half of the smaller set.
func VenuesSubstantiallyDifferent(a, b string) bool {
	na, nb := Text(a), Text(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb || strings.Contains(na, nb) || strings.Contains(nb, na) {
		return false
	}

	sa, sb := significantWords(a), significantWords(b)
	if len(sa) == 0 || len(sb) == 0 {
		return false
	}

	if len(sa) == 1 && abbreviationOf(sa[0], sb) {
		return false
	}
	if len(sb) == 1 && abbreviationOf(sb[0], sa) {
		return false
	}

	common := 0
	for _, w := range sa {
		for _, v := range sb {
			if w == v {
				common++
				break
			}
		}
	}
	minLen := len(sa)
	if len(sb) < minLen {
		minLen = len(sb)
	}
	return float64(common)/float64(minLen) < 0.5
}

// abbreviationOf reports whether short is formed by concatenating a
// non-empty prefix of every word in order. This covers plain acronyms
// ("nips") and mixed forms ("neurips") of "neural information
// processing systems".
func abbreviationOf(short string, words []string) bool {
	if len(words) == 0 {
		return short == ""
	}
	w := words[0]
	for i := 1; i <= len(w) && i <= len(short); i++ {
		if short[:i] != w[:i] {
			break
		}
		if abbreviationOf(short[i:], words[1:]) {
			return true
		}
	}
	return false
}
