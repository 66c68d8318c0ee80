// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// refNumberPattern matches a leading reference marker such as "[12]"
// that citation extractors sometimes leave on the first author name.
var refNumberPattern = regexp.MustCompile(`^\[\d+\]\s*`)

// etAlPattern matches trailing "et al." markers in any common spelling.
var etAlPattern = regexp.MustCompile(`(?i)^et\.?\s*al\.?$|^and\s+others$`)

// AuthorName normalizes an author name for comparison: reference
// markers are stripped, comma-inverted names ("Vaswani, A.") are
// reordered to given-name-first, then the name is case-folded and
// punctuation-stripped like any other text.
func AuthorName(name string) string {
	name = refNumberPattern.ReplaceAllString(name, "")
	if family, given, ok := strings.Cut(name, ","); ok {
		name = strings.TrimSpace(given) + " " + strings.TrimSpace(family)
	}
	return Text(name)
}

// NameMatch reports whether two author names plausibly refer to the
// same person. Beyond normalized equality it accepts initial-style
// variants: "a vaswani" matches "ashish vaswani" because the surnames
// agree and every leading name part is a prefix-compatible initial.
func NameMatch(a, b string) bool {
	na, nb := AuthorName(a), AuthorName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	pa, pb := strings.Fields(na), strings.Fields(nb)
	if len(pa) == 0 || len(pb) == 0 {
		return false
	}

	// Surnames must agree exactly.
	if pa[len(pa)-1] != pb[len(pb)-1] {
		return false
	}

	// Compare the leading parts pairwise; an initial matches any name
	// sharing its first letter. Differing given-name counts are fine
	// (middle names dropped in citation).
	n := len(pa) - 1
	if len(pb)-1 < n {
		n = len(pb) - 1
	}
	for i := 0; i < n; i++ {
		x, y := pa[i], pb[i]
		if x == y {
			continue
		}
		if x[0] != y[0] {
			return false
		}
		if len(x) > 1 && len(y) > 1 {
			return false
		}
	}
	return true
}

// stripEtAl removes trailing "et al."-style entries and returns whether
// one was present.
func stripEtAl(authors []string) ([]string, bool) {
	var out []string
	etAl := false
	for _, a := range authors {
		trimmed := strings.TrimSpace(a)
		if etAlPattern.MatchString(trimmed) {
			etAl = true
			continue
		}
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, etAl
}

// CompareAuthorLists checks the cited author names against the
// authoritative candidate names. It returns (true, "") on a match, or
// (false, detail) where detail describes the first discrepancy. A
// trailing "et al." in the citation limits the comparison to the
// authors actually cited; otherwise differing list lengths are
// themselves a mismatch.
func CompareAuthorLists(cited, candidate []string) (bool, string) {
	cited, etAl := stripEtAl(cited)
	if len(cited) == 0 || len(candidate) == 0 {
		return true, ""
	}

	if !etAl && len(cited) != len(candidate) {
		return false, fmt.Sprintf("Author count mismatch: cited %d authors but paper has %d",
			len(cited), len(candidate))
	}

	n := len(cited)
	if len(candidate) < n {
		n = len(candidate)
	}
	for i := 0; i < n; i++ {
		if !NameMatch(cited[i], candidate[i]) {
			return false, fmt.Sprintf("Author mismatch at position %d: cited as '%s' but actually '%s'",
				i+1, cited[i], candidate[i])
		}
	}
	return true, ""
}
