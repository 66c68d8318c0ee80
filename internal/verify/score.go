// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"strings"

	"github.com/pdiddy/refcheck/internal/normalize"
	"github.com/pdiddy/refcheck/pkg/types"
)

// Candidate scoring weights. Substring containment and word overlap
// are mutually exclusive branches (containment wins); the author and
// year bonuses stack on either.
const (
	containmentScore = 0.8
	authorBonus      = 0.2
	yearBonus        = 0.1
)

// scoreCandidate rates how well a candidate record matches the cited
// title, year, and authors. If one normalized title contains the
// other the base score is 0.8; otherwise it is the word-set overlap
// |common| / max(|A|,|B|). A first-author match adds 0.2 and an exact
// year match adds 0.1, so a perfect candidate can exceed 1.0.
func scoreCandidate(title string, year int, authors []string, p *types.Paper) float64 {
	ct := normalize.Title(title)
	pt := normalize.Title(p.Title)
	if ct == "" || pt == "" {
		return 0
	}

	var score float64
	if strings.Contains(ct, pt) || strings.Contains(pt, ct) {
		score = containmentScore
	} else {
		score = normalize.WordOverlap(ct, pt)
	}

	if len(authors) > 0 && len(p.Authors) > 0 &&
		normalize.NameMatch(authors[0], p.Authors[0].Name) {
		score += authorBonus
	}

	if year != 0 && year == p.Year {
		score += yearBonus
	}
	return score
}

// bestCandidate returns the highest-scoring candidate and its score,
// or (nil, 0) when the list is empty. Ties keep the earlier candidate,
// preserving the source's relevance ordering.
func bestCandidate(candidates []*types.Paper, title string, year int, authors []string) (*types.Paper, float64) {
	var best *types.Paper
	var bestScore float64
	for _, cand := range candidates {
		if s := scoreCandidate(title, year, authors, cand); best == nil || s > bestScore {
			best = cand
			bestScore = s
		}
	}
	return best, bestScore
}
