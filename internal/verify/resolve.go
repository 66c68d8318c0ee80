// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify implements the reference verification engine: a
// multi-strategy resolution pipeline that locates the authoritative
// record for a citation and cross-validates its fields, and an ordered
// parallel runner that applies the pipeline to whole bibliographies.
package verify

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/pdiddy/refcheck/internal/ident"
	"github.com/pdiddy/refcheck/internal/normalize"
	"github.com/pdiddy/refcheck/internal/source"
	"github.com/pdiddy/refcheck/pkg/types"
)

// MetadataSource is the network client contract the pipeline consumes.
// *source.Client satisfies it.
type MetadataSource interface {
	LookupPaper(ctx context.Context, id string) (*types.Paper, error)
	SearchPapers(ctx context.Context, query string, year int) ([]*types.Paper, error)
	ArxivLookup(ctx context.Context, arxivID string) (*types.Paper, error)
}

// LocalSource is the simpler single-strategy lookup contract a local
// papers mirror satisfies. It is tried before any network strategy
// when configured.
type LocalSource interface {
	LookupDOI(ctx context.Context, doi string) (*types.Paper, error)
	SearchTitle(ctx context.Context, title string) ([]*types.Paper, error)
}

// Resolver runs the ordered fallback chain for single citations and
// the parallel batch runner. A Resolver holds no per-call state and is
// safe for concurrent use by the worker pool.
type Resolver struct {
	// Source is the network metadata client.
	Source MetadataSource

	// Local is an optional local mirror tried before the network.
	Local LocalSource

	// Threshold is the minimum candidate score for fuzzy title
	// matches. Exact identifier matches bypass it.
	Threshold float64

	// Workers is the batch worker pool size.
	Workers int

	// Log receives debug-level strategy traces.
	Log zerolog.Logger
}

// NewResolver builds a Resolver from configuration. cfg is expected to
// have defaults applied.
func NewResolver(src MetadataSource, cfg types.VerifyConfig, log zerolog.Logger) *Resolver {
	return &Resolver{
		Source:    src,
		Threshold: cfg.SimilarityThreshold,
		Workers:   cfg.Workers,
		Log:       log.With().Str("component", "verify").Logger(),
	}
}

// failScope records, for one verification call, whether any strategy
// failed transiently. It is created per call and never shared between
// concurrently verified citations.
type failScope struct {
	transient bool
}

// note classifies an error from a strategy. Transient failures are
// remembered; everything else (including confirmed not-found) is not.
func (f *failScope) note(err error) {
	if errors.Is(err, source.ErrTransient) {
		f.transient = true
	}
}

// Resolve verifies a single citation: it locates the authoritative
// record through the ordered fallback chain, then cross-validates the
// cited fields against it. The returned verdict always reflects
// exactly one of three outcomes: a resolved paper with zero or more
// findings, an absent paper with no findings (genuinely not found), or
// an absent paper with a single api_failure finding (retries
// exhausted somewhere in the chain).
func (r *Resolver) Resolve(ctx context.Context, c types.Citation) types.Verdict {
	fails := &failScope{}

	paper := r.locate(ctx, c, fails)
	if paper == nil {
		if fails.transient {
			return types.Verdict{Findings: []types.Finding{{
				Kind:    types.KindError,
				Field:   types.FieldAPIFailure,
				Details: "metadata source failed: rate limited or unreachable after retries",
			}}}
		}
		r.Log.Debug().Str("title", c.Title).Msg("no matching paper found")
		return types.Verdict{}
	}

	return types.Verdict{
		Paper:    paper,
		Findings: r.crossValidate(c, paper),
		URL:      bestURL(paper),
	}
}

// locate runs the fallback chain and returns the first confident
// candidate, or nil when every strategy failed.
func (r *Resolver) locate(ctx context.Context, c types.Citation, fails *failScope) *types.Paper {
	strategies := []struct {
		name string
		run  func(context.Context, types.Citation, *failScope) *types.Paper
	}{
		{"local_mirror", r.byLocalMirror},
		{"identifier_lookup", r.byDOI},
		{"title_search", r.byTitle},
		{"arxiv_id_search", r.byArxivID},
		{"raw_text_search", r.byRawText},
	}

	for _, s := range strategies {
		if paper := s.run(ctx, c, fails); paper != nil {
			r.Log.Debug().Str("strategy", s.name).Str("title", paper.Title).Msg("resolved")
			return paper
		}
	}
	return nil
}

// byLocalMirror consults the optional local papers mirror: DOI
// equality first, then normalized-title equality with the usual scored
// selection.
func (r *Resolver) byLocalMirror(ctx context.Context, c types.Citation, fails *failScope) *types.Paper {
	if r.Local == nil {
		return nil
	}

	if doi := citedDOI(c); doi != "" {
		paper, err := r.Local.LookupDOI(ctx, doi)
		if err == nil && paper != nil {
			return paper
		}
	}

	if c.Title == "" {
		return nil
	}
	candidates, err := r.Local.SearchTitle(ctx, c.Title)
	if err != nil || len(candidates) == 0 {
		return nil
	}
	best, score := bestCandidate(candidates, c.Title, c.Year, c.Authors)
	if best != nil && score >= r.Threshold {
		return best
	}
	return nil
}

// byDOI looks the paper up directly when the citation carries a DOI or
// its URL encodes one. A hit short-circuits the whole chain.
func (r *Resolver) byDOI(ctx context.Context, c types.Citation, fails *failScope) *types.Paper {
	doi := citedDOI(c)
	if doi == "" {
		return nil
	}

	paper, err := r.Source.LookupPaper(ctx, "DOI:"+doi)
	if err != nil {
		fails.note(err)
		r.Log.Debug().Err(err).Str("doi", doi).Msg("DOI lookup failed")
		return nil
	}
	return paper
}

// byTitle searches with the cleaned title and accepts the best-scoring
// candidate above the threshold.
func (r *Resolver) byTitle(ctx context.Context, c types.Citation, fails *failScope) *types.Paper {
	cleaned := normalize.CleanTitleForSearch(c.Title)
	if cleaned == "" {
		return nil
	}

	// The search is deliberately not year-filtered: a wrongly cited
	// year must still find the paper so the mismatch surfaces as a
	// finding.
	candidates, err := r.Source.SearchPapers(ctx, cleaned, 0)
	if err != nil {
		fails.note(err)
		return nil
	}

	best, score := bestCandidate(candidates, c.Title, c.Year, c.Authors)
	if best != nil && score >= r.Threshold {
		r.Log.Debug().Float64("score", score).Str("title", best.Title).Msg("title search matched")
		return best
	}
	return nil
}

// byArxivID searches by an arXiv ID embedded in the citation URL.
// Identifier equality is definitive, so an exact match is accepted
// without score thresholding. When the primary source has not indexed
// the preprint, the arXiv API itself is queried directly.
func (r *Resolver) byArxivID(ctx context.Context, c types.Citation, fails *failScope) *types.Paper {
	arxivID := ident.StripArxivVersion(ident.ArxivIDFromURL(c.URL))
	if arxivID == "" {
		return nil
	}

	candidates, err := r.Source.SearchPapers(ctx, "arXiv:"+arxivID, 0)
	if err != nil {
		fails.note(err)
	} else {
		for _, cand := range candidates {
			if cand.ArxivID() == arxivID {
				return cand
			}
		}
	}

	paper, err := r.Source.ArxivLookup(ctx, arxivID)
	if err != nil {
		fails.note(err)
		return nil
	}
	return paper
}

// byRawText is the last resort: the full raw citation text, normalized
// into a query string, with the same scored selection as byTitle.
func (r *Resolver) byRawText(ctx context.Context, c types.Citation, fails *failScope) *types.Paper {
	query := normalize.Text(c.RawText)
	if query == "" {
		return nil
	}

	candidates, err := r.Source.SearchPapers(ctx, query, 0)
	if err != nil {
		fails.note(err)
		return nil
	}

	// Score against the cited title when one exists; the raw text
	// itself is too noisy to score against.
	scoreAgainst := c.Title
	if scoreAgainst == "" {
		scoreAgainst = c.RawText
	}
	best, score := bestCandidate(candidates, scoreAgainst, c.Year, c.Authors)
	if best != nil && score >= r.Threshold {
		return best
	}
	return nil
}

// citedDOI returns the citation's DOI, from the explicit field or the
// URL, normalized to the bare identifier. "" when absent.
func citedDOI(c types.Citation) string {
	if c.DOI != "" {
		return ident.NormalizeDOI(c.DOI)
	}
	return ident.DOIFromURL(c.URL)
}

// bestURL selects the verdict URL by fixed priority: arXiv abstract
// page, open-access PDF, the source's canonical page, a constructed
// DOI resolver link, then nothing.
func bestURL(p *types.Paper) string {
	if id := p.ArxivID(); id != "" {
		return ident.ArxivAbsURL(id)
	}
	if p.OpenAccessPDF != "" {
		return p.OpenAccessPDF
	}
	if p.URL != "" {
		return p.URL
	}
	if doi := p.DOI(); doi != "" {
		return ident.DOIResolverURL(doi)
	}
	return ""
}

// arxivIDsMatchExactly reports whether the citation's URL carries an
// arXiv ID equal to the resolved paper's. An exact identifier match
// relaxes some cross-validation checks, since remaining differences
// are usually incomplete source metadata rather than a miscitation.
func arxivIDsMatchExactly(c types.Citation, p *types.Paper) bool {
	cited := ident.StripArxivVersion(ident.ArxivIDFromURL(c.URL))
	return cited != "" && cited == p.ArxivID()
}
