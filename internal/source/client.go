// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source performs network lookups against paper metadata
// sources. The primary source is the Semantic Scholar Graph API
// (lookup by identifier and free-text search); the arXiv Atom API
// serves as a direct fallback for preprints the primary source has not
// indexed yet.
//
// Every call classifies its failure: ErrNotFound means the source
// confirmed the paper is absent, ErrTransient means retries were
// exhausted on rate limiting or network faults. Callers must treat the
// two differently, since a transient failure may succeed on a later run.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/refcheck/internal/httputil"
	"github.com/pdiddy/refcheck/internal/ident"
	"github.com/pdiddy/refcheck/pkg/types"
)

// semanticAPIBase is the Semantic Scholar Graph API root. Declared as a
// var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1"

// semanticFields lists the record fields requested on every call.
const semanticFields = "title,authors,year,externalIds,url,abstract,openAccessPdf,isOpenAccess,venue,journal"

// Sentinel errors classifying lookup failures.
var (
	// ErrNotFound means the source confirmed the paper does not exist.
	// Terminal: never retried.
	ErrNotFound = errors.New("paper not found")

	// ErrTransient means the call failed after exhausting retries on
	// rate limiting or network faults. Retryable at a higher level.
	ErrTransient = errors.New("transient source failure")
)

// Client queries the Semantic Scholar and arXiv APIs. A single Client
// is shared by all workers; it holds no per-call state, so concurrent
// use is safe. The rate limiter paces requests across workers while
// backoff sleeps stay local to the calling worker.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	apiKey      string
	userAgent   string
	policy      httputil.RetryPolicy
	searchLimit int
	log         zerolog.Logger
}

// NewClient builds a Client from configuration. cfg is expected to have
// defaults applied.
func NewClient(cfg types.SourceConfig, log zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		policy: httputil.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryBaseDelay,
			Factor:     cfg.BackoffFactor,
		},
		searchLimit: cfg.SearchLimit,
		log:         log.With().Str("component", "source").Logger(),
	}
}

// LookupPaper retrieves a single record by external identifier. The id
// uses the Graph API prefix form: "DOI:10.1145/..." or
// "ARXIV:2301.07041".
func (c *Client) LookupPaper(ctx context.Context, id string) (*types.Paper, error) {
	// The Graph API takes the identifier in the path with its slashes
	// intact (e.g. /paper/DOI:10.1145/3292500).
	params := url.Values{"fields": {semanticFields}}
	reqURL := semanticAPIBase + "/paper/" + id + "?" + params.Encode()

	resp, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.log.Debug().Str("id", id).Msg("paper not found")
		return nil, fmt.Errorf("lookup %s: %w", id, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("lookup %s: HTTP %d: %w", id, resp.StatusCode, ErrTransient)
	}

	var sp semanticPaper
	if err := json.NewDecoder(resp.Body).Decode(&sp); err != nil {
		return nil, fmt.Errorf("parsing lookup response for %s: %w", id, err)
	}
	return sp.toPaper(), nil
}

// SearchPapers runs a free-text relevance search and returns candidate
// records. year, when nonzero, filters results to that publication
// year. An empty result set is a successful call, not an error.
func (c *Client) SearchPapers(ctx context.Context, query string, year int) ([]*types.Paper, error) {
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(c.searchLimit)},
		"fields": {semanticFields},
		"sort":   {"relevance"},
	}
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	reqURL := semanticAPIBase + "/paper/search?" + params.Encode()

	resp, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %q: HTTP %d: %w", query, resp.StatusCode, ErrTransient)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	papers := make([]*types.Paper, 0, len(sr.Data))
	for _, sp := range sr.Data {
		papers = append(papers, sp.toPaper())
	}
	c.log.Debug().Str("query", query).Int("results", len(papers)).Msg("search complete")
	return papers, nil
}

// get paces the request through the shared limiter and executes it with
// the retry policy. Transport errors after exhausted retries are
// classified as transient.
func (c *Client) get(ctx context.Context, reqURL string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.policy)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("request failed: %v: %w", err, ErrTransient)
	}
	return resp, nil
}

// Semantic Scholar Graph API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string              `json:"paperId"`
	Title         string              `json:"title"`
	Year          int                 `json:"year"`
	Venue         string              `json:"venue"`
	Journal       *semanticJournal    `json:"journal"`
	URL           string              `json:"url"`
	Authors       []semanticAuthor    `json:"authors"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
	OpenAccessPDF *semanticOpenAccess `json:"openAccessPdf"`
}

type semanticJournal struct {
	Name string `json:"name"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string      `json:"DOI"`
	ArXiv    string      `json:"ArXiv"`
	CorpusID json.Number `json:"CorpusId"`
	OpenAlex string      `json:"OpenAlex"`
	PubMed   string      `json:"PubMed"`
}

type semanticOpenAccess struct {
	URL string `json:"url"`
}

// toPaper converts the wire record to the engine's Paper type.
func (sp semanticPaper) toPaper() *types.Paper {
	p := &types.Paper{
		Title:       sp.Title,
		Year:        sp.Year,
		Venue:       sp.Venue,
		URL:         sp.URL,
		ExternalIDs: map[string]string{},
	}

	// The venue field is empty for journal articles on some records;
	// fall back to the journal name.
	if p.Venue == "" && sp.Journal != nil {
		p.Venue = sp.Journal.Name
	}

	for _, a := range sp.Authors {
		p.Authors = append(p.Authors, types.Author{Name: a.Name})
	}

	if sp.ExternalIDs.DOI != "" {
		p.ExternalIDs[types.IDTypeDOI] = sp.ExternalIDs.DOI
	}
	if sp.ExternalIDs.ArXiv != "" {
		p.ExternalIDs[types.IDTypeArxiv] = ident.StripArxivVersion(sp.ExternalIDs.ArXiv)
	}
	if s := sp.ExternalIDs.CorpusID.String(); s != "" && s != "0" {
		p.ExternalIDs[types.IDTypeCorpus] = s
	}
	if sp.ExternalIDs.OpenAlex != "" {
		p.ExternalIDs[types.IDTypeOpenAlex] = sp.ExternalIDs.OpenAlex
	}
	if sp.ExternalIDs.PubMed != "" {
		p.ExternalIDs[types.IDTypePubMed] = sp.ExternalIDs.PubMed
	}

	if sp.OpenAccessPDF != nil {
		p.OpenAccessPDF = sp.OpenAccessPDF.URL
	}
	return p
}
