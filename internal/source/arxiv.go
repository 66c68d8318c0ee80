// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pdiddy/refcheck/internal/httputil"
	"github.com/pdiddy/refcheck/internal/ident"
	"github.com/pdiddy/refcheck/pkg/types"
)

// arxivAPIBase is the arXiv Atom query endpoint. Declared as a var so
// tests can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivLookup fetches paper metadata directly from the arXiv API and
// synthesizes a Paper record from the Atom entry. Used for very recent
// preprints the primary source has not indexed yet.
func (c *Client) ArxivLookup(ctx context.Context, arxivID string) (*types.Paper, error) {
	arxivID = ident.StripArxivVersion(arxivID)
	reqURL := arxivAPIBase + "?id_list=" + arxivID

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.policy)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %v: %w", err, ErrTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d: %w", resp.StatusCode, ErrTransient)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	// The API answers an unknown ID with an empty feed or an entry
	// whose <id> carries no /abs/ path.
	if len(feed.Entries) == 0 {
		return nil, fmt.Errorf("arXiv %s: %w", arxivID, ErrNotFound)
	}
	entry := feed.Entries[0]
	if entryArxivID(entry.ID) == "" {
		return nil, fmt.Errorf("arXiv %s: %w", arxivID, ErrNotFound)
	}

	p := &types.Paper{
		Title: strings.Join(strings.Fields(entry.Title), " "),
		Venue: "arXiv",
		ExternalIDs: map[string]string{
			types.IDTypeArxiv: arxivID,
		},
		URL:           ident.ArxivAbsURL(arxivID),
		OpenAccessPDF: ident.ArxivPDFURL(arxivID),
	}

	for _, a := range entry.Authors {
		p.Authors = append(p.Authors, types.Author{Name: strings.TrimSpace(a.Name)})
	}

	if len(entry.Published) >= 4 {
		if year, err := strconv.Atoi(entry.Published[:4]); err == nil {
			p.Year = year
		}
	}

	c.log.Debug().Str("arxiv_id", arxivID).Str("title", p.Title).Msg("synthesized record from arXiv API")
	return p, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// entryArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func entryArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return ident.StripArxivVersion(idURL[idx+len(prefix):])
}
