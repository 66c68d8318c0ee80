// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/refcheck/pkg/types"
)

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v5</id>
    <title>Attention Is All
 You Need</title>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`

const arxivEmptyFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
</feed>`

func TestArxivLookupSynthesizesRecord(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, arxivFeedXML)
	}))
	defer ts.Close()
	withArxivBase(t, ts.URL)

	c := testClient(ts, 2)
	p, err := c.ArxivLookup(context.Background(), "1706.03762v5")
	if err != nil {
		t.Fatalf("ArxivLookup: %v", err)
	}

	if gotQuery != "id_list=1706.03762" {
		t.Errorf("query = %q, want id_list with version stripped", gotQuery)
	}
	// Wrapped title lines collapse to one line.
	if p.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Year != 2017 {
		t.Errorf("Year = %d, want 2017", p.Year)
	}
	if p.Venue != "arXiv" {
		t.Errorf("Venue = %q, want arXiv", p.Venue)
	}
	if got := p.ExternalIDs[types.IDTypeArxiv]; got != "1706.03762" {
		t.Errorf("ArXiv ID = %q", got)
	}
	if p.URL != "https://arxiv.org/abs/1706.03762" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.OpenAccessPDF != "https://arxiv.org/pdf/1706.03762.pdf" {
		t.Errorf("OpenAccessPDF = %q", p.OpenAccessPDF)
	}
	if len(p.Authors) != 2 || p.Authors[1].Name != "Noam Shazeer" {
		t.Errorf("Authors = %+v", p.Authors)
	}
}

func TestArxivLookupEmptyFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, arxivEmptyFeedXML)
	}))
	defer ts.Close()
	withArxivBase(t, ts.URL)

	c := testClient(ts, 2)
	_, err := c.ArxivLookup(context.Background(), "9999.99999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestArxivLookupServerFault(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	withArxivBase(t, ts.URL)

	c := testClient(ts, 1)
	_, err := c.ArxivLookup(context.Background(), "1706.03762")
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
}
