// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders verification results for people and
// machines: per-reference console blocks in original order, a batch
// summary, and an indented JSON export.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/refcheck/internal/ident"
	"github.com/pdiddy/refcheck/internal/verify"
	"github.com/pdiddy/refcheck/pkg/types"
)

// Result is one reference's outcome in an export document.
type Result struct {
	Index    int            `json:"index"`
	Citation types.Citation `json:"citation"`
	Verdict  types.Verdict  `json:"verdict"`
	Elapsed  time.Duration  `json:"elapsed_ns"`
}

// Document is the full machine-readable export of a batch run.
type Document struct {
	Results []Result         `json:"results"`
	Stats   types.BatchStats `json:"stats"`
}

// Reporter accumulates ordered results and writes the console report.
type Reporter struct {
	w       io.Writer
	total   int
	results []Result
}

// New returns a Reporter writing console output to w for a
// bibliography of the given size.
func New(w io.Writer, total int) *Reporter {
	return &Reporter{w: w, total: total}
}

// OnResult renders one reference block. It is meant to be passed to
// the batch runner and relies on its ordered-emission guarantee.
func (r *Reporter) OnResult(env verify.ResultEnvelope) {
	r.results = append(r.results, Result{
		Index:    env.Index,
		Citation: env.Citation,
		Verdict:  env.Verdict,
		Elapsed:  env.Elapsed,
	})
	r.writeBlock(env)
}

func (r *Reporter) writeBlock(env verify.ResultEnvelope) {
	c := env.Citation
	v := env.Verdict

	title := c.Title
	if title == "" {
		title = firstLine(c.RawText)
	}
	fmt.Fprintf(r.w, "[%d/%d] %s\n", env.Index+1, r.total, title)

	if len(c.Authors) > 0 {
		fmt.Fprintf(r.w, "       %s\n", strings.Join(c.Authors, ", "))
	}
	if line := venueYearLine(c); line != "" {
		fmt.Fprintf(r.w, "       %s\n", line)
	}
	for _, u := range referenceURLs(c, v) {
		fmt.Fprintf(r.w, "       %s\n", u)
	}

	switch {
	case v.Paper == nil && len(v.Findings) == 0:
		fmt.Fprintf(r.w, "  ? no authoritative record found\n")
	case v.Paper != nil && len(v.Findings) == 0:
		fmt.Fprintf(r.w, "  ✓ verified\n")
	}
	for _, f := range v.Findings {
		fmt.Fprintf(r.w, "  %s\n", renderFinding(f))
	}
	fmt.Fprintln(r.w)
}

// renderFinding formats one finding line: errors get a cross, warnings
// an exclamation mark.
func renderFinding(f types.Finding) string {
	marker := "!"
	if f.Kind == types.KindError {
		marker = "✗"
	}
	return fmt.Sprintf("%s %s: %s", marker, f.Field, f.Details)
}

// Summary writes the batch totals after all blocks.
func (r *Reporter) Summary(stats types.BatchStats) {
	var errs, warns, unresolved int
	for _, res := range r.results {
		errs += len(res.Verdict.Errors())
		warns += len(res.Verdict.Warnings())
		if res.Verdict.Paper == nil && len(res.Verdict.Findings) == 0 {
			unresolved++
		}
	}

	fmt.Fprintf(r.w, "%d references processed in %s (%.1f/s)\n",
		stats.Processed, stats.TotalTime.Round(time.Millisecond), stats.ReferencesPerSecond)
	fmt.Fprintf(r.w, "errors: %d, warnings: %d, unresolved: %d\n", errs, warns, unresolved)
	if stats.Processed > 0 {
		fmt.Fprintf(r.w, "per reference: avg %s, fastest %s, slowest %s\n",
			stats.AvgTime.Round(time.Millisecond),
			stats.FastestTime.Round(time.Millisecond),
			stats.SlowestTime.Round(time.Millisecond))
	}
}

// WriteJSON writes the collected results and stats as indented JSON.
func (r *Reporter) WriteJSON(w io.Writer, stats types.BatchStats) error {
	doc := Document{Results: r.results, Stats: stats}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// HasErrors reports whether any reference produced an error-kind
// finding, for the CLI exit status.
func (r *Reporter) HasErrors() bool {
	for _, res := range r.results {
		if len(res.Verdict.Errors()) > 0 {
			return true
		}
	}
	return false
}

// referenceURLs collects the citation's URL and the verdict's best
// URL, deduplicated with order preserved.
func referenceURLs(c types.Citation, v types.Verdict) []string {
	var urls []string
	seen := map[string]bool{}
	add := func(u string) {
		key := canonicalURL(u)
		if u == "" || seen[key] {
			return
		}
		seen[key] = true
		urls = append(urls, u)
	}
	add(c.URL)
	add(v.URL)
	return urls
}

// canonicalURL treats versioned and unversioned arXiv links to the
// same paper as one URL.
func canonicalURL(u string) string {
	if id := ident.ArxivIDFromURL(u); id != "" {
		return "arxiv:" + ident.StripArxivVersion(id)
	}
	return u
}

func venueYearLine(c types.Citation) string {
	switch {
	case c.Venue != "" && c.Year != 0:
		return fmt.Sprintf("%s, %d", c.Venue, c.Year)
	case c.Venue != "":
		return c.Venue
	case c.Year != 0:
		return fmt.Sprintf("%d", c.Year)
	default:
		return ""
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if line == "" {
		return "(untitled reference)"
	}
	return line
}
