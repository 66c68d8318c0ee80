// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pdiddy/refcheck/pkg/types"
)

// jitterSource resolves every query and sleeps a random few
// milliseconds so completions arrive out of order.
type jitterSource struct{}

func (jitterSource) LookupPaper(_ context.Context, id string) (*types.Paper, error) {
	return nil, fmt.Errorf("paper %q: not found", id)
}

func (jitterSource) SearchPapers(_ context.Context, query string, _ int) ([]*types.Paper, error) {
	time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
	return []*types.Paper{{Title: query, Year: 2020}}, nil
}

func (jitterSource) ArxivLookup(_ context.Context, arxivID string) (*types.Paper, error) {
	return nil, fmt.Errorf("arxiv %q: not found", arxivID)
}

func numberedCitations(n int) []types.Citation {
	citations := make([]types.Citation, n)
	for i := range citations {
		citations[i] = types.Citation{
			Title: fmt.Sprintf("Numbered Test Reference Entry %03d", i),
			Year:  2020,
		}
	}
	return citations
}

func TestVerifyBibliographyPreservesOrder(t *testing.T) {
	const n = 40
	r := newTestResolver(jitterSource{})
	r.Workers = 8

	var indices []int
	stats := r.VerifyBibliography(context.Background(), numberedCitations(n), func(env ResultEnvelope) {
		indices = append(indices, env.Index)
		if !strings.Contains(env.Verdict.Paper.Title, fmt.Sprintf("%03d", env.Index)) {
			t.Errorf("index %d paired with wrong verdict %q", env.Index, env.Verdict.Paper.Title)
		}
	})

	if len(indices) != n {
		t.Fatalf("callback count = %d, want %d", len(indices), n)
	}
	for i, idx := range indices {
		if idx != i {
			t.Fatalf("out-of-order emission at position %d: got index %d", i, idx)
		}
	}
	if stats.TotalReferences != n || stats.Processed != n {
		t.Fatalf("stats counts = %+v", stats)
	}
}

func TestVerifyBibliographyRepeatable(t *testing.T) {
	citations := numberedCitations(12)
	r := newTestResolver(jitterSource{})
	r.Workers = 4

	run := func() []string {
		var titles []string
		r.VerifyBibliography(context.Background(), citations, func(env ResultEnvelope) {
			titles = append(titles, env.Verdict.Paper.Title)
		})
		return titles
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("run sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("runs diverge at %d: %q vs %q", i, first[i], second[i])
		}
	}
}

// panicSource panics on one specific query.
type panicSource struct {
	jitterSource
	trigger string
}

func (p panicSource) SearchPapers(ctx context.Context, query string, year int) ([]*types.Paper, error) {
	if strings.Contains(query, p.trigger) {
		panic("scripted fault")
	}
	return p.jitterSource.SearchPapers(ctx, query, year)
}

func TestVerifyBibliographyContainsPanics(t *testing.T) {
	const n = 10
	r := newTestResolver(panicSource{trigger: "004"})
	r.Workers = 3

	var envs []ResultEnvelope
	stats := r.VerifyBibliography(context.Background(), numberedCitations(n), func(env ResultEnvelope) {
		envs = append(envs, env)
	})

	if len(envs) != n {
		t.Fatalf("callback count = %d, want %d", len(envs), n)
	}
	failed := envs[4].Verdict
	if failed.Paper != nil || len(failed.Findings) != 1 {
		t.Fatalf("faulted entry verdict = %+v", failed)
	}
	f := failed.Findings[0]
	if f.Kind != types.KindError || f.Field != types.FieldProcessingFailed {
		t.Fatalf("got finding %+v", f)
	}
	for i, env := range envs {
		if i == 4 {
			continue
		}
		if env.Verdict.Paper == nil {
			t.Fatalf("entry %d should be unaffected by the fault", i)
		}
	}
	if stats.Processed != n {
		t.Fatalf("stats.Processed = %d, want %d", stats.Processed, n)
	}
}

func TestVerifyBibliographyCallbackPanicSkipped(t *testing.T) {
	const n = 6
	r := newTestResolver(jitterSource{})
	r.Workers = 2

	var mu sync.Mutex
	var seen []int
	stats := r.VerifyBibliography(context.Background(), numberedCitations(n), func(env ResultEnvelope) {
		mu.Lock()
		seen = append(seen, env.Index)
		mu.Unlock()
		if env.Index == 2 {
			panic("consumer fault")
		}
	})

	if len(seen) != n {
		t.Fatalf("all results must still be delivered, got %v", seen)
	}
	if stats.Processed != n {
		t.Fatalf("stats.Processed = %d, want %d", stats.Processed, n)
	}
}

func TestVerifyBibliographyEmpty(t *testing.T) {
	r := newTestResolver(jitterSource{})
	called := false
	stats := r.VerifyBibliography(context.Background(), nil, func(ResultEnvelope) { called = true })
	if called {
		t.Fatal("callback must not run for an empty bibliography")
	}
	if stats.TotalReferences != 0 || stats.Processed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestVerifyBibliographyStats(t *testing.T) {
	const n = 9
	r := newTestResolver(jitterSource{})
	r.Workers = 3

	stats := r.VerifyBibliography(context.Background(), numberedCitations(n), nil)

	if stats.TotalReferences != n || stats.Processed != n {
		t.Fatalf("counts = %+v", stats)
	}
	if stats.TotalTime <= 0 {
		t.Fatal("TotalTime must be positive")
	}
	if stats.ReferencesPerSecond <= 0 {
		t.Fatal("ReferencesPerSecond must be positive")
	}
	if stats.FastestTime > stats.SlowestTime {
		t.Fatalf("fastest %v > slowest %v", stats.FastestTime, stats.SlowestTime)
	}
	if stats.AvgTime < stats.FastestTime || stats.AvgTime > stats.SlowestTime {
		t.Fatalf("avg %v outside [%v, %v]", stats.AvgTime, stats.FastestTime, stats.SlowestTime)
	}
}
