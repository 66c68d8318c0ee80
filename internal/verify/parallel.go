// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pdiddy/refcheck/pkg/types"
)

// workItem is one queued bibliography entry.
type workItem struct {
	index    int
	citation types.Citation
	enqueued time.Time
}

// ResultEnvelope carries one completed verification back to the
// caller. Exactly one envelope is produced per citation, and the
// ordered emitter delivers envelopes with strictly ascending indices.
type ResultEnvelope struct {
	// Index is the citation's 0-based position in the bibliography.
	Index int

	// Citation is the input entry, unchanged.
	Citation types.Citation

	// Verdict is the verification outcome.
	Verdict types.Verdict

	// Elapsed is the time the pipeline spent on this citation.
	Elapsed time.Duration
}

// ResultFunc is the per-result callback. It is invoked once per
// citation in original order. A panicking callback is logged and
// skipped; it never halts the batch.
type ResultFunc func(ResultEnvelope)

// VerifyBibliography verifies all citations concurrently and emits
// results strictly in original order. Workers pull from a shared
// queue, run the resolution pipeline, and push completions; a single
// reorder step buffers out-of-order arrivals and flushes the longest
// contiguous run starting at the next expected index. A citation
// whose processing panics yields a processing_failed finding at its
// index; the rest of the batch is unaffected.
func (r *Resolver) VerifyBibliography(ctx context.Context, citations []types.Citation, onResult ResultFunc) types.BatchStats {
	n := len(citations)
	if n == 0 {
		return types.BatchStats{}
	}

	workers := r.Workers
	if workers <= 0 {
		workers = types.DefaultWorkers
	}
	if workers > n {
		workers = n
	}

	start := time.Now()
	r.Log.Debug().Int("references", n).Int("workers", workers).Msg("starting parallel verification")

	// Seed the queue in order, then close it: the close is the
	// termination marker each worker consumes independently.
	work := make(chan workItem, n)
	for i, c := range citations {
		work <- workItem{index: i, citation: c, enqueued: time.Now()}
	}
	close(work)

	results := make(chan ResultEnvelope, n)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for item := range work {
				results <- r.processItem(ctx, item)
			}
			r.Log.Debug().Int("worker", id).Msg("worker drained")
		}(w)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// The calling goroutine is the dedicated ordering thread: it
	// blocks only on the completion stream.
	ord := newOrderedEmitter(n, onResult, r)
	for env := range results {
		ord.add(env)
	}

	stats := ord.stats()
	stats.TotalReferences = n
	stats.TotalTime = time.Since(start)
	if stats.TotalTime > 0 {
		stats.ReferencesPerSecond = float64(n) / stats.TotalTime.Seconds()
	}
	return stats
}

// processItem runs the pipeline for one item and always returns
// exactly one envelope. An internal fault anywhere below is caught
// here and converted into a processing_failed finding so a single
// citation can never abort the batch.
func (r *Resolver) processItem(ctx context.Context, item workItem) (env ResultEnvelope) {
	start := time.Now()
	r.Log.Debug().Int("index", item.index).Dur("queued", start.Sub(item.enqueued)).Msg("processing reference")

	defer func() {
		if rec := recover(); rec != nil {
			r.Log.Error().Int("index", item.index).Interface("panic", rec).Msg("verification panicked")
			env = ResultEnvelope{
				Index:    item.index,
				Citation: item.citation,
				Verdict: types.Verdict{Findings: []types.Finding{{
					Kind:    types.KindError,
					Field:   types.FieldProcessingFailed,
					Details: fmt.Sprintf("internal processing error: %v", rec),
				}}},
				Elapsed: time.Since(start),
			}
		}
	}()

	verdict := r.Resolve(ctx, item.citation)
	return ResultEnvelope{
		Index:    item.index,
		Citation: item.citation,
		Verdict:  verdict,
		Elapsed:  time.Since(start),
	}
}

// orderedEmitter reassembles the unordered completion stream into
// original submission order. The pending map and the aggregated
// statistics share one lock; both are touched only in the flush step.
type orderedEmitter struct {
	mu       sync.Mutex
	pending  map[int]ResultEnvelope
	next     int
	total    int
	onResult ResultFunc
	r        *Resolver

	processed  int
	findings   int
	avgElapsed time.Duration
	fastest    time.Duration
	slowest    time.Duration
}

func newOrderedEmitter(total int, onResult ResultFunc, r *Resolver) *orderedEmitter {
	return &orderedEmitter{
		pending:  make(map[int]ResultEnvelope),
		total:    total,
		onResult: onResult,
		r:        r,
	}
}

// add stores an envelope and flushes the longest contiguous run
// starting at the next expected index.
func (o *orderedEmitter) add(env ResultEnvelope) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.pending[env.Index] = env
	for {
		current, ok := o.pending[o.next]
		if !ok {
			return
		}
		delete(o.pending, o.next)
		o.next++

		o.update(current)
		o.emit(current)
	}
}

// update folds one result into the running statistics. The average is
// maintained incrementally; no history is kept.
func (o *orderedEmitter) update(env ResultEnvelope) {
	o.processed++
	o.findings += len(env.Verdict.Findings)

	prev := o.avgElapsed
	o.avgElapsed = prev + (env.Elapsed-prev)/time.Duration(o.processed)

	if o.processed == 1 || env.Elapsed < o.fastest {
		o.fastest = env.Elapsed
	}
	if env.Elapsed > o.slowest {
		o.slowest = env.Elapsed
	}
}

// emit hands the envelope to the caller's callback, containing any
// panic so a broken consumer cannot stall the ordered stream.
func (o *orderedEmitter) emit(env ResultEnvelope) {
	if o.onResult == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			o.r.Log.Error().Int("index", env.Index).Interface("panic", rec).Msg("result callback panicked")
		}
	}()
	o.onResult(env)
}

// stats snapshots the aggregate counters. Called after the completion
// stream has closed, so no concurrent mutation is possible.
func (o *orderedEmitter) stats() types.BatchStats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return types.BatchStats{
		Processed:     o.processed,
		TotalFindings: o.findings,
		AvgTime:       o.avgElapsed,
		FastestTime:   o.fastest,
		SlowestTime:   o.slowest,
	}
}
