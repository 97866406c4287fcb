package feed

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkerCount bounds concurrent source fetches regardless of how
// many sources are configured.
const DefaultWorkerCount = 10

// Aggregator fans a Fetcher out over many sources and flattens the
// results. Implementations tolerate individual source failures; the
// returned slice carries no ordering guarantee (the Ranker orders later).
type Aggregator interface {
	FetchAll(ctx context.Context, sources []string, maxPerSource int) []Item
}

// PoolAggregator runs fetches on a fixed pool of worker goroutines fed
// from a job channel.
type PoolAggregator struct {
	fetcher *Fetcher
	workers int
}

func NewPoolAggregator(fetcher *Fetcher, workers int) *PoolAggregator {
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	return &PoolAggregator{fetcher: fetcher, workers: workers}
}

func (a *PoolAggregator) FetchAll(ctx context.Context, sources []string, maxPerSource int) []Item {
	if len(sources) == 0 {
		return nil
	}

	jobs := make(chan string)
	results := make(chan []Item, len(sources))

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sourceURL := range jobs {
				results <- a.fetcher.Fetch(ctx, sourceURL, maxPerSource)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, sourceURL := range sources {
			select {
			case jobs <- sourceURL:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []Item
	succeeded := 0
	for batch := range results {
		if len(batch) > 0 {
			succeeded++
		}
		all = append(all, batch...)
	}

	slog.Info("Aggregation completed", "sources", len(sources), "succeeded", succeeded, "items", len(all))
	return all
}

// GroupAggregator has the same fan-out/gather semantics as PoolAggregator
// but schedules fetches as a bounded task group, for callers already inside
// a cooperative context (API request handling).
type GroupAggregator struct {
	fetcher *Fetcher
	limit   int
}

func NewGroupAggregator(fetcher *Fetcher, limit int) *GroupAggregator {
	if limit <= 0 {
		limit = DefaultWorkerCount
	}
	return &GroupAggregator{fetcher: fetcher, limit: limit}
}

func (a *GroupAggregator) FetchAll(ctx context.Context, sources []string, maxPerSource int) []Item {
	if len(sources) == 0 {
		return nil
	}

	batches := make([][]Item, len(sources))

	var g errgroup.Group
	g.SetLimit(a.limit)
	for i, sourceURL := range sources {
		g.Go(func() error {
			// Fetch recovers its own failures; each slot is written by
			// exactly one goroutine.
			batches[i] = a.fetcher.Fetch(ctx, sourceURL, maxPerSource)
			return nil
		})
	}
	_ = g.Wait()

	var all []Item
	succeeded := 0
	for _, batch := range batches {
		if len(batch) > 0 {
			succeeded++
		}
		all = append(all, batch...)
	}

	slog.Info("Aggregation completed", "sources", len(sources), "succeeded", succeeded, "items", len(all))
	return all
}
