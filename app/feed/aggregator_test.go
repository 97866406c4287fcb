package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func aggregators(fetcher *Fetcher, workers int) map[string]Aggregator {
	return map[string]Aggregator{
		"pool":  NewPoolAggregator(fetcher, workers),
		"group": NewGroupAggregator(fetcher, workers),
	}
}

func TestAggregatorFetchAll(t *testing.T) {
	good1 := newFeedServer(t, rssDocument("One", "Alpha story here", "Beta story here"))
	good2 := newFeedServer(t, rssDocument("Two", "Gamma story here"))

	fetcher := NewFetcher(testUserAgent, 0, 0)

	for name, agg := range aggregators(fetcher, 4) {
		t.Run(name, func(t *testing.T) {
			items := agg.FetchAll(context.Background(), []string{good1.URL, good2.URL}, 10)
			if len(items) != 3 {
				t.Fatalf("got %d items, want 3", len(items))
			}
		})
	}
}

func TestAggregatorPartialFailure(t *testing.T) {
	good := newFeedServer(t, rssDocument("Good", "Only working story"))
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(bad.Close)

	fetcher := NewFetcher(testUserAgent, 0, 0)

	for name, agg := range aggregators(fetcher, 4) {
		t.Run(name, func(t *testing.T) {
			items := agg.FetchAll(context.Background(), []string{bad.URL, good.URL, bad.URL}, 10)
			if len(items) != 1 {
				t.Fatalf("got %d items, want 1", len(items))
			}
			if items[0].Title != "Only working story" {
				t.Errorf("title = %q", items[0].Title)
			}
		})
	}
}

func TestAggregatorEmptySources(t *testing.T) {
	fetcher := NewFetcher(testUserAgent, 0, 0)
	for name, agg := range aggregators(fetcher, 4) {
		t.Run(name, func(t *testing.T) {
			if items := agg.FetchAll(context.Background(), nil, 10); len(items) != 0 {
				t.Errorf("got %d items from no sources", len(items))
			}
		})
	}
}

func TestAggregatorBoundsConcurrency(t *testing.T) {
	const workers = 2

	var inFlight, peak atomic.Int32
	body := rssDocument("Slow", "Some story title")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)

	sources := make([]string, 8)
	for i := range sources {
		sources[i] = server.URL + fmt.Sprintf("/?n=%d", i)
	}

	fetcher := NewFetcher(testUserAgent, 0, 0)

	for name, agg := range aggregators(fetcher, workers) {
		t.Run(name, func(t *testing.T) {
			peak.Store(0)
			items := agg.FetchAll(context.Background(), sources, 10)
			if len(items) != len(sources) {
				t.Fatalf("got %d items, want %d", len(items), len(sources))
			}
			if got := peak.Load(); got > workers {
				t.Errorf("peak concurrency %d exceeds limit %d", got, workers)
			}
		})
	}
}

func TestAggregatorCancelledContext(t *testing.T) {
	server := newFeedServer(t, rssDocument("Feed", "A story title"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewFetcher(testUserAgent, 0, 0)
	for name, agg := range aggregators(fetcher, 4) {
		t.Run(name, func(t *testing.T) {
			// Must return promptly and without panic; item count is
			// whatever managed to start before cancellation.
			_ = agg.FetchAll(ctx, []string{server.URL, server.URL}, 10)
		})
	}
}
