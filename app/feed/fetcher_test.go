package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testUserAgent = "newsheat-test/1.0"

func rssDocument(title string, itemTitles ...string) string {
	items := ""
	for i, t := range itemTitles {
		items += fmt.Sprintf(`
		<item>
			<title>%s</title>
			<link>https://example.com/story-%d</link>
			<description>&lt;p&gt;Summary of %s&lt;/p&gt;</description>
			<pubDate>Mon, 02 Jun 2025 0%d:00:00 GMT</pubDate>
		</item>`, t, i, t, i)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>%s</title>
		<link>https://example.com</link>%s
	</channel>
</rss>`, title, items)
}

func newFeedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != testUserAgent {
			t.Errorf("unexpected User-Agent: %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetcherFetch(t *testing.T) {
	server := newFeedServer(t, rssDocument("Test Feed", "First story today", "Second story today", "Third story today"))

	fetcher := NewFetcher(testUserAgent, 0, 0)
	items := fetcher.Fetch(context.Background(), server.URL, 10)

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Title != "First story today" {
		t.Errorf("title = %q", items[0].Title)
	}
	if items[0].Summary != "Summary of First story today" {
		t.Errorf("summary not stripped: %q", items[0].Summary)
	}
	if items[0].Link != "https://example.com/story-0" {
		t.Errorf("link = %q", items[0].Link)
	}
	if items[0].FetchedAt.IsZero() {
		t.Error("FetchedAt not set")
	}
	if items[0].Published == "" {
		t.Error("Published not carried over")
	}
}

func TestFetcherRespectsMaxItems(t *testing.T) {
	server := newFeedServer(t, rssDocument("Test Feed", "Story one here", "Story two here", "Story three here", "Story four here"))

	fetcher := NewFetcher(testUserAgent, 0, 0)
	items := fetcher.Fetch(context.Background(), server.URL, 2)

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
}

func TestFetcherEmptySummaryPlaceholder(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>F</title>
	<item><title>Headline without body</title><link>https://example.com/x</link></item>
</channel></rss>`
	server := newFeedServer(t, doc)

	fetcher := NewFetcher(testUserAgent, 0, 0)
	items := fetcher.Fetch(context.Background(), server.URL, 10)

	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	want := summaryPlaceholderPrefix + "Headline without body"
	if items[0].Summary != want {
		t.Errorf("summary = %q, want %q", items[0].Summary, want)
	}
}

func TestFetcherErrorsYieldNoItems(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		t.Cleanup(server.Close)

		fetcher := NewFetcher(testUserAgent, 0, 0)
		if items := fetcher.Fetch(context.Background(), server.URL, 10); len(items) != 0 {
			t.Errorf("got %d items from failing source", len(items))
		}
	})

	t.Run("unparseable body", func(t *testing.T) {
		server := newFeedServer(t, "this is not xml at all")
		fetcher := NewFetcher(testUserAgent, 0, 0)
		if items := fetcher.Fetch(context.Background(), server.URL, 10); len(items) != 0 {
			t.Errorf("got %d items from garbage body", len(items))
		}
	})

	t.Run("unreachable host", func(t *testing.T) {
		fetcher := NewFetcher(testUserAgent, time.Second, time.Second)
		if items := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/feed", 10); len(items) != 0 {
			t.Errorf("got %d items from unreachable host", len(items))
		}
	})
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/rss", "example.com"},
		{"https://news.site.org/feed.xml", "news.site.org"},
		{"not a url", "not a url"},
	}

	for _, tt := range tests {
		if got := sourceName(tt.url); got != tt.want {
			t.Errorf("sourceName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
