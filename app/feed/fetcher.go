package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// DefaultConnectTimeout bounds TCP connect + TLS handshake per source;
// DefaultReadTimeout bounds the whole request including body read.
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 10 * time.Second
)

const summaryPlaceholderPrefix = "See full story: "

// Fetcher downloads and parses a single RSS/Atom source. Ordinary network
// and parse failures never surface as errors: the source just contributes
// zero items for the cycle.
type Fetcher struct {
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	userAgent    string
	readTimeout  time.Duration
}

// NewFetcher builds a fetcher with the two-stage timeout client. Pass zero
// durations to use the defaults.
func NewFetcher(userAgent string, connectTimeout, readTimeout time.Duration) *Fetcher {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConnsPerHost:   2,
	}

	return &Fetcher{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   readTimeout,
		},
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
		readTimeout:  readTimeout,
	}
}

// Fetch downloads one source and returns up to maxItems normalized items.
// Failures are logged and yield an empty slice.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string, maxItems int) []Item {
	data, err := f.download(ctx, sourceURL)
	if err != nil {
		slog.Warn("Feed fetch failed", "source", sourceURL, "error", err)
		return nil
	}

	parsed, err := f.gofeedParser.ParseString(data)
	if err != nil {
		slog.Warn("Feed parse failed", "source", sourceURL, "error", err)
		return nil
	}

	source := sourceName(sourceURL)
	fetchedAt := time.Now().UTC()

	items := make([]Item, 0, min(len(parsed.Items), maxItems))
	for _, entry := range parsed.Items {
		if len(items) >= maxItems {
			break
		}
		item, ok := f.normalizeEntry(entry, source, fetchedAt)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	slog.Debug("Feed fetched", "source", sourceURL, "items", len(items), "total", len(parsed.Items))
	return items
}

func (f *Fetcher) download(ctx context.Context, sourceURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.readTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Charset", "utf-8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(data), nil
}

// normalizeEntry converts a gofeed entry into an Item: encoding repair,
// HTML strip, summary placeholder. Entries without a title are dropped.
func (f *Fetcher) normalizeEntry(entry *gofeed.Item, source string, fetchedAt time.Time) (Item, bool) {
	title := RepairEncoding(strings.TrimSpace(entry.Title))
	if title == "" {
		return Item{}, false
	}

	raw := entry.Description
	if raw == "" {
		raw = entry.Content
	}
	summary := RepairEncoding(StripHTML(raw))
	if summary == "" {
		summary = summaryPlaceholderPrefix + title
	}

	return Item{
		Title:     title,
		Summary:   summary,
		Link:      strings.TrimSpace(entry.Link),
		Source:    source,
		Published: strings.TrimSpace(entry.Published),
		FetchedAt: fetchedAt,
	}, true
}

// sourceName derives a human-readable origin from the feed URL host.
func sourceName(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return sourceURL
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
