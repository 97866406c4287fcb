package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultTimeout = 15 * time.Second

	// Paragraphs shorter than this are navigation crumbs, bylines and
	// cookie banners, not article prose.
	minParagraphLength = 40

	maxArticleLength = 20000
)

// contentSelectors are tried in order; the first one yielding enough text
// wins. News CMSes converge on a small set of article containers.
var contentSelectors = []string{
	"article p",
	"main p",
	"div[itemprop='articleBody'] p",
	"div.article__text p",
	"div.article-body p",
	"div.entry-content p",
	"div.post-content p",
	"div.content p",
}

// Extractor pulls full article text from a story page.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
}

func NewExtractor(userAgent string, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Extract downloads the page at pageURL and returns the article body as
// plain text.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to load page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}
	doc.Find("script, style, nav, header, footer, aside, figure").Remove()

	content := extractContent(doc)
	if content == "" {
		return "", fmt.Errorf("no article content found at %s", pageURL)
	}
	return content, nil
}

func extractContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		var parts []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) >= minParagraphLength {
				parts = append(parts, text)
			}
		})
		if len(parts) == 0 {
			continue
		}

		content := strings.Join(parts, "\n\n")
		if len(content) > maxArticleLength {
			cut := maxArticleLength
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut]
		}
		return content
	}
	return ""
}
