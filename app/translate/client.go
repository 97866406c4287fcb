package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/akosarev/newsheat/app/feed"
)

const (
	DefaultBaseURL   = "https://translate.googleapis.com"
	DefaultMaxBatch  = 10
	DefaultTimeout   = 15 * time.Second
	maxChunkChars    = 5000
	translateAPIPath = "/translate_a/single"
)

// Client translates text through the unofficial gtx endpoint. The endpoint
// takes plain GET requests and answers with a nested JSON array, no API
// key required.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxBatch   int
}

// Option mutates a Client during construction.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient swaps the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithMaxBatch caps how many items TranslateBatch will translate per call.
func WithMaxBatch(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBatch = n
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		maxBatch:   DefaultMaxBatch,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate converts text into targetLanguage. Source language is
// auto-detected by the endpoint. Long texts are split at sentence
// boundaries and translated chunk by chunk.
func (c *Client) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	if len(text) <= maxChunkChars {
		return c.translateChunk(ctx, text, targetLanguage)
	}

	chunks := splitChunks(text, maxChunkChars)
	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := c.translateChunk(ctx, chunk, targetLanguage)
		if err != nil {
			// Keep the original sentence rather than losing it.
			slog.Warn("Chunk translation failed", "error", err)
			translated = chunk
		}
		parts = append(parts, translated)
	}
	return strings.Join(parts, " "), nil
}

// TranslateBatch translates up to the batch cap of items whose detected
// language differs from the target, then merges results back into the full
// input set by link. Items beyond the cap and items already in the target
// language pass through unchanged. Implements feed.Translator.
func (c *Client) TranslateBatch(ctx context.Context, items []feed.Item, targetLanguage string) []feed.Item {
	translated := make(map[string]feed.Item, c.maxBatch)

	budget := c.maxBatch
	for _, item := range items {
		if budget == 0 {
			break
		}
		if item.Language == targetLanguage || item.Link == "" {
			continue
		}
		budget--

		title, err := c.Translate(ctx, item.Title, targetLanguage)
		if err != nil {
			slog.Warn("Title translation failed", "link", item.Link, "error", err)
			continue
		}
		summary, err := c.Translate(ctx, item.Summary, targetLanguage)
		if err != nil {
			slog.Warn("Summary translation failed", "link", item.Link, "error", err)
			continue
		}

		item.Title = title
		item.Summary = summary
		item.Language = targetLanguage
		item.Translated = true
		translated[item.Link] = item
	}

	if len(translated) == 0 {
		return items
	}

	merged := make([]feed.Item, len(items))
	for i, item := range items {
		if t, ok := translated[item.Link]; ok {
			merged[i] = t
		} else {
			merged[i] = item
		}
	}

	slog.Debug("Batch translated", "requested", len(items), "translated", len(translated), "target", targetLanguage)
	return merged
}

func (c *Client) translateChunk(ctx context.Context, text, targetLanguage string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", "auto")
	query.Set("tl", targetLanguage)
	query.Set("dt", "t")
	query.Set("q", text)

	endpoint := c.baseURL + translateAPIPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translation response: %w", err)
	}

	return parseResponse(body)
}

// parseResponse extracts the translated text from the gtx nested-array
// response: [[["translated","original",...],...],...].
func parseResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse translation response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translation response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		pair, ok := seg.([]any)
		if !ok || len(pair) == 0 {
			continue
		}
		if s, ok := pair[0].(string); ok {
			b.WriteString(s)
		}
	}

	result := strings.TrimSpace(b.String())
	if result == "" {
		return "", fmt.Errorf("translation response carried no text")
	}
	return result, nil
}

// splitChunks breaks text into pieces of at most limit bytes, preferring
// sentence boundaries. A single sentence longer than the limit is cut
// mid-sentence at a rune boundary.
func splitChunks(text string, limit int) []string {
	sentences := splitSentences(text)

	var chunks []string
	var current strings.Builder
	for _, sentence := range sentences {
		if len(sentence) > limit {
			if current.Len() > 0 {
				chunks = append(chunks, strings.TrimSpace(current.String()))
				current.Reset()
			}
			chunks = append(chunks, cutRunes(sentence, limit)...)
			continue
		}
		if current.Len()+len(sentence)+1 > limit && current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}

// splitSentences splits on sentence-final punctuation followed by
// whitespace. Good enough for news prose in either language.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] != ' ' && runes[i+1] != '\n' && runes[i+1] != '\t' {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// cutRunes hard-cuts text into pieces of at most limit bytes without
// breaking UTF-8 sequences.
func cutRunes(text string, limit int) []string {
	var pieces []string
	var current strings.Builder
	for _, r := range text {
		if current.Len()+len(string(r)) > limit {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}
