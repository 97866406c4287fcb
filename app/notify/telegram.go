package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/akosarev/newsheat/app/feed"
)

const (
	DefaultBaseURL = "https://api.telegram.org"
	DefaultTimeout = 30 * time.Second
	maxRetries     = 3
	maxMessageLen  = 4096
)

// retryBaseDelay scales the exponential backoff between attempts.
var retryBaseDelay = time.Second

// Telegram delivers digest messages through the Bot API. Transient
// failures are retried with exponential backoff.
type Telegram struct {
	httpClient *http.Client
	baseURL    string
	token      string
	chatID     string
}

// Option mutates a Telegram sender during construction.
type Option func(*Telegram)

// WithBaseURL points the sender at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(t *Telegram) { t.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient swaps the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(t *Telegram) { t.httpClient = httpClient }
}

func NewTelegram(token, chatID string, opts ...Option) *Telegram {
	t := &Telegram{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		token:      token,
		chatID:     chatID,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Enabled reports whether the sender has credentials to work with.
func (t *Telegram) Enabled() bool {
	return t.token != "" && t.chatID != ""
}

// SendMessage posts one HTML-formatted message, retrying transient
// failures with exponential backoff.
func (t *Telegram) SendMessage(ctx context.Context, text string) error {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = t.sendOnce(ctx, text)
		if lastErr == nil {
			return nil
		}

		slog.Warn("Telegram send failed", "attempt", attempt, "max_retries", maxRetries, "error", lastErr)

		if attempt < maxRetries {
			delay := time.Duration(1<<uint(attempt)) * retryBaseDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("failed to send message after %d attempts: %w", maxRetries, lastErr)
}

// SendDigest formats the top items into one message and sends it.
func (t *Telegram) SendDigest(ctx context.Context, items []feed.Item) error {
	if len(items) == 0 {
		return nil
	}
	return t.SendMessage(ctx, FormatDigest(items))
}

func (t *Telegram) sendOnce(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	payload := map[string]any{
		"chat_id":                  t.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}
	return nil
}

// FormatDigest renders items as a Telegram HTML message, hottest first.
func FormatDigest(items []feed.Item) string {
	var b strings.Builder
	b.WriteString("<b>Hot right now</b>\n")

	for _, item := range items {
		line := fmt.Sprintf("\n%s %d · <a href=\"%s\">%s</a> (%s)\n",
			item.Controversy.Glyph,
			item.Controversy.Score,
			html.EscapeString(item.Link),
			html.EscapeString(item.Title),
			html.EscapeString(item.Source),
		)
		if b.Len()+len(line) > maxMessageLen {
			break
		}
		b.WriteString(line)
	}
	return b.String()
}
