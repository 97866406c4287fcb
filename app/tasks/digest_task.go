package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/akosarev/newsheat/app/database"
)

type DigestTask struct {
	Task
	repo     database.NewsRepository
	notifier Notifier
	window   time.Duration
	size     int
}

func NewDigestTask(repo database.NewsRepository, notifier Notifier, window time.Duration, size int) *DigestTask {
	return &DigestTask{
		Task:     NewTask(TaskTypeDigest),
		repo:     repo,
		notifier: notifier,
		window:   window,
		size:     size,
	}
}

func (t *DigestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if t.notifier == nil || !t.notifier.Enabled() {
		slog.Debug("Digest notifier disabled, skipping")
		return nil
	}

	items, err := t.repo.GetTop(time.Now().UTC().Add(-t.window), t.size)
	if err != nil {
		return fmt.Errorf("failed to load top items: %w", err)
	}
	if len(items) == 0 {
		slog.Debug("No items for digest window", "window", t.window.String())
		return nil
	}

	if err := t.notifier.SendDigest(ctx, items); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	slog.Info("Digest sent", "items", len(items), "window", t.window.String())
	return nil
}
