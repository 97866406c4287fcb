package tasks

import (
	"context"

	"github.com/akosarev/newsheat/app/feed"
)

// TaskSchedulerInterface defines the interface for task scheduling
// operations. Used by the main application to manage background task
// processing and by the API to trigger an immediate harvest.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	TriggerHarvest() error
}

// Notifier delivers digest messages to an external channel.
type Notifier interface {
	Enabled() bool
	SendDigest(ctx context.Context, items []feed.Item) error
}

// ContentExtractor pulls full article text for a story URL.
type ContentExtractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}
