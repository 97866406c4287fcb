package api

import (
	"context"
	"time"

	"github.com/akosarev/newsheat/app/database"
	"github.com/akosarev/newsheat/app/feed"
	"github.com/akosarev/newsheat/app/tasks"
)

// FeedBuilder produces a ready-to-serve feed for one request.
type FeedBuilder interface {
	BuildFeed(ctx context.Context, sources []string, maxPerSource int, query feed.FeedQuery) []feed.Item
}

type Handler struct {
	builder      FeedBuilder
	repo         database.NewsRepository
	scheduler    tasks.TaskSchedulerInterface
	sources      []string
	maxPerSource int
	feedLimit    int
	startedAt    time.Time
}

type FeedResponse struct {
	Count int         `json:"count"`
	Items []feed.Item `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
