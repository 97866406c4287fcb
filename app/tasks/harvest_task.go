package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akosarev/newsheat/app/database"
	"github.com/akosarev/newsheat/app/feed"
)

// Full article text is only scraped for stories hot enough to end up in a
// digest, capped per harvest cycle.
const maxExtractionsPerHarvest = 5

type HarvestTask struct {
	Task
	aggregator   feed.Aggregator
	repo         database.NewsRepository
	extractor    ContentExtractor
	sources      []string
	maxPerSource int
}

func NewHarvestTask(aggregator feed.Aggregator, repo database.NewsRepository,
	extractor ContentExtractor, sources []string, maxPerSource int) *HarvestTask {
	return &HarvestTask{
		Task:         NewTask(TaskTypeHarvest),
		aggregator:   aggregator,
		repo:         repo,
		extractor:    extractor,
		sources:      sources,
		maxPerSource: maxPerSource,
	}
}

func (t *HarvestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items := t.aggregator.FetchAll(ctx, t.sources, t.maxPerSource)

	valid := items[:0]
	for _, item := range items {
		if !feed.IsValid(item) {
			continue
		}
		item.Language = feed.DetectLanguage(item)
		item.Category = feed.Categorize(item)
		item.Controversy = feed.Score(item)
		valid = append(valid, item)
	}

	t.extractHotContent(ctx, valid)

	inserted, err := t.repo.InsertMany(valid)
	if err != nil {
		return fmt.Errorf("failed to store harvested items: %w", err)
	}

	slog.Info("Harvest completed", "sources", len(t.sources), "items", len(valid), "new", inserted, "duration", t.GetDuration().String())
	return nil
}

// extractHotContent fills FullText for the hottest items in the batch.
// Extraction failures are logged, never fatal.
func (t *HarvestTask) extractHotContent(ctx context.Context, items []feed.Item) {
	if t.extractor == nil {
		return
	}

	extracted := 0
	for i := range items {
		if extracted >= maxExtractionsPerHarvest {
			return
		}
		if items[i].Controversy.Score < feed.ThresholdHot || items[i].Link == "" {
			continue
		}

		content, err := t.extractor.Extract(ctx, items[i].Link)
		if err != nil {
			slog.Debug("Content extraction failed", "link", items[i].Link, "error", err)
			continue
		}
		items[i].FullText = content
		extracted++
	}
}
