package feed

import (
	"context"
	"log/slog"
)

// Translator rewrites a bounded batch of items into the target language.
// Implementations return the full input set with translated items merged
// in; translation failures leave items untouched.
type Translator interface {
	TranslateBatch(ctx context.Context, items []Item, targetLanguage string) []Item
}

// Pipeline assembles the feed: fetch, clean up, enrich, translate, score
// and rank. Each stage is a pure transformation over the item slice.
type Pipeline struct {
	aggregator Aggregator
	translator Translator
}

func NewPipeline(aggregator Aggregator, translator Translator) *Pipeline {
	return &Pipeline{
		aggregator: aggregator,
		translator: translator,
	}
}

// BuildFeed runs the full pipeline for one request. Stage order matters:
// language detection must precede translation, scoring runs on the
// translated text, and ranking is applied to the filtered result.
func (p *Pipeline) BuildFeed(ctx context.Context, sources []string, maxPerSource int, query FeedQuery) []Item {
	items := p.aggregator.FetchAll(ctx, sources, maxPerSource)

	items = filterValid(items)

	for i := range items {
		items[i].Language = DetectLanguage(items[i])
		items[i].Category = Categorize(items[i])
	}

	if query.TranslateTo != "" && p.translator != nil {
		items = p.translator.TranslateBatch(ctx, items, query.TranslateTo)
	}

	for i := range items {
		items[i].Controversy = Score(items[i])
	}

	items = filterQuery(items, query)
	items = Rank(items)

	if query.Limit > 0 && len(items) > query.Limit {
		items = items[:query.Limit]
	}

	slog.Debug("feed built",
		"items", len(items),
		"category", query.Category,
		"language", query.Language,
	)

	return items
}

func filterValid(items []Item) []Item {
	kept := items[:0]
	for _, item := range items {
		if IsValid(item) {
			kept = append(kept, item)
		}
	}
	return kept
}

func filterQuery(items []Item, query FeedQuery) []Item {
	if query.Category == "" && query.Language == "" {
		return items
	}

	kept := items[:0]
	for _, item := range items {
		if query.Category != "" && item.Category != query.Category {
			continue
		}
		if query.Language != "" && item.Language != query.Language {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
