package database

import (
	"time"

	"github.com/akosarev/newsheat/app/feed"
)

// News is a stored item row.
type News struct {
	ID               int64
	Title            string
	Summary          string
	FullText         string
	Link             string
	Source           string
	Published        string
	FetchedAt        time.Time
	Language         string
	Category         string
	ControversyScore int
	ControversyLabel string
	Translated       bool
	CreatedAt        time.Time
}

// toItem rebuilds the pipeline representation. The controversy breakdown
// is not persisted; only score and label survive a round trip.
func (n News) toItem() feed.Item {
	label, glyph := feed.LabelFor(n.ControversyScore)
	if n.ControversyLabel != "" {
		label = n.ControversyLabel
	}

	return feed.Item{
		ID:        n.ID,
		Title:     n.Title,
		Summary:   n.Summary,
		FullText:  n.FullText,
		Link:      n.Link,
		Source:    n.Source,
		Published: n.Published,
		FetchedAt: n.FetchedAt,
		Language:  n.Language,
		Category:  n.Category,
		Controversy: feed.Controversy{
			Score: n.ControversyScore,
			Label: label,
			Glyph: glyph,
		},
		Translated: n.Translated,
	}
}
