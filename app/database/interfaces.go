package database

import (
	"time"

	"github.com/akosarev/newsheat/app/feed"
)

type NewsRepository interface {
	InsertMany(items []feed.Item) (int, error)
	GetRecent(limit int, category, language string) ([]feed.Item, error)
	Search(query string, limit int, category, language string, minScore int) ([]feed.Item, error)
	GetTop(since time.Time, limit int) ([]feed.Item, error)
	Cleanup(keep int) (int64, error)
	Count() (int, error)
}
