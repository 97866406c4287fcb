package feed

import (
	"time"
)

// Language tags assigned by the detector.
const (
	LanguageRussian = "ru"
	LanguageEnglish = "en"
)

// Category taxonomy. Every item gets exactly one of these; CategoryGeneral
// is the fallback when no keyword list matches.
const (
	CategoryLegal    = "legal"
	CategoryConflict = "conflict"
	CategoryBusiness = "business"
	CategoryTech     = "tech"
	CategoryScience  = "science"
	CategorySociety  = "society"
	CategoryPolitics = "politics"
	CategoryGeneral  = "general"
)

// Controversy label bands, assigned by LabelFor.
const (
	LabelExplosive = "explosive"
	LabelHot       = "hot"
	LabelSpicy     = "spicy"
	LabelMild      = "mild"
)

// Item is a single aggregated news entry. It is created by the Fetcher,
// mutated in place by the enrichment stages (language, category,
// translation, controversy) and only persisted when a caller explicitly
// stores it. Link is the dedup key throughout.
type Item struct {
	ID          int64       `json:"id,omitempty"`
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	FullText    string      `json:"full_text,omitempty"`
	Link        string      `json:"link"`
	Source      string      `json:"source"`
	Published   string      `json:"published"`
	FetchedAt   time.Time   `json:"fetched_at"`
	Language    string      `json:"language"`
	Category    string      `json:"category"`
	Controversy Controversy `json:"controversy"`
	Translated  bool        `json:"translated"`
}

// Controversy is the derived 0-100 engagement estimate with its label band
// and the per-component breakdown that produced it.
type Controversy struct {
	Score     int       `json:"score"`
	Label     string    `json:"label"`
	Glyph     string    `json:"glyph"`
	Breakdown Breakdown `json:"breakdown"`
}

// Breakdown carries the five normalized sub-scores before weighting.
type Breakdown struct {
	Keyword  int `json:"keyword"`
	Pattern  int `json:"pattern"`
	Question int `json:"question"`
	Emotion  int `json:"emotion"`
	Length   int `json:"length"`
}

// FeedQuery describes one call to Pipeline.BuildFeed.
type FeedQuery struct {
	Category    string
	Language    string
	TranslateTo string
	Limit       int
}
