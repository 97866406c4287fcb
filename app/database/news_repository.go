package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/akosarev/newsheat/app/feed"
)

const newsColumns = `id, title, summary, full_text, link, source, published,
	fetched_at, language, category, controversy_score, controversy_label, translated`

// SQLiteNewsRepository persists aggregated items. The link column is
// UNIQUE, so re-harvesting the same story is a no-op.
type SQLiteNewsRepository struct {
	db *DB
}

func NewSQLiteNewsRepository(db *DB) *SQLiteNewsRepository {
	return &SQLiteNewsRepository{db: db}
}

// InsertMany stores items, silently skipping links already present.
// Returns the number of rows actually inserted.
func (r *SQLiteNewsRepository) InsertMany(items []feed.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO news (
			title, summary, full_text, link, source, published,
			fetched_at, language, category, controversy_score, controversy_label, translated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		res, err := stmt.Exec(
			item.Title, item.Summary, item.FullText, item.Link, item.Source, item.Published,
			formatTime(item.FetchedAt), item.Language, item.Category,
			item.Controversy.Score, item.Controversy.Label, item.Translated,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert item %s: %w", item.Link, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insert: %w", err)
	}
	return inserted, nil
}

// GetRecent returns the newest stored items, optionally filtered by
// category and language. Empty filter values match everything.
func (r *SQLiteNewsRepository) GetRecent(limit int, category, language string) ([]feed.Item, error) {
	rows, err := r.db.Query(`
		SELECT `+newsColumns+`
		FROM news
		WHERE (? = '' OR category = ?)
		  AND (? = '' OR language = ?)
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?`,
		category, category, language, language, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent news: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Search runs a full-text query over title and summary. Results are
// ordered by relevance first, controversy second.
func (r *SQLiteNewsRepository) Search(query string, limit int, category, language string, minScore int) ([]feed.Item, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := r.db.Query(`
		SELECT `+qualifiedNewsColumns("n")+`
		FROM news_fts f
		JOIN news n ON n.id = f.rowid
		WHERE news_fts MATCH ?
		  AND (? = '' OR n.category = ?)
		  AND (? = '' OR n.language = ?)
		  AND n.controversy_score >= ?
		ORDER BY bm25(news_fts), n.controversy_score DESC
		LIMIT ?`,
		match, category, category, language, language, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search news: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetTop returns the highest-controversy items fetched since the given
// time, newest bias broken by score.
func (r *SQLiteNewsRepository) GetTop(since time.Time, limit int) ([]feed.Item, error) {
	rows, err := r.db.Query(`
		SELECT `+newsColumns+`
		FROM news
		WHERE fetched_at >= ?
		ORDER BY controversy_score DESC, fetched_at DESC
		LIMIT ?`,
		formatTime(since), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top news: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Cleanup deletes everything beyond the newest keep rows and returns the
// number of rows removed.
func (r *SQLiteNewsRepository) Cleanup(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := r.db.Exec(`
		DELETE FROM news
		WHERE id NOT IN (
			SELECT id FROM news ORDER BY fetched_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up news: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return deleted, nil
}

// Count returns the total number of stored items.
func (r *SQLiteNewsRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM news`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count news: %w", err)
	}
	return n, nil
}

func scanItems(rows *sql.Rows) ([]feed.Item, error) {
	var items []feed.Item
	for rows.Next() {
		var n News
		var fetchedAt string
		if err := rows.Scan(
			&n.ID, &n.Title, &n.Summary, &n.FullText, &n.Link, &n.Source, &n.Published,
			&fetchedAt, &n.Language, &n.Category,
			&n.ControversyScore, &n.ControversyLabel, &n.Translated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}
		n.FetchedAt = parseTime(fetchedAt)
		items = append(items, n.toItem())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news rows: %w", err)
	}
	return items, nil
}

func qualifiedNewsColumns(alias string) string {
	cols := strings.Split(newsColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// ftsQuery converts free-form user input into a safe FTS5 match
// expression: each term quoted, terms ANDed.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, "")
		if term == "" {
			continue
		}
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " ")
}

// Timestamps are stored as fixed-width UTC strings so lexicographic order
// in SQL matches chronological order. RFC3339Nano would trim trailing
// zeros and break that.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
