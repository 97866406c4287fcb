package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/akosarev/newsheat/app/cfg"
	"github.com/akosarev/newsheat/app/database"
	"github.com/akosarev/newsheat/app/feed"
	"github.com/akosarev/newsheat/app/tasks"
	"github.com/gin-gonic/gin"
)

const maxFeedLimit = 200

func NewHandler(builder FeedBuilder, repo database.NewsRepository,
	scheduler tasks.TaskSchedulerInterface, sources []string,
	maxPerSource, feedLimit int) *Handler {
	return &Handler{
		builder:      builder,
		repo:         repo,
		scheduler:    scheduler,
		sources:      sources,
		maxPerSource: maxPerSource,
		feedLimit:    feedLimit,
		startedAt:    time.Now(),
	}
}

// GetNewsFeed aggregates all sources live and returns the ranked feed.
// New stories seen along the way are persisted so search and digest keep
// working between requests.
func (h *Handler) GetNewsFeed(c *gin.Context) {
	query := feed.FeedQuery{
		Category:    c.Query("category"),
		Language:    c.Query("language"),
		TranslateTo: c.Query("translate_to"),
		Limit:       h.limitParam(c),
	}

	items := h.builder.BuildFeed(c.Request.Context(), h.sources, h.maxPerSource, query)

	if inserted, err := h.repo.InsertMany(items); err != nil {
		slog.Error("Database error", "operation", "store_feed", "error", err)
	} else if inserted > 0 {
		slog.Debug("Feed items stored", "new", inserted)
	}

	c.JSON(http.StatusOK, FeedResponse{Count: len(items), Items: items})
}

// SearchNews runs a full-text query over the stored archive.
func (h *Handler) SearchNews(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query parameter 'q' is required"})
		return
	}

	minScore := 0
	if raw := c.Query("min_score"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			minScore = n
		}
	}

	items, err := h.repo.Search(q, h.limitParam(c), c.Query("category"), c.Query("language"), minScore)
	if err != nil {
		slog.Error("Database error", "operation", "search", "query", q, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "search failed"})
		return
	}

	c.JSON(http.StatusOK, FeedResponse{Count: len(items), Items: items})
}

// GetRecentNews returns the newest stored items without refetching
// sources.
func (h *Handler) GetRecentNews(c *gin.Context) {
	items, err := h.repo.GetRecent(h.limitParam(c), c.Query("category"), c.Query("language"))
	if err != nil {
		slog.Error("Database error", "operation", "get_recent", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load recent news"})
		return
	}

	c.JSON(http.StatusOK, FeedResponse{Count: len(items), Items: items})
}

// Refresh schedules an immediate harvest cycle.
func (h *Handler) Refresh(c *gin.Context) {
	if err := h.scheduler.TriggerHarvest(); err != nil {
		slog.Error("Failed to trigger harvest", "error", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "harvest queue is full"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "harvest scheduled"})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.repo.Count(); err == nil {
		health["stored_items"] = count
	}
	health["sources"] = len(h.sources)

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]any{
		"version": cfg.GetVersion(),
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"sources": len(h.sources),
	}

	if count, err := h.repo.Count(); err == nil {
		stats["stored_items"] = count
	} else {
		slog.Error("Database error", "operation", "count", "error", err)
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) limitParam(c *gin.Context) int {
	limit := h.feedLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	return limit
}
