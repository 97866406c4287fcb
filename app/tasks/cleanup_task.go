package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akosarev/newsheat/app/database"
)

type CleanupTask struct {
	Task
	repo      database.NewsRepository
	retention int
}

func NewCleanupTask(repo database.NewsRepository, retention int) *CleanupTask {
	return &CleanupTask{
		Task:      NewTask(TaskTypeCleanup),
		repo:      repo,
		retention: retention,
	}
}

func (t *CleanupTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	deleted, err := t.repo.Cleanup(t.retention)
	if err != nil {
		return fmt.Errorf("failed to clean up stored items: %w", err)
	}

	if deleted > 0 {
		slog.Info("Cleanup completed", "deleted", deleted, "retention", t.retention)
	} else {
		slog.Debug("Cleanup completed, nothing to delete", "retention", t.retention)
	}
	return nil
}
