package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/akosarev/newsheat/app/cfg"
	"github.com/akosarev/newsheat/app/database"
	"github.com/akosarev/newsheat/app/feed"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// tickInterval is the granularity at which the scheduler checks whether a
// periodic task is due.
const tickInterval = 30 * time.Second

// Base unit for the exponential retry delay, a variable so tests can
// shrink it.
var retryBaseDelay = time.Second

type Scheduler struct {
	aggregator feed.Aggregator
	repo       database.NewsRepository
	extractor  ContentExtractor
	notifier   Notifier
	sources    []string

	maxPerSource    int
	harvestInterval time.Duration
	cleanupInterval time.Duration
	digestInterval  time.Duration
	retention       int
	digestSize      int
	workerCount     int

	nextHarvest time.Time
	nextCleanup time.Time
	nextDigest  time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(aggregator feed.Aggregator, repo database.NewsRepository,
	extractor ContentExtractor, notifier Notifier, sources []string) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		aggregator:      aggregator,
		repo:            repo,
		extractor:       extractor,
		notifier:        notifier,
		sources:         sources,
		maxPerSource:    cfg.MaxPerSource,
		harvestInterval: time.Duration(cfg.HarvestInterval) * time.Second,
		cleanupInterval: time.Duration(cfg.CleanupInterval) * time.Second,
		digestInterval:  time.Duration(cfg.DigestInterval) * time.Second,
		retention:       cfg.RetentionCount,
		digestSize:      cfg.DigestSize,
		workerCount:     cfg.WorkerCount,
		ctx:             ctx,
		cancel:          cancel,
		taskQueue:       make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// First harvest right away; cleanup and digest wait a full period.
		now := time.Now()
		s.nextHarvest = now
		s.nextCleanup = now.Add(s.cleanupInterval)
		s.nextDigest = now.Add(s.digestInterval)
		s.enqueueDueTasks(now)

		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case tick := <-ticker.C:
				s.enqueueDueTasks(tick)
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// TriggerHarvest enqueues an immediate harvest, used by the refresh API
// endpoint.
func (s *Scheduler) TriggerHarvest() error {
	return s.EnqueueTask(NewHarvestTask(s.aggregator, s.repo, s.extractor, s.sources, s.maxPerSource))
}

func (s *Scheduler) enqueueDueTasks(now time.Time) {
	if !now.Before(s.nextHarvest) {
		s.nextHarvest = now.Add(s.harvestInterval)
		if err := s.TriggerHarvest(); err != nil {
			slog.Warn("Failed to enqueue HarvestTask", "error", err)
		}
	}

	if !now.Before(s.nextCleanup) {
		s.nextCleanup = now.Add(s.cleanupInterval)
		if err := s.EnqueueTask(NewCleanupTask(s.repo, s.retention)); err != nil {
			slog.Warn("Failed to enqueue CleanupTask", "error", err)
		}
	}

	if !now.Before(s.nextDigest) {
		s.nextDigest = now.Add(s.digestInterval)
		if err := s.EnqueueTask(NewDigestTask(s.repo, s.notifier, s.digestInterval, s.digestSize)); err != nil {
			slog.Warn("Failed to enqueue DigestTask", "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * retryBaseDelay
	if retryDelay > 30*retryBaseDelay {
		retryDelay = 30 * retryBaseDelay
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	// Tracked in the WaitGroup so Stop cannot close the queue while a
	// re-enqueue is still pending.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-time.After(retryDelay):
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return
		}
		if retryErr := s.EnqueueTask(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "error", retryErr)
		}
	}()
}
