package tasks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/akosarev/newsheat/app/feed"
)

type fakeAggregator struct {
	items []feed.Item
}

func (f *fakeAggregator) FetchAll(ctx context.Context, sources []string, maxPerSource int) []feed.Item {
	out := make([]feed.Item, len(f.items))
	copy(out, f.items)
	return out
}

type fakeRepo struct {
	inserted  []feed.Item
	top       []feed.Item
	cleanups  []int
	insertErr error
}

func (f *fakeRepo) InsertMany(items []feed.Item) (int, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, items...)
	return len(items), nil
}

func (f *fakeRepo) GetRecent(limit int, category, language string) ([]feed.Item, error) {
	return nil, nil
}

func (f *fakeRepo) Search(query string, limit int, category, language string, minScore int) ([]feed.Item, error) {
	return nil, nil
}

func (f *fakeRepo) GetTop(since time.Time, limit int) ([]feed.Item, error) {
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

func (f *fakeRepo) Cleanup(keep int) (int64, error) {
	f.cleanups = append(f.cleanups, keep)
	return 7, nil
}

func (f *fakeRepo) Count() (int, error) {
	return len(f.inserted), nil
}

type fakeExtractor struct {
	calls []string
}

func (f *fakeExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	f.calls = append(f.calls, pageURL)
	return "full article body", nil
}

type fakeNotifier struct {
	enabled bool
	digests [][]feed.Item
	sendErr error
}

func (f *fakeNotifier) Enabled() bool { return f.enabled }

func (f *fakeNotifier) SendDigest(ctx context.Context, items []feed.Item) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.digests = append(f.digests, items)
	return nil
}

func TestHarvestTask(t *testing.T) {
	agg := &fakeAggregator{items: []feed.Item{
		{Title: "СРОЧНО: война и санкции, шок и эскалация конфликта?!", Summary: "Подробный разбор событий.", Link: "https://example.com/1"},
		{Title: "Quiet sunday afternoon report", Summary: "Nothing much happened anywhere today.", Link: "https://example.com/2"},
		{Title: "X:", Link: "https://example.com/bad"},
	}}
	repo := &fakeRepo{}
	extractor := &fakeExtractor{}

	task := NewHarvestTask(agg, repo, extractor, []string{"https://src.example/rss"}, 30)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(repo.inserted) != 2 {
		t.Fatalf("stored %d items, want 2 (invalid dropped)", len(repo.inserted))
	}
	for _, item := range repo.inserted {
		if item.Language == "" || item.Category == "" || item.Controversy.Label == "" {
			t.Errorf("item %q stored without enrichment: %+v", item.Title, item)
		}
	}

	// Only the hot item gets its full text scraped.
	if len(extractor.calls) != 1 || extractor.calls[0] != "https://example.com/1" {
		t.Errorf("extractor calls = %v", extractor.calls)
	}
	if repo.inserted[0].FullText != "full article body" {
		t.Errorf("full text not stored: %+v", repo.inserted[0])
	}
}

func TestHarvestTaskRepoError(t *testing.T) {
	agg := &fakeAggregator{items: []feed.Item{
		{Title: "Some valid story headline", Summary: "Text.", Link: "https://example.com/1"},
	}}
	repo := &fakeRepo{insertErr: fmt.Errorf("disk full")}

	task := NewHarvestTask(agg, repo, nil, nil, 30)
	if err := task.Execute(context.Background()); err == nil {
		t.Error("expected storage error to propagate")
	}
}

func TestHarvestTaskCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := NewHarvestTask(&fakeAggregator{}, &fakeRepo{}, nil, nil, 30)
	if err := task.Execute(ctx); err == nil {
		t.Error("expected context error")
	}
}

func TestCleanupTask(t *testing.T) {
	repo := &fakeRepo{}
	task := NewCleanupTask(repo, 500)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(repo.cleanups) != 1 || repo.cleanups[0] != 500 {
		t.Errorf("cleanups = %v", repo.cleanups)
	}
}

func TestDigestTask(t *testing.T) {
	repo := &fakeRepo{top: []feed.Item{
		{Title: "Hot story", Link: "https://example.com/hot", Controversy: feed.Controversy{Score: 80}},
	}}
	notifier := &fakeNotifier{enabled: true}

	task := NewDigestTask(repo, notifier, 6*time.Hour, 5)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(notifier.digests) != 1 || len(notifier.digests[0]) != 1 {
		t.Fatalf("digests = %v", notifier.digests)
	}
}

func TestDigestTaskDisabledNotifier(t *testing.T) {
	repo := &fakeRepo{top: []feed.Item{{Title: "Hot story"}}}
	notifier := &fakeNotifier{enabled: false}

	task := NewDigestTask(repo, notifier, 6*time.Hour, 5)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(notifier.digests) != 0 {
		t.Error("disabled notifier must not receive digests")
	}
}

func TestDigestTaskSendError(t *testing.T) {
	repo := &fakeRepo{top: []feed.Item{{Title: "Hot story"}}}
	notifier := &fakeNotifier{enabled: true, sendErr: fmt.Errorf("api down")}

	task := NewDigestTask(repo, notifier, 6*time.Hour, 5)
	if err := task.Execute(context.Background()); err == nil {
		t.Error("expected send error to propagate")
	}
}

type failingTask struct {
	Task
}

func (f *failingTask) Execute(ctx context.Context) error {
	return fmt.Errorf("transient failure")
}

func TestStopWithPendingRetry(t *testing.T) {
	old := retryBaseDelay
	retryBaseDelay = time.Millisecond
	defer func() { retryBaseDelay = old }()

	for i := 0; i < 25; i++ {
		s := &Scheduler{taskQueue: make(chan TaskInterface, 4)}
		s.ctx, s.cancel = context.WithCancel(context.Background())

		task := &failingTask{Task: NewTask(TaskTypeHarvest)}
		s.executeTask(0, task)
		s.Stop()

		// Stop closes the queue only after the retry goroutine is done,
		// so draining cannot race a late send.
		for range s.taskQueue {
		}
	}
}

func TestTaskRetryBookkeeping(t *testing.T) {
	task := NewTask(TaskTypeHarvest)

	if task.GetType() != TaskTypeHarvest {
		t.Errorf("type = %s", task.GetType())
	}
	if task.GetID() == "" {
		t.Error("task must get an ID")
	}
	if !task.CanRetry() {
		t.Error("fresh task must be retryable")
	}

	for i := 0; i < DefaultMaxRetries; i++ {
		task.IncrementRetryCount()
	}
	if task.CanRetry() {
		t.Error("task must stop retrying after max retries")
	}

	if task.GetDuration() != 0 {
		t.Error("unstarted task must report zero duration")
	}
	task.Start()
	if task.StartedAt == nil {
		t.Error("Start must record the start time")
	}
}
