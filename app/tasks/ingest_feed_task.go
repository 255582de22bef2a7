package tasks

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lysyi3m/samsun-news/app/database"
	"github.com/lysyi3m/samsun-news/app/feed"
	"github.com/lysyi3m/samsun-news/app/metrics"
)

type IngestResult struct {
	Total      int
	Skipped    int
	Filtered   int
	Duplicates int
	New        int
	Errors     int
}

type IngestFeedTask struct {
	Task
	URL         string
	Category    database.Category
	Result      IngestResult
	fetcher     FeedFetcher
	filterer    *feed.Filterer
	articleRepo database.ArticleRepository
	metrics     *metrics.Metrics
}

func NewIngestFeedTask(url string, category database.Category, fetcher FeedFetcher, filterer *feed.Filterer, articleRepo database.ArticleRepository, m *metrics.Metrics) *IngestFeedTask {
	return &IngestFeedTask{
		Task:        NewTask(TaskTypeIngestFeed, url),
		URL:         url,
		Category:    category,
		fetcher:     fetcher,
		filterer:    filterer,
		articleRepo: articleRepo,
		metrics:     m,
	}
}

func (t *IngestFeedTask) Execute(ctx context.Context) error {
	start := time.Now()
	defer func() {
		t.metrics.FeedDuration.WithLabelValues(string(t.Category)).Observe(time.Since(start).Seconds())
	}()

	_, entries, err := t.fetcher.Run(ctx, t.URL)
	if err != nil {
		t.metrics.FeedFailures.WithLabelValues(string(t.Category)).Inc()
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	t.Result = IngestResult{Total: len(entries)}
	if len(entries) == 0 {
		t.logCompleted()
		return nil
	}

	batch, err := t.articleRepo.Begin(ctx)
	if err != nil {
		t.metrics.FeedFailures.WithLabelValues(string(t.Category)).Inc()
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	// Releases the write lock if an entry panics or the commit fails.
	defer func() {
		if rbErr := batch.Rollback(); rbErr != nil {
			slog.Warn("Failed to roll back batch", "source", t.URL, "error", rbErr)
		}
	}()

	var outcomes []string
	for _, entry := range entries {
		outcome := t.processEntry(ctx, batch, entry)
		outcomes = append(outcomes, outcome)
	}

	if err := batch.Commit(); err != nil {
		t.metrics.FeedFailures.WithLabelValues(string(t.Category)).Inc()
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	for _, outcome := range outcomes {
		t.metrics.Entries.WithLabelValues(string(t.Category), outcome).Inc()
	}

	t.logCompleted()

	return nil
}

func (t *IngestFeedTask) processEntry(ctx context.Context, batch database.ArticleBatch, entry feed.Entry) string {
	article, outcome := t.prepareArticle(entry)
	if outcome != "" {
		return outcome
	}

	inserted, err := batch.InsertIfAbsent(ctx, article)
	if err != nil {
		t.Result.Errors++
		slog.Warn("Failed to store article", "source", t.URL, "url", article.URL, "error", err)
		return metrics.OutcomeError
	}

	if !inserted {
		t.Result.Duplicates++
		return metrics.OutcomeDuplicate
	}

	t.Result.New++
	return metrics.OutcomeInserted
}

// prepareArticle returns a non-empty outcome when the entry must not be stored.
func (t *IngestFeedTask) prepareArticle(entry feed.Entry) (database.NewArticle, string) {
	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		t.Result.Skipped++
		return database.NewArticle{}, metrics.OutcomeSkipped
	}

	link = strings.TrimSpace(feed.NormalizeURL(link))
	if !feed.IsWebURL(link) {
		t.Result.Skipped++
		return database.NewArticle{}, metrics.OutcomeSkipped
	}

	text := feed.ExtractText(cmp.Or(entry.Description, entry.Content))

	if t.Category == database.CategoryNational {
		if filtered, reason := t.filterer.Run(title, text); filtered {
			t.Result.Filtered++
			slog.Debug("Entry filtered", "source", t.URL, "url", link, "reason", reason)
			return database.NewArticle{}, metrics.OutcomeFiltered
		}
	}

	return database.NewArticle{
		GUID:      cmp.Or(strings.TrimSpace(entry.ID), link),
		URL:       link,
		Title:     title,
		Source:    feed.HumanSource(link),
		Published: entry.PublishedAt(),
		ImageURL:  feed.ResolveImage(entry, feed.Hostname(link)),
		Summary:   feed.Truncate(text, feed.MaxSummaryLength),
		Category:  t.Category,
	}, ""
}

func (t *IngestFeedTask) logCompleted() {
	slog.Info("Task completed",
		"type", string(t.Type),
		"source", t.URL,
		"category", string(t.Category),
		"duration", t.GetDuration(),
		"total", t.Result.Total,
		"skipped", t.Result.Skipped,
		"filtered", t.Result.Filtered,
		"duplicates", t.Result.Duplicates,
		"new", t.Result.New,
		"errors", t.Result.Errors)
}
