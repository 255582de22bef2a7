package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/samsun-news/app/database"
	"github.com/lysyi3m/samsun-news/app/feed"
	"github.com/lysyi3m/samsun-news/app/metrics"
)

type PassSummary struct {
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Sources    int           `json:"sources"`
	Failed     int           `json:"failed"`
	New        int           `json:"new"`
	Duplicates int           `json:"duplicates"`
	Filtered   int           `json:"filtered"`
}

var _ PassRunner = (*Pass)(nil)

// Pass ingests every local source and then every national source, one feed
// at a time.
type Pass struct {
	sources     feed.Sources
	fetcher     FeedFetcher
	filterer    *feed.Filterer
	articleRepo database.ArticleRepository
	metrics     *metrics.Metrics
}

func NewPass(sources feed.Sources, fetcher FeedFetcher, filterer *feed.Filterer, articleRepo database.ArticleRepository, m *metrics.Metrics) *Pass {
	return &Pass{
		sources:     sources,
		fetcher:     fetcher,
		filterer:    filterer,
		articleRepo: articleRepo,
		metrics:     m,
	}
}

func (p *Pass) Run(ctx context.Context) PassSummary {
	summary := PassSummary{StartedAt: time.Now().UTC()}

	groups := []struct {
		category database.Category
		urls     []string
	}{
		{database.CategoryLocal, p.sources.Local},
		{database.CategoryNational, p.sources.National},
	}

	for _, group := range groups {
		for _, url := range group.urls {
			task := NewIngestFeedTask(url, group.category, p.fetcher, p.filterer, p.articleRepo, p.metrics)
			summary.Sources++

			if err := p.executeTask(ctx, task); err != nil {
				summary.Failed++
				slog.Error("Task failed", "type", string(task.GetType()), "id", task.GetID(), "source", task.GetSource(), "error", err)
				continue
			}

			summary.New += task.Result.New
			summary.Duplicates += task.Result.Duplicates
			summary.Filtered += task.Result.Filtered
		}
	}

	summary.Duration = time.Since(summary.StartedAt)

	p.metrics.PassDuration.Observe(summary.Duration.Seconds())
	p.metrics.PassesCompleted.Inc()
	p.metrics.LastPassEnd.SetToCurrentTime()

	slog.Info("Pass completed",
		"duration", summary.Duration,
		"sources", summary.Sources,
		"failed", summary.Failed,
		"new", summary.New,
		"duplicates", summary.Duplicates,
		"filtered", summary.Filtered)

	return summary
}

func (p *Pass) executeTask(ctx context.Context, task TaskInterface) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing feed: %v", r)
		}
	}()

	task.Start()

	return task.Execute(ctx)
}
