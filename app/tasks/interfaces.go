package tasks

import (
	"context"

	"github.com/lysyi3m/samsun-news/app/feed"
)

// FeedFetcher is satisfied by *feed.Fetcher. Tests substitute canned entries.
type FeedFetcher interface {
	Run(ctx context.Context, url string) (*feed.Metadata, []feed.Entry, error)
}

// PassRunner runs one full pass over every configured source.
type PassRunner interface {
	Run(ctx context.Context) PassSummary
}

// TaskSchedulerInterface is what main needs from the background loop.
//
//	scheduler := NewScheduler(pass, interval)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	Running() bool
	LastPass() (PassSummary, bool)
}
