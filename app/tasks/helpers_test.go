package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/samsun-news/app/database"
	"github.com/lysyi3m/samsun-news/app/feed"
	"github.com/lysyi3m/samsun-news/app/metrics"
)

type fakeFetcher struct {
	mu      sync.Mutex
	entries map[string][]feed.Entry
	errs    map[string]error
	panics  map[string]bool
	calls   []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		entries: map[string][]feed.Entry{},
		errs:    map[string]error{},
		panics:  map[string]bool{},
	}
}

func (f *fakeFetcher) Run(ctx context.Context, url string) (*feed.Metadata, []feed.Entry, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	entries, err, panics := f.entries[url], f.errs[url], f.panics[url]
	f.mu.Unlock()

	if panics {
		panic("parser exploded")
	}
	if err != nil {
		return nil, nil, err
	}
	return &feed.Metadata{}, entries, nil
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestStore(t *testing.T) *database.ArticleStore {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "articles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, _, err = database.RunMigrations(db)
	require.NoError(t, err)

	return database.NewArticleStore(db)
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func queryAll(t *testing.T, store database.ArticleReader, category database.Category) []database.Article {
	t.Helper()

	articles, err := store.Query(context.Background(), database.ArticleQuery{Category: category, Limit: database.MaxQueryLimit})
	require.NoError(t, err)
	return articles
}

// failingCommitRepo hands out batches whose Commit always fails.
type failingCommitRepo struct {
	database.ArticleRepository
	batch *failingBatch
}

type failingBatch struct {
	inserted   int
	rolledBack bool
}

func (r *failingCommitRepo) Begin(ctx context.Context) (database.ArticleBatch, error) {
	r.batch = &failingBatch{}
	return r.batch, nil
}

func (b *failingBatch) InsertIfAbsent(ctx context.Context, article database.NewArticle) (bool, error) {
	b.inserted++
	return true, nil
}

func (b *failingBatch) Commit() error {
	return errors.New("disk I/O error")
}

func (b *failingBatch) Rollback() error {
	b.rolledBack = true
	return nil
}

// faultyRepo wraps a real store. Its batches panic on entries titled
// panicTitle and fail the insert of entries titled failTitle.
type faultyRepo struct {
	*database.ArticleStore
	panicTitle string
	failTitle  string
}

type faultyBatch struct {
	database.ArticleBatch
	repo *faultyRepo
}

func (r *faultyRepo) Begin(ctx context.Context) (database.ArticleBatch, error) {
	batch, err := r.ArticleStore.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &faultyBatch{ArticleBatch: batch, repo: r}, nil
}

func (b *faultyBatch) InsertIfAbsent(ctx context.Context, article database.NewArticle) (bool, error) {
	switch article.Title {
	case b.repo.panicTitle:
		panic("driver exploded")
	case b.repo.failTitle:
		return false, errors.New("disk I/O error")
	}
	return b.ArticleBatch.InsertIfAbsent(ctx, article)
}
