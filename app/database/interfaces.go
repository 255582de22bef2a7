package database

import (
	"context"
	"errors"
)

// ErrStorageUnavailable wraps every failure of the read path.
var ErrStorageUnavailable = errors.New("storage unavailable")

type ArticleReader interface {
	Query(ctx context.Context, q ArticleQuery) ([]Article, error)
	GetStats(ctx context.Context) (ArticleStats, error)
}

// ArticleBatch groups the inserts of one feed into a single durability unit.
type ArticleBatch interface {
	InsertIfAbsent(ctx context.Context, article NewArticle) (bool, error)
	Commit() error
	Rollback() error
}

type ArticleRepository interface {
	ArticleReader

	Begin(ctx context.Context) (ArticleBatch, error)
	InsertIfAbsent(ctx context.Context, article NewArticle) (bool, error)
}
