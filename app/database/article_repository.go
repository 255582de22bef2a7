package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const (
	DefaultQueryLimit = 30
	MaxQueryLimit     = 200

	// Fixed width keeps lexical and chronological order identical, which
	// COALESCE(published, created_at) comparisons rely on.
	timeLayout = "2006-01-02T15:04:05.000000Z"
)

var _ ArticleRepository = (*ArticleStore)(nil)

type ArticleStore struct {
	db  *DB
	now func() time.Time
}

func NewArticleStore(db *DB) *ArticleStore {
	return &ArticleStore{db: db, now: time.Now}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type articleBatch struct {
	store *ArticleStore
	tx    *sql.Tx
}

func (s *ArticleStore) Begin(ctx context.Context) (ArticleBatch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin article batch: %w", err)
	}
	return &articleBatch{store: s, tx: tx}, nil
}

func (b *articleBatch) InsertIfAbsent(ctx context.Context, article NewArticle) (bool, error) {
	return b.store.insertIfAbsent(ctx, b.tx, article)
}

func (b *articleBatch) Commit() error {
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit article batch: %w", err)
	}
	return nil
}

func (b *articleBatch) Rollback() error {
	if err := b.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back article batch: %w", err)
	}
	return nil
}

func (s *ArticleStore) InsertIfAbsent(ctx context.Context, article NewArticle) (bool, error) {
	return s.insertIfAbsent(ctx, s.db, article)
}

func (s *ArticleStore) insertIfAbsent(ctx context.Context, ex execer, article NewArticle) (bool, error) {
	if article.URL == "" {
		return false, fmt.Errorf("article url is empty")
	}
	if article.Title == "" {
		return false, fmt.Errorf("article title is empty")
	}

	category := article.Category
	if category == "" {
		category = CategoryLocal
	}

	var published, imageURL sql.NullString
	if article.Published != nil {
		published = sql.NullString{String: formatTime(*article.Published), Valid: true}
	}
	if article.ImageURL != "" {
		imageURL = sql.NullString{String: article.ImageURL, Valid: true}
	}

	res, err := ex.ExecContext(ctx, `
		INSERT INTO articles (
			guid, url, title, source, published, image_url,
			summary, category, search_text, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO NOTHING
	`, article.GUID, article.URL, article.Title, article.Source, published, imageURL,
		article.Summary, string(category), searchText(article.Title, article.Summary),
		formatTime(s.now()))
	if err != nil {
		return false, fmt.Errorf("failed to insert article: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

func (s *ArticleStore) Query(ctx context.Context, q ArticleQuery) ([]Article, error) {
	category := q.Category
	if category == "" {
		category = CategoryLocal
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}

	where := []string{"category = ?"}
	args := []any{string(category)}

	if search := strings.TrimSpace(q.Search); search != "" {
		where = append(where, `search_text LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(fold(search))+"%")
	}

	if q.Before != nil {
		where = append(where, "COALESCE(published, created_at) < ?")
		args = append(args, formatTime(*q.Before))
	}

	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guid, url, title, source, published, image_url,
		       summary, category, created_at
		FROM articles
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY COALESCE(published, created_at) DESC, id DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query articles: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	articles := make([]Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating article rows: %v", ErrStorageUnavailable, err)
	}

	return articles, nil
}

func (s *ArticleStore) GetStats(ctx context.Context) (ArticleStats, error) {
	var stats ArticleStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN category = 'local' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN category = 'national' THEN 1 ELSE 0 END), 0)
		FROM articles
	`).Scan(&stats.Total, &stats.Local, &stats.National)
	if err != nil {
		return ArticleStats{}, fmt.Errorf("%w: failed to get article stats: %v", ErrStorageUnavailable, err)
	}

	return stats, nil
}

func scanArticle(rows *sql.Rows) (Article, error) {
	var (
		article   Article
		category  string
		published sql.NullString
		imageURL  sql.NullString
		createdAt string
	)

	err := rows.Scan(
		&article.ID, &article.GUID, &article.URL, &article.Title, &article.Source,
		&published, &imageURL, &article.Summary, &category, &createdAt,
	)
	if err != nil {
		return Article{}, fmt.Errorf("failed to scan article row: %w", err)
	}

	article.Category = Category(category)

	if published.Valid {
		t, err := parseTime(published.String)
		if err != nil {
			return Article{}, fmt.Errorf("invalid published value for article %d: %w", article.ID, err)
		}
		article.Published = &t
	}

	if imageURL.Valid {
		article.ImageURL = &imageURL.String
	}

	article.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return Article{}, fmt.Errorf("invalid created_at value for article %d: %w", article.ID, err)
	}

	return article, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func searchText(title, summary string) string {
	return fold(title) + "\n" + fold(summary)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
