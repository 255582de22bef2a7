package database

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryLocal    Category = "local"
	CategoryNational Category = "national"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryLocal, CategoryNational:
		return Category(s), nil
	case "":
		return CategoryLocal, nil
	default:
		return "", fmt.Errorf("unknown category %q", s)
	}
}

type Article struct {
	ID        int64      `json:"id"`
	GUID      string     `json:"guid"`
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Source    string     `json:"source"`
	Published *time.Time `json:"published"`
	ImageURL  *string    `json:"image_url"`
	Summary   string     `json:"summary"`
	Category  Category   `json:"category"`
	CreatedAt time.Time  `json:"created_at"`
}

// SortKey is the value articles are ordered and paginated by.
func (a Article) SortKey() time.Time {
	if a.Published != nil {
		return *a.Published
	}
	return a.CreatedAt
}

// NewArticle is an article as produced by ingestion, before the store assigns
// id and created_at.
type NewArticle struct {
	GUID      string
	URL       string
	Title     string
	Source    string
	Published *time.Time
	ImageURL  string // empty when no image was resolved
	Summary   string
	Category  Category
}

type ArticleQuery struct {
	Category Category
	Search   string     // case-insensitive substring of title or summary
	Before   *time.Time // exclusive cursor on COALESCE(published, created_at)
	Limit    int
}

type ArticleStats struct {
	Total    int `json:"total"`
	Local    int `json:"local"`
	National int `json:"national"`
}
