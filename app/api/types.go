package api

import (
	"github.com/lysyi3m/samsun-news/app/database"
	"github.com/lysyi3m/samsun-news/app/feed"
	"github.com/lysyi3m/samsun-news/app/tasks"
)

// NationalBoxSize is how many national articles the index page shows.
const NationalBoxSize = 18

type Handler struct {
	articles  database.ArticleReader
	generator *feed.Generator
	scheduler tasks.TaskSchedulerInterface
	sources   feed.Sources
	version   string
}

type ArticlesResponse struct {
	Items      []database.Article `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type indexPage struct {
	Query    string
	Local    []database.Article
	National []database.Article
	Limit    int
	Cursor   string
}
