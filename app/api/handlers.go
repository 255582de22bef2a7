package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/samsun-news/app/database"
	"github.com/lysyi3m/samsun-news/app/feed"
	"github.com/lysyi3m/samsun-news/app/tasks"
)

func NewHandler(articles database.ArticleReader, scheduler tasks.TaskSchedulerInterface, sources feed.Sources, version string) *Handler {
	return &Handler{
		articles:  articles,
		generator: feed.NewGenerator(),
		scheduler: scheduler,
		sources:   sources,
		version:   version,
	}
}

func (h *Handler) GetIndex(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()

	local, err := h.articles.Query(ctx, database.ArticleQuery{
		Category: database.CategoryLocal,
		Search:   q,
		Limit:    limit,
	})
	if err != nil {
		slog.Error("Database error", "operation", "query_local", "error", err)
		c.String(statusFor(err), "storage unavailable")
		return
	}

	national, err := h.articles.Query(ctx, database.ArticleQuery{
		Category: database.CategoryNational,
		Limit:    NationalBoxSize,
	})
	if err != nil {
		slog.Error("Database error", "operation", "query_national", "error", err)
		c.String(statusFor(err), "storage unavailable")
		return
	}

	c.HTML(http.StatusOK, "index.html", indexPage{
		Query:    q,
		Local:    local,
		National: national,
		Limit:    limit,
		Cursor:   nextCursor(local, limit),
	})
}

func (h *Handler) ListArticles(c *gin.Context) {
	category, err := database.ParseCategory(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	query := database.ArticleQuery{
		Category: category,
		Search:   strings.TrimSpace(c.Query("q")),
		Limit:    limit,
	}

	if after := strings.TrimSpace(c.Query("after")); after != "" {
		before, err := time.Parse(time.RFC3339, after)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid after cursor %q", after)})
			return
		}
		query.Before = &before
	}

	articles, err := h.articles.Query(c.Request.Context(), query)
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "error", err)
		c.JSON(statusFor(err), ErrorResponse{Error: "storage unavailable"})
		return
	}

	if articles == nil {
		articles = []database.Article{}
	}

	c.JSON(http.StatusOK, ArticlesResponse{
		Items:      articles,
		NextCursor: nextCursor(articles, limit),
	})
}

func (h *Handler) GetRSS(c *gin.Context) {
	category, err := database.ParseCategory(c.Query("category"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	q := strings.TrimSpace(c.Query("q"))
	articles, err := h.articles.Query(c.Request.Context(), database.ArticleQuery{
		Category: category,
		Search:   q,
		Limit:    limit,
	})
	if err != nil {
		slog.Error("Database error", "operation", "rss_articles", "category", category, "error", err)
		c.String(statusFor(err), "storage unavailable")
		return
	}

	base := requestBaseURL(c)
	description := fmt.Sprintf("Latest %s articles", category)
	if q != "" {
		description = fmt.Sprintf("Latest %s articles matching '%s'", category, q)
	}

	rss, err := h.generator.Run(feed.Channel{
		Title:       fmt.Sprintf("Samsun News (%s)", category),
		Link:        base + "/",
		Description: description,
		SelfLink:    base + c.Request.URL.RequestURI(),
		Generator:   "samsun-news/" + h.version,
	}, articles)
	if err != nil {
		slog.Error("RSS generation error", "category", category, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(articles)))
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"sources": gin.H{
			"local":    len(h.sources.Local),
			"national": len(h.sources.National),
		},
	}

	if h.scheduler != nil {
		scheduler := gin.H{"running": h.scheduler.Running()}
		if pass, ok := h.scheduler.LastPass(); ok {
			scheduler["last_pass"] = pass
		}
		health["scheduler"] = scheduler
	}

	stats, err := h.articles.GetStats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		health["status"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health["articles"] = stats

	c.JSON(http.StatusOK, health)
}

// parseLimit accepts an empty value (default page size) or a positive
// integer. Values above the store's maximum are capped.
func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return database.DefaultQueryLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}

	return min(limit, database.MaxQueryLimit), nil
}

// nextCursor is the sort key of the last article when the page is full.
func nextCursor(articles []database.Article, limit int) string {
	if len(articles) == 0 || len(articles) < limit {
		return ""
	}
	return articles[len(articles)-1].SortKey().UTC().Format(time.RFC3339Nano)
}

func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + c.Request.Host
}

func statusFor(err error) int {
	if errors.Is(err, database.ErrStorageUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
