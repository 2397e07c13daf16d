package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/streamvault/streamvault/app/store"
	"github.com/streamvault/streamvault/app/tasks"
)

func NewHandler(catalog *store.Catalog, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		catalog:   catalog,
		scheduler: scheduler,
	}
}

func (h *Handler) ListShows(c *gin.Context) {
	params := parseBrowseParams(c)
	shows := filterShows(h.catalog.Shows(), params)

	start, end := pageBounds(len(shows), params.Page, params.Limit)
	c.JSON(http.StatusOK, gin.H{
		"shows": shows[start:end],
		"total": len(shows),
		"page":  params.Page,
		"limit": params.Limit,
	})
}

func (h *Handler) GetShow(c *gin.Context) {
	show, ok := h.catalog.GetShowBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "show not found"})
		return
	}
	c.JSON(http.StatusOK, show)
}

func (h *Handler) ListEpisodes(c *gin.Context) {
	show, ok := h.catalog.GetShowBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "show not found"})
		return
	}

	episodes := h.catalog.EpisodesByShow(show.ID)
	c.JSON(http.StatusOK, gin.H{
		"show":     show.Slug,
		"episodes": episodes,
		"total":    len(episodes),
	})
}

func (h *Handler) ListMovies(c *gin.Context) {
	params := parseBrowseParams(c)
	movies := filterMovies(h.catalog.Movies(), params)

	start, end := pageBounds(len(movies), params.Page, params.Limit)
	c.JSON(http.StatusOK, gin.H{
		"movies": movies[start:end],
		"total":  len(movies),
		"page":   params.Page,
		"limit":  params.Limit,
	})
}

func (h *Handler) GetMovie(c *gin.Context) {
	movie, ok := h.catalog.GetMovieBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "movie not found"})
		return
	}
	c.JSON(http.StatusOK, movie)
}

func (h *Handler) ListEpisodeComments(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.catalog.GetEpisode(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "episode not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": h.catalog.CommentsByEpisode(id)})
}

func (h *Handler) CreateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Author == "" || req.Body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "author and body are required"})
		return
	}

	comment := store.Comment{
		EpisodeID: req.EpisodeID,
		MovieID:   req.MovieID,
		ParentID:  req.ParentID,
		Author:    req.Author,
		Body:      req.Body,
	}
	if err := h.catalog.AddComment(comment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

func (h *Handler) CreateContentRequest(c *gin.Context) {
	var req contentRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	request := h.catalog.AddContentRequest(req.Title, req.Details)
	c.JSON(http.StatusCreated, request)
}

func (h *Handler) TopContentRequests(c *gin.Context) {
	limit := 10
	if parsed, err := strconv.Atoi(c.Query("limit")); err == nil && parsed > 0 {
		limit = parsed
	}
	c.JSON(http.StatusOK, gin.H{"requests": h.catalog.TopContentRequests(limit)})
}

func (h *Handler) CreateIssueReport(c *gin.Context) {
	var req issueReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report := store.IssueReport{
		EpisodeID: req.EpisodeID,
		MovieID:   req.MovieID,
		Subject:   req.Subject,
		Body:      req.Body,
	}
	if err := h.catalog.AddIssueReport(report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	stats := h.catalog.Stats()
	health["shows"] = stats.Shows
	health["episodes"] = stats.Episodes
	health["movies"] = stats.Movies

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":        h.catalog.Stats(),
		"last_updated": h.catalog.LastUpdated().Format(time.RFC3339),
	})
}

// APIRunJob enqueues a single maintenance sweep by name.
func (h *Handler) APIRunJob(c *gin.Context) {
	jobType := c.Param("type")

	task, err := h.scheduler.BuildJob(jobType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue job", "type", jobType, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "task queue is full"})
		return
	}

	slog.Info("Job enqueued via API", "type", jobType, "id", task.GetID())
	c.JSON(http.StatusAccepted, gin.H{
		"status": "enqueued",
		"type":   jobType,
		"id":     task.GetID(),
	})
}

func (h *Handler) APIStoreStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":        h.catalog.Stats(),
		"last_updated": h.catalog.LastUpdated().Format(time.RFC3339),
	})
}
