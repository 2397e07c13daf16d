package api

import (
	"github.com/streamvault/streamvault/app/store"
	"github.com/streamvault/streamvault/app/tasks"
)

type Handler struct {
	catalog   *store.Catalog
	scheduler tasks.TaskSchedulerInterface
}

type commentRequest struct {
	EpisodeID string `json:"episodeId"`
	MovieID   string `json:"movieId"`
	ParentID  string `json:"parentId"`
	Author    string `json:"author"`
	Body      string `json:"body"`
}

type contentRequestBody struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

type issueReportRequest struct {
	EpisodeID string `json:"episodeId"`
	MovieID   string `json:"movieId"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}
