package store

import (
	"time"
)

// DocumentStore abstracts the on-disk document so a database can replace the
// flat file later without touching the reconciliation layer.
type DocumentStore interface {
	Load() (*Document, error)
	Save(doc *Document) error
}

type TripleKey struct {
	ShowID        string
	SeasonNumber  int
	EpisodeNumber int
}

type ShowRepository interface {
	Shows() []Show
	GetShow(id string) (*Show, bool)
	GetShowBySlug(slug string) (*Show, bool)
	UpsertShow(show Show)
}

type EpisodeRepository interface {
	Episodes() []Episode
	EpisodesByShow(showID string) []Episode
	GetEpisode(id string) (*Episode, bool)
	GetEpisodeByTriple(key TripleKey) (*Episode, bool)
	UpsertEpisode(episode Episode)
	RemoveEpisodes(ids []string) int
}

type MovieRepository interface {
	Movies() []Movie
	GetMovie(id string) (*Movie, bool)
	GetMovieBySlug(slug string) (*Movie, bool)
	UpsertMovie(movie Movie)
}

type BlogPostRepository interface {
	BlogPosts() []BlogPost
	GetBlogPostByContent(contentType, contentID string) (*BlogPost, bool)
}

type CommunityRepository interface {
	CommentsByEpisode(episodeID string) []Comment
	CommentsByMovie(movieID string) []Comment
	AddComment(comment Comment) error
	AddContentRequest(title, details string) ContentRequest
	TopContentRequests(limit int) []ContentRequest
	AddIssueReport(report IssueReport) error
}

// Persister flushes the in-memory document back to the underlying store.
type Persister interface {
	Persist() error
	LastUpdated() time.Time
	Stats() DocumentStats
}

type DocumentStats struct {
	Shows           int `json:"shows"`
	Episodes        int `json:"episodes"`
	Movies          int `json:"movies"`
	BlogPosts       int `json:"blogPosts"`
	Comments        int `json:"comments"`
	ContentRequests int `json:"contentRequests"`
	IssueReports    int `json:"issueReports"`
}
