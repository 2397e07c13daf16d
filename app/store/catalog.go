package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/streamvault/streamvault/app/catalog/slug"
)

// Catalog is the in-memory view of the record store document. The document
// arrays stay authoritative for ordering and serialization; id-keyed indexes
// sit alongside them so lookups avoid repeated array scans. All access goes
// through the mutex because the worker pool and HTTP handlers share one
// Catalog.
type Catalog struct {
	mu    sync.RWMutex
	store DocumentStore
	doc   *Document

	showsByID    map[string]int
	showsBySlug  map[string]int
	episodesByID map[string]int
	byTriple     map[TripleKey][]string
	moviesByID   map[string]int
	moviesBySlug map[string]int
}

var _ ShowRepository = (*Catalog)(nil)
var _ EpisodeRepository = (*Catalog)(nil)
var _ MovieRepository = (*Catalog)(nil)
var _ BlogPostRepository = (*Catalog)(nil)
var _ CommunityRepository = (*Catalog)(nil)
var _ Persister = (*Catalog)(nil)

func NewCatalog(store DocumentStore) (*Catalog, error) {
	doc, err := store.Load()
	if err != nil {
		return nil, err
	}

	c := &Catalog{store: store, doc: doc}
	c.reindex()
	return c, nil
}

// reindex rebuilds every lookup map from the document arrays. Caller holds
// the write lock (or owns the Catalog exclusively, as in NewCatalog).
func (c *Catalog) reindex() {
	c.showsByID = make(map[string]int, len(c.doc.Shows))
	c.showsBySlug = make(map[string]int, len(c.doc.Shows))
	for i, s := range c.doc.Shows {
		c.showsByID[s.ID] = i
		c.showsBySlug[s.Slug] = i
	}

	c.episodesByID = make(map[string]int, len(c.doc.Episodes))
	c.byTriple = make(map[TripleKey][]string, len(c.doc.Episodes))
	for i, e := range c.doc.Episodes {
		c.episodesByID[e.ID] = i
		key := TripleKey{ShowID: e.ShowID, SeasonNumber: e.SeasonNumber, EpisodeNumber: e.EpisodeNumber}
		c.byTriple[key] = append(c.byTriple[key], e.ID)
	}

	c.moviesByID = make(map[string]int, len(c.doc.Movies))
	c.moviesBySlug = make(map[string]int, len(c.doc.Movies))
	for i, m := range c.doc.Movies {
		c.moviesByID[m.ID] = i
		c.moviesBySlug[m.Slug] = i
	}
}

func (c *Catalog) Shows() []Show {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Show, len(c.doc.Shows))
	copy(out, c.doc.Shows)
	return out
}

func (c *Catalog) GetShow(id string) (*Show, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.showsByID[id]
	if !ok {
		return nil, false
	}
	show := c.doc.Shows[i]
	return &show, true
}

func (c *Catalog) GetShowBySlug(s string) (*Show, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.showsBySlug[s]
	if !ok {
		return nil, false
	}
	show := c.doc.Shows[i]
	return &show, true
}

func (c *Catalog) UpsertShow(show Show) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.showsByID[show.ID]; ok {
		old := c.doc.Shows[i]
		c.doc.Shows[i] = show
		if old.Slug != show.Slug {
			delete(c.showsBySlug, old.Slug)
			c.showsBySlug[show.Slug] = i
		}
		return
	}

	c.doc.Shows = append(c.doc.Shows, show)
	i := len(c.doc.Shows) - 1
	c.showsByID[show.ID] = i
	c.showsBySlug[show.Slug] = i
}

func (c *Catalog) Episodes() []Episode {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Episode, len(c.doc.Episodes))
	copy(out, c.doc.Episodes)
	return out
}

func (c *Catalog) EpisodesByShow(showID string) []Episode {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Episode
	for _, e := range c.doc.Episodes {
		if e.ShowID == showID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeasonNumber != out[j].SeasonNumber {
			return out[i].SeasonNumber < out[j].SeasonNumber
		}
		return out[i].EpisodeNumber < out[j].EpisodeNumber
	})
	return out
}

func (c *Catalog) GetEpisode(id string) (*Episode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.episodesByID[id]
	if !ok {
		return nil, false
	}
	episode := c.doc.Episodes[i]
	return &episode, true
}

// GetEpisodeByTriple returns one episode for the identity triple. When the
// store still carries duplicates for the key, the first id registered wins;
// the deduplication sweep is responsible for collapsing the rest.
func (c *Catalog) GetEpisodeByTriple(key TripleKey) (*Episode, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := c.byTriple[key]
	if len(ids) == 0 {
		return nil, false
	}
	i, ok := c.episodesByID[ids[0]]
	if !ok {
		return nil, false
	}
	episode := c.doc.Episodes[i]
	return &episode, true
}

func (c *Catalog) UpsertEpisode(episode Episode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.episodesByID[episode.ID]; ok {
		old := c.doc.Episodes[i]
		c.doc.Episodes[i] = episode
		oldKey := TripleKey{ShowID: old.ShowID, SeasonNumber: old.SeasonNumber, EpisodeNumber: old.EpisodeNumber}
		newKey := TripleKey{ShowID: episode.ShowID, SeasonNumber: episode.SeasonNumber, EpisodeNumber: episode.EpisodeNumber}
		if oldKey != newKey {
			c.byTriple[oldKey] = removeID(c.byTriple[oldKey], old.ID)
			c.byTriple[newKey] = append(c.byTriple[newKey], episode.ID)
		}
		return
	}

	c.doc.Episodes = append(c.doc.Episodes, episode)
	i := len(c.doc.Episodes) - 1
	c.episodesByID[episode.ID] = i
	key := TripleKey{ShowID: episode.ShowID, SeasonNumber: episode.SeasonNumber, EpisodeNumber: episode.EpisodeNumber}
	c.byTriple[key] = append(c.byTriple[key], episode.ID)
}

func (c *Catalog) RemoveEpisodes(ids []string) int {
	if len(ids) == 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := c.doc.Episodes[:0]
	removed := 0
	for _, e := range c.doc.Episodes {
		if drop[e.ID] {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	c.doc.Episodes = kept

	if removed > 0 {
		c.reindex()
	}
	return removed
}

func (c *Catalog) Movies() []Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Movie, len(c.doc.Movies))
	copy(out, c.doc.Movies)
	return out
}

func (c *Catalog) GetMovie(id string) (*Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.moviesByID[id]
	if !ok {
		return nil, false
	}
	movie := c.doc.Movies[i]
	return &movie, true
}

func (c *Catalog) GetMovieBySlug(s string) (*Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.moviesBySlug[s]
	if !ok {
		return nil, false
	}
	movie := c.doc.Movies[i]
	return &movie, true
}

func (c *Catalog) UpsertMovie(movie Movie) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.moviesByID[movie.ID]; ok {
		old := c.doc.Movies[i]
		c.doc.Movies[i] = movie
		if old.Slug != movie.Slug {
			delete(c.moviesBySlug, old.Slug)
			c.moviesBySlug[movie.Slug] = i
		}
		return
	}

	c.doc.Movies = append(c.doc.Movies, movie)
	i := len(c.doc.Movies) - 1
	c.moviesByID[movie.ID] = i
	c.moviesBySlug[movie.Slug] = i
}

func (c *Catalog) BlogPosts() []BlogPost {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]BlogPost, len(c.doc.BlogPosts))
	copy(out, c.doc.BlogPosts)
	return out
}

func (c *Catalog) GetBlogPostByContent(contentType, contentID string) (*BlogPost, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.doc.BlogPosts {
		if p.ContentType == contentType && p.ContentID == contentID {
			post := p
			return &post, true
		}
	}
	return nil, false
}

func (c *Catalog) CommentsByEpisode(episodeID string) []Comment {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Comment
	for _, cm := range c.doc.Comments {
		if cm.EpisodeID == episodeID {
			out = append(out, cm)
		}
	}
	return out
}

func (c *Catalog) CommentsByMovie(movieID string) []Comment {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Comment
	for _, cm := range c.doc.Comments {
		if cm.MovieID == movieID {
			out = append(out, cm)
		}
	}
	return out
}

func (c *Catalog) AddComment(comment Comment) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if (comment.EpisodeID == "") == (comment.MovieID == "") {
		return fmt.Errorf("comment must reference exactly one of episodeId or movieId")
	}
	if comment.EpisodeID != "" {
		if _, ok := c.episodesByID[comment.EpisodeID]; !ok {
			return fmt.Errorf("episode %s not found", comment.EpisodeID)
		}
	}
	if comment.MovieID != "" {
		if _, ok := c.moviesByID[comment.MovieID]; !ok {
			return fmt.Errorf("movie %s not found", comment.MovieID)
		}
	}
	if comment.ParentID != "" {
		found := false
		for _, existing := range c.doc.Comments {
			if existing.ID == comment.ParentID {
				if existing.EpisodeID != comment.EpisodeID || existing.MovieID != comment.MovieID {
					return fmt.Errorf("parent comment %s belongs to a different target", comment.ParentID)
				}
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("parent comment %s not found", comment.ParentID)
		}
	}

	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	c.doc.Comments = append(c.doc.Comments, comment)
	return nil
}

func (c *Catalog) AddContentRequest(title, details string) ContentRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	normalized := slug.From(title)
	now := time.Now().UTC()

	for i, r := range c.doc.ContentRequests {
		if r.NormalizedTitle == normalized {
			c.doc.ContentRequests[i].RequestCount++
			c.doc.ContentRequests[i].UpdatedAt = now
			return c.doc.ContentRequests[i]
		}
	}

	request := ContentRequest{
		ID:              uuid.NewString(),
		Title:           title,
		NormalizedTitle: normalized,
		Details:         details,
		RequestCount:    1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	c.doc.ContentRequests = append(c.doc.ContentRequests, request)
	return request
}

func (c *Catalog) TopContentRequests(limit int) []ContentRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]ContentRequest, len(c.doc.ContentRequests))
	copy(out, c.doc.ContentRequests)
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestCount != out[j].RequestCount {
			return out[i].RequestCount > out[j].RequestCount
		}
		return out[i].Title < out[j].Title
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (c *Catalog) AddIssueReport(report IssueReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if report.Subject == "" {
		return fmt.Errorf("report subject is required")
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	c.doc.IssueReports = append(c.doc.IssueReports, report)
	return nil
}

func (c *Catalog) Persist() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.doc.LastUpdated = time.Now().UTC()
	return c.store.Save(c.doc)
}

func (c *Catalog) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doc.LastUpdated
}

func (c *Catalog) Stats() DocumentStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return DocumentStats{
		Shows:           len(c.doc.Shows),
		Episodes:        len(c.doc.Episodes),
		Movies:          len(c.doc.Movies),
		BlogPosts:       len(c.doc.BlogPosts),
		Comments:        len(c.doc.Comments),
		ContentRequests: len(c.doc.ContentRequests),
		IssueReports:    len(c.doc.IssueReports),
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
