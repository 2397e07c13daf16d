package store

import (
	"encoding/json"
	"time"
)

// Show represents a series in the record store.
type Show struct {
	ID           string     `json:"id"`
	TMDBID       int64      `json:"tmdbId,omitempty"`
	Slug         string     `json:"slug"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Year         int        `json:"year,omitempty"`
	Genres       []string   `json:"genres,omitempty"`
	Language     string     `json:"language,omitempty"`
	Rating       float64    `json:"rating,omitempty"`
	Cast         []string   `json:"cast,omitempty"`
	PosterURL    string     `json:"posterUrl,omitempty"`
	BackdropURL  string     `json:"backdropUrl,omitempty"`
	TotalSeasons int        `json:"totalSeasons,omitempty"`
	Featured     bool       `json:"featured,omitempty"`
	Trending     bool       `json:"trending,omitempty"`
	EnrichedAt   *time.Time `json:"enrichedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Episode represents a single episode of a show. Identity is the
// (ShowID, SeasonNumber, EpisodeNumber) triple; duplicate triples are a
// data-corruption state resolved by the deduplication sweep.
type Episode struct {
	ID            string    `json:"id"`
	ShowID        string    `json:"showId"`
	SeasonNumber  int       `json:"seasonNumber"`
	EpisodeNumber int       `json:"episodeNumber"`
	Title         string    `json:"title,omitempty"`
	Description   string    `json:"description,omitempty"`
	ThumbnailURL  string    `json:"thumbnailUrl,omitempty"`
	DurationMin   int       `json:"durationMin,omitempty"`
	VideoURL      string    `json:"videoUrl,omitempty"`
	AirDate       string    `json:"airDate,omitempty"` // YYYY-MM-DD
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// episodeJSON carries the legacy "season"/"episode" keys alongside the
// canonical field names so old documents migrate on load.
type episodeJSON struct {
	ID            string    `json:"id"`
	ShowID        string    `json:"showId"`
	SeasonNumber  int       `json:"seasonNumber"`
	EpisodeNumber int       `json:"episodeNumber"`
	LegacySeason  int       `json:"season,omitempty"`
	LegacyEpisode int       `json:"episode,omitempty"`
	Title         string    `json:"title,omitempty"`
	Description   string    `json:"description,omitempty"`
	ThumbnailURL  string    `json:"thumbnailUrl,omitempty"`
	DurationMin   int       `json:"durationMin,omitempty"`
	VideoURL      string    `json:"videoUrl,omitempty"`
	AirDate       string    `json:"airDate,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (e *Episode) UnmarshalJSON(data []byte) error {
	var raw episodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Episode{
		ID:            raw.ID,
		ShowID:        raw.ShowID,
		SeasonNumber:  raw.SeasonNumber,
		EpisodeNumber: raw.EpisodeNumber,
		Title:         raw.Title,
		Description:   raw.Description,
		ThumbnailURL:  raw.ThumbnailURL,
		DurationMin:   raw.DurationMin,
		VideoURL:      raw.VideoURL,
		AirDate:       raw.AirDate,
		CreatedAt:     raw.CreatedAt,
		UpdatedAt:     raw.UpdatedAt,
	}

	// Migrate legacy field names; canonical keys win when both are present
	if e.SeasonNumber == 0 && raw.LegacySeason > 0 {
		e.SeasonNumber = raw.LegacySeason
	}
	if e.EpisodeNumber == 0 && raw.LegacyEpisode > 0 {
		e.EpisodeNumber = raw.LegacyEpisode
	}

	return nil
}

// Movie represents a standalone film in the record store.
type Movie struct {
	ID          string     `json:"id"`
	TMDBID      int64      `json:"tmdbId,omitempty"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Year        int        `json:"year,omitempty"`
	Genres      []string   `json:"genres,omitempty"`
	Language    string     `json:"language,omitempty"`
	Rating      float64    `json:"rating,omitempty"`
	Cast        []string   `json:"cast,omitempty"`
	PosterURL   string     `json:"posterUrl,omitempty"`
	BackdropURL string     `json:"backdropUrl,omitempty"`
	VideoURL    string     `json:"videoUrl,omitempty"`
	DurationMin int        `json:"durationMin,omitempty"`
	Featured    bool       `json:"featured,omitempty"`
	Trending    bool       `json:"trending,omitempty"`
	EnrichedAt  *time.Time `json:"enrichedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BlogPost is generated prose tied to a movie or show. ContentID is a weak
// reference and may dangle.
type BlogPost struct {
	ID                  string    `json:"id"`
	Slug                string    `json:"slug"`
	ContentType         string    `json:"contentType"` // movie | show
	ContentID           string    `json:"contentId"`
	Title               string    `json:"title"`
	Body                string    `json:"body,omitempty"`
	ProductionCompanies string    `json:"productionCompanies,omitempty"` // JSON-encoded
	ExternalLinks       string    `json:"externalLinks,omitempty"`       // JSON-encoded
	SeasonSummaries     string    `json:"seasonSummaries,omitempty"`     // JSON-encoded
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Comment references exactly one of EpisodeID or MovieID. ParentID forms a
// reply tree within the same target.
type Comment struct {
	ID        string    `json:"id"`
	EpisodeID string    `json:"episodeId,omitempty"`
	MovieID   string    `json:"movieId,omitempty"`
	ParentID  string    `json:"parentId,omitempty"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContentRequest is a user-submitted title request. Repeated requests for the
// same normalized title bump RequestCount instead of creating a new record.
type ContentRequest struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	NormalizedTitle string    `json:"normalizedTitle"`
	Details         string    `json:"details,omitempty"`
	RequestCount    int       `json:"requestCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IssueReport is a user-submitted problem report.
type IssueReport struct {
	ID        string    `json:"id"`
	EpisodeID string    `json:"episodeId,omitempty"`
	MovieID   string    `json:"movieId,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Document is the full record store content: one JSON file holding every
// entity array, read fully and written fully.
type Document struct {
	Shows           []Show           `json:"shows"`
	Episodes        []Episode        `json:"episodes"`
	Movies          []Movie          `json:"movies"`
	BlogPosts       []BlogPost       `json:"blogPosts"`
	Comments        []Comment        `json:"comments"`
	ContentRequests []ContentRequest `json:"contentRequests"`
	IssueReports    []IssueReport    `json:"issueReports"`
	LastUpdated     time.Time        `json:"lastUpdated"`
}
