package reconcile

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/streamvault/streamvault/app/store"
)

// ErrValidation reports a record that lacks the identity fields required to
// process it. The batch driver skips the single entity and continues.
var ErrValidation = errors.New("validation error")

// Action is the outcome of a merge decision.
type Action int

const (
	ActionUnchanged Action = iota
	ActionCreated
	ActionUpdated
)

func (a Action) String() string {
	switch a {
	case ActionCreated:
		return "created"
	case ActionUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// FetchedEpisode is episode metadata as fetched from the external source,
// with image paths already composed into full URLs. It never carries a video
// reference; that field is local-only.
type FetchedEpisode struct {
	Title        string
	Description  string
	ThumbnailURL string
	DurationMin  int
	AirDate      string
}

// LocalEpisode carries the caller-supplied fields the external source can
// never provide.
type LocalEpisode struct {
	VideoURL    string
	DurationMin int
}

// UpsertEpisode merges fetched metadata into an existing episode, or builds a
// new one when existing is nil. Existing records are only ever upgraded: a
// generic "Episode N" title gives way to a real one, a stock thumbnail gives
// way to a trusted one, and the video URL is never written from this path.
func UpsertEpisode(existing *store.Episode, key store.TripleKey, fetched FetchedEpisode, local LocalEpisode, now time.Time) (store.Episode, Action, error) {
	if key.ShowID == "" || key.SeasonNumber <= 0 || key.EpisodeNumber <= 0 {
		return store.Episode{}, ActionUnchanged, fmt.Errorf("%w: incomplete identity triple %+v", ErrValidation, key)
	}

	if existing == nil {
		episode := store.Episode{
			ID:            uuid.NewString(),
			ShowID:        key.ShowID,
			SeasonNumber:  key.SeasonNumber,
			EpisodeNumber: key.EpisodeNumber,
			Title:         fetched.Title,
			Description:   fetched.Description,
			ThumbnailURL:  fetched.ThumbnailURL,
			DurationMin:   fetched.DurationMin,
			VideoURL:      local.VideoURL,
			AirDate:       fetched.AirDate,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if episode.Title == "" {
			episode.Title = fmt.Sprintf("Episode %d", key.EpisodeNumber)
		}
		if episode.Description == "" {
			episode.Description = fmt.Sprintf("Season %d, Episode %d.", key.SeasonNumber, key.EpisodeNumber)
		}
		if episode.ThumbnailURL == "" {
			episode.ThumbnailURL = DefaultThumbnailURL
		}
		if episode.DurationMin <= 0 {
			episode.DurationMin = local.DurationMin
		}
		if episode.AirDate == "" {
			episode.AirDate = PlaceholderAirDate
		}
		return episode, ActionCreated, nil
	}

	episode := *existing
	changed := false

	if fetched.Title != "" && !IsGenericTitle(fetched.Title) {
		if episode.Title == "" || IsGenericTitle(episode.Title) {
			episode.Title = fetched.Title
			changed = true
		}
	}
	if fetched.Description != "" && IsTemplateDescription(episode.Description) {
		episode.Description = fetched.Description
		changed = true
	}
	if fetched.ThumbnailURL != "" && IsStockThumbnail(episode.ThumbnailURL) {
		episode.ThumbnailURL = fetched.ThumbnailURL
		changed = true
	}
	if fetched.DurationMin > 0 && episode.DurationMin <= 0 {
		episode.DurationMin = fetched.DurationMin
		changed = true
	}
	if fetched.AirDate != "" && IsPlaceholderAirDate(episode.AirDate) {
		episode.AirDate = fetched.AirDate
		changed = true
	}
	// VideoURL is deliberately untouched: it is sourced from caller input
	// only and a populated reference must never be erased.

	if !changed {
		return episode, ActionUnchanged, nil
	}
	episode.UpdatedAt = now
	return episode, ActionUpdated, nil
}

// ShowMetadata is show-level detail fetched from the external source, image
// paths already composed.
type ShowMetadata struct {
	TMDBID       int64
	Title        string
	Description  string
	PosterURL    string
	BackdropURL  string
	Year         int
	Genres       []string
	Language     string
	Rating       float64
	Cast         []string
	TotalSeasons int
}

// MergeShowDetail fills gaps in a show from fetched metadata without
// regressing curated fields. Returns the merged show and whether anything
// changed.
func MergeShowDetail(show store.Show, fetched ShowMetadata, now time.Time) (store.Show, bool) {
	changed := false

	if show.TMDBID == 0 && fetched.TMDBID != 0 {
		show.TMDBID = fetched.TMDBID
		changed = true
	}
	if show.Description == "" && fetched.Description != "" {
		show.Description = fetched.Description
		changed = true
	}
	if IsStockThumbnail(show.PosterURL) && fetched.PosterURL != "" {
		show.PosterURL = fetched.PosterURL
		changed = true
	}
	if show.BackdropURL == "" && fetched.BackdropURL != "" {
		show.BackdropURL = fetched.BackdropURL
		changed = true
	}
	if show.Year == 0 && fetched.Year > 0 {
		show.Year = fetched.Year
		changed = true
	}
	if len(show.Genres) == 0 && len(fetched.Genres) > 0 {
		show.Genres = fetched.Genres
		changed = true
	}
	if show.Language == "" && fetched.Language != "" {
		show.Language = fetched.Language
		changed = true
	}
	if show.Rating == 0 && fetched.Rating > 0 {
		show.Rating = fetched.Rating
		changed = true
	}
	if len(show.Cast) == 0 && len(fetched.Cast) > 0 {
		show.Cast = fetched.Cast
		changed = true
	}
	// Season counts only grow; a stale external count must not shrink ours
	if fetched.TotalSeasons > show.TotalSeasons {
		show.TotalSeasons = fetched.TotalSeasons
		changed = true
	}

	if changed {
		show.UpdatedAt = now
	}
	return show, changed
}

// MovieMetadata is movie-level detail fetched from the external source.
type MovieMetadata struct {
	TMDBID      int64
	Title       string
	Description string
	PosterURL   string
	BackdropURL string
	Year        int
	Genres      []string
	Language    string
	Rating      float64
	Cast        []string
	DurationMin int
}

// MergeMovieDetail fills gaps in a movie from fetched metadata without
// regressing curated fields. The video URL is never written from this path.
func MergeMovieDetail(movie store.Movie, fetched MovieMetadata, now time.Time) (store.Movie, bool) {
	changed := false

	if movie.TMDBID == 0 && fetched.TMDBID != 0 {
		movie.TMDBID = fetched.TMDBID
		changed = true
	}
	if movie.Description == "" && fetched.Description != "" {
		movie.Description = fetched.Description
		changed = true
	}
	if IsStockThumbnail(movie.PosterURL) && fetched.PosterURL != "" {
		movie.PosterURL = fetched.PosterURL
		changed = true
	}
	if movie.BackdropURL == "" && fetched.BackdropURL != "" {
		movie.BackdropURL = fetched.BackdropURL
		changed = true
	}
	if movie.Year == 0 && fetched.Year > 0 {
		movie.Year = fetched.Year
		changed = true
	}
	if len(movie.Genres) == 0 && len(fetched.Genres) > 0 {
		movie.Genres = fetched.Genres
		changed = true
	}
	if movie.Language == "" && fetched.Language != "" {
		movie.Language = fetched.Language
		changed = true
	}
	if movie.Rating == 0 && fetched.Rating > 0 {
		movie.Rating = fetched.Rating
		changed = true
	}
	if len(movie.Cast) == 0 && len(fetched.Cast) > 0 {
		movie.Cast = fetched.Cast
		changed = true
	}
	if movie.DurationMin <= 0 && fetched.DurationMin > 0 {
		movie.DurationMin = fetched.DurationMin
		changed = true
	}

	if changed {
		movie.UpdatedAt = now
	}
	return movie, changed
}
