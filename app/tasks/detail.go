package tasks

import (
	"strconv"

	"github.com/streamvault/streamvault/app/reconcile"
	"github.com/streamvault/streamvault/app/tmdb"
)

const topCastSize = 5

// releaseYear extracts the year from a YYYY-MM-DD date string.
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

func genreNames(genres []tmdb.Genre) []string {
	if len(genres) == 0 {
		return nil
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func topCast(credits *tmdb.Credits) []string {
	if credits == nil || len(credits.Cast) == 0 {
		return nil
	}
	limit := len(credits.Cast)
	if limit > topCastSize {
		limit = topCastSize
	}
	names := make([]string, 0, limit)
	for _, member := range credits.Cast[:limit] {
		names = append(names, member.Name)
	}
	return names
}

// mapShowDetail converts a metadata source payload into merge input, with
// image paths composed into full URLs.
func mapShowDetail(source tmdb.Searcher, detail *tmdb.ShowDetail) reconcile.ShowMetadata {
	return reconcile.ShowMetadata{
		TMDBID:       detail.ID,
		Title:        detail.Name,
		Description:  detail.Overview,
		PosterURL:    source.ImageURL(detail.PosterPath, "w500"),
		BackdropURL:  source.ImageURL(detail.BackdropPath, "original"),
		Year:         releaseYear(detail.FirstAirDate),
		Genres:       genreNames(detail.Genres),
		Language:     detail.OriginalLanguage,
		Rating:       detail.VoteAverage,
		Cast:         topCast(detail.Credits),
		TotalSeasons: detail.NumberOfSeasons,
	}
}

func mapMovieDetail(source tmdb.Searcher, detail *tmdb.MovieDetail) reconcile.MovieMetadata {
	return reconcile.MovieMetadata{
		TMDBID:      detail.ID,
		Title:       detail.Title,
		Description: detail.Overview,
		PosterURL:   source.ImageURL(detail.PosterPath, "w500"),
		BackdropURL: source.ImageURL(detail.BackdropPath, "original"),
		Year:        releaseYear(detail.ReleaseDate),
		Genres:      genreNames(detail.Genres),
		Language:    detail.OriginalLanguage,
		Rating:      detail.VoteAverage,
		Cast:        topCast(detail.Credits),
		DurationMin: detail.Runtime,
	}
}

func mapEpisodeDetail(source tmdb.Searcher, detail *tmdb.EpisodeDetail) reconcile.FetchedEpisode {
	return reconcile.FetchedEpisode{
		Title:        detail.Name,
		Description:  detail.Overview,
		ThumbnailURL: source.ImageURL(detail.StillPath, "w500"),
		DurationMin:  detail.Runtime,
		AirDate:      detail.AirDate,
	}
}
