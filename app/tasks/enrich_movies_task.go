package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streamvault/streamvault/app/config"
	"github.com/streamvault/streamvault/app/reconcile"
	"github.com/streamvault/streamvault/app/store"
	"github.com/streamvault/streamvault/app/tmdb"
)

// EnrichMoviesTask is the movie counterpart of EnrichShowsTask.
type EnrichMoviesTask struct {
	Task
	source    tmdb.Searcher
	movies    store.MovieRepository
	overrides *config.OverrideCache
	persister store.Persister
	callDelay time.Duration
	report    SweepReport
}

func NewEnrichMoviesTask(source tmdb.Searcher, movies store.MovieRepository,
	overrides *config.OverrideCache, persister store.Persister, callDelay time.Duration) *EnrichMoviesTask {
	return &EnrichMoviesTask{
		Task:      NewTask(TaskTypeEnrichMovies),
		source:    source,
		movies:    movies,
		overrides: overrides,
		persister: persister,
		callDelay: callDelay,
	}
}

func (t *EnrichMoviesTask) Report() SweepReport {
	return t.report
}

func (t *EnrichMoviesTask) Execute(ctx context.Context) error {
	for _, movie := range t.movies.Movies() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t.processMovie(ctx, movie)
	}

	if t.report.Changed() {
		if err := t.persister.Persist(); err != nil {
			return fmt.Errorf("failed to persist record store: %w", err)
		}
	}

	slog.Info("Task completed",
		"type", "EnrichMovies",
		"duration", t.GetDuration(),
		"created", t.report.Created,
		"updated", t.report.Updated,
		"skipped", t.report.Skipped,
		"failed", t.report.Failed)

	return nil
}

func (t *EnrichMoviesTask) processMovie(ctx context.Context, movie store.Movie) {
	if movie.EnrichedAt != nil {
		t.report.Skipped++
		return
	}

	var override *config.Override
	if t.overrides != nil {
		override, _ = t.overrides.GetOverride(movie.Slug)
	}
	if override != nil && override.Skip {
		slog.Debug("Movie excluded by override", "movie", movie.Slug)
		t.report.Skipped++
		return
	}

	id := movie.TMDBID
	if id == 0 && override != nil {
		id = override.TMDBID
	}
	if id == 0 {
		title := movie.Title
		if override != nil && override.SearchTitle != "" {
			title = override.SearchTitle
		}

		if err := throttle(ctx, t.callDelay); err != nil {
			return
		}
		var err error
		id, err = t.source.SearchMovie(ctx, title)
		if err != nil {
			if errors.Is(err, tmdb.ErrNotFound) {
				slog.Info("Movie not found in metadata source", "movie", movie.Slug)
				t.report.Skipped++
			} else {
				slog.Error("Movie search failed", "movie", movie.Slug, "error", err)
				t.report.Failed++
			}
			return
		}
	}

	if err := throttle(ctx, t.callDelay); err != nil {
		return
	}

	detail, err := t.source.GetMovieDetail(ctx, id)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			slog.Info("Movie detail not found", "movie", movie.Slug, "tmdb_id", id)
			t.report.Skipped++
		} else {
			slog.Error("Movie detail fetch failed", "movie", movie.Slug, "tmdb_id", id, "error", err)
			t.report.Failed++
		}
		return
	}

	now := time.Now().UTC()
	merged, changed := reconcile.MergeMovieDetail(movie, mapMovieDetail(t.source, detail), now)
	merged.EnrichedAt = &now
	t.movies.UpsertMovie(merged)

	if changed {
		slog.Debug("Movie enriched", "movie", movie.Slug, "tmdb_id", id)
		t.report.Updated++
	} else {
		t.report.Skipped++
	}
}
