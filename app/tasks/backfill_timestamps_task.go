package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streamvault/streamvault/app/reconcile"
	"github.com/streamvault/streamvault/app/store"
)

// BackfillTimestampsTask synthesizes creation times for shows and movies
// that lack them, preferring a related blog post's creation time over a
// release-year guess.
type BackfillTimestampsTask struct {
	Task
	shows     store.ShowRepository
	movies    store.MovieRepository
	posts     store.BlogPostRepository
	persister store.Persister
	report    SweepReport
}

func NewBackfillTimestampsTask(shows store.ShowRepository, movies store.MovieRepository,
	posts store.BlogPostRepository, persister store.Persister) *BackfillTimestampsTask {
	return &BackfillTimestampsTask{
		Task:      NewTask(TaskTypeBackfillTimestamps),
		shows:     shows,
		movies:    movies,
		posts:     posts,
		persister: persister,
	}
}

func (t *BackfillTimestampsTask) Report() SweepReport {
	return t.report
}

func (t *BackfillTimestampsTask) Execute(ctx context.Context) error {
	for _, show := range t.shows.Shows() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		post, _ := t.posts.GetBlogPostByContent("show", show.ID)
		createdAt, changed := reconcile.BackfillCreatedAt(show.CreatedAt, post, show.Year)
		if !changed {
			t.report.Skipped++
			continue
		}
		show.CreatedAt = createdAt
		t.shows.UpsertShow(show)
		t.report.Updated++
	}

	for _, movie := range t.movies.Movies() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		post, _ := t.posts.GetBlogPostByContent("movie", movie.ID)
		createdAt, changed := reconcile.BackfillCreatedAt(movie.CreatedAt, post, movie.Year)
		if !changed {
			t.report.Skipped++
			continue
		}
		movie.CreatedAt = createdAt
		t.movies.UpsertMovie(movie)
		t.report.Updated++
	}

	if t.report.Changed() {
		if err := t.persister.Persist(); err != nil {
			return fmt.Errorf("failed to persist record store: %w", err)
		}
	}

	slog.Info("Task completed",
		"type", "BackfillTimestamps",
		"duration", t.GetDuration(),
		"updated", t.report.Updated,
		"skipped", t.report.Skipped)

	return nil
}
