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

// EnrichShowsTask sweeps every show in the store, resolves it against the
// metadata source and merges the fetched detail. Shows already enriched are
// skipped, so re-running the sweep is safe and cheap.
type EnrichShowsTask struct {
	Task
	source    tmdb.Searcher
	shows     store.ShowRepository
	overrides *config.OverrideCache
	persister store.Persister
	callDelay time.Duration
	report    SweepReport
}

func NewEnrichShowsTask(source tmdb.Searcher, shows store.ShowRepository,
	overrides *config.OverrideCache, persister store.Persister, callDelay time.Duration) *EnrichShowsTask {
	return &EnrichShowsTask{
		Task:      NewTask(TaskTypeEnrichShows),
		source:    source,
		shows:     shows,
		overrides: overrides,
		persister: persister,
		callDelay: callDelay,
	}
}

func (t *EnrichShowsTask) Report() SweepReport {
	return t.report
}

func (t *EnrichShowsTask) Execute(ctx context.Context) error {
	for _, show := range t.shows.Shows() {
		// Cancellation only takes effect between entities
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t.processShow(ctx, show)
	}

	if t.report.Changed() {
		if err := t.persister.Persist(); err != nil {
			return fmt.Errorf("failed to persist record store: %w", err)
		}
	}

	slog.Info("Task completed",
		"type", "EnrichShows",
		"duration", t.GetDuration(),
		"created", t.report.Created,
		"updated", t.report.Updated,
		"skipped", t.report.Skipped,
		"failed", t.report.Failed)

	return nil
}

func (t *EnrichShowsTask) processShow(ctx context.Context, show store.Show) {
	if show.EnrichedAt != nil {
		t.report.Skipped++
		return
	}

	var override *config.Override
	if t.overrides != nil {
		override, _ = t.overrides.GetOverride(show.Slug)
	}
	if override != nil && override.Skip {
		slog.Debug("Show excluded by override", "show", show.Slug)
		t.report.Skipped++
		return
	}

	id, err := t.resolveID(ctx, show, override)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			slog.Info("Show not found in metadata source", "show", show.Slug)
			t.report.Skipped++
		} else {
			slog.Error("Show search failed", "show", show.Slug, "error", err)
			t.report.Failed++
		}
		return
	}

	if err := throttle(ctx, t.callDelay); err != nil {
		return
	}

	detail, err := t.source.GetShowDetail(ctx, id)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			slog.Info("Show detail not found", "show", show.Slug, "tmdb_id", id)
			t.report.Skipped++
		} else {
			slog.Error("Show detail fetch failed", "show", show.Slug, "tmdb_id", id, "error", err)
			t.report.Failed++
		}
		return
	}

	now := time.Now().UTC()
	merged, changed := reconcile.MergeShowDetail(show, mapShowDetail(t.source, detail), now)
	merged.EnrichedAt = &now
	t.shows.UpsertShow(merged)

	if changed {
		slog.Debug("Show enriched", "show", show.Slug, "tmdb_id", id)
		t.report.Updated++
	} else {
		t.report.Skipped++
	}
}

func (t *EnrichShowsTask) resolveID(ctx context.Context, show store.Show, override *config.Override) (int64, error) {
	if show.TMDBID != 0 {
		return show.TMDBID, nil
	}
	if override != nil && override.TMDBID != 0 {
		return override.TMDBID, nil
	}

	title := show.Title
	if override != nil && override.SearchTitle != "" {
		title = override.SearchTitle
	}

	if err := throttle(ctx, t.callDelay); err != nil {
		return 0, err
	}
	return t.source.SearchShow(ctx, title)
}
