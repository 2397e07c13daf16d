package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streamvault/streamvault/app/reconcile"
	"github.com/streamvault/streamvault/app/store"
	"github.com/streamvault/streamvault/app/tmdb"
)

// BackfillEpisodesTask walks every show that has a metadata source id and
// upserts its episodes season by season. Seasons are processed sequentially
// because they share the courtesy throttle, not because one depends on
// another.
type BackfillEpisodesTask struct {
	Task
	source    tmdb.Searcher
	shows     store.ShowRepository
	episodes  store.EpisodeRepository
	persister store.Persister
	callDelay time.Duration
	report    SweepReport
}

func NewBackfillEpisodesTask(source tmdb.Searcher, shows store.ShowRepository,
	episodes store.EpisodeRepository, persister store.Persister, callDelay time.Duration) *BackfillEpisodesTask {
	return &BackfillEpisodesTask{
		Task:      NewTask(TaskTypeBackfillEpisodes),
		source:    source,
		shows:     shows,
		episodes:  episodes,
		persister: persister,
		callDelay: callDelay,
	}
}

func (t *BackfillEpisodesTask) Report() SweepReport {
	return t.report
}

func (t *BackfillEpisodesTask) Execute(ctx context.Context) error {
	for _, show := range t.shows.Shows() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if show.TMDBID == 0 {
			slog.Debug("Show has no metadata source id, skipping episode backfill", "show", show.Slug)
			t.report.Skipped++
			continue
		}

		t.backfillShow(ctx, show)
	}

	if t.report.Changed() {
		if err := t.persister.Persist(); err != nil {
			return fmt.Errorf("failed to persist record store: %w", err)
		}
	}

	slog.Info("Task completed",
		"type", "BackfillEpisodes",
		"duration", t.GetDuration(),
		"created", t.report.Created,
		"updated", t.report.Updated,
		"skipped", t.report.Skipped,
		"failed", t.report.Failed)

	return nil
}

func (t *BackfillEpisodesTask) backfillShow(ctx context.Context, show store.Show) {
	seasons := show.TotalSeasons
	if seasons < 1 {
		seasons = 1
	}

	for seasonNumber := 1; seasonNumber <= seasons; seasonNumber++ {
		if err := throttle(ctx, t.callDelay); err != nil {
			return
		}

		season, err := t.source.GetSeasonDetail(ctx, show.TMDBID, seasonNumber)
		if err != nil {
			if errors.Is(err, tmdb.ErrNotFound) {
				slog.Debug("Season not found", "show", show.Slug, "season", seasonNumber)
				t.report.Skipped++
			} else {
				slog.Error("Season fetch failed", "show", show.Slug, "season", seasonNumber, "error", err)
				t.report.Failed++
			}
			continue
		}

		for _, detail := range season.Episodes {
			t.upsertOne(show, detail)
		}
	}
}

func (t *BackfillEpisodesTask) upsertOne(show store.Show, detail tmdb.EpisodeDetail) {
	key := store.TripleKey{
		ShowID:        show.ID,
		SeasonNumber:  detail.SeasonNumber,
		EpisodeNumber: detail.EpisodeNumber,
	}

	existing, _ := t.episodes.GetEpisodeByTriple(key)

	episode, action, err := reconcile.UpsertEpisode(existing, key,
		mapEpisodeDetail(t.source, &detail), reconcile.LocalEpisode{}, time.Now().UTC())
	if err != nil {
		// A validation error skips the single episode, never the sweep
		slog.Warn("Episode rejected", "show", show.Slug, "season", detail.SeasonNumber,
			"episode", detail.EpisodeNumber, "error", err)
		t.report.Failed++
		return
	}

	switch action {
	case reconcile.ActionCreated:
		t.episodes.UpsertEpisode(episode)
		t.report.Created++
	case reconcile.ActionUpdated:
		t.episodes.UpsertEpisode(episode)
		t.report.Updated++
	default:
		t.report.Skipped++
	}
}
