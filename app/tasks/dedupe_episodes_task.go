package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streamvault/streamvault/app/reconcile"
	"github.com/streamvault/streamvault/app/store"
)

// DedupeEpisodesTask collapses duplicate identity triples, keeping the most
// complete record of each group. Pure store maintenance; no external calls.
type DedupeEpisodesTask struct {
	Task
	episodes  store.EpisodeRepository
	persister store.Persister
	report    SweepReport
}

func NewDedupeEpisodesTask(episodes store.EpisodeRepository, persister store.Persister) *DedupeEpisodesTask {
	return &DedupeEpisodesTask{
		Task:      NewTask(TaskTypeDedupeEpisodes),
		episodes:  episodes,
		persister: persister,
	}
}

func (t *DedupeEpisodesTask) Report() SweepReport {
	return t.report
}

func (t *DedupeEpisodesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	episodes := t.episodes.Episodes()
	result := reconcile.DeduplicateEpisodes(episodes)

	t.report.Skipped = len(result.Keep)
	if len(result.Remove) > 0 {
		t.report.Removed = t.episodes.RemoveEpisodes(result.Remove)
	}

	if t.report.Changed() {
		if err := t.persister.Persist(); err != nil {
			return fmt.Errorf("failed to persist record store: %w", err)
		}
	}

	slog.Info("Task completed",
		"type", "DedupeEpisodes",
		"duration", t.GetDuration(),
		"total", len(episodes),
		"removed", t.report.Removed,
		"kept", len(result.Keep))

	return nil
}
