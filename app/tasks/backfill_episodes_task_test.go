package tasks

import (
	"context"
	"testing"

	"github.com/streamvault/streamvault/app/store"
	"github.com/streamvault/streamvault/app/tmdb"
)

func TestBackfillEpisodesTask(t *testing.T) {
	catalog := newTestCatalog(t)
	catalog.UpsertShow(store.Show{ID: "show-1", Slug: "the-wire", Title: "The Wire", TMDBID: 1438, TotalSeasons: 1})

	source := &fakeSource{
		season: &tmdb.SeasonDetail{
			SeasonNumber: 1,
			Episodes: []tmdb.EpisodeDetail{
				{Name: "The Target", Overview: "McNulty watches a trial.", SeasonNumber: 1, EpisodeNumber: 1, AirDate: "2002-06-02", Runtime: 62},
				{Name: "The Detail", Overview: "The detail gets an office.", SeasonNumber: 1, EpisodeNumber: 2, AirDate: "2002-06-09", Runtime: 57},
			},
		},
	}
	persister := &fakePersister{}

	task := NewBackfillEpisodesTask(source, catalog, catalog, persister, 0)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if task.Report().Created != 2 {
		t.Errorf("Expected 2 created, got %d", task.Report().Created)
	}
	if persister.calls != 1 {
		t.Errorf("Expected 1 persist call, got %d", persister.calls)
	}

	episode, ok := catalog.GetEpisodeByTriple(store.TripleKey{ShowID: "show-1", SeasonNumber: 1, EpisodeNumber: 2})
	if !ok {
		t.Fatal("Expected episode S01E02 to exist")
	}
	if episode.Title != "The Detail" {
		t.Errorf("Expected title 'The Detail', got '%s'", episode.Title)
	}
	if episode.ID == "" {
		t.Error("Expected generated episode id")
	}
}

func TestBackfillEpisodesTaskSecondRunIsNoop(t *testing.T) {
	catalog := newTestCatalog(t)
	catalog.UpsertShow(store.Show{ID: "show-1", Slug: "the-wire", Title: "The Wire", TMDBID: 1438, TotalSeasons: 1})

	source := &fakeSource{
		season: &tmdb.SeasonDetail{
			SeasonNumber: 1,
			Episodes: []tmdb.EpisodeDetail{
				{Name: "The Target", Overview: "McNulty watches a trial.", SeasonNumber: 1, EpisodeNumber: 1, AirDate: "2002-06-02", Runtime: 62},
			},
		},
	}
	persister := &fakePersister{}

	first := NewBackfillEpisodesTask(source, catalog, catalog, persister, 0)
	if err := first.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	second := NewBackfillEpisodesTask(source, catalog, catalog, persister, 0)
	if err := second.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	report := second.Report()
	if report.Created != 0 || report.Updated != 0 {
		t.Errorf("Expected second sweep to change nothing, got %+v", report)
	}
	if report.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", report.Skipped)
	}
	if persister.calls != 1 {
		t.Errorf("Expected no persist on second sweep, got %d total calls", persister.calls)
	}
}

func TestBackfillEpisodesTaskUpgradesPlaceholders(t *testing.T) {
	catalog := newTestCatalog(t)
	catalog.UpsertShow(store.Show{ID: "show-1", Slug: "the-wire", Title: "The Wire", TMDBID: 1438, TotalSeasons: 1})
	catalog.UpsertEpisode(store.Episode{
		ID:            "ep-1",
		ShowID:        "show-1",
		SeasonNumber:  1,
		EpisodeNumber: 1,
		Title:         "Episode 1",
		Description:   "Season 1, Episode 1.",
		VideoURL:      "https://cdn.example.com/real.mp4",
	})

	source := &fakeSource{
		season: &tmdb.SeasonDetail{
			SeasonNumber: 1,
			Episodes: []tmdb.EpisodeDetail{
				{Name: "The Target", Overview: "McNulty watches a trial.", SeasonNumber: 1, EpisodeNumber: 1, AirDate: "2002-06-02"},
			},
		},
	}
	persister := &fakePersister{}

	task := NewBackfillEpisodesTask(source, catalog, catalog, persister, 0)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if task.Report().Updated != 1 {
		t.Errorf("Expected 1 updated, got %d", task.Report().Updated)
	}

	episode, _ := catalog.GetEpisode("ep-1")
	if episode.Title != "The Target" {
		t.Errorf("Expected real title to replace placeholder, got '%s'", episode.Title)
	}
	if episode.VideoURL != "https://cdn.example.com/real.mp4" {
		t.Errorf("Expected video URL untouched, got '%s'", episode.VideoURL)
	}
}

func TestBackfillEpisodesTaskSkipsShowsWithoutID(t *testing.T) {
	catalog := newTestCatalog(t)
	catalog.UpsertShow(store.Show{ID: "show-1", Slug: "unmatched", Title: "Unmatched"})

	source := &fakeSource{}
	task := NewBackfillEpisodesTask(source, catalog, catalog, &fakePersister{}, 0)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if task.Report().Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", task.Report().Skipped)
	}
	if source.seasonCalls != 0 {
		t.Errorf("Expected no season fetches, got %d", source.seasonCalls)
	}
}
