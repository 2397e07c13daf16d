package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/streamvault/streamvault/app/store"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestUpsertEpisode_CreateWithFetchedFields(t *testing.T) {
	key := store.TripleKey{ShowID: "s1", SeasonNumber: 1, EpisodeNumber: 4}
	fetched := FetchedEpisode{
		Title:        "The Vanishing of Will Byers",
		Description:  "Will sees something terrifying on the way home.",
		ThumbnailURL: "https://image.tmdb.org/t/p/w500/still.jpg",
		DurationMin:  49,
		AirDate:      "2016-07-15",
	}
	local := LocalEpisode{VideoURL: "https://drive.google.com/file/d/1aB2cD3eF4/preview"}

	episode, action, err := UpsertEpisode(nil, key, fetched, local, now)
	if err != nil {
		t.Fatalf("UpsertEpisode returned error: %v", err)
	}
	if action != ActionCreated {
		t.Fatalf("Expected ActionCreated, got %s", action)
	}
	if episode.ID == "" {
		t.Error("Created episode should get an id")
	}
	if episode.Title != fetched.Title {
		t.Errorf("Expected fetched title, got %q", episode.Title)
	}
	if episode.VideoURL != local.VideoURL {
		t.Errorf("Video URL must come from caller input, got %q", episode.VideoURL)
	}
	if episode.CreatedAt != now || episode.UpdatedAt != now {
		t.Error("Timestamps should be set on create")
	}
}

func TestUpsertEpisode_CreateFallsBackToPlaceholders(t *testing.T) {
	key := store.TripleKey{ShowID: "s1", SeasonNumber: 2, EpisodeNumber: 3}

	episode, action, err := UpsertEpisode(nil, key, FetchedEpisode{}, LocalEpisode{}, now)
	if err != nil {
		t.Fatalf("UpsertEpisode returned error: %v", err)
	}
	if action != ActionCreated {
		t.Fatalf("Expected ActionCreated, got %s", action)
	}
	if episode.Title != "Episode 3" {
		t.Errorf("Expected generic title fallback, got %q", episode.Title)
	}
	if episode.Description != "Season 2, Episode 3." {
		t.Errorf("Expected template description fallback, got %q", episode.Description)
	}
	if episode.ThumbnailURL != DefaultThumbnailURL {
		t.Errorf("Expected stock thumbnail fallback, got %q", episode.ThumbnailURL)
	}
	if episode.AirDate != PlaceholderAirDate {
		t.Errorf("Expected placeholder air date, got %q", episode.AirDate)
	}
}

func TestUpsertEpisode_UpgradesGenericTitle(t *testing.T) {
	// Scenario: stored record has the generated "Episode 4" title; the fetch
	// carries the real name
	existing := &store.Episode{
		ID: "e1", ShowID: "s1", SeasonNumber: 1, EpisodeNumber: 4,
		Title:    "Episode 4",
		VideoURL: "https://drive.google.com/file/d/1aB2cD3eF4/preview",
	}
	key := store.TripleKey{ShowID: "s1", SeasonNumber: 1, EpisodeNumber: 4}
	fetched := FetchedEpisode{Title: "The Vanishing of Will Byers"}

	episode, action, err := UpsertEpisode(existing, key, fetched, LocalEpisode{}, now)
	if err != nil {
		t.Fatalf("UpsertEpisode returned error: %v", err)
	}
	if action != ActionUpdated {
		t.Fatalf("Expected ActionUpdated, got %s", action)
	}
	if episode.Title != "The Vanishing of Will Byers" {
		t.Errorf("Generic title should be upgraded, got %q", episode.Title)
	}
	if episode.VideoURL != existing.VideoURL {
		t.Errorf("Video URL must not change, got %q", episode.VideoURL)
	}
}

func TestUpsertEpisode_NeverRegressesRealTitle(t *testing.T) {
	existing := &store.Episode{
		ID: "e1", ShowID: "s1", SeasonNumber: 1, EpisodeNumber: 4,
		Title: "The Vanishing of Will Byers",
	}
	key := store.TripleKey{ShowID: "s1", SeasonNumber: 1, EpisodeNumber: 4}

	// A generic fetched title must never overwrite a real one
	episode, action, err := UpsertEpisode(existing, key, FetchedEpisode{Title: "Episode 4"}, LocalEpisode{}, now)
	if err != nil {
		t.Fatalf("UpsertEpisode returned error: %v", err)
	}
	if action != ActionUnchanged {
		t.Fatalf("Expected ActionUnchanged, got %s", action)
	}
	if episode.Title != existing.Title {
		t.Errorf("Real title was regressed to %q", episode.Title)
	}
}

func TestUpsertEpisode_NeverTouchesVideoURL(t *testing.T) {
	existing := &store.Episode{
		ID: "e1", ShowID: "s1", SeasonNumber: 1, EpisodeNumber: 1,
		Title:    "Chapter One",
		VideoURL: "https://drive.google.com/file/d/1aB2cD3eF4/preview",
	}
	key := store.TripleKey{ShowID: "s1", SeasonNumber: 1, EpisodeNumber: 1}
	fetched := FetchedEpisode{
		Description:  "The real synopsis.",
		ThumbnailURL: "https://image.tmdb.org/t/p/w500/still.jpg",
		AirDate:      "2016-07-15",
		DurationMin:  49,
	}
	// Even a caller-supplied local video URL must not replace an existing one
	local := LocalEpisode{VideoURL: "https://example.com/other"}

	episode, _, err := UpsertEpisode(existing, key, fetched, local, now)
	if err != nil {
		t.Fatalf("UpsertEpisode returned error: %v", err)
	}
	if episode.VideoURL != existing.VideoURL {
		t.Errorf("Video URL changed on update path: %q", episode.VideoURL)
	}
}

func TestUpsertEpisode_UpgradesStockThumbnail(t *testing.T) {
	existing := &store.Episode{
		ID: "e1", ShowID: "s1", SeasonNumber: 1, EpisodeNumber: 2,
		Title:        "Chapter Two",
		ThumbnailURL: "https://via.placeholder.com/640x360",
	}
	key := store.TripleKey{ShowID: "s1", SeasonNumber: 1, EpisodeNumber: 2}
	fetched := FetchedEpisode{ThumbnailURL: "https://image.tmdb.org/t/p/w500/real.jpg"}

	episode, action, err := UpsertEpisode(existing, key, fetched, LocalEpisode{}, now)
	if err != nil {
		t.Fatalf("UpsertEpisode returned error: %v", err)
	}
	if action != ActionUpdated {
		t.Fatalf("Expected ActionUpdated, got %s", action)
	}
	if episode.ThumbnailURL != fetched.ThumbnailURL {
		t.Errorf("Stock thumbnail should be upgraded, got %q", episode.ThumbnailURL)
	}
}

func TestUpsertEpisode_ValidationError(t *testing.T) {
	key := store.TripleKey{ShowID: "", SeasonNumber: 1, EpisodeNumber: 1}

	_, _, err := UpsertEpisode(nil, key, FetchedEpisode{}, LocalEpisode{}, now)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}
}

func TestMergeShowDetail_FillsGapsOnly(t *testing.T) {
	show := store.Show{
		ID: "s1", Slug: "stranger-things", Title: "Stranger Things",
		Description: "Curated description written by hand.",
		Year:        2016,
	}
	fetched := ShowMetadata{
		TMDBID:       66732,
		Description:  "External overview.",
		PosterURL:    "https://image.tmdb.org/t/p/w500/poster.jpg",
		Year:         2017,
		Genres:       []string{"Drama", "Sci-Fi & Fantasy"},
		Language:     "en",
		Rating:       8.6,
		Cast:         []string{"Millie Bobby Brown", "Finn Wolfhard"},
		TotalSeasons: 4,
	}

	merged, changed := MergeShowDetail(show, fetched, now)
	if !changed {
		t.Fatal("Expected merge to report changes")
	}
	if merged.Description != show.Description {
		t.Errorf("Curated description was overwritten: %q", merged.Description)
	}
	if merged.Year != 2016 {
		t.Errorf("Curated year was overwritten: %d", merged.Year)
	}
	if merged.TMDBID != 66732 {
		t.Errorf("TMDB id should be filled, got %d", merged.TMDBID)
	}
	if merged.PosterURL != fetched.PosterURL {
		t.Errorf("Missing poster should be filled, got %q", merged.PosterURL)
	}
	if merged.TotalSeasons != 4 {
		t.Errorf("Season count should grow to 4, got %d", merged.TotalSeasons)
	}
}

func TestMergeShowDetail_SeasonCountNeverShrinks(t *testing.T) {
	show := store.Show{ID: "s1", Title: "Dark", TotalSeasons: 3}

	merged, changed := MergeShowDetail(show, ShowMetadata{TotalSeasons: 2}, now)
	if changed {
		t.Error("A smaller external season count should change nothing")
	}
	if merged.TotalSeasons != 3 {
		t.Errorf("Season count shrank to %d", merged.TotalSeasons)
	}
}

func TestMergeMovieDetail_NeverTouchesVideoURL(t *testing.T) {
	movie := store.Movie{
		ID: "m1", Slug: "fight-club", Title: "Fight Club",
		VideoURL: "https://drive.google.com/file/d/1mMoViE/preview",
	}
	fetched := MovieMetadata{TMDBID: 550, Description: "An insomniac office worker...", DurationMin: 139}

	merged, changed := MergeMovieDetail(movie, fetched, now)
	if !changed {
		t.Fatal("Expected merge to report changes")
	}
	if merged.VideoURL != movie.VideoURL {
		t.Errorf("Video URL changed: %q", merged.VideoURL)
	}
	if merged.DurationMin != 139 {
		t.Errorf("Missing duration should be filled, got %d", merged.DurationMin)
	}
}
