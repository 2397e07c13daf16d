package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/streamvault/streamvault/app/config"
	"github.com/streamvault/streamvault/app/store"
	"github.com/streamvault/streamvault/app/tmdb"
)

// fakeSource is a canned tmdb.Searcher for sweep tests.
type fakeSource struct {
	showID      int64
	showErr     error
	showDetail  *tmdb.ShowDetail
	movieID     int64
	movieErr    error
	movieDetail *tmdb.MovieDetail
	detailErr   error
	season      *tmdb.SeasonDetail
	seasonErr   error

	searchCalls int
	detailCalls int
	seasonCalls int
}

func (f *fakeSource) SearchShow(ctx context.Context, title string) (int64, error) {
	f.searchCalls++
	if f.showErr != nil {
		return 0, f.showErr
	}
	return f.showID, nil
}

func (f *fakeSource) SearchMovie(ctx context.Context, title string) (int64, error) {
	f.searchCalls++
	if f.movieErr != nil {
		return 0, f.movieErr
	}
	return f.movieID, nil
}

func (f *fakeSource) GetShowDetail(ctx context.Context, id int64) (*tmdb.ShowDetail, error) {
	f.detailCalls++
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.showDetail, nil
}

func (f *fakeSource) GetMovieDetail(ctx context.Context, id int64) (*tmdb.MovieDetail, error) {
	f.detailCalls++
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.movieDetail, nil
}

func (f *fakeSource) GetSeasonDetail(ctx context.Context, showID int64, seasonNumber int) (*tmdb.SeasonDetail, error) {
	f.seasonCalls++
	if f.seasonErr != nil {
		return nil, f.seasonErr
	}
	return f.season, nil
}

func (f *fakeSource) GetEpisodeDetail(ctx context.Context, showID int64, seasonNumber, episodeNumber int) (*tmdb.EpisodeDetail, error) {
	return nil, tmdb.ErrNotFound
}

func (f *fakeSource) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/" + size + path
}

// fakePersister counts Persist calls so tests can assert the batch-at-end
// behavior.
type fakePersister struct {
	calls int
	err   error
}

func (f *fakePersister) Persist() error {
	f.calls++
	return f.err
}

func (f *fakePersister) LastUpdated() time.Time { return time.Time{} }

func (f *fakePersister) Stats() store.DocumentStats { return store.DocumentStats{} }

func newTestCatalog(t *testing.T) *store.Catalog {
	t.Helper()

	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	catalog, err := store.NewCatalog(fileStore)
	if err != nil {
		t.Fatal(err)
	}
	return catalog
}

func newTestOverrides(t *testing.T, files map[string]string) *config.OverrideCache {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cache := config.NewOverrideCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}
	return cache
}
