package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/streamvault/streamvault/app/store"
	"github.com/streamvault/streamvault/app/tasks"
)

type fakeScheduler struct {
	catalog  *store.Catalog
	enqueued []tasks.TaskInterface
	full     bool
}

func (f *fakeScheduler) Start() {}
func (f *fakeScheduler) Stop()  {}

func (f *fakeScheduler) EnqueueTask(task tasks.TaskInterface) error {
	if f.full {
		return fmt.Errorf("task queue is full")
	}
	f.enqueued = append(f.enqueued, task)
	return nil
}

func (f *fakeScheduler) BuildJob(name string) (tasks.TaskInterface, error) {
	if name != "dedupe-episodes" {
		return nil, fmt.Errorf("unknown job %q", name)
	}
	return tasks.NewDedupeEpisodesTask(f.catalog, f.catalog), nil
}

func newTestServer(t *testing.T, apiAccessKey string) (*gin.Engine, *store.Catalog, *fakeScheduler) {
	t.Helper()

	fileStore := store.NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	catalog, err := store.NewCatalog(fileStore)
	if err != nil {
		t.Fatal(err)
	}

	scheduler := &fakeScheduler{catalog: catalog}
	server := NewServer(NewHandler(catalog, scheduler), apiAccessKey)
	return server, catalog, scheduler
}

func seedCatalog(catalog *store.Catalog) {
	catalog.UpsertShow(store.Show{
		ID: "show-1", Slug: "the-wire", Title: "The Wire",
		Genres: []string{"Drama", "Crime"}, Language: "en", Year: 2002,
		Featured:  true,
		CreatedAt: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	catalog.UpsertShow(store.Show{
		ID: "show-2", Slug: "dark", Title: "Dark",
		Genres: []string{"Sci-Fi"}, Language: "de", Year: 2017,
		Trending:  true,
		CreatedAt: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	catalog.UpsertEpisode(store.Episode{
		ID: "ep-1", ShowID: "show-1", SeasonNumber: 1, EpisodeNumber: 1, Title: "The Target",
	})
	catalog.UpsertMovie(store.Movie{
		ID: "movie-1", Slug: "heat", Title: "Heat", Genres: []string{"Crime"}, Year: 1995,
	})
}

func doRequest(server *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestListShows(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	w := doRequest(server, "GET", "/shows", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Shows []store.Show `json:"shows"`
		Total int          `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Errorf("Expected 2 shows, got %d", resp.Total)
	}
}

func TestListShowsFiltered(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	cases := []struct {
		query string
		want  string
	}{
		{"genre=drama", "the-wire"},
		{"language=de", "dark"},
		{"featured=true", "the-wire"},
		{"trending=true", "dark"},
	}
	for _, tc := range cases {
		w := doRequest(server, "GET", "/shows?"+tc.query, "", nil)

		var resp struct {
			Shows []store.Show `json:"shows"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if len(resp.Shows) != 1 || resp.Shows[0].Slug != tc.want {
			t.Errorf("Query '%s': expected only '%s', got %d shows", tc.query, tc.want, len(resp.Shows))
		}
	}
}

func TestListShowsSorted(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	w := doRequest(server, "GET", "/shows?sort=year", "", nil)

	var resp struct {
		Shows []store.Show `json:"shows"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Shows) != 2 || resp.Shows[0].Slug != "dark" {
		t.Errorf("Expected newest show first, got %+v", resp.Shows)
	}
}

func TestListShowsPagination(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	w := doRequest(server, "GET", "/shows?sort=title&page=2&limit=1", "", nil)

	var resp struct {
		Shows []store.Show `json:"shows"`
		Total int          `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 {
		t.Errorf("Expected total 2, got %d", resp.Total)
	}
	if len(resp.Shows) != 1 || resp.Shows[0].Slug != "the-wire" {
		t.Errorf("Expected second page to hold 'the-wire', got %+v", resp.Shows)
	}
}

func TestGetShow(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	w := doRequest(server, "GET", "/shows/the-wire", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	w = doRequest(server, "GET", "/shows/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestListEpisodes(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	w := doRequest(server, "GET", "/shows/the-wire/episodes", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Episodes []store.Episode `json:"episodes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Episodes) != 1 || resp.Episodes[0].Title != "The Target" {
		t.Errorf("Unexpected episodes: %+v", resp.Episodes)
	}
}

func TestGetMovie(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	w := doRequest(server, "GET", "/movies/heat", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestCreateComment(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	w := doRequest(server, "POST", "/comments",
		`{"episodeId":"ep-1","author":"viewer","body":"Great pilot."}`, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	comments := catalog.CommentsByEpisode("ep-1")
	if len(comments) != 1 || comments[0].Author != "viewer" {
		t.Errorf("Unexpected comments: %+v", comments)
	}
}

func TestCreateCommentValidation(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	cases := []string{
		`{"author":"viewer","body":"no target"}`,
		`{"episodeId":"ep-1","movieId":"movie-1","author":"viewer","body":"both targets"}`,
		`{"episodeId":"missing","author":"viewer","body":"dangling reference"}`,
		`{"episodeId":"ep-1","body":"no author"}`,
	}
	for _, body := range cases {
		w := doRequest(server, "POST", "/comments", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %s, got %d", body, w.Code)
		}
	}
}

func TestContentRequests(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	for i := 0; i < 3; i++ {
		w := doRequest(server, "POST", "/requests", `{"title":"The  Sopranos"}`, nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d", w.Code)
		}
	}
	doRequest(server, "POST", "/requests", `{"title":"Twin Peaks"}`, nil)

	w := doRequest(server, "GET", "/requests/top?limit=1", "", nil)

	var resp struct {
		Requests []store.ContentRequest `json:"requests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(resp.Requests))
	}
	if resp.Requests[0].RequestCount != 3 {
		t.Errorf("Expected repeated title to count 3, got %d", resp.Requests[0].RequestCount)
	}
}

func TestCreateIssueReport(t *testing.T) {
	server, _, _ := newTestServer(t, "")

	w := doRequest(server, "POST", "/reports", `{"subject":"Broken playback"}`, nil)
	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", w.Code)
	}

	w = doRequest(server, "POST", "/reports", `{"body":"no subject"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestHealthAndStats(t *testing.T) {
	server, catalog, _ := newTestServer(t, "")
	seedCatalog(catalog)

	if w := doRequest(server, "GET", "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", w.Code)
	}
	if w := doRequest(server, "GET", "/stats", "", nil); w.Code != http.StatusOK {
		t.Errorf("Expected 200 from /stats, got %d", w.Code)
	}
}

func TestAdminAuth(t *testing.T) {
	server, _, scheduler := newTestServer(t, "secret")

	w := doRequest(server, "POST", "/api/jobs/dedupe-episodes", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", w.Code)
	}

	w = doRequest(server, "POST", "/api/jobs/dedupe-episodes", "", map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got %d", w.Code)
	}

	w = doRequest(server, "POST", "/api/jobs/dedupe-episodes", "", map[string]string{"X-API-Key": "secret"})
	if w.Code != http.StatusAccepted {
		t.Errorf("Expected 202 with valid key, got %d", w.Code)
	}
	if len(scheduler.enqueued) != 1 {
		t.Errorf("Expected 1 enqueued task, got %d", len(scheduler.enqueued))
	}

	w = doRequest(server, "POST", "/api/jobs/defragment", "", map[string]string{"X-API-Key": "secret"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown job, got %d", w.Code)
	}
}

func TestAdminDisabledWithoutKey(t *testing.T) {
	server, _, _ := newTestServer(t, "")

	w := doRequest(server, "POST", "/api/jobs/dedupe-episodes", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when admin endpoints are disabled, got %d", w.Code)
	}
}
