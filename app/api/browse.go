package api

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/streamvault/streamvault/app/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// browseParams carries the filter/sort/pagination query parameters shared by
// the list endpoints.
type browseParams struct {
	Genre    string
	Language string
	Featured bool
	Trending bool
	Sort     string // title | year | recent
	Page     int
	Limit    int
}

func parseBrowseParams(c *gin.Context) browseParams {
	params := browseParams{
		Genre:    c.Query("genre"),
		Language: c.Query("language"),
		Featured: c.Query("featured") == "true",
		Trending: c.Query("trending") == "true",
		Sort:     c.Query("sort"),
		Page:     1,
		Limit:    defaultPageSize,
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		if limit > maxPageSize {
			limit = maxPageSize
		}
		params.Limit = limit
	}

	return params
}

func hasGenre(genres []string, want string) bool {
	for _, g := range genres {
		if strings.EqualFold(g, want) {
			return true
		}
	}
	return false
}

func filterShows(shows []store.Show, params browseParams) []store.Show {
	out := make([]store.Show, 0, len(shows))
	for _, show := range shows {
		if params.Genre != "" && !hasGenre(show.Genres, params.Genre) {
			continue
		}
		if params.Language != "" && !strings.EqualFold(show.Language, params.Language) {
			continue
		}
		if params.Featured && !show.Featured {
			continue
		}
		if params.Trending && !show.Trending {
			continue
		}
		out = append(out, show)
	}

	switch params.Sort {
	case "title":
		sort.Slice(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case "year":
		sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	case "recent":
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return out
}

func filterMovies(movies []store.Movie, params browseParams) []store.Movie {
	out := make([]store.Movie, 0, len(movies))
	for _, movie := range movies {
		if params.Genre != "" && !hasGenre(movie.Genres, params.Genre) {
			continue
		}
		if params.Language != "" && !strings.EqualFold(movie.Language, params.Language) {
			continue
		}
		if params.Featured && !movie.Featured {
			continue
		}
		if params.Trending && !movie.Trending {
			continue
		}
		out = append(out, movie)
	}

	switch params.Sort {
	case "title":
		sort.Slice(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case "year":
		sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	case "recent":
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return out
}

// pageBounds returns the [start, end) slice bounds for a page, clamped to the
// collection size.
func pageBounds(total, page, limit int) (int, int) {
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
