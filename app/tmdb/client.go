package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound reports that the metadata source has no match for a title or
// id. It is an expected outcome, never retried.
var ErrNotFound = errors.New("tmdb: not found")

// Kind selects the search/detail namespace of the metadata source.
type Kind string

const (
	KindShow  Kind = "tv"
	KindMovie Kind = "movie"
)

// Searcher is the surface of the metadata source used by enrichment sweeps.
type Searcher interface {
	SearchShow(ctx context.Context, title string) (int64, error)
	SearchMovie(ctx context.Context, title string) (int64, error)
	GetShowDetail(ctx context.Context, id int64) (*ShowDetail, error)
	GetMovieDetail(ctx context.Context, id int64) (*MovieDetail, error)
	GetSeasonDetail(ctx context.Context, showID int64, seasonNumber int) (*SeasonDetail, error)
	GetEpisodeDetail(ctx context.Context, showID int64, seasonNumber, episodeNumber int) (*EpisodeDetail, error)
	ImageURL(path, size string) string
}

// Client talks to the TMDB-shaped read-only catalog API.
type Client struct {
	apiKey     string
	baseURL    string
	imageBase  string
	userAgent  string
	httpClient *http.Client
	retry      RetryPolicy
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

func New(apiKey, baseURL, imageBase string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		imageBase:  strings.TrimRight(imageBase, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retry:      DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchShow resolves a show title to a candidate id, trying title variants
// in order and taking the first result of the first non-empty response.
func (c *Client) SearchShow(ctx context.Context, title string) (int64, error) {
	return c.search(ctx, KindShow, title)
}

// SearchMovie resolves a movie title to a candidate id.
func (c *Client) SearchMovie(ctx context.Context, title string) (int64, error) {
	return c.search(ctx, KindMovie, title)
}

func (c *Client) search(ctx context.Context, kind Kind, title string) (int64, error) {
	variants := titleVariants(title)
	if len(variants) == 0 {
		return 0, errors.New("title must not be empty")
	}

	for _, variant := range variants {
		params := url.Values{}
		params.Set("query", variant)

		var payload SearchResponse
		err := c.getJSON(ctx, fmt.Sprintf("/search/%s", kind), params, &payload)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return 0, err
		}
		if len(payload.Results) > 0 {
			return payload.Results[0].ID, nil
		}
	}

	return 0, fmt.Errorf("%w: no results for %q", ErrNotFound, title)
}

func (c *Client) GetShowDetail(ctx context.Context, id int64) (*ShowDetail, error) {
	if id <= 0 {
		return nil, errors.New("show id must be positive")
	}
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var payload ShowDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/tv/%d", id), params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) GetMovieDetail(ctx context.Context, id int64) (*MovieDetail, error) {
	if id <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var payload MovieDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", id), params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) GetSeasonDetail(ctx context.Context, showID int64, seasonNumber int) (*SeasonDetail, error) {
	if showID <= 0 {
		return nil, errors.New("show id must be positive")
	}
	if seasonNumber <= 0 {
		return nil, errors.New("season number must be positive")
	}

	var payload SeasonDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/tv/%d/season/%d", showID, seasonNumber), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) GetEpisodeDetail(ctx context.Context, showID int64, seasonNumber, episodeNumber int) (*EpisodeDetail, error) {
	if showID <= 0 {
		return nil, errors.New("show id must be positive")
	}
	if seasonNumber <= 0 || episodeNumber <= 0 {
		return nil, errors.New("season and episode numbers must be positive")
	}

	var payload EpisodeDetail
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d", showID, seasonNumber, episodeNumber)
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ImageURL composes a relative asset path returned by the metadata source
// with the image base URL and a size token (e.g. "w500", "original").
func (c *Client) ImageURL(path, size string) string {
	if path == "" || c.imageBase == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.imageBase + "/" + size + path
}

// getJSON performs one GET against the metadata source, retrying transient
// transport failures per the client's retry policy. A non-2xx response with
// a parseable body is reported as ErrNotFound and never retried.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse metadata url: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	return c.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return markTransient(fmt.Errorf("execute request: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			var status statusBody
			if json.Unmarshal(body, &status) == nil && status.StatusMessage != "" {
				return fmt.Errorf("%w: %s (status %d)", ErrNotFound, status.StatusMessage, resp.StatusCode)
			}
			return fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode metadata response: %w", err)
		}
		return nil
	})
}

// titleVariants returns search candidates for a title in decreasing
// specificity: the full title, the part before a colon, the part before a
// spaced dash, and the whitespace-normalized title.
func titleVariants(title string) []string {
	normalized := strings.Join(strings.Fields(title), " ")

	candidates := []string{strings.TrimSpace(title)}
	if idx := strings.Index(title, ":"); idx > 0 {
		candidates = append(candidates, strings.TrimSpace(title[:idx]))
	}
	if idx := strings.Index(title, " - "); idx > 0 {
		candidates = append(candidates, strings.TrimSpace(title[:idx]))
	}
	candidates = append(candidates, normalized)

	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, candidate := range candidates {
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true
		out = append(out, candidate)
	}
	return out
}
