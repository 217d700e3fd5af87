package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when TMDB answers 404 for a resource.
	ErrNotFound = errors.New("tmdb: resource not found")
	// ErrUnavailable covers transport failures, timeouts, non-success
	// statuses and undecodable bodies.
	ErrUnavailable = errors.New("tmdb: upstream unavailable")
)

// Client is the TMDB API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get fetches path with the given query parameters and decodes the JSON body
// into out. The api_key parameter is always added.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out any) error {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("api_key", c.apiKey)

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/") + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("fetching TMDB", "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("TMDB request failed", "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("TMDB returned non-success status", "path", path, "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Warn("failed to decode TMDB response", "path", path, "error", err)
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}

// MovieList fetches any endpoint that returns a paginated list of movies
// (search, discover, trending, movie/popular, movie/{id}/similar, ...).
func (c *Client) MovieList(ctx context.Context, path string, params url.Values) (*MovieListResponse, error) {
	var result MovieListResponse
	if err := c.Get(ctx, path, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Movie fetches a movie record. appendToResponse embeds sub-resources such
// as credits, keywords or reviews in the same call.
func (c *Client) Movie(ctx context.Context, id int, appendToResponse ...string) (*Movie, error) {
	params := url.Values{}
	if len(appendToResponse) > 0 {
		params.Set("append_to_response", strings.Join(appendToResponse, ","))
	}

	var result Movie
	if err := c.Get(ctx, "movie/"+strconv.Itoa(id), params, &result); err != nil {
		return nil, err
	}
	if result.ID == 0 {
		return nil, ErrNotFound
	}
	return &result, nil
}

// Videos fetches the videos attached to a movie.
func (c *Client) Videos(ctx context.Context, movieID int) ([]Video, error) {
	var result VideoListResponse
	if err := c.Get(ctx, fmt.Sprintf("movie/%d/videos", movieID), nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// Person fetches a person record with optional embedded sub-resources.
func (c *Client) Person(ctx context.Context, id int, appendToResponse ...string) (*Person, error) {
	params := url.Values{}
	if len(appendToResponse) > 0 {
		params.Set("append_to_response", strings.Join(appendToResponse, ","))
	}

	var result Person
	if err := c.Get(ctx, "person/"+strconv.Itoa(id), params, &result); err != nil {
		return nil, err
	}
	if result.ID == 0 {
		return nil, ErrNotFound
	}
	return &result, nil
}

// Collection fetches a franchise collection and its parts.
func (c *Client) Collection(ctx context.Context, id int) (*Collection, error) {
	var result Collection
	if err := c.Get(ctx, "collection/"+strconv.Itoa(id), nil, &result); err != nil {
		return nil, err
	}
	if result.ID == 0 {
		return nil, ErrNotFound
	}
	return &result, nil
}
