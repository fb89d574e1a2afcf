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
	"sync/atomic"
	"time"
)

// ErrMissingAPIKey is returned by every call when no API credential is
// configured.
var ErrMissingAPIKey = errors.New("TMDB_API_KEY not configured")

// APIError is returned for non-2xx TMDB responses.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("TMDB %s: %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// IsNotFound reports whether err is a TMDB 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is the TMDB API client.
type Client struct {
	apiKey   string
	baseURL  string
	http     *http.Client
	requests atomic.Int64
}

// NewClient creates a new TMDB API client. The bearer token is sent with
// every request.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// Requests returns the number of requests sent upstream so far.
func (c *Client) Requests() int64 {
	return c.requests.Load()
}

// Get calls endpoint (relative to the base URL) and decodes the JSON
// body into out.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build TMDB request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	slog.Debug("fetching TMDB", "endpoint", endpoint)
	c.requests.Add(1)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("TMDB request %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    statusMessage(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// statusMessage pulls TMDB's status_message out of an error body, falling
// back to the raw text.
func statusMessage(body []byte) string {
	var e struct {
		StatusMessage string `json:"status_message"`
	}
	if json.Unmarshal(body, &e) == nil && e.StatusMessage != "" {
		return e.StatusMessage
	}
	return strings.TrimSpace(string(body))
}

// Popular fetches movie/popular.
func (c *Client) Popular(ctx context.Context) (*ListResponse, error) {
	return c.list(ctx, "movie/popular", nil)
}

// TopRated fetches movie/top_rated.
func (c *Client) TopRated(ctx context.Context) (*ListResponse, error) {
	return c.list(ctx, "movie/top_rated", nil)
}

// Upcoming fetches movie/upcoming.
func (c *Client) Upcoming(ctx context.Context) (*ListResponse, error) {
	return c.list(ctx, "movie/upcoming", nil)
}

// SearchMovies runs a title search. The query is passed through as is.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*ListResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	return c.list(ctx, "search/movie", params)
}

func (c *Client) list(ctx context.Context, endpoint string, params url.Values) (*ListResponse, error) {
	var result ListResponse
	if err := c.Get(ctx, endpoint, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetail fetches the primary record for a movie.
func (c *Client) MovieDetail(ctx context.Context, id int) (*MovieDetail, error) {
	var result MovieDetail
	if err := c.Get(ctx, fmt.Sprintf("movie/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Credits fetches the cast and crew of a movie.
func (c *Client) Credits(ctx context.Context, id int) (*Credits, error) {
	var result Credits
	if err := c.Get(ctx, fmt.Sprintf("movie/%d/credits", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Videos fetches the videos attached to a movie in the given language.
func (c *Client) Videos(ctx context.Context, id int, language string) (*VideoList, error) {
	params := url.Values{}
	if language != "" {
		params.Set("language", language)
	}
	var result VideoList
	if err := c.Get(ctx, fmt.Sprintf("movie/%d/videos", id), params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
