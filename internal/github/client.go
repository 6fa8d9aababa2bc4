package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ahmednasr/contexthub/internal/models"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "ContextHub/1.0.0"
	apiVersion     = "2022-11-28"
)

// Client is a minimal wrapper around GitHub's REST API v3.
// It only covers the endpoints the services use.
type Client struct {
	http    *http.Client
	token   string
	baseURL string
	limiter *rate.Limiter

	retryBase      time.Duration
	maxAttempts    int
	searchCacheTTL time.Duration

	mu          sync.Mutex
	searchCache map[string]cachedSearch
}

type cachedSearch struct {
	issues []models.Issue
	at     time.Time
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (GitHub Enterprise, tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRequestsPerSecond paces outgoing requests. Zero disables pacing.
func WithRequestsPerSecond(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithRetryBase sets the first delay of the secondary rate limit backoff.
func WithRetryBase(d time.Duration) Option {
	return func(c *Client) { c.retryBase = d }
}

// WithSearchCacheTTL sets how long issue search results are reused.
func WithSearchCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.searchCacheTTL = d }
}

// NewClient returns a ready-to-use GitHub API client.
// token may be an empty string, but unauthenticated calls get a much lower rate limit.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		token:          token,
		baseURL:        defaultBaseURL,
		limiter:        rate.NewLimiter(rate.Inf, 0),
		retryBase:      2 * time.Second,
		maxAttempts:    3,
		searchCacheTTL: 5 * time.Minute,
		searchCache:    map[string]cachedSearch{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasToken reports whether requests are authenticated.
func (c *Client) HasToken() bool { return c.token != "" }

// repoURL builds an API URL under /repos/{owner}/{repo}.
func (c *Client) repoURL(owner, repo string, segments ...string) string {
	u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))
	for _, s := range segments {
		u += "/" + s
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, u string, query url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	c.addHeaders(req)
	return req, nil
}

// addHeaders sets authentication and Accept headers.
func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("User-Agent", userAgent)
}

// get issues a GET and decodes JSON into v.
func (c *Client) get(ctx context.Context, u string, query url.Values, v interface{}) error {
	req, err := c.newRequest(ctx, u, query)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

// do executes the HTTP request and decodes JSON into v.
func (c *Client) do(req *http.Request, v interface{}) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := newAPIError(resp, body)
		log.Printf("[GitHub] %s %s: %v", req.Method, req.URL.Path, apiErr)
		return apiErr
	}

	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
