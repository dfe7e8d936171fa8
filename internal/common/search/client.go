// internal/common/search/client.go
package search

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"prospect-enricher/internal/common/errors"
	"prospect-enricher/internal/common/httpclient"
)

type Config struct {
	BaseURL  string
	APIKey   string
	EngineID string
	Timeout  time.Duration
}

type Query struct {
	Q    string
	Num  int
	Sort string
}

type Result struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Mime    string `json:"mime,omitempty"`
}

// Client queries the Google Custom Search JSON API.
type Client struct {
	config *Config
	http   *httpclient.Client
}

var whitespace = regexp.MustCompile(`\s+`)

func NewClient(config *Config, http *httpclient.Client) *Client {
	if http == nil {
		http = httpclient.NewClient(config.Timeout, "")
	}
	return &Client{config: config, http: http}
}

// Enabled reports whether credentials are configured. Callers skip
// search-backed strategies when it is false.
func (c *Client) Enabled() bool {
	return c != nil && c.config.APIKey != "" && c.config.EngineID != ""
}

func (c *Client) Search(ctx context.Context, q Query) ([]Result, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("search client not configured")
	}
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var apiResponse struct {
		Items []Result `json:"items"`
	}
	if err := c.http.GetJSON(ctx, c.buildSearchURL(q), nil, &apiResponse); err != nil {
		if httpclient.IsTimeout(err) {
			return nil, errors.NewWebSearchTimeoutError(err)
		}
		return nil, fmt.Errorf("search API request failed: %w", err)
	}
	return apiResponse.Items, nil
}

func (c *Client) buildSearchURL(q Query) string {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		baseURL = &url.URL{Scheme: "https", Host: "www.googleapis.com", Path: "/customsearch/v1"}
	}
	params := url.Values{}
	params.Add("key", c.config.APIKey)
	params.Add("cx", c.config.EngineID)
	params.Add("q", whitespace.ReplaceAllString(strings.TrimSpace(q.Q), " "))
	if q.Num > 0 {
		params.Add("num", strconv.Itoa(q.Num))
	}
	if q.Sort != "" {
		params.Add("sort", q.Sort)
	}
	baseURL.RawQuery = params.Encode()
	return baseURL.String()
}
