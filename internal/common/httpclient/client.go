// internal/common/httpclient/client.go
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// BrowserUserAgent is sent to institution websites, some of which reject
// unknown agents.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// ErrNotHTML is returned by FetchDocument when the response is not text/html.
var ErrNotHTML = errors.New("response is not HTML")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("GET %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}

// Response is a fully read, size-limited response.
type Response struct {
	URL       string
	Header    http.Header
	Body      []byte
	Truncated bool
}

// Client is the shared outbound HTTP client. Deadlines come from the caller's
// context; the client timeout is a backstop.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Do sends req, adding the default User-Agent when none is set.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}

// Fetch GETs rawURL and reads at most limit bytes of the body.
func (c *Client) Fetch(ctx context.Context, rawURL string, limit int64, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	body, truncated, err := ReadLimited(resp.Body, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{
		URL:       resp.Request.URL.String(),
		Header:    resp.Header,
		Body:      body,
		Truncated: truncated,
	}, nil
}

// FetchDocument fetches an HTML page and parses it with goquery.
func (c *Client) FetchDocument(ctx context.Context, rawURL string, limit int64) (*goquery.Document, *Response, error) {
	resp, err := c.Fetch(ctx, rawURL, limit, nil)
	if err != nil {
		return nil, nil, err
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return nil, resp, fmt.Errorf("%w: %s", ErrNotHTML, ct)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, resp, fmt.Errorf("failed to parse html: %w", err)
	}
	if u, perr := url.Parse(resp.URL); perr == nil {
		doc.Url = u
	}
	return doc, resp, nil
}

// GetJSON GETs rawURL and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Exists sends a HEAD request, following redirects, and reports the final
// URL when the target answers 2xx.
func (c *Client) Exists(ctx context.Context, rawURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", false
	}
	resp, err := c.Do(req)
	if err != nil {
		return "", false
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false
	}
	return resp.Request.URL.String(), true
}

// ReadLimited reads up to limit bytes and reports whether more remained.
// A non-positive limit reads everything.
func ReadLimited(r io.Reader, limit int64) ([]byte, bool, error) {
	if limit <= 0 {
		b, err := io.ReadAll(r)
		return b, false, err
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(b)) > limit {
		return b[:limit], true, nil
	}
	return b, false, nil
}

// IsTimeout reports whether err came from an exceeded deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Client.Timeout") || strings.Contains(msg, "deadline exceeded")
}

// BaseURLs expands a bare domain into one base URL per host prefix,
// e.g. "" and "www." give https://d and https://www.d.
func BaseURLs(scheme, domain string, hostPrefixes []string) []string {
	domain = strings.TrimSpace(strings.ToLower(domain))
	if domain == "" {
		return nil
	}
	if scheme == "" {
		scheme = "https"
	}
	if len(hostPrefixes) == 0 {
		hostPrefixes = []string{""}
	}
	bases := make([]string, 0, len(hostPrefixes))
	for _, p := range hostPrefixes {
		bases = append(bases, fmt.Sprintf("%s://%s%s", scheme, p, strings.TrimPrefix(domain, p)))
	}
	return bases
}

// AbsoluteURL resolves href against base. It returns "" when either is unusable.
func AbsoluteURL(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}
