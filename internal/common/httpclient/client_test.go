package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_LimitsBodyAndSetsUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "enrich-test/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer server.Close()

	c := NewClient(time.Second, "enrich-test/1.0")
	resp, err := c.Fetch(context.Background(), server.URL, 10, nil)

	require.NoError(t, err)
	assert.Len(t, resp.Body, 10)
	assert.True(t, resp.Truncated)
}

func TestFetch_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(time.Second, "")
	_, err := c.Fetch(context.Background(), server.URL, 0, nil)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestFetchDocument_RejectsNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	c := NewClient(time.Second, "")
	_, _, err := c.FetchDocument(context.Background(), server.URL, 1024)

	assert.True(t, errors.Is(err, ErrNotHTML))
}

func TestFetchDocument_Parses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Hi</title></head><body><h1>Welcome</h1></body></html>`))
	}))
	defer server.Close()

	c := NewClient(time.Second, "")
	doc, _, err := c.FetchDocument(context.Background(), server.URL, 1024)

	require.NoError(t, err)
	assert.Equal(t, "Welcome", doc.Find("h1").Text())
	assert.NotNil(t, doc.Url)
}

func TestExists_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/people/jane-doe", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/profiles/jane-doe", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/profiles/jane-doe", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(time.Second, "")

	final, ok := c.Exists(context.Background(), server.URL+"/people/jane-doe")
	assert.True(t, ok)
	assert.Equal(t, server.URL+"/profiles/jane-doe", final)

	_, ok = c.Exists(context.Background(), server.URL+"/missing")
	assert.False(t, ok)
}

func TestIsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	c := NewClient(5*time.Second, "")
	_, err := c.Fetch(ctx, server.URL, 0, nil)

	assert.True(t, IsTimeout(err))
	assert.False(t, IsTimeout(errors.New("connection refused")))
	assert.False(t, IsTimeout(nil))
}

func TestBaseURLs(t *testing.T) {
	assert.Equal(t,
		[]string{"https://example.edu", "https://www.example.edu"},
		BaseURLs("", "Example.edu", []string{"", "www."}))
	assert.Equal(t, []string{"http://127.0.0.1:9999"}, BaseURLs("http", "127.0.0.1:9999", nil))
	assert.Nil(t, BaseURLs("https", " ", nil))
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		href, base, want string
	}{
		{"https://other.edu/feed", "https://example.edu", "https://other.edu/feed"},
		{"/news/rss", "https://example.edu/about", "https://example.edu/news/rss"},
		{"feed.xml", "https://example.edu/news/", "https://example.edu/news/feed.xml"},
		{"", "https://example.edu", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AbsoluteURL(tt.href, tt.base), tt.href)
	}
}
