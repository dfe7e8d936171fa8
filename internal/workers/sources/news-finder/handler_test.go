// internal/workers/sources/news-finder/handler_test.go
package newsfinder

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"prospect-enricher/internal/common/httpclient"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/search"
	"prospect-enricher/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	enabled bool
	results []search.Result
	queries []search.Query
}

func (f *fakeSearcher) Enabled() bool { return f.enabled }

func (f *fakeSearcher) Search(_ context.Context, q search.Query) ([]search.Result, error) {
	f.queries = append(f.queries, q)
	return f.results, nil
}

func newTestHandler(t *testing.T, searcher Searcher) *Handler {
	cfg := LoadConfig()
	cfg.Scheme = "http"
	cfg.HostVariants = []string{""}
	cfg.FetchTimeout = time.Second
	return NewHandler(cfg, httpclient.NewClient(2*time.Second, httpclient.BrowserUserAgent), searcher, logger.NewTestLogger(t))
}

func hostOf(server *httptest.Server) string {
	return strings.TrimPrefix(server.URL, "http://")
}

func rssFeed(titles ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Campus News</title>`)
	for i, title := range titles {
		fmt.Fprintf(&b, `<item><title>%s</title><link>https://example.edu/news/%d</link>`+
			`<pubDate>Mon, 06 Jan 2025 10:00:00 GMT</pubDate>`+
			`<description>&lt;p&gt;The &lt;b&gt;new&lt;/b&gt;   program&lt;/p&gt;</description></item>`, title, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func notFoundExceptRoot(home string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" || home == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(home))
	}
}

func TestFind_AutodiscoveredFeedIsEnough(t *testing.T) {
	var pageHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", notFoundExceptRoot(`<html><head>
		<link rel="alternate" type="application/rss+xml" href="/feed.xml"></head><body></body></html>`))
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFeed(
			"Example launches online MBA program",
			"Board approves new nursing partnership",
			"Provost announces digital learning initiative",
		)))
	})
	for _, p := range newsPaths {
		mux.HandleFunc(p, func(w http.ResponseWriter, r *http.Request) {
			pageHits.Add(1)
		})
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	searcher := &fakeSearcher{enabled: true}
	h := newTestHandler(t, searcher)

	news := h.Find(context.Background(), "Example University", hostOf(server))

	require.Len(t, news, 3)
	assert.Zero(t, pageHits.Load())
	assert.Empty(t, searcher.queries)

	var headlines []string
	for _, item := range news {
		headlines = append(headlines, item.Headline)
	}
	assert.Equal(t, []string{
		"Example launches online MBA program",
		"Board approves new nursing partnership",
		"Provost announces digital learning initiative",
	}, headlines)

	first := news[0]
	assert.Equal(t, "The new program", first.Summary)
	assert.Equal(t, "Jan 6, 2025", first.Date)
	assert.Equal(t, "https://example.edu/news/0", first.URL)
	assert.Equal(t, models.NewsSourceRSS, first.Source)
}

func TestFind_FeedItemsAreCapped(t *testing.T) {
	titles := make([]string, 9)
	for i := range titles {
		titles[i] = fmt.Sprintf("Announcement number %d from campus", i)
	}
	titles[0] = "Short"
	mux := http.NewServeMux()
	mux.HandleFunc("/", notFoundExceptRoot(""))
	mux.HandleFunc("/news/feed", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFeed(titles...)))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	h := newTestHandler(t, nil)

	news := h.Find(context.Background(), "Example University", hostOf(server))

	require.Len(t, news, maxFeedItems)
	assert.Equal(t, titles[1], news[0].Headline)
}

func TestFind_OversizedFeedStillYieldsItems(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Campus News</title>`)
	body := strings.Repeat("Lorem ipsum dolor sit amet. ", 400)
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, `<item><title>Campus announcement number %d</title>`+
			`<link>https://example.edu/news/%d</link><description>%s</description></item>`, i, i, body)
	}
	b.WriteString(`</channel></rss>`)
	feed := b.String()

	mux := http.NewServeMux()
	mux.HandleFunc("/", notFoundExceptRoot(""))
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feed))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	h := newTestHandler(t, &fakeSearcher{})
	require.Greater(t, int64(len(feed)), h.config.FeedLimit)

	news := h.Find(context.Background(), "Example University", hostOf(server))

	require.Len(t, news, maxFeedItems)
	assert.Equal(t, "Campus announcement number 0", news[0].Headline)
	assert.Equal(t, "Campus announcement number 5", news[5].Headline)
	assert.Equal(t, models.NewsSourceRSS, news[5].Source)
}

func TestCloseTruncatedFeed(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{
			"rss",
			`<rss><channel><item><title>A</title></item><item><title>B`,
			`<rss><channel><item><title>A</title></item></channel></rss>`,
		},
		{
			"atom",
			`<feed xmlns="http://www.w3.org/2005/Atom"><entry><title>A</title></entry><entry><ti`,
			`<feed xmlns="http://www.w3.org/2005/Atom"><entry><title>A</title></entry></feed>`,
		},
		{
			"rdf",
			`<rdf:RDF><channel></channel><item><title>A</title></item><item>`,
			`<rdf:RDF><channel></channel><item><title>A</title></item></rdf:RDF>`,
		},
		{
			"no complete item",
			`<rss><channel><item><title>A`,
			`<rss><channel><item><title>A`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, closeTruncatedFeed(tt.in))
		})
	}
}

func TestFind_CombinesFeedAndNewsPage(t *testing.T) {
	searcher := &fakeSearcher{enabled: true}
	mux := http.NewServeMux()
	mux.HandleFunc("/", notFoundExceptRoot(""))
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFeed("Example launches online MBA program")))
	})
	mux.HandleFunc("/newsroom", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>
			<article><h3>Too short</h3></article>
			<article>
				<h3>Example University opens new campus downtown</h3>
				<time datetime="2025-02-03">2025-02-03</time>
				<p>The campus   serves working adults.</p>
				<a href="/newsroom/campus">Read more</a>
			</article>
			<div class="news-item">
				<h2 class="title">Faculty senate approves AI curriculum</h2>
				<span class="date">March 4, 2025</span>
			</div>
		</body></html>`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	h := newTestHandler(t, searcher)

	news := h.Find(context.Background(), "Example University", hostOf(server))

	require.Len(t, news, 3)
	assert.Equal(t, models.NewsSourceRSS, news[0].Source)

	campus := news[1]
	assert.Equal(t, "Example University opens new campus downtown", campus.Headline)
	assert.Equal(t, "The campus serves working adults.", campus.Summary)
	assert.Equal(t, "Feb 3, 2025", campus.Date)
	assert.Equal(t, server.URL+"/newsroom/campus", campus.URL)
	assert.Equal(t, models.NewsSourceWebsite, campus.Source)

	assert.Equal(t, "Mar 4, 2025", news[2].Date)
	assert.Empty(t, news[2].URL)
	assert.Empty(t, searcher.queries)
}

func TestFind_FallsBackToSearch(t *testing.T) {
	searcher := &fakeSearcher{
		enabled: true,
		results: []search.Result{
			{Link: "https://example.edu/Apply/now", Title: "Apply today"},
			{Link: "https://press.example.com/story", Title: "Example University partners with employer", Snippet: "A new partnership."},
		},
	}
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	h := newTestHandler(t, searcher)

	news := h.Find(context.Background(), "Example University", hostOf(server))

	require.Len(t, news, 1)
	assert.Equal(t, models.NewsItem{
		Headline: "Example University partners with employer",
		Summary:  "A new partnership.",
		URL:      "https://press.example.com/story",
		Source:   models.NewsSourceSearch,
	}, news[0])
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, `"Example University" (announcement OR program OR partnership OR initiative)`, searcher.queries[0].Q)
	assert.Equal(t, "date", searcher.queries[0].Sort)
	assert.Equal(t, 5, searcher.queries[0].Num)
}

func TestFind_NothingFoundIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	h := newTestHandler(t, &fakeSearcher{})

	assert.Empty(t, h.Find(context.Background(), "Example University", hostOf(server)))
	assert.Empty(t, h.Find(context.Background(), "Example University", " "))
}

func TestFind_IgnoresNonFeedBodies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", notFoundExceptRoot(""))
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": ["<not a feed>"]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	h := newTestHandler(t, nil)

	assert.Empty(t, h.Find(context.Background(), "Example University", hostOf(server)))
}

func TestSettled(t *testing.T) {
	rss := models.NewsItem{Source: models.NewsSourceRSS}
	page := models.NewsItem{Source: models.NewsSourceWebsite}
	found := models.NewsItem{Source: models.NewsSourceSearch}

	assert.True(t, Settled([]models.NewsItem{rss, rss, rss}))
	assert.True(t, Settled([]models.NewsItem{rss, page}))
	assert.False(t, Settled([]models.NewsItem{page}))
	assert.False(t, Settled([]models.NewsItem{page, found, found}))
	assert.False(t, Settled(nil))
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"Tue, 10 Jun 2025 08:30:00 +0000", "Jun 10, 2025"},
		{"2025-06-10T08:30:00Z", "Jun 10, 2025"},
		{"June 10, 2025", "Jun 10, 2025"},
		{"6/10/2025", "Jun 10, 2025"},
		{"Posted sometime last spring semester", "Posted sometime last"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDate(tt.raw), tt.raw)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Fish & Chips day", cleanText("<p>Fish &amp; <i>Chips</i>\n day</p>"))
	assert.Equal(t, "plain text", cleanText("  plain \t text "))
}
