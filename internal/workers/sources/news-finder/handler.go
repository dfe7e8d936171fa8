// internal/workers/sources/news-finder/handler.go
package newsfinder

import (
	"context"
	"fmt"
	"strings"

	"prospect-enricher/internal/common/httpclient"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/search"
	"prospect-enricher/internal/models"
)

const Source = models.SourceNews

const (
	maxFeedItems  = 6
	maxPageItems  = 5
	maxNewsItems  = 8
	enoughFeed    = 3
	enoughScraped = 2
	maxHeadline   = 200
	maxSummary    = 300
)

type Searcher interface {
	Enabled() bool
	Search(ctx context.Context, q search.Query) ([]search.Result, error)
}

type Handler struct {
	config *Config
	client *httpclient.Client
	search Searcher
	logger logger.Logger
}

func NewHandler(config *Config, client *httpclient.Client, searcher Searcher, log logger.Logger) *Handler {
	if client == nil {
		client = httpclient.NewClient(config.Timeout, httpclient.BrowserUserAgent)
	}
	return &Handler{
		config: config,
		client: client,
		search: searcher,
		logger: logger.Component(log, "news-finder"),
	}
}

// Find gathers recent news for an institution from its own feeds, then its
// news pages, then web search. Failures along the way only shrink the list.
func (h *Handler) Find(ctx context.Context, institution, domain string) []models.NewsItem {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil
	}
	bases := httpclient.BaseURLs(h.config.Scheme, domain, h.config.HostVariants)

	news := h.feedNews(ctx, bases)
	if len(news) >= enoughFeed {
		return news
	}

	scraped := h.pageNews(ctx, bases)
	news = append(news, scraped...)
	if len(news) < enoughScraped && h.search != nil && h.search.Enabled() {
		news = append(news, h.searchNews(ctx, institution)...)
	}

	if len(news) > maxNewsItems {
		news = news[:maxNewsItems]
	}
	h.logger.Debug("News gathered", map[string]interface{}{
		"domain":  domain,
		"items":   len(news),
		"scraped": len(scraped),
	})
	return news
}

// Settled reports whether items came from the institution's own feeds or
// news pages in sufficient number. Smaller lists, or lists topped up by web
// search, may reflect fetches that failed this time and should not be reused.
func Settled(items []models.NewsItem) bool {
	own := 0
	for _, item := range items {
		if item.Source != models.NewsSourceSearch {
			own++
		}
	}
	return own >= enoughScraped
}

func (h *Handler) searchNews(ctx context.Context, institution string) []models.NewsItem {
	institution = strings.TrimSpace(institution)
	if institution == "" {
		return nil
	}
	results, err := h.search.Search(ctx, search.Query{
		Q:    fmt.Sprintf(`"%s" (announcement OR program OR partnership OR initiative)`, institution),
		Num:  h.config.SearchResults,
		Sort: "date",
	})
	if err != nil {
		h.logger.Debug("News search failed", map[string]interface{}{"institution": institution, "error": err.Error()})
		return nil
	}

	var news []models.NewsItem
	for _, r := range results {
		link := strings.ToLower(r.Link)
		if strings.Contains(link, "/apply") || strings.Contains(link, "/admissions") {
			continue
		}
		news = append(news, models.NewsItem{
			Headline: truncate(r.Title, maxHeadline),
			Summary:  truncate(r.Snippet, maxSummary),
			URL:      r.Link,
			Source:   models.NewsSourceSearch,
		})
	}
	return news
}
