// internal/workers/sources/news-finder/feeds.go
package newsfinder

import (
	"context"
	"strings"

	"prospect-enricher/internal/common/httpclient"
	"prospect-enricher/internal/models"

	"github.com/mmcdole/gofeed"
)

var feedPaths = []string{
	"/feed", "/rss", "/news/feed", "/news/rss",
	"/feed/", "/rss/", "/news/feed/", "/news/rss/",
	"/blog/feed", "/newsroom/feed", "/stories/feed",
}

var feedLinkSelectors = []string{
	`link[type="application/rss+xml"]`,
	`link[type="application/atom+xml"]`,
	`a[href*="/feed"]`,
	`a[href*="/rss"]`,
}

var feedHeaders = map[string]string{
	"Accept": "application/rss+xml, application/xml, text/xml, */*",
}

// feedNews returns the items of the first feed that yields any.
func (h *Handler) feedNews(ctx context.Context, bases []string) []models.NewsItem {
	for _, base := range bases {
		if feedURL := h.autodiscoverFeed(ctx, base); feedURL != "" {
			if items := h.parseFeed(ctx, feedURL); len(items) > 0 {
				return items
			}
		}
		for _, p := range feedPaths {
			if ctx.Err() != nil {
				return nil
			}
			if items := h.parseFeed(ctx, base+p); len(items) > 0 {
				h.logger.Debug("Found feed", map[string]interface{}{"url": base + p})
				return items
			}
		}
	}
	return nil
}

func (h *Handler) autodiscoverFeed(ctx context.Context, base string) string {
	ctx, cancel := context.WithTimeout(ctx, h.config.FetchTimeout)
	defer cancel()

	doc, _, err := h.client.FetchDocument(ctx, base, h.config.PageLimit)
	if err != nil {
		return ""
	}
	for _, sel := range feedLinkSelectors {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
			return httpclient.AbsoluteURL(href, base)
		}
	}
	return ""
}

func (h *Handler) parseFeed(ctx context.Context, feedURL string) []models.NewsItem {
	ctx, cancel := context.WithTimeout(ctx, h.config.FetchTimeout)
	defer cancel()

	resp, err := h.client.Fetch(ctx, feedURL, h.config.FeedLimit, feedHeaders)
	if err != nil {
		return nil
	}
	text := string(resp.Body)
	if !strings.Contains(text, "<rss") && !strings.Contains(text, "<feed") && !strings.Contains(text, "<item") {
		return nil
	}
	if resp.Truncated {
		text = closeTruncatedFeed(text)
	}

	feed, err := gofeed.NewParser().ParseString(text)
	if err != nil {
		h.logger.Debug("Feed parse failed", map[string]interface{}{"url": feedURL, "error": err.Error()})
		return nil
	}

	var news []models.NewsItem
	for _, item := range feed.Items {
		if len(news) >= maxFeedItems {
			break
		}
		title := cleanText(item.Title)
		if len([]rune(title)) <= 10 {
			continue
		}
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		news = append(news, models.NewsItem{
			Headline: truncate(title, maxHeadline),
			Summary:  truncate(cleanText(summary), maxSummary),
			Date:     itemDate(item),
			URL:      itemLink(item),
			Source:   models.NewsSourceRSS,
		})
	}
	return news
}

// closeTruncatedFeed drops everything after the last complete item of a
// feed cut off at the size limit and closes the document again.
func closeTruncatedFeed(text string) string {
	itemEnd, closing := "</item>", "</channel></rss>"
	switch {
	case strings.Contains(text, "<rss"):
	case strings.Contains(text, "<rdf:RDF"):
		closing = "</rdf:RDF>"
	case strings.Contains(text, "<feed"):
		itemEnd, closing = "</entry>", "</feed>"
	}
	cut := strings.LastIndex(text, itemEnd)
	if cut < 0 {
		return text
	}
	return text[:cut+len(itemEnd)] + closing
}

func itemDate(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return displayDate(*item.PublishedParsed)
	case item.UpdatedParsed != nil:
		return displayDate(*item.UpdatedParsed)
	case item.Published != "":
		return formatDate(item.Published)
	default:
		return formatDate(item.Updated)
	}
}

func itemLink(item *gofeed.Item) string {
	if item.Link != "" {
		return strings.TrimSpace(item.Link)
	}
	if len(item.Links) > 0 {
		return strings.TrimSpace(item.Links[0])
	}
	return ""
}
