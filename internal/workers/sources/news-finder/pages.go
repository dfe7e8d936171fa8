// internal/workers/sources/news-finder/pages.go
package newsfinder

import (
	"context"
	"strings"

	"prospect-enricher/internal/common/httpclient"
	"prospect-enricher/internal/models"

	"github.com/PuerkitoBio/goquery"
)

var newsPaths = []string{"/news", "/newsroom", "/stories", "/press", "/media"}

const (
	articleSelector  = `article, .news-item, .post, [class*="news-"], [class*="story"]`
	headlineSelector = "h2, h3, h4, .title, .headline"
	summarySelector  = "p, .excerpt, .summary"
	dateSelector     = `time, .date, [class*="date"]`
	minHeadline      = 15
)

// pageNews scrapes the first conventional news page that lists articles.
func (h *Handler) pageNews(ctx context.Context, bases []string) []models.NewsItem {
	for _, base := range bases {
		for _, p := range newsPaths {
			if ctx.Err() != nil {
				return nil
			}
			if items := h.scrapeNewsPage(ctx, base+p); len(items) > 0 {
				return items
			}
		}
	}
	return nil
}

func (h *Handler) scrapeNewsPage(ctx context.Context, pageURL string) []models.NewsItem {
	ctx, cancel := context.WithTimeout(ctx, h.config.FetchTimeout)
	defer cancel()

	doc, _, err := h.client.FetchDocument(ctx, pageURL, h.config.PageLimit)
	if err != nil {
		return nil
	}

	var news []models.NewsItem
	doc.Find(articleSelector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		headline := strings.TrimSpace(el.Find(headlineSelector).First().Text())
		if len([]rune(headline)) <= minHeadline {
			return true
		}
		href, _ := el.Find("a").First().Attr("href")

		news = append(news, models.NewsItem{
			Headline: truncate(collapse(headline), maxHeadline),
			Summary:  truncate(collapse(el.Find(summarySelector).First().Text()), maxSummary),
			Date:     articleDate(el.Find(dateSelector).First()),
			URL:      httpclient.AbsoluteURL(href, pageURL),
			Source:   models.NewsSourceWebsite,
		})
		return len(news) < maxPageItems
	})
	return news
}

func articleDate(sel *goquery.Selection) string {
	if text := strings.TrimSpace(sel.Text()); text != "" {
		return formatDate(text)
	}
	if dt, ok := sel.Attr("datetime"); ok {
		return formatDate(dt)
	}
	return ""
}
