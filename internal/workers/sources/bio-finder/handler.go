// internal/workers/sources/bio-finder/handler.go
package biofinder

import (
	"context"
	"fmt"
	"strings"

	"prospect-enricher/internal/common/httpclient"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/search"
	"prospect-enricher/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const Source = models.SourceBio

// Searcher is the site-restricted web search used by the primary strategy.
type Searcher interface {
	Enabled() bool
	Search(ctx context.Context, q search.Query) ([]search.Result, error)
}

var directoryPages = []string{"/about/leadership", "/leadership", "/administration", "/directory", "/our-team"}

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
		logger: logger.Component(log, "bio-finder"),
	}
}

// Find returns the URL of the person's bio page on domain, or "" when every
// strategy comes up empty.
func (h *Handler) Find(ctx context.Context, name, domain string) (string, error) {
	name = strings.TrimSpace(name)
	domain = strings.TrimSpace(domain)
	if name == "" || domain == "" {
		return "", nil
	}

	if h.search != nil && h.search.Enabled() {
		if u := h.searchForBio(ctx, name, domain); u != "" {
			return u, nil
		}
	}
	if u := h.probeCommonURLs(ctx, name, domain); u != "" {
		return u, nil
	}
	if u := h.searchDirectoryPages(ctx, name, domain); u != "" {
		return u, nil
	}
	return "", ctx.Err()
}

func (h *Handler) searchForBio(ctx context.Context, name, domain string) string {
	results, err := h.search.Search(ctx, search.Query{
		Q:   fmt.Sprintf(`site:%s "%s"`, domain, name),
		Num: h.config.SearchResults,
	})
	if err != nil {
		h.logger.Debug("Bio search failed", map[string]interface{}{"domain": domain, "error": err.Error()})
		return ""
	}
	u, ranked := Rank(results, name)
	if u != "" && !ranked {
		h.logger.Debug("No bio candidate qualified, using first search result", map[string]interface{}{"url": u})
	}
	return u
}

// ProbePatterns lists the candidate bio paths for a person, in probe order.
func ProbePatterns(name string) []string {
	first, last := nameParts(name)
	if first == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("/about/leadership/%s-%s", first, last),
		fmt.Sprintf("/about/leadership/%s-%s", last, first),
		fmt.Sprintf("/leadership/%s-%s", first, last),
		fmt.Sprintf("/people/%s-%s", first, last),
		fmt.Sprintf("/faculty/%s-%s", first, last),
		fmt.Sprintf("/directory/%s-%s", first, last),
		fmt.Sprintf("/staff/%s-%s", first, last),
		fmt.Sprintf("/team/%s-%s", first, last),
		fmt.Sprintf("/%s-%s", first, last),
	}
}

func (h *Handler) probeCommonURLs(ctx context.Context, name, domain string) string {
	patterns := ProbePatterns(name)
	for _, base := range httpclient.BaseURLs(h.config.Scheme, domain, h.config.HostVariants) {
		for _, p := range patterns {
			if ctx.Err() != nil {
				return ""
			}
			probeCtx, cancel := context.WithTimeout(ctx, h.config.ProbeTimeout)
			final, ok := h.client.Exists(probeCtx, base+p)
			cancel()
			if ok {
				return final
			}
		}
	}
	return ""
}

func (h *Handler) searchDirectoryPages(ctx context.Context, name, domain string) string {
	first, last := nameParts(name)
	for _, base := range httpclient.BaseURLs(h.config.Scheme, domain, h.config.HostVariants) {
		for _, page := range directoryPages {
			if ctx.Err() != nil {
				return ""
			}
			if u := h.scanDirectory(ctx, base+page, first, last); u != "" {
				return u
			}
		}
	}
	return ""
}

// scanDirectory returns the first link on the page whose text holds both
// name tokens.
func (h *Handler) scanDirectory(ctx context.Context, pageURL, first, last string) string {
	ctx, cancel := context.WithTimeout(ctx, h.config.DirectoryTimeout)
	defer cancel()

	doc, _, err := h.client.FetchDocument(ctx, pageURL, h.config.BodyLimit)
	if err != nil {
		return ""
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := strings.ToLower(a.Text())
		if strings.Contains(text, first) && strings.Contains(text, last) {
			href, _ := a.Attr("href")
			found = httpclient.AbsoluteURL(href, pageURL)
			return false
		}
		return true
	})
	return found
}
