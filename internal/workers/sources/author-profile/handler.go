// internal/workers/sources/author-profile/handler.go
package authorprofile

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"prospect-enricher/internal/common/httpclient"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/models"
)

const Source = models.SourceScholar

type Handler struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *httpclient.Client, log logger.Logger) *Handler {
	if client == nil {
		client = httpclient.NewClient(config.Timeout, config.UserAgent)
	}
	return &Handler{
		config: config,
		client: client,
		logger: logger.Component(log, "author-profile"),
	}
}

// Lookup searches for the person, disambiguates by name and institution and
// adds research topics. It returns nil when no candidate is convincing.
func (h *Handler) Lookup(ctx context.Context, name, institution string) (*models.AuthorProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s/author/search?query=%s&fields=name,affiliations,paperCount,citationCount,hIndex",
		h.config.BaseURL, url.QueryEscape(name))

	var resp searchResponse
	if err := h.client.GetJSON(ctx, searchURL, h.headers(), &resp); err != nil {
		return nil, fmt.Errorf("author search failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}

	match, ok := BestMatch(resp.Data, name, institution)
	if !ok {
		h.logger.Debug("No author candidate reached the score threshold", map[string]interface{}{
			"name":       name,
			"candidates": len(resp.Data),
		})
		return nil, nil
	}

	author := match.Candidate
	h.logger.Debug("Author disambiguated", map[string]interface{}{
		"authorId": author.AuthorID,
		"score":    match.Score,
		"reasons":  match.Reasons,
	})

	return &models.AuthorProfile{
		Name:      author.Name,
		AuthorID:  author.AuthorID,
		Citations: author.CitationCount,
		HIndex:    author.HIndex,
		Papers:    author.PaperCount,
		Topics:    h.topics(ctx, author.AuthorID),
	}, nil
}

// topics ranks fields of study by paper count. Failure yields no topics.
func (h *Handler) topics(ctx context.Context, authorID string) []string {
	if authorID == "" {
		return []string{}
	}
	ctx, cancel := context.WithTimeout(ctx, h.config.TopicsTimeout)
	defer cancel()

	topicsURL := fmt.Sprintf("%s/author/%s?fields=papers.fieldsOfStudy", h.config.BaseURL, url.PathEscape(authorID))
	var resp papersResponse
	if err := h.client.GetJSON(ctx, topicsURL, h.headers(), &resp); err != nil {
		h.logger.Debug("Author topics unavailable", map[string]interface{}{
			"authorId": authorID,
			"error":    err.Error(),
		})
		return []string{}
	}

	counts := make(map[string]int)
	for _, p := range resp.Papers {
		for _, f := range p.FieldsOfStudy {
			counts[f]++
		}
	}
	return TopTopics(counts, h.config.MaxTopics)
}

// TopTopics orders by count descending, then alphabetically.
func TopTopics(counts map[string]int, n int) []string {
	topics := make([]string, 0, len(counts))
	for t := range counts {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if counts[topics[i]] != counts[topics[j]] {
			return counts[topics[i]] > counts[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if n > 0 && len(topics) > n {
		topics = topics[:n]
	}
	return topics
}

func (h *Handler) headers() map[string]string {
	return map[string]string{"User-Agent": h.config.UserAgent}
}
