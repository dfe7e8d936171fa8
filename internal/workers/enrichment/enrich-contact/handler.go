// internal/workers/enrichment/enrich-contact/handler.go
package enrichcontact

import (
	"context"
	"strings"

	"prospect-enricher/internal/common/cache"
	"prospect-enricher/internal/common/errors"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/lookup"
	"prospect-enricher/internal/common/matcher"
	"prospect-enricher/internal/common/validation"
	"prospect-enricher/internal/models"
	"prospect-enricher/internal/workers/enrichment/summarize"
	newsfinder "prospect-enricher/internal/workers/sources/news-finder"

	"golang.org/x/sync/errgroup"
)

// scrapeSource labels the bio page fetch that follows a successful Find.
const scrapeSource = "BioPage"

// failedSummary is written when the model produced nothing to store.
const failedSummary = "Enrichment failed"

type Handler struct {
	config     *Config
	sources    Sources
	summarizer Summarizer
	crm        CRMWriter
	cache      *cache.Cache
	logger     logger.Logger
}

func NewHandler(config *Config, sources Sources, summarizer Summarizer, crm CRMWriter, c *cache.Cache, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		sources:    sources,
		summarizer: summarizer,
		crm:        crm,
		cache:      c,
		logger:     logger.Component(log, "enrich-contact"),
	}
}

// Enrich gathers, summarizes and persists one contact. Source failures only
// thin the bundle; summary and CRM failures are returned.
func (h *Handler) Enrich(ctx context.Context, contact models.Contact) (*Result, error) {
	name := contact.Name()
	if name == "" || strings.TrimSpace(contact.Company) == "" {
		return nil, errors.NewContactInvalidError("name and company are required")
	}
	log := h.logger.WithFields(map[string]interface{}{
		"contactId":   contact.ID,
		"institution": contact.Company,
	})

	bundle := h.Gather(ctx, contact)
	log.Info("Sources gathered", map[string]interface{}{"sources": bundle.Sources})

	if h.summarizer == nil {
		return &Result{Contact: contact, Bundle: bundle}, nil
	}
	summary, err := h.summarizer.Summarize(ctx, summarize.Input{
		Name:        name,
		Title:       contact.Title,
		Institution: contact.Company,
		Bundle:      bundle,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Contact: contact, Bundle: bundle, Summary: summary}
	if h.config.DryRun || h.crm == nil {
		return result, nil
	}

	text := summary.ResearchSummary
	if strings.TrimSpace(text) == "" {
		text = failedSummary
	}
	if err := h.crm.UpdateResearchSummary(ctx, contact.ID, text); err != nil {
		return nil, err
	}
	result.Written = true
	log.Info("CRM record updated", map[string]interface{}{"confidence": summary.DataQuality.Confidence})
	return result, nil
}

// Gather fans the five lookups out concurrently, then scrapes the bio page
// if one was found. Every lookup is time boxed and degrades to absent.
func (h *Handler) Gather(ctx context.Context, contact models.Contact) *models.EnrichmentBundle {
	name := contact.Name()
	institution := strings.TrimSpace(contact.Company)
	log := h.logger.WithFields(map[string]interface{}{"contactId": contact.ID})
	domain := ""
	if validation.ValidateEmail(contact.Email) {
		domain = contact.Domain()
	} else if contact.Email != "" {
		log.Warn("Malformed email, skipping domain lookups", map[string]interface{}{"email": contact.Email})
	}

	b := &models.EnrichmentBundle{}
	var bioURL string

	// Lookups never return errors so one failure cannot cancel the rest.
	var g errgroup.Group

	if src := h.sources.Stats; src != nil {
		g.Go(func() error {
			b.Stats, _ = lookup.OrAbsent(ctx, log, models.SourceIPEDS, h.config.StatsTimeout,
				func(ctx context.Context) (*models.InstitutionStats, error) {
					return cache.Through(ctx, h.cache, "stats:"+matcher.Normalize(institution),
						func(ctx context.Context) (*models.InstitutionStats, error) {
							return src.Lookup(ctx, institution)
						})
				})
			return nil
		})
	}

	if src := h.sources.Trends; src != nil {
		g.Go(func() error {
			b.Trends, _ = lookup.OrAbsent(ctx, log, models.SourceCompletions, h.config.CompletionsTimeout,
				func(ctx context.Context) (*models.TrendReport, error) {
					return src.Trends(ctx, institution)
				})
			return nil
		})
	}

	if src := h.sources.Author; src != nil {
		g.Go(func() error {
			b.Author, _ = lookup.OrAbsent(ctx, log, models.SourceScholar, h.config.AuthorTimeout,
				func(ctx context.Context) (*models.AuthorProfile, error) {
					return src.Lookup(ctx, name, institution)
				})
			return nil
		})
	}

	if src := h.sources.News; src != nil && domain != "" {
		g.Go(func() error {
			b.News, _ = lookup.OrAbsent(ctx, log, models.SourceNews, h.config.NewsTimeout,
				func(ctx context.Context) ([]models.NewsItem, error) {
					return cache.ThroughIf(ctx, h.cache, "news:"+domain,
						func(ctx context.Context) ([]models.NewsItem, error) {
							return src.Find(ctx, institution, domain), nil
						}, newsfinder.Settled)
				})
			return nil
		})
	}

	if src := h.sources.Bio; src != nil && domain != "" {
		g.Go(func() error {
			bioURL, _ = lookup.OrAbsent(ctx, log, models.SourceBio, h.config.BioTimeout,
				func(ctx context.Context) (string, error) {
					return src.Find(ctx, name, domain)
				})
			return nil
		})
	}

	_ = g.Wait()

	if bioURL != "" {
		page, ok := lookup.OrAbsent(ctx, log, scrapeSource, h.config.ScrapeTimeout,
			func(ctx context.Context) (*models.BioPage, error) {
				return h.sources.Bio.Scrape(ctx, bioURL, name)
			})
		if ok && page.Content != "" {
			b.Bio = page
			b.BioURL = bioURL
		}
	}

	b.CollectSources()
	return b
}
