// internal/workers/enrichment/enrich-contact/models.go
package enrichcontact

import (
	"context"

	"prospect-enricher/internal/models"
	"prospect-enricher/internal/workers/enrichment/summarize"
)

type StatsSource interface {
	Lookup(ctx context.Context, institution string) (*models.InstitutionStats, error)
}

type TrendsSource interface {
	Trends(ctx context.Context, institution string) (*models.TrendReport, error)
}

type AuthorSource interface {
	Lookup(ctx context.Context, name, institution string) (*models.AuthorProfile, error)
}

type NewsSource interface {
	Find(ctx context.Context, institution, domain string) []models.NewsItem
}

type BioSource interface {
	Find(ctx context.Context, name, domain string) (string, error)
	Scrape(ctx context.Context, pageURL, name string) (*models.BioPage, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, input summarize.Input) (*summarize.Summary, error)
}

type CRMWriter interface {
	UpdateResearchSummary(ctx context.Context, contactID, summary string) error
}

// Sources groups the lookups fanned out per contact. A nil source is
// treated as always absent.
type Sources struct {
	Stats  StatsSource
	Trends TrendsSource
	Author AuthorSource
	News   NewsSource
	Bio    BioSource
}

// Result is the outcome of one successful enrichment.
type Result struct {
	Contact models.Contact           `json:"contact"`
	Bundle  *models.EnrichmentBundle `json:"bundle"`
	Summary *summarize.Summary       `json:"summary"`
	Written bool                     `json:"written"`
}
