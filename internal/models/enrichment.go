// internal/models/enrichment.go
package models

// Source names as they appear in bundles and data-quality reports.
const (
	SourceIPEDS       = "IPEDS"
	SourceCompletions = "Completions"
	SourceScholar     = "Scholar"
	SourceNews        = "News"
	SourceBio         = "Bio"
)

// InstitutionStats is the College Scorecard view of one institution.
type InstitutionStats struct {
	Name     string `json:"name"`
	Location struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"location"`
	Type       string `json:"type"`
	Enrollment struct {
		Total    *int `json:"total"`
		Graduate *int `json:"graduate"`
	} `json:"enrollment"`
	Admissions struct {
		AcceptanceRate *float64 `json:"acceptanceRate"`
	} `json:"admissions"`
	Cost struct {
		InState    *int `json:"inState"`
		OutOfState *int `json:"outOfState"`
	} `json:"cost"`
}

// AuthorProfile is the citation profile of a disambiguated author.
type AuthorProfile struct {
	Name      string   `json:"name"`
	AuthorID  string   `json:"authorId"`
	Citations int      `json:"citations"`
	HIndex    int      `json:"hIndex"`
	Papers    int      `json:"papers"`
	Topics    []string `json:"topics"`
}

// NewsItem source tags.
const (
	NewsSourceRSS     = "RSS"
	NewsSourceWebsite = "Website"
	NewsSourceSearch  = "Google"
)

type NewsItem struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary,omitempty"`
	Date     string `json:"date,omitempty"`
	URL      string `json:"url,omitempty"`
	Source   string `json:"source"`
}

// BioPage is the scraped content of a personal profile page.
type BioPage struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Education  string `json:"education,omitempty"`
	Experience string `json:"experience,omitempty"`
}

// EnrichmentBundle collects whatever each source returned for one contact.
// Nil fields are absent sources.
type EnrichmentBundle struct {
	Stats   *InstitutionStats `json:"ipeds,omitempty"`
	Trends  *TrendReport      `json:"completions,omitempty"`
	Author  *AuthorProfile    `json:"scholar,omitempty"`
	News    []NewsItem        `json:"news,omitempty"`
	Bio     *BioPage          `json:"bio,omitempty"`
	BioURL  string            `json:"bioUrl,omitempty"`
	Sources []string          `json:"sources"`
}

// CollectSources lists the present sources in their fixed order.
func (b *EnrichmentBundle) CollectSources() []string {
	sources := make([]string, 0, 5)
	if b.Stats != nil {
		sources = append(sources, SourceIPEDS)
	}
	if b.Trends != nil {
		sources = append(sources, SourceCompletions)
	}
	if b.Author != nil {
		sources = append(sources, SourceScholar)
	}
	if len(b.News) > 0 {
		sources = append(sources, SourceNews)
	}
	if b.Bio != nil {
		sources = append(sources, SourceBio)
	}
	b.Sources = sources
	return sources
}

// CandidateMatch is a scored candidate within one disambiguation call.
type CandidateMatch[T any] struct {
	Candidate T        `json:"candidate"`
	Score     int      `json:"score"`
	Reasons   []string `json:"reasons,omitempty"`
}
