// internal/workers/enrichment/enrich-contact/config.go
package enrichcontact

import "time"

// Config holds the per-source time boxes.
type Config struct {
	StatsTimeout       time.Duration
	CompletionsTimeout time.Duration
	AuthorTimeout      time.Duration
	NewsTimeout        time.Duration
	BioTimeout         time.Duration
	ScrapeTimeout      time.Duration
	// DryRun skips the CRM write.
	DryRun bool
}

func LoadConfig() *Config {
	return &Config{
		StatsTimeout:       6 * time.Second,
		CompletionsTimeout: 6 * time.Second,
		AuthorTimeout:      6 * time.Second,
		NewsTimeout:        8 * time.Second,
		BioTimeout:         10 * time.Second,
		ScrapeTimeout:      5 * time.Second,
	}
}
