// internal/workers/sources/bio-finder/config.go
package biofinder

import "time"

type Config struct {
	// Scheme and HostVariants build the base URLs probed for a domain.
	Scheme       string
	HostVariants []string

	Timeout          time.Duration
	ScrapeTimeout    time.Duration
	ProbeTimeout     time.Duration
	DirectoryTimeout time.Duration
	BodyLimit        int64
	SearchResults    int
}

func LoadConfig() *Config {
	return &Config{
		Scheme:           "https",
		HostVariants:     []string{"", "www."},
		Timeout:          10 * time.Second,
		ScrapeTimeout:    5 * time.Second,
		ProbeTimeout:     2 * time.Second,
		DirectoryTimeout: 4 * time.Second,
		BodyLimit:        500_000,
		SearchResults:    5,
	}
}
