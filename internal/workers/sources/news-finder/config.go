// internal/workers/sources/news-finder/config.go
package newsfinder

import "time"

type Config struct {
	Scheme       string
	HostVariants []string

	Timeout       time.Duration
	FetchTimeout  time.Duration
	FeedLimit     int64
	PageLimit     int64
	SearchResults int
}

func LoadConfig() *Config {
	return &Config{
		Scheme:        "https",
		HostVariants:  []string{"", "www."},
		Timeout:       8 * time.Second,
		FetchTimeout:  4 * time.Second,
		FeedLimit:     200_000,
		PageLimit:     300_000,
		SearchResults: 5,
	}
}
