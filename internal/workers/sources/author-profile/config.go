// internal/workers/sources/author-profile/config.go
package authorprofile

import "time"

type Config struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	TopicsTimeout time.Duration
	MaxTopics     int
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:       "https://api.semanticscholar.org/graph/v1",
		UserAgent:     "AllCampus-Enrichment/1.0",
		Timeout:       6 * time.Second,
		TopicsTimeout: 4 * time.Second,
		MaxTopics:     5,
	}
}
