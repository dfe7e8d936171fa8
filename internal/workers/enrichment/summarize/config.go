// internal/workers/enrichment/summarize/config.go
package summarize

import "time"

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Timeout     time.Duration
	CompanyName string
}

func LoadConfig() *Config {
	return &Config{
		BaseURL:     "https://api.openai.com/v1",
		Model:       "gpt-5.1",
		MaxTokens:   6000,
		Timeout:     120 * time.Second,
		CompanyName: "AllCampus",
	}
}
