// internal/workers/sources/institution-stats/config.go
package institutionstats

import "time"

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// PerPage bounds how many Scorecard rows are considered per lookup.
	PerPage int
}

func LoadConfig() *Config {
	return &Config{
		BaseURL: "https://api.data.gov/ed/collegescorecard/v1/schools",
		APIKey:  "DEMO_KEY",
		Timeout: 6 * time.Second,
		PerPage: 5,
	}
}
