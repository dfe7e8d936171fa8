// internal/workers/sources/completion-trends/config.go
package completiontrends

import "time"

type Config struct {
	CSVPath string
	Timeout time.Duration
	// CompanyName is used in the sales-insight line of the summary.
	CompanyName string
}

func LoadConfig() *Config {
	return &Config{
		CSVPath:     "data/completions.csv",
		Timeout:     6 * time.Second,
		CompanyName: "AllCampus",
	}
}
