// internal/workers/enrichment/enrich-queue/config.go
package enrichqueue

import "time"

type Config struct {
	ListID       string
	BatchSize    int
	TimeBudget   time.Duration
	MaxDuration  time.Duration
	CronSecret   string
	TriggerRoute string
}

func LoadConfig() *Config {
	return &Config{
		ListID:       "1241",
		BatchSize:    8,
		TimeBudget:   5 * time.Minute,
		MaxDuration:  800 * time.Second,
		TriggerRoute: "/api/cron/enrich-queue",
	}
}
