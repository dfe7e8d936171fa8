// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (plus config.<env>.yaml when present),
// applies environment overrides and defaults, and validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env", "../../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

func setIfEmpty(dst *string, envNames ...string) {
	if *dst != "" {
		return
	}
	for _, name := range envNames {
		if val := os.Getenv(name); val != "" {
			*dst = val
			return
		}
	}
}

// overrideEmptyConfig fills credentials from their conventional env names.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Integrations.HubSpot.AccessToken, "HUBSPOT_ACCESS_TOKEN")
	setIfEmpty(&cfg.Batch.ListID, "HUBSPOT_LIST_ID")
	setIfEmpty(&cfg.APIs.GenAI.APIKey, "OPENAI_API_KEY", "GENAI_API_KEY")
	setIfEmpty(&cfg.APIs.WebSearch.APIKey, "GOOGLE_API_KEY", "WEB_SEARCH_API_KEY")
	setIfEmpty(&cfg.APIs.WebSearch.EngineID, "GOOGLE_CSE_ID", "WEB_SEARCH_ENGINE_ID")
	setIfEmpty(&cfg.Sources.InstitutionStats.APIKey, "DATA_GOV_API_KEY")
	setIfEmpty(&cfg.Database.Redis.Address, "REDIS_URL", "REDIS_ADDRESS")
	setIfEmpty(&cfg.Server.CronSecret, "CRON_SECRET")
}

func defaultInt(dst *int, val int) {
	if *dst == 0 {
		*dst = val
	}
}

func defaultString(dst *string, val string) {
	if *dst == "" {
		*dst = val
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	defaultString(&cfg.App.Name, "prospect-enricher")
	defaultString(&cfg.App.Environment, "development")
	defaultString(&cfg.App.CompanyName, "AllCampus")

	defaultInt(&cfg.Server.Port, 8080)
	defaultInt(&cfg.Server.MaxDuration, 800000)
	defaultInt(&cfg.Server.ReadTimeout, 10000)
	defaultString(&cfg.Server.TriggerRoute, "/api/cron/enrich-queue")

	defaultString(&cfg.Batch.ListID, "1241")
	defaultInt(&cfg.Batch.Size, 8)
	defaultInt(&cfg.Batch.TimeBudget, 300000)
	defaultInt(&cfg.Batch.LockTTL, 900000)

	s := &cfg.Sources
	defaultString(&s.Scheme, "https")
	defaultString(&s.InstitutionStats.BaseURL, "https://api.data.gov/ed/collegescorecard/v1/schools")
	defaultString(&s.InstitutionStats.APIKey, "DEMO_KEY")
	defaultInt(&s.InstitutionStats.Timeout, 6000)
	defaultString(&s.Completions.CSVPath, "data/completions.csv")
	defaultInt(&s.Completions.Timeout, 6000)
	defaultString(&s.AuthorProfile.BaseURL, "https://api.semanticscholar.org/graph/v1")
	defaultString(&s.AuthorProfile.UserAgent, "AllCampus-Enrichment/1.0")
	defaultInt(&s.AuthorProfile.Timeout, 6000)
	defaultInt(&s.AuthorProfile.TopicsTimeout, 4000)
	defaultInt(&s.News.Timeout, 8000)
	defaultInt(&s.News.FetchTimeout, 4000)
	if s.News.FeedBodyLimit == 0 {
		s.News.FeedBodyLimit = 200 * 1024
	}
	if s.News.PageBodyLimit == 0 {
		s.News.PageBodyLimit = 300 * 1024
	}
	if len(s.News.HostVariants) == 0 {
		s.News.HostVariants = []string{"", "www."}
	}
	defaultInt(&s.Bio.Timeout, 10000)
	defaultInt(&s.Bio.ScrapeTimeout, 5000)
	defaultInt(&s.Bio.ProbeTimeout, 2000)
	defaultInt(&s.Bio.DirectoryTimeout, 4000)
	if s.Bio.BodyLimit == 0 {
		s.Bio.BodyLimit = 500 * 1024
	}
	if len(s.Bio.HostVariants) == 0 {
		s.Bio.HostVariants = []string{"", "www."}
	}

	defaultInt(&cfg.Cache.TTL, 6*60*60*1000)
	defaultString(&cfg.Cache.Prefix, "enrich:")

	defaultString(&cfg.Integrations.HubSpot.BaseURL, "https://api.hubapi.com")
	defaultString(&cfg.Integrations.HubSpot.SummaryProperty, "prospect_research_summary")
	defaultInt(&cfg.Integrations.HubSpot.Timeout, 10000)

	defaultString(&cfg.APIs.GenAI.BaseURL, "https://api.openai.com/v1")
	defaultString(&cfg.APIs.GenAI.Model, "gpt-5.1")
	defaultInt(&cfg.APIs.GenAI.MaxTokens, 6000)
	defaultInt(&cfg.APIs.GenAI.Timeout, 120000)
	defaultString(&cfg.APIs.WebSearch.BaseURL, "https://www.googleapis.com/customsearch/v1")
	defaultInt(&cfg.APIs.WebSearch.Timeout, 5000)

	defaultString(&cfg.Logging.Level, "info")
	defaultString(&cfg.Logging.Format, "json")
	defaultString(&cfg.Logging.Output, "stdout")
}

// validateConfig rejects values no component can run with. Credentials are
// checked by the components that need them.
func validateConfig(cfg *Config) error {
	if cfg.Batch.Size < 1 {
		return fmt.Errorf("batch.size must be positive, got %d", cfg.Batch.Size)
	}
	if cfg.Batch.TimeBudget < 0 {
		return fmt.Errorf("batch.time_budget must not be negative")
	}
	if cfg.Batch.ListID == "" {
		return fmt.Errorf("batch.list_id is required")
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format)
	}
	if cfg.Cache.Enabled && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("cache.enabled requires database.redis.address")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
