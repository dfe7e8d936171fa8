// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig         `mapstructure:"app"`
	Server       ServerConfig      `mapstructure:"server"`
	Batch        BatchConfig       `mapstructure:"batch"`
	Sources      SourcesConfig     `mapstructure:"sources"`
	Database     DatabaseConfig    `mapstructure:"database"`
	Cache        CacheConfig       `mapstructure:"cache"`
	Integrations IntegrationConfig `mapstructure:"integrations"`
	APIs         APIsConfig        `mapstructure:"apis"`
	Logging      LoggingConfig     `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	CompanyName string `mapstructure:"company_name"`
}

// ServerConfig configures the HTTP trigger process.
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	CronSecret   string `mapstructure:"cron_secret"`
	MaxDuration  int    `mapstructure:"max_duration"` // milliseconds
	ReadTimeout  int    `mapstructure:"read_timeout"` // milliseconds
	TriggerRoute string `mapstructure:"trigger_route"`
}

// BatchConfig bounds one enrichment run.
type BatchConfig struct {
	ListID     string `mapstructure:"list_id"`
	Size       int    `mapstructure:"size"`
	TimeBudget int    `mapstructure:"time_budget"` // milliseconds
	LockTTL    int    `mapstructure:"lock_ttl"`    // milliseconds
}

// SourcesConfig holds the per-source lookup timeouts and endpoints.
type SourcesConfig struct {
	InstitutionStats struct {
		BaseURL string `mapstructure:"base_url"`
		APIKey  string `mapstructure:"api_key"`
		Timeout int    `mapstructure:"timeout"`
	} `mapstructure:"institution_stats"`

	Completions struct {
		CSVPath string `mapstructure:"csv_path"`
		Timeout int    `mapstructure:"timeout"`
	} `mapstructure:"completions"`

	AuthorProfile struct {
		BaseURL       string `mapstructure:"base_url"`
		UserAgent     string `mapstructure:"user_agent"`
		Timeout       int    `mapstructure:"timeout"`
		TopicsTimeout int    `mapstructure:"topics_timeout"`
	} `mapstructure:"author_profile"`

	News struct {
		Timeout       int      `mapstructure:"timeout"`
		FetchTimeout  int      `mapstructure:"fetch_timeout"`
		FeedBodyLimit int64    `mapstructure:"feed_body_limit"`
		PageBodyLimit int64    `mapstructure:"page_body_limit"`
		HostVariants  []string `mapstructure:"host_variants"`
	} `mapstructure:"news"`

	Bio struct {
		Timeout          int      `mapstructure:"timeout"`
		ScrapeTimeout    int      `mapstructure:"scrape_timeout"`
		ProbeTimeout     int      `mapstructure:"probe_timeout"`
		DirectoryTimeout int      `mapstructure:"directory_timeout"`
		BodyLimit        int64    `mapstructure:"body_limit"`
		HostVariants     []string `mapstructure:"host_variants"`
	} `mapstructure:"bio"`

	Scheme string `mapstructure:"scheme"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls the institution-level read-through cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	TTL     int    `mapstructure:"ttl"` // milliseconds
	Prefix  string `mapstructure:"prefix"`
}

// IntegrationConfig holds CRM settings.
type IntegrationConfig struct {
	HubSpot struct {
		BaseURL         string `mapstructure:"base_url"`
		AccessToken     string `mapstructure:"access_token"`
		SummaryProperty string `mapstructure:"summary_property"`
		Timeout         int    `mapstructure:"timeout"`
	} `mapstructure:"hubspot"`
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI struct {
		BaseURL   string `mapstructure:"base_url"`
		APIKey    string `mapstructure:"api_key"`
		Model     string `mapstructure:"model"`
		MaxTokens int    `mapstructure:"max_tokens"`
		Timeout   int    `mapstructure:"timeout"`
	} `mapstructure:"genai"`

	WebSearch struct {
		BaseURL  string `mapstructure:"base_url"`
		APIKey   string `mapstructure:"api_key"`
		EngineID string `mapstructure:"engine_id"`
		Timeout  int    `mapstructure:"timeout"`
	} `mapstructure:"web_search"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
