// internal/app/app.go
package app

import (
	"context"
	"time"

	"prospect-enricher/internal/common/cache"
	"prospect-enricher/internal/common/config"
	"prospect-enricher/internal/common/hubspot"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/observability"
	"prospect-enricher/internal/common/search"
	enrichcontact "prospect-enricher/internal/workers/enrichment/enrich-contact"
	enrichqueue "prospect-enricher/internal/workers/enrichment/enrich-queue"
	"prospect-enricher/internal/workers/enrichment/summarize"
	authorprofile "prospect-enricher/internal/workers/sources/author-profile"
	biofinder "prospect-enricher/internal/workers/sources/bio-finder"
	completiontrends "prospect-enricher/internal/workers/sources/completion-trends"
	institutionstats "prospect-enricher/internal/workers/sources/institution-stats"
	newsfinder "prospect-enricher/internal/workers/sources/news-finder"
)

// Options are the per-binary switches that are not part of the config file.
type Options struct {
	// Redis is an already-connected client; nil disables the cache and run lock.
	Redis *cache.RedisClient
	Obs   *observability.Observability
	// DryRun skips CRM writes.
	DryRun bool
}

// App holds every component both binaries need. CRM and Summarizer are nil
// when their credentials are missing.
type App struct {
	Config *config.Config
	Logger logger.Logger

	Redis *cache.RedisClient
	Cache *cache.Cache
	Lock  *cache.RunLock

	Search     *search.Client
	Stats      *institutionstats.Handler
	Trends     *completiontrends.Handler
	Author     *authorprofile.Handler
	News       *newsfinder.Handler
	Bio        *biofinder.Handler
	Summarizer *summarize.Handler
	CRM        *hubspot.CRMClient

	Contact *enrichcontact.Handler
	Queue   *enrichqueue.Handler
}

// Build wires the components described by cfg.
func Build(cfg *config.Config, log logger.Logger, opts Options) *App {
	a := &App{Config: cfg, Logger: log, Redis: opts.Redis}
	s := cfg.Sources

	if opts.Redis != nil {
		a.Lock = cache.NewRunLock(opts.Redis.Client, cfg.Cache.Prefix+"lock:"+cfg.Batch.ListID, config.GetDuration(cfg.Batch.LockTTL))
		if cfg.Cache.Enabled {
			a.Cache = cache.New(opts.Redis.Client, cfg.Cache.Prefix, config.GetDuration(cfg.Cache.TTL), logger.Component(log, "cache"))
		}
	}

	a.Search = search.NewClient(&search.Config{
		BaseURL:  cfg.APIs.WebSearch.BaseURL,
		APIKey:   cfg.APIs.WebSearch.APIKey,
		EngineID: cfg.APIs.WebSearch.EngineID,
		Timeout:  config.GetDuration(cfg.APIs.WebSearch.Timeout),
	}, nil)
	if !a.Search.Enabled() {
		log.Warn("Web search not configured, search-backed strategies disabled", nil)
	}

	statsCfg := institutionstats.LoadConfig()
	statsCfg.BaseURL = s.InstitutionStats.BaseURL
	statsCfg.APIKey = s.InstitutionStats.APIKey
	statsCfg.Timeout = config.GetDuration(s.InstitutionStats.Timeout)
	a.Stats = institutionstats.NewHandler(statsCfg, nil, log)

	trendsCfg := completiontrends.LoadConfig()
	trendsCfg.CSVPath = s.Completions.CSVPath
	trendsCfg.Timeout = config.GetDuration(s.Completions.Timeout)
	trendsCfg.CompanyName = cfg.App.CompanyName
	a.Trends = completiontrends.NewHandler(trendsCfg, nil, log)

	authorCfg := authorprofile.LoadConfig()
	authorCfg.BaseURL = s.AuthorProfile.BaseURL
	authorCfg.UserAgent = s.AuthorProfile.UserAgent
	authorCfg.Timeout = config.GetDuration(s.AuthorProfile.Timeout)
	authorCfg.TopicsTimeout = config.GetDuration(s.AuthorProfile.TopicsTimeout)
	a.Author = authorprofile.NewHandler(authorCfg, nil, log)

	newsCfg := newsfinder.LoadConfig()
	newsCfg.Scheme = s.Scheme
	newsCfg.HostVariants = s.News.HostVariants
	newsCfg.Timeout = config.GetDuration(s.News.Timeout)
	newsCfg.FetchTimeout = config.GetDuration(s.News.FetchTimeout)
	newsCfg.FeedLimit = s.News.FeedBodyLimit
	newsCfg.PageLimit = s.News.PageBodyLimit
	a.News = newsfinder.NewHandler(newsCfg, nil, a.Search, log)

	bioCfg := biofinder.LoadConfig()
	bioCfg.Scheme = s.Scheme
	bioCfg.HostVariants = s.Bio.HostVariants
	bioCfg.Timeout = config.GetDuration(s.Bio.Timeout)
	bioCfg.ScrapeTimeout = config.GetDuration(s.Bio.ScrapeTimeout)
	bioCfg.ProbeTimeout = config.GetDuration(s.Bio.ProbeTimeout)
	bioCfg.DirectoryTimeout = config.GetDuration(s.Bio.DirectoryTimeout)
	bioCfg.BodyLimit = s.Bio.BodyLimit
	a.Bio = biofinder.NewHandler(bioCfg, nil, a.Search, log)

	sumCfg := summarize.LoadConfig()
	sumCfg.BaseURL = cfg.APIs.GenAI.BaseURL
	sumCfg.APIKey = cfg.APIs.GenAI.APIKey
	sumCfg.Model = cfg.APIs.GenAI.Model
	sumCfg.MaxTokens = cfg.APIs.GenAI.MaxTokens
	sumCfg.Timeout = config.GetDuration(cfg.APIs.GenAI.Timeout)
	sumCfg.CompanyName = cfg.App.CompanyName
	if h, err := summarize.NewHandler(sumCfg, nil, log); err != nil {
		log.Warn("Summarizer disabled", map[string]interface{}{"error": err.Error()})
	} else {
		a.Summarizer = h
	}

	hs := cfg.Integrations.HubSpot
	if crm, err := hubspot.NewCRMClient(hubspot.Config{
		BaseURL:         hs.BaseURL,
		AccessToken:     hs.AccessToken,
		SummaryProperty: hs.SummaryProperty,
		Timeout:         config.GetDuration(hs.Timeout),
	}); err != nil {
		log.Warn("CRM disabled", map[string]interface{}{"error": err.Error()})
	} else {
		a.CRM = crm
	}

	a.Contact = a.buildContact(opts.DryRun)
	a.Queue = a.buildQueue(opts.Obs)
	return a
}

func (a *App) buildContact(dryRun bool) *enrichcontact.Handler {
	s := a.Config.Sources
	cfg := enrichcontact.LoadConfig()
	cfg.StatsTimeout = config.GetDuration(s.InstitutionStats.Timeout)
	cfg.CompletionsTimeout = config.GetDuration(s.Completions.Timeout)
	cfg.AuthorTimeout = config.GetDuration(s.AuthorProfile.Timeout)
	cfg.NewsTimeout = config.GetDuration(s.News.Timeout)
	cfg.BioTimeout = config.GetDuration(s.Bio.Timeout)
	cfg.ScrapeTimeout = config.GetDuration(s.Bio.ScrapeTimeout)
	cfg.DryRun = dryRun

	// Interfaces are only assigned when the concrete client exists so that a
	// missing component stays a nil interface.
	var summarizer enrichcontact.Summarizer
	if a.Summarizer != nil {
		summarizer = a.Summarizer
	}
	var crm enrichcontact.CRMWriter
	if a.CRM != nil {
		crm = a.CRM
	}

	sources := enrichcontact.Sources{
		Stats:  a.Stats,
		Trends: a.Trends,
		Author: a.Author,
		News:   a.News,
		Bio:    a.Bio,
	}
	return enrichcontact.NewHandler(cfg, sources, summarizer, crm, a.Cache, a.Logger)
}

func (a *App) buildQueue(obs *observability.Observability) *enrichqueue.Handler {
	cfg := enrichqueue.LoadConfig()
	cfg.ListID = a.Config.Batch.ListID
	cfg.BatchSize = a.Config.Batch.Size
	cfg.TimeBudget = config.GetDuration(a.Config.Batch.TimeBudget)
	cfg.MaxDuration = config.GetDuration(a.Config.Server.MaxDuration)
	cfg.CronSecret = a.Config.Server.CronSecret
	cfg.TriggerRoute = a.Config.Server.TriggerRoute

	var contacts enrichqueue.ContactSource
	if a.CRM != nil {
		contacts = a.CRM
	}
	var lock enrichqueue.Locker
	if a.Lock != nil {
		lock = a.Lock
	}
	return enrichqueue.NewHandler(cfg, contacts, a.Contact, lock, obs, a.Logger)
}

// Ready pings Redis when one is configured.
func (a *App) Ready(ctx context.Context) error {
	if a.Redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return a.Redis.Ping(ctx)
}

// Close releases the Redis connection.
func (a *App) Close() error {
	if a.Redis == nil {
		return nil
	}
	return a.Redis.Close()
}
