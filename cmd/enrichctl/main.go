// cmd/enrichctl/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"prospect-enricher/internal/app"
	"prospect-enricher/internal/common/cache"
	"prospect-enricher/internal/common/config"
	"prospect-enricher/internal/common/logger"
)

var (
	// Global flags
	configPath   string
	outputFormat string
	logLevel     string
	timeout      time.Duration

	cfg *config.Config
	log logger.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "enrichctl",
	Short: "Operate the prospect enrichment pipeline by hand",
	Long: `enrichctl runs the enrichment components outside the HTTP trigger.

Available subcommands:
  contact - enrich one contact and print the research summary
  trends  - print the completions trend report for an institution
  news    - print recent news for an institution
  queue   - run one batch over the configured CRM list`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := checkOutputFormat(outputFormat); err != nil {
			return err
		}
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		// Logs go to stderr so command output can be piped.
		log = logger.NewStructured(cfg.Logging.Level, "console", "stderr")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatText, "Output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Minute, "Operation timeout")

	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(queueCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildApp wires the components. Redis is connected only when asked for and
// configured.
func buildApp(ctx context.Context, opts app.Options, withRedis bool) (*app.App, error) {
	if withRedis && cfg.Database.Redis.Address != "" {
		rdb, err := cache.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, err
		}
		if err := rdb.Ping(ctx); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("redis unavailable: %w", err)
		}
		opts.Redis = rdb
	}
	return app.Build(cfg, log, opts), nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}
