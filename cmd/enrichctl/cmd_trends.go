// cmd/enrichctl/cmd_trends.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prospect-enricher/internal/app"
	completiontrends "prospect-enricher/internal/workers/sources/completion-trends"
)

var trendsCmd = &cobra.Command{
	Use:   "trends <institution>",
	Short: "Print the completions trend report for an institution",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrends,
}

func runTrends(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := buildApp(ctx, app.Options{}, false)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Trends.Trends(ctx, args[0])
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("no completions data for %q", args[0])
	}
	return render(cmd.OutOrStdout(), outputFormat, report, completiontrends.FormatSummary(report, cfg.App.CompanyName))
}
