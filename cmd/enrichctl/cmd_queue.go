// cmd/enrichctl/cmd_queue.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prospect-enricher/internal/app"
	"prospect-enricher/internal/common/errors"
	"prospect-enricher/internal/models"
	enrichqueue "prospect-enricher/internal/workers/enrichment/enrich-queue"
)

var queueDryRun bool

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Run one batch over the configured CRM list",
	Long: `Runs the same batch the HTTP trigger runs, honouring the Redis run lock
when Redis is configured.`,
	RunE: runQueue,
}

func init() {
	queueCmd.Flags().BoolVar(&queueDryRun, "dry-run", false, "Enrich without writing summaries back")
}

func runQueue(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := buildApp(ctx, app.Options{DryRun: queueDryRun}, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Summarizer == nil {
		return errors.NewConfigInvalidError(fmt.Errorf("apis.genai.api_key is required"))
	}

	resp, err := a.Queue.Run(ctx)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), outputFormat, resp, queueText(resp))
}

func queueText(resp *enrichqueue.Response) string {
	if resp.Empty() {
		return resp.Message
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s: %d processed, %d failed in %ss\n", resp.RunID, resp.Processed, resp.Failed, resp.Time)
	for _, o := range resp.Outcomes {
		switch o.Status {
		case models.OutcomeEnriched:
			fmt.Fprintf(&b, "  + %s (%s) [%s]\n", o.Name, o.ID, strings.Join(o.Sources, ", "))
		case models.OutcomeFailed:
			fmt.Fprintf(&b, "  x %s (%s) %s\n", o.Name, o.ID, o.Error)
		default:
			fmt.Fprintf(&b, "  - %s (%s) %s\n", o.Name, o.ID, o.Status)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
