// cmd/enrichctl/cmd_contact.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prospect-enricher/internal/app"
	"prospect-enricher/internal/models"
	"prospect-enricher/internal/workers/enrichment/summarize"
)

var (
	contact      models.Contact
	writeSummary bool
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Enrich one contact and print the research summary",
	Long: `Gathers every source for one contact and, when a model API key is
configured, prints the strategic summary. Without a key the model context is
printed instead. Nothing is written to the CRM unless --write is given.`,
	RunE: runContact,
}

func init() {
	f := contactCmd.Flags()
	f.StringVar(&contact.FirstName, "first", "", "First name (required)")
	f.StringVar(&contact.LastName, "last", "", "Last name")
	f.StringVar(&contact.Company, "company", "", "Institution name (required)")
	f.StringVar(&contact.Email, "email", "", "Email address; its domain drives the news and bio lookups")
	f.StringVar(&contact.Title, "title", "", "Job title")
	f.StringVar(&contact.ID, "id", "", "CRM contact id, required with --write")
	f.BoolVar(&writeSummary, "write", false, "Write the summary to the CRM contact")
	_ = contactCmd.MarkFlagRequired("first")
	_ = contactCmd.MarkFlagRequired("company")
}

func runContact(cmd *cobra.Command, args []string) error {
	if writeSummary && contact.ID == "" {
		return fmt.Errorf("--write needs --id")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := buildApp(ctx, app.Options{DryRun: !writeSummary}, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if writeSummary && a.CRM == nil {
		return fmt.Errorf("--write needs integrations.hubspot.access_token")
	}

	result, err := a.Contact.Enrich(ctx, contact)
	if err != nil {
		return err
	}

	text := summarize.BuildContext(result.Bundle)
	if result.Summary != nil {
		text = result.Summary.ResearchSummary
	}
	if result.Written {
		log.Info("Summary written to CRM", map[string]interface{}{"contactId": contact.ID})
	}
	return render(cmd.OutOrStdout(), outputFormat, result, text)
}
