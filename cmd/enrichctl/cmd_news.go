// cmd/enrichctl/cmd_news.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prospect-enricher/internal/app"
	"prospect-enricher/internal/models"
)

var newsDomain string

var newsCmd = &cobra.Command{
	Use:   "news <institution>",
	Short: "Print recent news for an institution",
	Long: `Looks for an RSS/Atom feed on the domain, then the site's newsroom
pages, then web search when fewer than two items were found.`,
	Args: cobra.ExactArgs(1),
	RunE: runNews,
}

func init() {
	newsCmd.Flags().StringVarP(&newsDomain, "domain", "d", "", "Institution web domain, e.g. example.edu (required)")
	_ = newsCmd.MarkFlagRequired("domain")
}

func runNews(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := buildApp(ctx, app.Options{}, false)
	if err != nil {
		return err
	}
	defer a.Close()

	items := a.News.Find(ctx, args[0], strings.ToLower(strings.TrimSpace(newsDomain)))
	if items == nil {
		items = []models.NewsItem{}
	}
	return render(cmd.OutOrStdout(), outputFormat, items, newsText(items))
}

func newsText(items []models.NewsItem) string {
	if len(items) == 0 {
		return "No news found."
	}
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, item.Headline)
		if item.Date != "" {
			fmt.Fprintf(&b, "    %s | %s\n", item.Date, item.Source)
		} else {
			fmt.Fprintf(&b, "    %s\n", item.Source)
		}
		if item.URL != "" {
			fmt.Fprintf(&b, "    %s\n", item.URL)
		}
		if item.Summary != "" {
			fmt.Fprintf(&b, "    %s\n", item.Summary)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
