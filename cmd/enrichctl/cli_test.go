package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"prospect-enricher/internal/models"
	enrichqueue "prospect-enricher/internal/workers/enrichment/enrich-queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCLIConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("HUBSPOT_ACCESS_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("REDIS_URL", "")

	csvPath, err := filepath.Abs("../../internal/workers/sources/completion-trends/testdata/completions.csv")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "sources:\n  completions:\n    csv_path: " + csvPath + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		outputFormat = formatText
		configPath = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTrendsCmd_Formats(t *testing.T) {
	path := writeCLIConfig(t)

	out, err := execute(t, "trends", "Example", "--config", path, "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "=== ONLINE GRADUATE COMPLETIONS TRENDS ===")
	assert.Contains(t, out, "SALES INSIGHT:")

	out, err = execute(t, "trends", "Example", "--config", path, "-o", "json")
	require.NoError(t, err)
	var report models.TrendReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEmpty(t, report.Programs)

	out, err = execute(t, "trends", "Example", "--config", path, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "allPrograms:")
	assert.Contains(t, out, "matchStrategy:")
}

func TestTrendsCmd_UnknownInstitution(t *testing.T) {
	path := writeCLIConfig(t)

	_, err := execute(t, "trends", "Nowhere Polytechnic", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completions data")
}

func TestRootCmd_RejectsUnknownFormat(t *testing.T) {
	path := writeCLIConfig(t)

	_, err := execute(t, "trends", "Example", "--config", path, "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestContactCmd_WriteNeedsID(t *testing.T) {
	path := writeCLIConfig(t)
	t.Cleanup(func() { writeSummary = false })

	_, err := execute(t, "contact", "--config", path, "--first", "Jane", "--company", "Example University", "--write")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--write needs --id")
}

func TestRender(t *testing.T) {
	item := models.NewsItem{Headline: "New nursing program", Source: models.NewsSourceRSS}

	var b bytes.Buffer
	require.NoError(t, render(&b, formatYAML, item, "ignored"))
	assert.Equal(t, "headline: New nursing program\nsource: RSS\n", b.String())

	b.Reset()
	require.NoError(t, render(&b, formatText, item, "plain"))
	assert.Equal(t, "plain\n", b.String())
}

func TestQueueText(t *testing.T) {
	resp := &enrichqueue.Response{
		Success: true, Processed: 1, Failed: 1, Time: "12.3", RunID: "run-1",
		Outcomes: []models.ContactOutcome{
			{ID: "1", Name: "Jane Doe", Status: models.OutcomeEnriched, Sources: []string{"IPEDS", "News"}},
			{ID: "2", Name: "Sam Lee", Status: models.OutcomeFailed, Error: "SUMMARY_FAILED"},
			{ID: "3", Name: "", Status: models.OutcomeSkipped},
		},
	}

	assert.Equal(t, "Run run-1: 1 processed, 1 failed in 12.3s\n"+
		"  + Jane Doe (1) [IPEDS, News]\n"+
		"  x Sam Lee (2) SUMMARY_FAILED\n"+
		"  -  (3) skipped", queueText(resp))

	assert.Equal(t, "Queue empty", queueText(&enrichqueue.Response{Message: "Queue empty"}))
}

func TestNewsText(t *testing.T) {
	assert.Equal(t, "No news found.", newsText(nil))
	text := newsText([]models.NewsItem{{Headline: "Campus expands online MBA", Date: "Jan 6, 2025", Source: "RSS", URL: "https://example.edu/news/1"}})
	assert.Equal(t, "[1] Campus expands online MBA\n    Jan 6, 2025 | RSS\n    https://example.edu/news/1", text)
}
