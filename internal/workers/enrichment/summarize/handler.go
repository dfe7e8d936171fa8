// internal/workers/enrichment/summarize/handler.go
package summarize

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"prospect-enricher/internal/common/errors"
	"prospect-enricher/internal/common/httpclient"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/validation"
	"prospect-enricher/internal/models"
)

//go:embed prompts/*.tmpl prompts/analysis.schema.json
var promptFS embed.FS

var prompts = template.Must(template.New("prompts").
	Funcs(template.FuncMap{"upper": strings.ToUpper}).
	ParseFS(promptFS, "prompts/*.tmpl"))

const parseFailure = "Failed to parse analysis"

type Handler struct {
	config *Config
	client *httpclient.Client
	schema *validation.Validator
	system string
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, client *httpclient.Client, log logger.Logger) (*Handler, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, errors.NewConfigInvalidError(fmt.Errorf("genai api key is required"))
	}
	if client == nil {
		client = httpclient.NewClient(config.Timeout, "")
	}

	schemaJSON, err := promptFS.ReadFile("prompts/analysis.schema.json")
	if err != nil {
		return nil, err
	}
	schema, err := validation.NewValidator(schemaJSON)
	if err != nil {
		return nil, err
	}

	var system bytes.Buffer
	if err := prompts.ExecuteTemplate(&system, "system.tmpl", promptData{Company: config.CompanyName}); err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	return &Handler{
		config: config,
		client: client,
		schema: schema,
		system: system.String(),
		logger: logger.Component(log, "summarize"),
		now:    time.Now,
	}, nil
}

type promptData struct {
	Company     string
	Name        string
	Title       string
	Institution string
	Context     string
}

// Summarize asks the model for an outreach strategy and renders it. A model
// reply that is not valid JSON still yields a Summary carrying the raw text.
func (h *Handler) Summarize(ctx context.Context, input Input) (*Summary, error) {
	bundle := input.Bundle
	if bundle == nil {
		bundle = &models.EnrichmentBundle{}
	}
	sources := bundle.Sources
	if sources == nil {
		sources = bundle.CollectSources()
	}

	title := input.Title
	if strings.TrimSpace(title) == "" {
		title = "Unknown"
	}
	var user bytes.Buffer
	err := prompts.ExecuteTemplate(&user, "user.tmpl", promptData{
		Company:     h.config.CompanyName,
		Name:        input.Name,
		Title:       title,
		Institution: input.Institution,
		Context:     BuildContext(bundle),
	})
	if err != nil {
		return nil, errors.NewSummaryFailedError(fmt.Errorf("render prompt: %w", err))
	}

	content, err := h.complete(ctx, user.String())
	if err != nil {
		return nil, err
	}

	analysis, analysisJSON := ParseAnalysis(content)
	if analysis.Error != "" {
		h.logger.Warn("Model returned unparsable analysis", map[string]interface{}{
			"name":     input.Name,
			"rawChars": len(content),
		})
	} else if result, verr := h.schema.Validate(json.RawMessage(analysisJSON)); verr == nil && !result.Valid {
		h.logger.Warn("Analysis is missing expected fields", map[string]interface{}{
			"name":   input.Name,
			"issues": result.GetErrorMessages(),
		})
	}

	return &Summary{
		ResearchSummary: FormatStrategicSummary(analysis, h.config.CompanyName),
		AnalysisJSON:    analysisJSON,
		Analysis:        analysis,
		DataQuality: DataQuality{
			Confidence: Confidence(sources),
			Sources:    sources,
			Timestamp:  h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		},
	}, nil
}

// ParseAnalysis decodes a model reply. On failure the returned analysis
// carries the error marker and the raw text, and the JSON form says the same.
func ParseAnalysis(content string) (*Analysis, string) {
	var analysis Analysis
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(content)); err == nil && bytes.HasPrefix(compact.Bytes(), []byte("{")) {
		if err := json.Unmarshal(compact.Bytes(), &analysis); err == nil {
			return &analysis, compact.String()
		}
	}

	failed := &Analysis{Error: parseFailure, Raw: content}
	encoded, _ := json.Marshal(failed)
	return failed, string(encoded)
}

func (h *Handler) complete(ctx context.Context, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	reqBody := chatRequest{
		Model:               h.config.Model,
		MaxCompletionTokens: h.config.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: h.system},
			{Role: "user", Content: userPrompt},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.NewSummaryFailedError(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(h.config.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewSummaryFailedError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.config.APIKey)

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		if httpclient.IsTimeout(err) {
			return "", errors.NewLLMTimeoutError(err)
		}
		return "", errors.NewSummaryFailedError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errors.NewSummaryFailedError(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var apiResponse chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		if httpclient.IsTimeout(err) {
			return "", errors.NewLLMTimeoutError(err)
		}
		return "", errors.NewSummaryFailedError(fmt.Errorf("decode error: %w", err))
	}
	if len(apiResponse.Choices) == 0 {
		return "", errors.NewSummaryFailedError(fmt.Errorf("response had no choices"))
	}

	h.logger.Info("Analysis generated", map[string]interface{}{
		"model":      h.config.Model,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return apiResponse.Choices[0].Message.Content, nil
}
