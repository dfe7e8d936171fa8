package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"prospect-enricher/internal/common/errors"
	"prospect-enricher/internal/common/httpclient"
	"prospect-enricher/internal/models"
)

const (
	DefaultBaseURL         = "https://api.hubapi.com"
	DefaultSummaryProperty = "prospect_research_summary"
	maxListPage            = 100
)

type Config struct {
	BaseURL         string
	AccessToken     string
	SummaryProperty string
	Timeout         time.Duration
}

// CRMClient reads the enrichment queue list and writes summaries back.
type CRMClient struct {
	baseURL         string
	accessToken     string
	summaryProperty string
	timeout         time.Duration
	httpClient      *httpclient.Client
}

type listContactsResponse struct {
	Contacts []struct {
		VID        int64                    `json:"vid"`
		Properties map[string]propertyValue `json:"properties"`
	} `json:"contacts"`
	HasMore bool  `json:"has-more"`
	Offset  int64 `json:"vid-offset"`
}

type propertyValue struct {
	Value string `json:"value"`
}

func NewCRMClient(cfg Config) (*CRMClient, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, errors.NewCRMNotConfiguredError("HubSpot access token is empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.SummaryProperty == "" {
		cfg.SummaryProperty = DefaultSummaryProperty
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &CRMClient{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		accessToken:     cfg.AccessToken,
		summaryProperty: cfg.SummaryProperty,
		timeout:         cfg.Timeout,
		httpClient:      httpclient.NewClient(cfg.Timeout, ""),
	}, nil
}

// ListUnprocessedContacts over-fetches the list (3x, at most one page of 100)
// so that contacts already carrying a summary can be dropped without a
// second round trip, then truncates to limit.
func (c *CRMClient) ListUnprocessedContacts(ctx context.Context, listID string, limit int) ([]models.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	count := limit * 3
	if count > maxListPage {
		count = maxListPage
	}
	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	for _, p := range []string{"email", "firstname", "lastname", "company", "jobtitle", c.summaryProperty} {
		params.Add("property", p)
	}
	endpoint := fmt.Sprintf("%s/contacts/v1/lists/%s/contacts/all?%s", c.baseURL, url.PathEscape(listID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewCRMReadFailedError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewCRMReadFailedError(fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.NewCRMReadFailedError(fmt.Errorf("failed to list contacts (status %d): %s", resp.StatusCode, string(body)))
	}

	var result listContactsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.NewCRMReadFailedError(fmt.Errorf("failed to decode response: %w", err))
	}

	contacts := make([]models.Contact, 0, limit)
	for _, raw := range result.Contacts {
		if strings.TrimSpace(raw.Properties[c.summaryProperty].Value) != "" {
			continue
		}
		contacts = append(contacts, models.Contact{
			ID:        strconv.FormatInt(raw.VID, 10),
			Email:     raw.Properties["email"].Value,
			FirstName: raw.Properties["firstname"].Value,
			LastName:  raw.Properties["lastname"].Value,
			Company:   raw.Properties["company"].Value,
			Title:     raw.Properties["jobtitle"].Value,
		})
		if len(contacts) == limit {
			break
		}
	}
	return contacts, nil
}

// UpdateResearchSummary writes the formatted brief into the summary property.
func (c *CRMClient) UpdateResearchSummary(ctx context.Context, contactID, summary string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload := map[string]interface{}{
		"properties": map[string]string{c.summaryProperty: summary},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return errors.NewCRMWriteFailedError(contactID, fmt.Errorf("failed to marshal update: %w", err))
	}

	endpoint := fmt.Sprintf("%s/crm/v3/objects/contacts/%s", c.baseURL, url.PathEscape(contactID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return errors.NewCRMWriteFailedError(contactID, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewCRMWriteFailedError(contactID, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.NewCRMWriteFailedError(contactID, fmt.Errorf("failed to update contact (status %d): %s", resp.StatusCode, string(body)))
	}
	return nil
}
