// internal/workers/sources/institution-stats/handler.go
package institutionstats

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"prospect-enricher/internal/common/httpclient"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/matcher"
	"prospect-enricher/internal/models"
)

const Source = models.SourceIPEDS

type Handler struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *httpclient.Client, log logger.Logger) *Handler {
	if client == nil {
		client = httpclient.NewClient(config.Timeout, "")
	}
	return &Handler{
		config: config,
		client: client,
		logger: logger.Component(log, "institution-stats"),
	}
}

// Lookup returns Scorecard figures for the institution, or nil when no row
// matches closely enough.
func (h *Handler) Lookup(ctx context.Context, institution string) (*models.InstitutionStats, error) {
	institution = strings.TrimSpace(institution)
	if institution == "" {
		return nil, nil
	}

	var resp scorecardResponse
	if err := h.client.GetJSON(ctx, h.buildURL(institution), nil, &resp); err != nil {
		return nil, fmt.Errorf("scorecard request failed: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	match := bestMatch(resp.Results, institution)
	if match == nil {
		h.logger.Debug("No Scorecard row matched", map[string]interface{}{
			"institution": institution,
			"candidates":  len(resp.Results),
		})
		return nil, nil
	}
	return toStats(match), nil
}

func (h *Handler) buildURL(institution string) string {
	perPage := h.config.PerPage
	if perPage <= 0 {
		perPage = 5
	}
	params := url.Values{}
	params.Set("school.name", institution)
	params.Set("api_key", h.config.APIKey)
	params.Set("fields", strings.Join(requestedFields, ","))
	params.Set("per_page", strconv.Itoa(perPage))
	return h.config.BaseURL + "?" + params.Encode()
}

// bestMatch takes an exact (case-insensitive) name, else the row sharing the
// most words with the target, provided it shares at least two.
func bestMatch(results []school, target string) *school {
	targetNorm := matcher.Normalize(target)

	var best *school
	bestScore := 0
	for i := range results {
		name := matcher.Normalize(results[i].Name)
		if name == targetNorm {
			return &results[i]
		}
		score := matcher.WordOverlap(targetNorm, name, 1)
		if score > bestScore {
			best, bestScore = &results[i], score
		}
	}
	if bestScore < matcher.MinOverlap {
		return nil
	}
	return best
}

func toStats(s *school) *models.InstitutionStats {
	stats := &models.InstitutionStats{Name: s.Name, Type: "Unknown"}
	stats.Location.City = s.City
	stats.Location.State = s.State
	if s.Ownership != nil {
		if t, ok := ownershipTypes[*s.Ownership]; ok {
			stats.Type = t
		}
	}
	stats.Enrollment.Total = s.Size
	stats.Enrollment.Graduate = s.GradEnrollment
	stats.Admissions.AcceptanceRate = s.AdmissionRate
	stats.Cost.InState = s.TuitionInState
	stats.Cost.OutOfState = s.TuitionOutState
	return stats
}
